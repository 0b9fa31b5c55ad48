package validation

import "github.com/hyperengineering/composer/internal/types"

// MaxPostSubmissionActions is the number of post-submission actions the
// downstream runtime renders.
const MaxPostSubmissionActions = 3

// ValidateRuntimeBehavior checks constraints imposed by the runtime that
// renders the configuration, not by the data model itself. Everything here
// is advisory: a config that trips these checks still deploys and runs,
// just not the way the author likely intended.
func ValidateRuntimeBehavior(cfg *types.TenantConfig) Result {
	c := &collector{}

	// A form with no program still renders, but submissions cannot be
	// routed. Distinct from the relationship error for a dangling
	// reference: this fires on mere absence.
	for _, fid := range sortedKeys(cfg.Forms) {
		if cfg.Forms[fid].ProgramID == "" {
			c.warnf(string(types.EntityForm), fid, "program_id", msgFormNoProgramRuntime(fid))
		}
	}

	// Duplicates the CTA-count check in ValidateBranch; both fire because
	// they are reached from different call paths.
	for _, bid := range sortedKeys(cfg.Branches) {
		branch := cfg.Branches[bid]
		if total := 1 + len(branch.AvailableCTAs.Secondary); total > MaxBranchCTAs {
			c.warnf(string(types.EntityBranch), bid, "available_ctas", msgTooManyCTAs(total))
		}
	}

	validatePostSubmissionActions(c, cfg)

	return c.result()
}

// validatePostSubmissionActions checks each form's post-submission action
// list. A start_form action with an unresolvable target is only a warning
// here, unlike the analogous CTA check which is a hard error.
func validatePostSubmissionActions(c *collector, cfg *types.TenantConfig) {
	for _, fid := range sortedKeys(cfg.Forms) {
		form := cfg.Forms[fid]
		if form.PostSubmission == nil {
			continue
		}
		actions := form.PostSubmission.Actions
		if len(actions) > MaxPostSubmissionActions {
			c.warnf(string(types.EntityForm), fid, "post_submission.actions", msgTooManyPostActions(len(actions)))
		}
		for _, action := range actions {
			if action.Type != string(types.ActionStartForm) || action.FormID == "" {
				continue
			}
			if _, ok := cfg.Forms[action.FormID]; !ok {
				c.warnf(string(types.EntityForm), fid, "post_submission.actions", msgPostActionUnresolved(action.FormID))
			}
		}
	}
}
