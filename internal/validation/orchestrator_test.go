package validation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hyperengineering/composer/internal/types"
)

func TestValidateConfig_CleanConfig(t *testing.T) {
	r := ValidateConfig(testConfig())

	if !r.Valid {
		t.Fatalf("Valid = false, errors = %v", r.Errors)
	}
	if r.Summary.TotalErrors != 0 {
		t.Errorf("Summary.TotalErrors = %d, want 0", r.Summary.TotalErrors)
	}
	// One entity result per form, CTA, and branch.
	if got, want := len(r.EntityResults), 1+2+1; got != want {
		t.Errorf("len(EntityResults) = %d, want %d", got, want)
	}
}

func TestValidateConfig_Idempotent(t *testing.T) {
	cfg := testConfig()
	// Seed errors and warnings across entity types.
	cfg.CTAs["cta-broken"] = types.CTA{ID: "cta-broken", Label: "Click here", Action: types.ActionStartForm}
	cfg.Programs["prog-idle"] = types.Program{ID: "prog-idle", Name: "Idle"}

	first := ValidateConfig(cfg)
	second := ValidateConfig(cfg)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestValidateConfig_SummaryCountsDistinctEntities(t *testing.T) {
	cfg := testConfig()
	// One CTA with three errors: missing label, start_form without form id
	// is two; add a broken branch for a second entity.
	cfg.CTAs["cta-broken"] = types.CTA{ID: "cta-broken", Action: types.ActionStartForm}
	cfg.Branches["branch-broken"] = types.Branch{ID: "branch-broken"}

	r := ValidateConfig(cfg)

	if r.Valid {
		t.Fatal("Valid = true, want false")
	}
	if r.Summary.TotalErrors <= r.Summary.EntitiesWithErrors {
		t.Fatalf("expected more errors (%d) than entities with errors (%d)",
			r.Summary.TotalErrors, r.Summary.EntitiesWithErrors)
	}
	if r.Summary.EntitiesWithErrors != 2 {
		t.Errorf("EntitiesWithErrors = %d, want 2 (cta-broken, branch-broken)", r.Summary.EntitiesWithErrors)
	}
}

func TestValidateConfig_EntityResultsGroupIssues(t *testing.T) {
	cfg := testConfig()
	cfg.CTAs["cta-broken"] = types.CTA{ID: "cta-broken", Label: "Start", Action: types.ActionStartForm}

	r := ValidateConfig(cfg)

	var broken *EntityResult
	for i := range r.EntityResults {
		if r.EntityResults[i].EntityID == "cta-broken" {
			broken = &r.EntityResults[i]
		}
	}
	if broken == nil {
		t.Fatal("no entity result for cta-broken")
	}
	if broken.Valid {
		t.Error("cta-broken entity result Valid = true, want false")
	}
	if !hasIssue(broken.Errors, "form_id", "Form ID is required") {
		t.Errorf("entity result errors %v missing the bulk-pass error", broken.Errors)
	}
}

func TestIsDeploymentBlocking_AllErrorsBlock(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
	}{
		{"relationship error", Issue{Severity: SeverityError, EntityType: "relationship", Field: "program_id"}},
		{"cta payload field", Issue{Severity: SeverityError, EntityType: "cta", Field: "form_id"}},
		{"form structural field", Issue{Severity: SeverityError, EntityType: "form", Field: "fields"}},
		{"branch primary", Issue{Severity: SeverityError, EntityType: "branch", Field: "available_ctas.primary"}},
		{"circular mention", Issue{Severity: SeverityError, EntityType: "form", Field: "title", Message: "Circular form chain"}},
		// Fields outside the classifier table still block; the fallback is
		// unconditional.
		{"unlisted field", Issue{Severity: SeverityError, EntityType: "cta", Field: "label"}},
		{"unlisted entity type", Issue{Severity: SeverityError, EntityType: "program", Field: "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsDeploymentBlocking(tt.issue) {
				t.Error("IsDeploymentBlocking = false, want true")
			}
		})
	}
}

func TestValidatePreDeployment(t *testing.T) {
	t.Run("clean config is ready", func(t *testing.T) {
		checklist := ValidatePreDeployment(testConfig())

		if !checklist.Ready {
			t.Fatalf("Ready = false, blocking = %v", checklist.BlockingErrors)
		}
		if len(checklist.BlockingErrors) != 0 {
			t.Errorf("BlockingErrors = %v, want none", checklist.BlockingErrors)
		}
	})

	t.Run("any error blocks", func(t *testing.T) {
		cfg := testConfig()
		cfg.CTAs["cta-broken"] = types.CTA{ID: "cta-broken", Label: "Check eligibility", Action: types.ActionSendQuery}
		checklist := ValidatePreDeployment(cfg)

		if checklist.Ready {
			t.Fatal("Ready = true, want false")
		}
		if len(checklist.BlockingErrors) != 1 {
			t.Errorf("BlockingErrors = %v, want exactly 1", checklist.BlockingErrors)
		}
	})
}

func TestValidatePreDeployment_Stats(t *testing.T) {
	cfg := testConfig()
	cfg.Forms["form-unassigned"] = types.Form{
		ID:     "form-unassigned",
		Title:  "Floating Form",
		Fields: []types.FormField{{ID: "f", Type: types.FieldText, Label: "F", Required: true}},
	}

	checklist := ValidatePreDeployment(cfg)

	want := DeploymentStats{
		Programs:            1,
		Forms:               2,
		CTAs:                2,
		Branches:            1,
		FormsWithProgram:    1,
		FormsWithoutProgram: 1,
	}
	if checklist.Stats != want {
		t.Errorf("Stats = %+v, want %+v", checklist.Stats, want)
	}
}

func TestGenerateDeploymentChecklist_Message(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		checklist := GenerateDeploymentChecklist(testConfig())

		if !strings.Contains(checklist.Message, "ready to deploy") {
			t.Errorf("message %q missing ready line", checklist.Message)
		}
		if !strings.Contains(checklist.Message, "Programs: 1") {
			t.Errorf("message %q missing contents section", checklist.Message)
		}
	})

	t.Run("not ready lists blocking errors", func(t *testing.T) {
		cfg := testConfig()
		c := cfg.CTAs["cta-apply"]
		c.FormID = "form-gone"
		cfg.CTAs["cta-apply"] = c

		checklist := GenerateDeploymentChecklist(cfg)

		if checklist.Ready {
			t.Fatal("Ready = true, want false")
		}
		if !strings.Contains(checklist.Message, "not ready") {
			t.Errorf("message %q missing not-ready line", checklist.Message)
		}
		if !strings.Contains(checklist.Message, "form-gone") {
			t.Errorf("message %q does not surface the blocking error", checklist.Message)
		}
	})
}

func TestValidateProgramsExcludedFromBulkPass(t *testing.T) {
	// The orchestrator's bulk passes cover forms, CTAs, and branches;
	// program issues surface through the relationship pass and the
	// per-entity CRUD path instead.
	cfg := testConfig()
	cfg.Programs["prog-broken"] = types.Program{ID: "prog-broken", Name: "Broken"}

	r := ValidateConfig(cfg)

	for _, er := range r.EntityResults {
		if er.EntityType == string(types.EntityProgram) {
			t.Errorf("unexpected program entity result: %+v", er)
		}
	}
}
