package validation

import "github.com/hyperengineering/composer/internal/types"

// ValidateForm checks a single form against its sibling program collection.
// Checks run in a fixed order (required references, structural shape,
// quality warnings) so issue ordering is stable.
func ValidateForm(id string, form types.Form, programs map[string]types.Program) Result {
	c := &collector{}
	et := string(types.EntityForm)

	// Required references.
	if form.ProgramID == "" {
		c.errorf(et, id, "program_id", msgFormProgramRequired)
	} else if _, ok := programs[form.ProgramID]; !ok {
		c.errorf(et, id, "program_id", msgUnresolvedReference("program", form.ProgramID))
	}

	// Structural checks.
	if form.Title == "" {
		c.errorf(et, id, "title", msgFormTitleRequired)
	}
	if len(form.Fields) == 0 {
		c.errorf(et, id, "fields", msgFormFieldsRequired)
	}
	seen := make(map[string]bool, len(form.Fields))
	for _, f := range form.Fields {
		if seen[f.ID] {
			c.errorf(et, id, "fields", msgDuplicateFieldID(f.ID))
			continue
		}
		seen[f.ID] = true

		if f.Type == types.FieldSelect && len(f.Options) == 0 {
			c.errorf(et, id, "fields", msgSelectNeedsOptions(f.ID))
		}
		if f.EligibilityGate && f.FailureMessage == "" {
			c.errorf(et, id, "fields", msgGateNeedsFailureMessage(f.ID))
		}
	}

	// Quality warnings.
	if len(form.TriggerPhrases) == 0 {
		c.warnf(et, id, "trigger_phrases", msgFormNoTriggerPhrases)
	}
	if len(form.Fields) > 10 {
		c.warnf(et, id, "fields", msgTooManyFields(len(form.Fields)))
	}
	if len(form.Fields) > 0 && !anyRequired(form.Fields) {
		c.warnf(et, id, "fields", msgFormNoRequiredField)
	}

	return c.result()
}

func anyRequired(fields []types.FormField) bool {
	for _, f := range fields {
		if f.Required {
			return true
		}
	}
	return false
}

// ValidateForms runs ValidateForm over every entry in sorted-key order and
// concatenates the issue arrays. Cross-entity checks live in
// ValidateRelationships, not here.
func ValidateForms(forms map[string]types.Form, programs map[string]types.Program) Result {
	c := &collector{}
	for _, id := range sortedKeys(forms) {
		r := ValidateForm(id, forms[id], programs)
		c.errors = append(c.errors, r.Errors...)
		c.warnings = append(c.warnings, r.Warnings...)
	}
	return c.result()
}
