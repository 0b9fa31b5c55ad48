package validation

import (
	"strings"
	"testing"

	"github.com/hyperengineering/composer/internal/types"
)

func testPrograms() map[string]types.Program {
	return map[string]types.Program{
		"prog-housing": {ID: "prog-housing", Name: "Housing Assistance"},
	}
}

func validForm() types.Form {
	return types.Form{
		ID:             "form-apply",
		ProgramID:      "prog-housing",
		Title:          "Housing Application",
		TriggerPhrases: []string{"apply for housing"},
		Fields: []types.FormField{
			{ID: "name", Type: types.FieldName, Label: "Full name", Required: true},
			{ID: "email", Type: types.FieldEmail, Label: "Email"},
		},
	}
}

func TestValidateForm_Valid(t *testing.T) {
	r := ValidateForm("form-apply", validForm(), testPrograms())

	if !r.Valid {
		t.Fatalf("Valid = false, errors = %v", r.Errors)
	}
	if len(r.Errors) != 0 {
		t.Errorf("Errors = %v, want none", r.Errors)
	}
}

func TestValidateForm_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*types.Form)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing program",
			mutate:    func(f *types.Form) { f.ProgramID = "" },
			wantField: "program_id",
			wantMsg:   "assigned to a program",
		},
		{
			name:      "unresolvable program",
			mutate:    func(f *types.Form) { f.ProgramID = "prog-gone" },
			wantField: "program_id",
			wantMsg:   `"prog-gone"`,
		},
		{
			name:      "missing title",
			mutate:    func(f *types.Form) { f.Title = "" },
			wantField: "title",
			wantMsg:   "title is required",
		},
		{
			name:      "no fields",
			mutate:    func(f *types.Form) { f.Fields = nil },
			wantField: "fields",
			wantMsg:   "at least one field",
		},
		{
			name: "select without options",
			mutate: func(f *types.Form) {
				f.Fields = append(f.Fields, types.FormField{ID: "pick", Type: types.FieldSelect, Label: "Pick one"})
			},
			wantField: "fields",
			wantMsg:   "at least one option",
		},
		{
			name: "eligibility gate without failure message",
			mutate: func(f *types.Form) {
				f.Fields = append(f.Fields, types.FormField{ID: "age", Type: types.FieldNumber, Label: "Age", EligibilityGate: true})
			},
			wantField: "fields",
			wantMsg:   "failure message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			r := ValidateForm("form-apply", form, testPrograms())
			if r.Valid {
				t.Fatal("Valid = true, want false")
			}
			if !hasIssue(r.Errors, tt.wantField, tt.wantMsg) {
				t.Errorf("errors %v missing field=%q msg containing %q", r.Errors, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestValidateForm_DuplicateFieldID(t *testing.T) {
	form := validForm()
	form.Fields = []types.FormField{
		{ID: "name", Type: types.FieldName, Label: "First", Required: true},
		{ID: "name", Type: types.FieldText, Label: "Second"},
	}

	r := ValidateForm("form-apply", form, testPrograms())

	var dupes []Issue
	for _, e := range r.Errors {
		if strings.Contains(e.Message, "Duplicate") {
			dupes = append(dupes, e)
		}
	}
	if len(dupes) != 1 {
		t.Fatalf("duplicate-ID errors = %d, want exactly 1 (%v)", len(dupes), r.Errors)
	}
	if !strings.Contains(dupes[0].Message, `"name"`) {
		t.Errorf("message %q does not name the duplicate ID", dupes[0].Message)
	}
}

func TestValidateForm_QualityWarnings(t *testing.T) {
	form := validForm()
	form.TriggerPhrases = nil
	form.Fields = make([]types.FormField, 0, 11)
	for i := 0; i < 11; i++ {
		form.Fields = append(form.Fields, types.FormField{
			ID:    "f" + string(rune('a'+i)),
			Type:  types.FieldText,
			Label: "Field",
		})
	}

	r := ValidateForm("form-apply", form, testPrograms())

	if !r.Valid {
		t.Fatalf("quality issues must not block validity, errors = %v", r.Errors)
	}
	for _, want := range []string{"trigger phrases", "11 fields", "no required fields"} {
		if !hasIssue(r.Warnings, "", want) {
			t.Errorf("warnings %v missing message containing %q", r.Warnings, want)
		}
	}
}

func TestValidateForm_MonotonicFix(t *testing.T) {
	form := validForm()
	form.ProgramID = ""

	before := ValidateForm("form-apply", form, testPrograms())
	if !hasIssue(before.Errors, "program_id", "assigned to a program") {
		t.Fatalf("expected missing-program error, got %v", before.Errors)
	}

	form.ProgramID = "prog-housing"
	after := ValidateForm("form-apply", form, testPrograms())

	if hasIssue(after.Errors, "program_id", "") {
		t.Errorf("program_id error survived the fix: %v", after.Errors)
	}
	if len(after.Errors) >= len(before.Errors)+1 {
		t.Errorf("fix introduced errors: before %v, after %v", before.Errors, after.Errors)
	}
}

func TestValidateForms_Concatenates(t *testing.T) {
	forms := map[string]types.Form{
		"form-a": {ID: "form-a", Title: "A"}, // missing program, no fields
		"form-b": validForm(),
	}

	r := ValidateForms(forms, testPrograms())

	if r.Valid {
		t.Fatal("Valid = true, want false")
	}
	if !hasIssueFor(r.Errors, "form-a") {
		t.Errorf("errors %v missing entries for form-a", r.Errors)
	}
	if hasIssueFor(r.Errors, "form-b") {
		t.Errorf("errors %v unexpectedly include form-b", r.Errors)
	}
}

// hasIssue reports whether any issue matches field (when non-empty) and
// contains msg.
func hasIssue(issues []Issue, field, msg string) bool {
	for _, i := range issues {
		if field != "" && i.Field != field {
			continue
		}
		if strings.Contains(i.Message, msg) {
			return true
		}
	}
	return false
}

func hasIssueFor(issues []Issue, entityID string) bool {
	for _, i := range issues {
		if i.EntityID == entityID {
			return true
		}
	}
	return false
}
