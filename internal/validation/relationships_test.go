package validation

import (
	"testing"

	"github.com/hyperengineering/composer/internal/types"
)

// testConfig builds a small self-consistent configuration:
// branch-housing → {cta-apply → form-apply → prog-housing, cta-status}.
func testConfig() *types.TenantConfig {
	return &types.TenantConfig{
		Programs: map[string]types.Program{
			"prog-housing": {ID: "prog-housing", Name: "Housing Assistance", Description: "Rental support"},
		},
		Forms: map[string]types.Form{
			"form-apply": {
				ID:             "form-apply",
				ProgramID:      "prog-housing",
				Title:          "Housing Application",
				TriggerPhrases: []string{"apply for housing"},
				Fields: []types.FormField{
					{ID: "name", Type: types.FieldName, Label: "Full name", Required: true},
				},
			},
		},
		CTAs: map[string]types.CTA{
			"cta-apply":  {ID: "cta-apply", Label: "Apply for housing", Action: types.ActionStartForm, FormID: "form-apply"},
			"cta-status": {ID: "cta-status", Label: "Check my status", Action: types.ActionSendQuery, Query: "status"},
		},
		Branches: map[string]types.Branch{
			"branch-housing": {
				ID:                "branch-housing",
				DetectionKeywords: []string{"housing", "rental"},
				AvailableCTAs:     types.AvailableCTAs{Primary: "cta-apply", Secondary: []string{"cta-status"}},
			},
		},
	}
}

func TestValidateRelationships_CleanConfig(t *testing.T) {
	r := ValidateRelationships(testConfig())

	if !r.Valid {
		t.Fatalf("Valid = false, errors = %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", r.Warnings)
	}
}

func TestValidateRelationships_UnresolvedReferences(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*types.TenantConfig)
		wantID    string
		wantField string
	}{
		{
			name: "form with dangling program",
			mutate: func(cfg *types.TenantConfig) {
				f := cfg.Forms["form-apply"]
				f.ProgramID = "prog-gone"
				cfg.Forms["form-apply"] = f
			},
			wantID:    "form-apply",
			wantField: "program_id",
		},
		{
			name: "start_form cta with dangling form",
			mutate: func(cfg *types.TenantConfig) {
				c := cfg.CTAs["cta-apply"]
				c.FormID = "form-gone"
				cfg.CTAs["cta-apply"] = c
			},
			wantID:    "cta-apply",
			wantField: "form_id",
		},
		{
			name: "branch with dangling primary",
			mutate: func(cfg *types.TenantConfig) {
				b := cfg.Branches["branch-housing"]
				b.AvailableCTAs.Primary = "cta-gone"
				cfg.Branches["branch-housing"] = b
			},
			wantID:    "branch-housing",
			wantField: "available_ctas.primary",
		},
		{
			name: "branch with dangling secondary",
			mutate: func(cfg *types.TenantConfig) {
				b := cfg.Branches["branch-housing"]
				b.AvailableCTAs.Secondary = []string{"cta-gone"}
				cfg.Branches["branch-housing"] = b
			},
			wantID:    "branch-housing",
			wantField: "available_ctas.secondary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			r := ValidateRelationships(cfg)
			if r.Valid {
				t.Fatal("Valid = true, want false")
			}

			found := false
			for _, e := range r.Errors {
				if e.EntityType == entityRelationship && e.EntityID == tt.wantID && e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v missing relationship error for %s/%s", r.Errors, tt.wantID, tt.wantField)
			}
		})
	}
}

func TestValidateRelationships_ProgramResolvesByDeclaredID(t *testing.T) {
	cfg := testConfig()
	// Collection key and declared ID legitimately diverge after a rename;
	// the reference must resolve through either.
	cfg.Programs["prog-renamed"] = types.Program{ID: "prog-housing-v2", Name: "Housing v2"}
	f := cfg.Forms["form-apply"]
	f.ProgramID = "prog-housing-v2"
	cfg.Forms["form-apply"] = f

	r := ValidateRelationships(cfg)

	for _, e := range r.Errors {
		if e.EntityID == "form-apply" {
			t.Errorf("form-apply reference failed to resolve by declared ID: %v", e)
		}
	}
}

func TestValidateRelationships_Orphans(t *testing.T) {
	cfg := testConfig()
	cfg.Programs["prog-idle"] = types.Program{ID: "prog-idle", Name: "Idle Program"}
	cfg.CTAs["cta-idle"] = types.CTA{ID: "cta-idle", Label: "Unreferenced", Action: types.ActionSendQuery, Query: "q"}

	r := ValidateRelationships(cfg)

	if !r.Valid {
		t.Fatalf("orphans must not block validity: %v", r.Errors)
	}

	var orphanPrograms, orphanCTAs []string
	for _, w := range r.Warnings {
		if w.Severity != SeverityInfo {
			continue
		}
		switch w.EntityType {
		case string(types.EntityProgram):
			orphanPrograms = append(orphanPrograms, w.EntityID)
		case string(types.EntityCTA):
			orphanCTAs = append(orphanCTAs, w.EntityID)
		}
	}

	if len(orphanPrograms) != 1 || orphanPrograms[0] != "prog-idle" {
		t.Errorf("orphan programs = %v, want exactly [prog-idle]", orphanPrograms)
	}
	if len(orphanCTAs) != 1 || orphanCTAs[0] != "cta-idle" {
		t.Errorf("orphan CTAs = %v, want exactly [cta-idle]", orphanCTAs)
	}
}

func TestValidateRelationships_OrphanClearedByReference(t *testing.T) {
	cfg := testConfig()
	cfg.Programs["prog-idle"] = types.Program{ID: "prog-idle", Name: "Idle Program"}

	before := ValidateRelationships(cfg)
	if !hasIssueFor(before.Warnings, "prog-idle") {
		t.Fatalf("expected orphan warning for prog-idle, got %v", before.Warnings)
	}

	cfg.Forms["form-idle"] = types.Form{
		ID:        "form-idle",
		ProgramID: "prog-idle",
		Title:     "Idle Intake",
		Fields:    []types.FormField{{ID: "name", Type: types.FieldName, Label: "Name", Required: true}},
	}

	after := ValidateRelationships(cfg)
	if hasIssueFor(after.Warnings, "prog-idle") {
		t.Errorf("orphan warning survived adding a referencing form: %v", after.Warnings)
	}
}
