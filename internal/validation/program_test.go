package validation

import (
	"testing"

	"github.com/hyperengineering/composer/internal/types"
)

func TestValidateProgram(t *testing.T) {
	tests := []struct {
		name         string
		program      types.Program
		wantValid    bool
		wantWarnings int
	}{
		{
			name:      "complete program",
			program:   types.Program{ID: "prog-a", Name: "Housing Assistance", Description: "Rental support"},
			wantValid: true,
		},
		{
			name:         "missing description warns",
			program:      types.Program{ID: "prog-a", Name: "Housing Assistance"},
			wantValid:    true,
			wantWarnings: 1,
		},
		{
			name:      "missing name",
			program:   types.Program{ID: "prog-a", Description: "Rental support"},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateProgram("prog-a", tt.program)

			if r.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors %v)", r.Valid, tt.wantValid, r.Errors)
			}
			if len(r.Warnings) != tt.wantWarnings {
				t.Errorf("len(Warnings) = %d, want %d (%v)", len(r.Warnings), tt.wantWarnings, r.Warnings)
			}
		})
	}
}

func TestValidatePrograms_SortedOrder(t *testing.T) {
	programs := map[string]types.Program{
		"prog-b": {ID: "prog-b"},
		"prog-a": {ID: "prog-a"},
	}

	r := ValidatePrograms(programs)

	if len(r.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2 (%v)", len(r.Errors), r.Errors)
	}
	if r.Errors[0].EntityID != "prog-a" || r.Errors[1].EntityID != "prog-b" {
		t.Errorf("errors not in sorted-key order: %v", r.Errors)
	}
}
