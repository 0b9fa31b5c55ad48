package validation

import "github.com/hyperengineering/composer/internal/types"

// ValidateProgram checks a single program. Programs are leaf entities with
// no outgoing references, so only structural and quality checks apply.
func ValidateProgram(id string, p types.Program) Result {
	c := &collector{}

	if p.Name == "" {
		c.errorf(string(types.EntityProgram), id, "name", msgProgramNameRequired)
	}

	if p.Description == "" {
		c.warnf(string(types.EntityProgram), id, "description", msgProgramNoDesc)
	}

	return c.result()
}

// ValidatePrograms runs ValidateProgram over every entry in sorted-key
// order and concatenates the issue arrays.
func ValidatePrograms(programs map[string]types.Program) Result {
	c := &collector{}
	for _, id := range sortedKeys(programs) {
		r := ValidateProgram(id, programs[id])
		c.errors = append(c.errors, r.Errors...)
		c.warnings = append(c.warnings, r.Warnings...)
	}
	return c.result()
}
