package validation

import "github.com/hyperengineering/composer/internal/types"

// entityRelationship is the entity type attached to cross-entity issues.
// Errors of this type are always deployment-blocking.
const entityRelationship = "relationship"

// ValidateRelationships verifies every declared cross-entity reference
// resolves, then reports orphaned entities.
//
// A form's program is checked both by collection key and by the declared
// ID field of each program, since the two may legitimately differ after a
// rename. Unresolved references are errors; orphans are informational.
func ValidateRelationships(cfg *types.TenantConfig) Result {
	c := &collector{}

	for _, fid := range sortedKeys(cfg.Forms) {
		form := cfg.Forms[fid]
		if form.ProgramID == "" {
			continue
		}
		if !programResolves(cfg.Programs, form.ProgramID) {
			c.errorf(entityRelationship, fid, "program_id", msgUnresolvedReference("program", form.ProgramID))
		}
	}

	for _, cid := range sortedKeys(cfg.CTAs) {
		cta := cfg.CTAs[cid]
		if cta.Action != types.ActionStartForm || cta.FormID == "" {
			continue
		}
		if _, ok := cfg.Forms[cta.FormID]; !ok {
			c.errorf(entityRelationship, cid, "form_id", msgUnresolvedReference("form", cta.FormID))
		}
	}

	for _, bid := range sortedKeys(cfg.Branches) {
		branch := cfg.Branches[bid]
		if p := branch.AvailableCTAs.Primary; p != "" {
			if _, ok := cfg.CTAs[p]; !ok {
				c.errorf(entityRelationship, bid, "available_ctas.primary", msgUnresolvedReference("CTA", p))
			}
		}
		for _, sid := range branch.AvailableCTAs.Secondary {
			if _, ok := cfg.CTAs[sid]; !ok {
				c.errorf(entityRelationship, bid, "available_ctas.secondary", msgUnresolvedReference("CTA", sid))
			}
		}
	}

	findOrphanedEntities(c, cfg)

	return c.result()
}

// programResolves checks by collection key first, then by each program's
// own declared ID field.
func programResolves(programs map[string]types.Program, ref string) bool {
	if _, ok := programs[ref]; ok {
		return true
	}
	for _, p := range programs {
		if p.ID == ref {
			return true
		}
	}
	return false
}

// findOrphanedEntities flags programs referenced by zero forms and CTAs
// referenced by zero branches. Orphans are not defects, so they surface
// as info-level warnings.
func findOrphanedEntities(c *collector, cfg *types.TenantConfig) {
	referencedPrograms := make(map[string]bool)
	for _, form := range cfg.Forms {
		if form.ProgramID != "" {
			referencedPrograms[form.ProgramID] = true
		}
	}
	for _, pid := range sortedKeys(cfg.Programs) {
		if referencedPrograms[pid] || referencedPrograms[cfg.Programs[pid].ID] {
			continue
		}
		c.info(string(types.EntityProgram), pid, "", msgOrphanProgram(pid))
	}

	referencedCTAs := make(map[string]bool)
	for _, branch := range cfg.Branches {
		if branch.AvailableCTAs.Primary != "" {
			referencedCTAs[branch.AvailableCTAs.Primary] = true
		}
		for _, sid := range branch.AvailableCTAs.Secondary {
			referencedCTAs[sid] = true
		}
	}
	for _, cid := range sortedKeys(cfg.CTAs) {
		if referencedCTAs[cid] {
			continue
		}
		c.info(string(types.EntityCTA), cid, "", msgOrphanCTA(cid))
	}
}
