package dependency

import "github.com/hyperengineering/composer/internal/types"

// Related collects every entity transitively connected to a subject,
// grouped by type. The reference chain is fixed at
// Branch → CTA → Form → Program, so traversal is a bounded walk of at
// most three hops, deduplicated by ID.
type Related struct {
	Programs []Ref `json:"programs"`
	Forms    []Ref `json:"forms"`
	CTAs     []Ref `json:"ctas"`
	Branches []Ref `json:"branches"`
}

// ProgramRelated returns the forms using a program, the CTAs launching
// those forms, and the branches offering those CTAs.
func (g *Graph) ProgramRelated(id string) Related {
	var rel Related
	node, ok := g.Programs[id]
	if !ok {
		return rel
	}

	rel.Forms = filterRefs(node.UsedBy, types.EntityForm)
	rel.CTAs = g.ctasUsingForms(rel.Forms)
	rel.Branches = g.branchesUsingCTAs(rel.CTAs)
	return rel
}

// FormRelated returns the program a form belongs to, the CTAs that launch
// it, and the branches offering those CTAs.
func (g *Graph) FormRelated(id string) Related {
	var rel Related
	node, ok := g.Forms[id]
	if !ok {
		return rel
	}

	rel.Programs = filterRefs(node.Uses, types.EntityProgram)
	rel.CTAs = filterRefs(node.UsedBy, types.EntityCTA)
	rel.Branches = g.branchesUsingCTAs(rel.CTAs)
	return rel
}

// CTARelated returns the form a CTA launches, that form's program, and
// the branches offering the CTA.
func (g *Graph) CTARelated(id string) Related {
	var rel Related
	node, ok := g.CTAs[id]
	if !ok {
		return rel
	}

	rel.Forms = filterRefs(node.Uses, types.EntityForm)
	rel.Programs = g.programsUsedByForms(rel.Forms)
	rel.Branches = filterRefs(node.UsedBy, types.EntityBranch)
	return rel
}

// BranchRelated returns the CTAs a branch offers, the forms those CTAs
// launch, and the programs those forms belong to.
func (g *Graph) BranchRelated(id string) Related {
	var rel Related
	node, ok := g.Branches[id]
	if !ok {
		return rel
	}

	rel.CTAs = filterRefs(node.Uses, types.EntityCTA)
	rel.Forms = g.formsUsedByCTAs(rel.CTAs)
	rel.Programs = g.programsUsedByForms(rel.Forms)
	return rel
}

func (g *Graph) ctasUsingForms(forms []Ref) []Ref {
	var out []Ref
	seen := make(map[string]bool)
	for _, form := range forms {
		node, ok := g.Forms[form.ID]
		if !ok {
			continue
		}
		for _, ref := range filterRefs(node.UsedBy, types.EntityCTA) {
			if !seen[ref.ID] {
				seen[ref.ID] = true
				out = append(out, ref)
			}
		}
	}
	return out
}

func (g *Graph) branchesUsingCTAs(ctas []Ref) []Ref {
	var out []Ref
	seen := make(map[string]bool)
	for _, cta := range ctas {
		node, ok := g.CTAs[cta.ID]
		if !ok {
			continue
		}
		for _, ref := range filterRefs(node.UsedBy, types.EntityBranch) {
			if !seen[ref.ID] {
				seen[ref.ID] = true
				out = append(out, ref)
			}
		}
	}
	return out
}

func (g *Graph) formsUsedByCTAs(ctas []Ref) []Ref {
	var out []Ref
	seen := make(map[string]bool)
	for _, cta := range ctas {
		node, ok := g.CTAs[cta.ID]
		if !ok {
			continue
		}
		for _, ref := range filterRefs(node.Uses, types.EntityForm) {
			if !seen[ref.ID] {
				seen[ref.ID] = true
				out = append(out, ref)
			}
		}
	}
	return out
}

func (g *Graph) programsUsedByForms(forms []Ref) []Ref {
	var out []Ref
	seen := make(map[string]bool)
	for _, form := range forms {
		node, ok := g.Forms[form.ID]
		if !ok {
			continue
		}
		for _, ref := range filterRefs(node.Uses, types.EntityProgram) {
			if !seen[ref.ID] {
				seen[ref.ID] = true
				out = append(out, ref)
			}
		}
	}
	return out
}

func filterRefs(refs []Ref, t types.EntityType) []Ref {
	var out []Ref
	seen := make(map[string]bool)
	for _, ref := range refs {
		if ref.Type == t && !seen[ref.ID] {
			seen[ref.ID] = true
			out = append(out, ref)
		}
	}
	return out
}
