// Package dependency builds and queries the cross-entity reference graph.
//
// The graph is a pure value recomputed from the four entity collections on
// every call. It is never patched incrementally: call sites rebuild before
// querying, which rules out staleness by construction.
package dependency

import (
	"sort"

	"github.com/hyperengineering/composer/internal/types"
)

// Ref identifies one entity on the far side of an edge.
type Ref struct {
	Type  types.EntityType `json:"type"`
	ID    string           `json:"id"`
	Label string           `json:"label"`
}

// Node holds both edge directions for one entity.
type Node struct {
	Uses   []Ref `json:"uses"`
	UsedBy []Ref `json:"used_by"`
}

// Graph is the bidirectional reference graph across all four collections.
// Every known entity ID has a node, referenced or not.
type Graph struct {
	Programs map[string]*Node `json:"programs"`
	Forms    map[string]*Node `json:"forms"`
	CTAs     map[string]*Node `json:"ctas"`
	Branches map[string]*Node `json:"branches"`
}

// Build constructs the graph from scratch. Unresolvable references are
// silently skipped here; the relationship validator reports them.
func Build(cfg *types.TenantConfig) *Graph {
	g := &Graph{
		Programs: make(map[string]*Node, len(cfg.Programs)),
		Forms:    make(map[string]*Node, len(cfg.Forms)),
		CTAs:     make(map[string]*Node, len(cfg.CTAs)),
		Branches: make(map[string]*Node, len(cfg.Branches)),
	}
	for id := range cfg.Programs {
		g.Programs[id] = &Node{}
	}
	for id := range cfg.Forms {
		g.Forms[id] = &Node{}
	}
	for id := range cfg.CTAs {
		g.CTAs[id] = &Node{}
	}
	for id := range cfg.Branches {
		g.Branches[id] = &Node{}
	}

	// Forms use programs.
	for _, fid := range sortedKeys(cfg.Forms) {
		form := cfg.Forms[fid]
		if form.ProgramID == "" {
			continue
		}
		program, ok := cfg.Programs[form.ProgramID]
		if !ok {
			continue
		}
		formRef := Ref{Type: types.EntityForm, ID: fid, Label: form.Title}
		programRef := Ref{Type: types.EntityProgram, ID: form.ProgramID, Label: program.Name}
		g.Forms[fid].Uses = append(g.Forms[fid].Uses, programRef)
		g.Programs[form.ProgramID].UsedBy = append(g.Programs[form.ProgramID].UsedBy, formRef)
	}

	// start_form CTAs use forms.
	for _, cid := range sortedKeys(cfg.CTAs) {
		cta := cfg.CTAs[cid]
		if cta.Action != types.ActionStartForm || cta.FormID == "" {
			continue
		}
		form, ok := cfg.Forms[cta.FormID]
		if !ok {
			continue
		}
		ctaRef := Ref{Type: types.EntityCTA, ID: cid, Label: cta.Label}
		formRef := Ref{Type: types.EntityForm, ID: cta.FormID, Label: form.Title}
		g.CTAs[cid].Uses = append(g.CTAs[cid].Uses, formRef)
		g.Forms[cta.FormID].UsedBy = append(g.Forms[cta.FormID].UsedBy, ctaRef)
	}

	// Branches use CTAs, primary first.
	for _, bid := range sortedKeys(cfg.Branches) {
		branch := cfg.Branches[bid]
		branchRef := Ref{Type: types.EntityBranch, ID: bid, Label: bid}

		ctaIDs := make([]string, 0, 1+len(branch.AvailableCTAs.Secondary))
		if branch.AvailableCTAs.Primary != "" {
			ctaIDs = append(ctaIDs, branch.AvailableCTAs.Primary)
		}
		ctaIDs = append(ctaIDs, branch.AvailableCTAs.Secondary...)

		for _, cid := range ctaIDs {
			cta, ok := cfg.CTAs[cid]
			if !ok {
				continue
			}
			ctaRef := Ref{Type: types.EntityCTA, ID: cid, Label: cta.Label}
			g.Branches[bid].Uses = append(g.Branches[bid].Uses, ctaRef)
			g.CTAs[cid].UsedBy = append(g.CTAs[cid].UsedBy, branchRef)
		}
	}

	return g
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
