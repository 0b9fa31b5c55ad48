package dependency

import (
	"fmt"
	"strings"
)

// safeToDeleteMessage is the single warning emitted when nothing in the
// graph references the entity being deleted.
const safeToDeleteMessage = "No dependencies found. Safe to delete."

// Affected lists the entities that reference (directly or transitively)
// the entity being deleted.
type Affected struct {
	Forms    []Ref `json:"forms"`
	CTAs     []Ref `json:"ctas"`
	Branches []Ref `json:"branches"`
}

// Impact is a deletion-impact report. Deletion is always permitted: the
// report is purely informational so an administrator can judge the blast
// radius before proceeding. BlockingReasons stays empty today but is part
// of the contract the confirmation UI renders.
type Impact struct {
	CanDelete        bool     `json:"can_delete"`
	BlockingReasons  []string `json:"blocking_reasons"`
	Warnings         []string `json:"warnings"`
	AffectedEntities Affected `json:"affected_entities"`
}

// ProgramDeletionImpact reports what would dangle if the program were
// deleted: the forms assigned to it and everything downstream of them.
func ProgramDeletionImpact(id string, g *Graph) Impact {
	rel := g.ProgramRelated(id)
	affected := Affected{Forms: rel.Forms, CTAs: rel.CTAs, Branches: rel.Branches}

	var warnings []string
	if len(rel.Forms) > 0 {
		warnings = append(warnings, dependentWarning(len(rel.Forms), "form", "assigned to this program", refLabels(rel.Forms)))
	}
	if len(rel.CTAs) > 0 {
		warnings = append(warnings, dependentWarning(len(rel.CTAs), "CTA", "launching its forms", refLabels(rel.CTAs)))
	}
	if len(rel.Branches) > 0 {
		warnings = append(warnings, dependentWarning(len(rel.Branches), "branch", "offering those CTAs", refLabels(rel.Branches)))
	}

	return newImpact(warnings, affected)
}

// FormDeletionImpact reports the CTAs that launch the form and the
// branches offering those CTAs.
func FormDeletionImpact(id string, g *Graph) Impact {
	rel := g.FormRelated(id)
	affected := Affected{CTAs: rel.CTAs, Branches: rel.Branches}

	var warnings []string
	if len(rel.CTAs) > 0 {
		warnings = append(warnings, dependentWarning(len(rel.CTAs), "CTA", "launching this form", refLabels(rel.CTAs)))
	}
	if len(rel.Branches) > 0 {
		warnings = append(warnings, dependentWarning(len(rel.Branches), "branch", "offering those CTAs", refLabels(rel.Branches)))
	}

	return newImpact(warnings, affected)
}

// CTADeletionImpact reports the branches that offer the CTA.
func CTADeletionImpact(id string, g *Graph) Impact {
	rel := g.CTARelated(id)
	affected := Affected{Branches: rel.Branches}

	var warnings []string
	if len(rel.Branches) > 0 {
		warnings = append(warnings, dependentWarning(len(rel.Branches), "branch", "offering this CTA", refIDs(rel.Branches)))
	}

	return newImpact(warnings, affected)
}

// BranchDeletionImpact always reports a safe delete: branches sit at the
// top of the reference chain, so nothing depends on them.
func BranchDeletionImpact(id string, g *Graph) Impact {
	return newImpact(nil, Affected{})
}

func newImpact(warnings []string, affected Affected) Impact {
	if len(warnings) == 0 {
		warnings = []string{safeToDeleteMessage}
	}
	return Impact{
		CanDelete:        true,
		BlockingReasons:  []string{},
		Warnings:         warnings,
		AffectedEntities: affected,
	}
}

// dependentWarning builds "2 branches offering this CTA: a, b".
func dependentWarning(count int, noun, clause string, names []string) string {
	plural := noun
	if count != 1 {
		plural = noun + "s"
	}
	return fmt.Sprintf("%d %s %s: %s", count, plural, clause, strings.Join(names, ", "))
}

func refLabels(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		if ref.Label != "" {
			out[i] = ref.Label
		} else {
			out[i] = ref.ID
		}
	}
	return out
}

func refIDs(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.ID
	}
	return out
}

// FormatImpact renders an impact report as the multi-line block shown in
// delete-confirmation dialogs.
func FormatImpact(entityLabel string, impact Impact) string {
	var b strings.Builder

	if !impact.CanDelete {
		b.WriteString(fmt.Sprintf("❌ CANNOT DELETE %q:\n", entityLabel))
		for _, reason := range impact.BlockingReasons {
			b.WriteString(fmt.Sprintf("  - %s\n", reason))
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("⚠️ WARNING: deleting %q\n", entityLabel))
	b.WriteString("Impact:\n")
	for _, warning := range impact.Warnings {
		b.WriteString(fmt.Sprintf("  - %s\n", warning))
	}
	return b.String()
}
