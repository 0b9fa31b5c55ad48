package validation

import (
	"strings"

	"github.com/hyperengineering/composer/internal/types"
)

// MaxBranchCTAs is the number of CTAs the downstream runtime renders.
const MaxBranchCTAs = 3

// keywordOverlap thresholds. A pair of branches triggers the overlap
// warning when more keywords are shared than maxSharedKeywords, or when
// the shared fraction of the smaller keyword set exceeds maxSharedRatio.
const (
	maxSharedKeywords = 2
	maxSharedRatio    = 0.3
)

// maxReportedOverlap caps how many shared keywords a warning names.
const maxReportedOverlap = 3

// ValidateBranch checks a single conversation branch against its sibling
// CTA collection and, for the keyword-overlap warning, every other branch.
func ValidateBranch(id string, branch types.Branch, ctas map[string]types.CTA, branches map[string]types.Branch) Result {
	c := &collector{}
	et := string(types.EntityBranch)

	// Required references.
	if branch.AvailableCTAs.Primary == "" {
		c.errorf(et, id, "available_ctas.primary", msgBranchPrimaryRequired)
	} else if _, ok := ctas[branch.AvailableCTAs.Primary]; !ok {
		c.errorf(et, id, "available_ctas.primary", msgUnresolvedReference("CTA", branch.AvailableCTAs.Primary))
	}
	for _, sid := range branch.AvailableCTAs.Secondary {
		if _, ok := ctas[sid]; !ok {
			c.errorf(et, id, "available_ctas.secondary", msgUnresolvedReference("CTA", sid))
		}
	}

	// Structural checks.
	if len(branch.DetectionKeywords) == 0 {
		c.errorf(et, id, "detection_keywords", msgBranchKeywordsRequired)
	}

	// Quality warnings.
	if total := 1 + len(branch.AvailableCTAs.Secondary); total > MaxBranchCTAs {
		c.warnf(et, id, "available_ctas", msgTooManyCTAs(total))
	}
	if words := questionWordsIn(branch.DetectionKeywords); len(words) > 0 {
		c.warnf(et, id, "detection_keywords", msgQuestionKeywords(words))
	}
	checkKeywordOverlap(c, id, branch, branches)

	return c.result()
}

// checkKeywordOverlap compares the branch against every other branch,
// pairwise, because the warning names the specific conflicting branch.
// O(n²) across the collection is fine at tens of branches.
func checkKeywordOverlap(c *collector, id string, branch types.Branch, branches map[string]types.Branch) {
	if len(branch.DetectionKeywords) == 0 {
		return
	}
	mine := lowerSet(branch.DetectionKeywords)

	for _, otherID := range sortedKeys(branches) {
		if otherID == id {
			continue
		}
		other := branches[otherID]
		if len(other.DetectionKeywords) == 0 {
			continue
		}
		theirs := lowerSet(other.DetectionKeywords)

		var shared []string
		for _, kw := range branch.DetectionKeywords {
			if theirs[strings.ToLower(kw)] {
				shared = append(shared, kw)
			}
		}
		if len(shared) == 0 {
			continue
		}

		smaller := len(mine)
		if len(theirs) < smaller {
			smaller = len(theirs)
		}
		ratio := float64(len(shared)) / float64(smaller)
		if len(shared) > maxSharedKeywords || ratio > maxSharedRatio {
			reported := shared
			if len(reported) > maxReportedOverlap {
				reported = reported[:maxReportedOverlap]
			}
			c.warnf(string(types.EntityBranch), id, "detection_keywords", msgKeywordOverlap(otherID, reported))
		}
	}
}

// lowerSet builds a case-insensitive membership set from keywords.
func lowerSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = true
	}
	return set
}

// ValidateBranches runs ValidateBranch over every entry in sorted-key
// order and concatenates the issue arrays.
func ValidateBranches(branches map[string]types.Branch, ctas map[string]types.CTA) Result {
	c := &collector{}
	for _, id := range sortedKeys(branches) {
		r := ValidateBranch(id, branches[id], ctas, branches)
		c.errors = append(c.errors, r.Errors...)
		c.warnings = append(c.warnings, r.Warnings...)
	}
	return c.result()
}
