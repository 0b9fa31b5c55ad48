package validation

import (
	"net/url"

	"github.com/hyperengineering/composer/internal/types"
)

// ValidateCTA checks a single call-to-action against its sibling form
// collection. The required payload field depends on the action type.
func ValidateCTA(id string, cta types.CTA, forms map[string]types.Form) Result {
	c := &collector{}
	et := string(types.EntityCTA)

	// Required references and payload fields.
	switch cta.Action {
	case types.ActionStartForm:
		if cta.FormID == "" {
			c.errorf(et, id, "form_id", msgCTAFormIDRequired)
		} else if _, ok := forms[cta.FormID]; !ok {
			c.errorf(et, id, "form_id", msgUnresolvedReference("form", cta.FormID))
		}
	case types.ActionExternalLink:
		if cta.URL == "" {
			c.errorf(et, id, "url", msgCTAURLRequired)
		} else if !isHTTPSURL(cta.URL) {
			c.errorf(et, id, "url", msgCTAURLNotHTTPS)
		}
	case types.ActionSendQuery:
		if cta.Query == "" {
			c.errorf(et, id, "query", msgCTAQueryRequired)
		}
	case types.ActionShowInfo:
		if cta.Prompt == "" {
			c.errorf(et, id, "prompt", msgCTAPromptRequired)
		}
	default:
		c.errorf(et, id, "action", msgInvalidEnum("CTA action", string(cta.Action), []string{
			string(types.ActionStartForm),
			string(types.ActionExternalLink),
			string(types.ActionSendQuery),
			string(types.ActionShowInfo),
		}))
	}

	// Structural checks.
	if cta.Label == "" {
		c.errorf(et, id, "label", msgCTALabelRequired)
	}

	// Quality warnings.
	if cta.Label != "" && isGenericLabel(cta.Label) {
		c.warnWithSuggestion(et, id, "label", msgGenericLabel(cta.Label), suggestSpecificLabel)
	}
	if cta.Action == types.ActionShowInfo && cta.Prompt != "" && isVaguePrompt(cta.Prompt) {
		c.warnWithSuggestion(et, id, "prompt", msgVaguePrompt(cta.Prompt), suggestSpecificInfo)
	}

	return c.result()
}

// isHTTPSURL reports whether raw parses as a URL with the https: scheme
// and a host.
func isHTTPSURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

// ValidateCTAs runs ValidateCTA over every entry in sorted-key order and
// concatenates the issue arrays.
func ValidateCTAs(ctas map[string]types.CTA, forms map[string]types.Form) Result {
	c := &collector{}
	for _, id := range sortedKeys(ctas) {
		r := ValidateCTA(id, ctas[id], forms)
		c.errors = append(c.errors, r.Errors...)
		c.warnings = append(c.warnings, r.Warnings...)
	}
	return c.result()
}
