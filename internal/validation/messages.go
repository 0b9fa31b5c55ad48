package validation

import (
	"fmt"
	"strings"
)

// Message catalog. Every user-facing error and warning string lives here so
// the UI, tests, and docs agree on exact wording.

const (
	msgProgramNameRequired = "Program name is required"
	msgProgramNoDesc       = "Program has no description"

	msgFormProgramRequired  = "Form must be assigned to a program"
	msgFormTitleRequired    = "Form title is required"
	msgFormFieldsRequired   = "Form must have at least one field"
	msgFormNoTriggerPhrases = "Form has no trigger phrases; users can only reach it through a CTA"
	msgFormNoRequiredField  = "Form has no required fields"

	msgCTALabelRequired  = "CTA label is required"
	msgCTAFormIDRequired = "Form ID is required for start_form actions"
	msgCTAURLRequired    = "URL is required for external_link actions"
	msgCTAURLNotHTTPS    = "URL must use the https: scheme"
	msgCTAQueryRequired  = "Query text is required for send_query actions"
	msgCTAPromptRequired = "Prompt text is required for show_info actions"

	msgBranchKeywordsRequired = "Branch must have at least one detection keyword"
	msgBranchPrimaryRequired  = "Branch must have a primary CTA"

	suggestSpecificLabel = `Name the action the user takes, e.g. "Apply for housing assistance"`
	suggestSpecificInfo  = `State what is shown, e.g. "Explain the eligibility requirements"`
)

func msgUnresolvedReference(refKind, id string) string {
	return fmt.Sprintf("References %s %q which does not exist", refKind, id)
}

func msgInvalidEnum(what, got string, allowed []string) string {
	return fmt.Sprintf("Invalid %s %q (must be one of: %s)", what, got, strings.Join(allowed, ", "))
}

func msgDuplicateFieldID(id string) string {
	return fmt.Sprintf("Duplicate field ID %q", id)
}

func msgSelectNeedsOptions(fieldID string) string {
	return fmt.Sprintf("Select field %q must have at least one option", fieldID)
}

func msgGateNeedsFailureMessage(fieldID string) string {
	return fmt.Sprintf("Eligibility gate field %q must have a failure message", fieldID)
}

func msgTooManyFields(count int) string {
	return fmt.Sprintf("Form has %d fields; long forms hurt completion rates", count)
}

func msgGenericLabel(label string) string {
	return fmt.Sprintf("CTA label %q is generic; prefer a label that names the action", label)
}

func msgVaguePrompt(prompt string) string {
	return fmt.Sprintf("show_info prompt %q is vague; spell out what information is shown", prompt)
}

func msgQuestionKeywords(words []string) string {
	return fmt.Sprintf("Detection keywords contain question words (%s); broad question phrasing can over-trigger this branch", strings.Join(words, ", "))
}

func msgTooManyCTAs(count int) string {
	return fmt.Sprintf("Branch offers %d CTAs; the runtime renders only the first 3", count)
}

func msgKeywordOverlap(otherBranchID string, shared []string) string {
	return fmt.Sprintf("Detection keywords overlap with branch %q (shared: %s)", otherBranchID, strings.Join(shared, ", "))
}

func msgOrphanProgram(id string) string {
	return fmt.Sprintf("Program %q is not referenced by any form", id)
}

func msgOrphanCTA(id string) string {
	return fmt.Sprintf("CTA %q is not offered by any branch", id)
}

func msgFormNoProgramRuntime(id string) string {
	return fmt.Sprintf("Form %q has no program; assign one so submissions route correctly", id)
}

func msgTooManyPostActions(count int) string {
	return fmt.Sprintf("Post-submission offers %d actions; the runtime renders only the first 3", count)
}

func msgPostActionUnresolved(formID string) string {
	return fmt.Sprintf("Post-submission action references form %q which does not exist", formID)
}

// genericCTALabels are matched case-insensitively and exactly.
var genericCTALabels = []string{
	"click here", "click", "learn more", "submit", "go",
	"start", "begin", "next", "continue", "more info", "info",
}

// vagueInfoPrompts are canonical show_info prompts too thin to be useful.
var vagueInfoPrompts = []string{
	"more", "info", "help", "what is this?",
}

// questionWords are matched as case-insensitive substrings of keywords.
var questionWords = []string{
	"how", "what", "when", "where", "who", "why", "tell me", "show me",
}

func isGenericLabel(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, g := range genericCTALabels {
		if l == g {
			return true
		}
	}
	return false
}

func isVaguePrompt(prompt string) bool {
	p := strings.ToLower(strings.TrimSpace(prompt))
	for _, v := range vagueInfoPrompts {
		if p == v {
			return true
		}
	}
	return false
}

// questionWordsIn returns the question words appearing in any keyword.
func questionWordsIn(keywords []string) []string {
	var found []string
	for _, qw := range questionWords {
		for _, kw := range keywords {
			if strings.Contains(strings.ToLower(kw), qw) {
				found = append(found, qw)
				break
			}
		}
	}
	return found
}
