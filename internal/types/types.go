// Package types defines the core entity shapes shared across Composer.
//
// Field names follow the external tenant-config document, which is
// snake_case JSON throughout (program_id, detection_keywords, ...).
package types

// EntityType identifies one of the four core entity collections.
type EntityType string

const (
	EntityProgram EntityType = "program"
	EntityForm    EntityType = "form"
	EntityCTA     EntityType = "cta"
	EntityBranch  EntityType = "branch"
)

// Program is a leaf entity with no outgoing references.
type Program struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FieldType enumerates the supported form field input types.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldSelect   FieldType = "select"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldName     FieldType = "name"
	FieldAddress  FieldType = "address"
)

// IsValidFieldType reports whether ft is a supported field type.
func IsValidFieldType(ft FieldType) bool {
	switch ft {
	case FieldText, FieldEmail, FieldPhone, FieldSelect, FieldTextarea,
		FieldNumber, FieldDate, FieldName, FieldAddress:
		return true
	default:
		return false
	}
}

// FieldOption is one selectable choice for a select-type field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField is a single input within a form.
type FormField struct {
	ID              string        `json:"id"`
	Type            FieldType     `json:"type"`
	Label           string        `json:"label"`
	Prompt          string        `json:"prompt,omitempty"`
	Required        bool          `json:"required"`
	Options         []FieldOption `json:"options,omitempty"`
	EligibilityGate bool          `json:"eligibility_gate,omitempty"`
	FailureMessage  string        `json:"failure_message,omitempty"`
}

// PostSubmissionAction is offered to the user after a form is submitted.
// A start_form action may reference another form for cross-form navigation.
type PostSubmissionAction struct {
	Type   string `json:"type"`
	Label  string `json:"label,omitempty"`
	FormID string `json:"form_id,omitempty"`
	URL    string `json:"url,omitempty"`
}

// PostSubmission describes what happens after a form is submitted.
type PostSubmission struct {
	Message string                 `json:"message,omitempty"`
	Actions []PostSubmissionAction `json:"actions,omitempty"`
}

// Form collects user input and belongs to a program.
type Form struct {
	ID             string          `json:"id"`
	ProgramID      string          `json:"program_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	TriggerPhrases []string        `json:"trigger_phrases,omitempty"`
	Fields         []FormField     `json:"fields"`
	PostSubmission *PostSubmission `json:"post_submission,omitempty"`
}

// CTAAction enumerates the supported call-to-action behaviors.
type CTAAction string

const (
	ActionStartForm    CTAAction = "start_form"
	ActionExternalLink CTAAction = "external_link"
	ActionSendQuery    CTAAction = "send_query"
	ActionShowInfo     CTAAction = "show_info"
)

// IsValidCTAAction reports whether a is a supported CTA action.
func IsValidCTAAction(a CTAAction) bool {
	switch a {
	case ActionStartForm, ActionExternalLink, ActionSendQuery, ActionShowInfo:
		return true
	default:
		return false
	}
}

// CTA is a call-to-action surfaced inside conversation branches.
// The required payload field depends on Action.
type CTA struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Action CTAAction `json:"action"`
	FormID string    `json:"form_id,omitempty"`
	URL    string    `json:"url,omitempty"`
	Query  string    `json:"query,omitempty"`
	Prompt string    `json:"prompt,omitempty"`
	Style  string    `json:"style,omitempty"`
}

// AvailableCTAs lists the CTAs a branch can surface. The downstream
// runtime renders the primary plus at most two secondary CTAs.
type AvailableCTAs struct {
	Primary   string   `json:"primary"`
	Secondary []string `json:"secondary,omitempty"`
}

// Branch routes a conversation based on detected keywords.
type Branch struct {
	ID                string        `json:"id"`
	DetectionKeywords []string      `json:"detection_keywords"`
	AvailableCTAs     AvailableCTAs `json:"available_ctas"`
}

// TenantConfig bundles the four entity collections. It is the unit the
// validators consume, the store persists, and the deployer publishes.
type TenantConfig struct {
	Programs map[string]Program `json:"programs"`
	Forms    map[string]Form    `json:"forms"`
	CTAs     map[string]CTA     `json:"ctas"`
	Branches map[string]Branch  `json:"conversation_branches"`
}

// NewTenantConfig returns an empty config with all collections allocated.
func NewTenantConfig() *TenantConfig {
	return &TenantConfig{
		Programs: make(map[string]Program),
		Forms:    make(map[string]Form),
		CTAs:     make(map[string]CTA),
		Branches: make(map[string]Branch),
	}
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Programs int    `json:"programs"`
	Forms    int    `json:"forms"`
	CTAs     int    `json:"ctas"`
	Branches int    `json:"branches"`
}

// DeployResponse is returned by POST /api/v1/deploy.
type DeployResponse struct {
	Deployed  bool   `json:"deployed"`
	ObjectKey string `json:"object_key,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SuggestRequest asks the suggestion service to rewrite flagged copy.
type SuggestRequest struct {
	Kind string `json:"kind"` // "cta_label" or "prompt"
	Text string `json:"text"`
}

// SuggestResponse carries the rewritten copy.
type SuggestResponse struct {
	Suggestion string `json:"suggestion"`
}
