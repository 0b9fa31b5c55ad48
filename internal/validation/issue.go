// Package validation implements the configuration validation engine:
// per-entity validators, the cross-entity relationship pass, runtime
// behavior checks, and the full-config orchestrator.
//
// Validators never return Go errors. Every finding is an Issue carried in
// the result structure; only issues with SeverityError affect validity.
package validation

import "sort"

// Severity classifies an issue. Only SeverityError blocks validity;
// SeverityInfo is a display-styling refinement of warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding.
type Issue struct {
	Severity   Severity `json:"severity"`
	EntityType string   `json:"entity_type"`
	EntityID   string   `json:"entity_id,omitempty"`
	Field      string   `json:"field,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Result is the outcome of validating one entity or one pass.
// Valid is true iff Errors is empty; warnings never affect it.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// collector accumulates issues for one validation pass.
type collector struct {
	errors   []Issue
	warnings []Issue
}

func (c *collector) errorf(entityType, entityID, field, message string) {
	c.errors = append(c.errors, Issue{
		Severity:   SeverityError,
		EntityType: entityType,
		EntityID:   entityID,
		Field:      field,
		Message:    message,
	})
}

func (c *collector) warnf(entityType, entityID, field, message string) {
	c.warnings = append(c.warnings, Issue{
		Severity:   SeverityWarning,
		EntityType: entityType,
		EntityID:   entityID,
		Field:      field,
		Message:    message,
	})
}

func (c *collector) warnWithSuggestion(entityType, entityID, field, message, suggestion string) {
	c.warnings = append(c.warnings, Issue{
		Severity:   SeverityWarning,
		EntityType: entityType,
		EntityID:   entityID,
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	})
}

func (c *collector) info(entityType, entityID, field, message string) {
	c.warnings = append(c.warnings, Issue{
		Severity:   SeverityInfo,
		EntityType: entityType,
		EntityID:   entityID,
		Field:      field,
		Message:    message,
	})
}

// result snapshots the collector into a Result.
func (c *collector) result() Result {
	return Result{
		Valid:    len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
}

// sortedKeys returns the keys of m in ascending order. Entity collections
// are maps, so every pass iterates sorted keys to keep issue ordering
// deterministic across calls.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
