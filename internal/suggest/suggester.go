// Package suggest generates copy suggestions for configuration authors:
// better CTA labels and clearer show_info prompts. When no API key is
// configured, the NoopSuggester is used and suggestion requests fail
// fast with ErrNotConfigured.
package suggest

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the suggestion service is not configured.
var ErrNotConfigured = errors.New("suggestion service not configured")

// Suggestion kinds accepted by Suggest.
const (
	KindCTALabel = "cta_label"
	KindPrompt   = "prompt"
)

// Suggester defines the interface contract for copy-suggestion services.
type Suggester interface {
	// Suggest returns an improved version of the given copy text.
	// kind is one of KindCTALabel or KindPrompt.
	Suggest(ctx context.Context, kind, text string) (string, error)
	ModelName() string
}

// NoopSuggester is used when no suggestion service is configured.
type NoopSuggester struct{}

// Suggest returns ErrNotConfigured.
func (s *NoopSuggester) Suggest(ctx context.Context, kind, text string) (string, error) {
	return "", ErrNotConfigured
}

// ModelName returns an empty string.
func (s *NoopSuggester) ModelName() string { return "" }
