package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// mockChatService returns a scripted completion response.
type mockChatService struct {
	content string
	err     error

	gotParams openai.ChatCompletionNewParams
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.gotParams = params
	if m.err != nil {
		return nil, m.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.content}},
		},
	}, nil
}

func TestOpenAI_Suggest(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		text    string
		content string
		want    string
	}{
		{
			name:    "cta label",
			kind:    KindCTALabel,
			text:    "Click here",
			content: "Apply for housing assistance",
			want:    "Apply for housing assistance",
		},
		{
			name:    "prompt",
			kind:    KindPrompt,
			text:    "more",
			content: "Explain the eligibility requirements for this program.",
			want:    "Explain the eligibility requirements for this program.",
		},
		{
			name:    "trims whitespace",
			kind:    KindCTALabel,
			text:    "Submit",
			content: "  Submit your application  \n",
			want:    "Submit your application",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockChatService{content: tt.content}
			o := &OpenAI{chat: mock, model: "gpt-4o-mini"}

			got, err := o.Suggest(context.Background(), tt.kind, tt.text)
			if err != nil {
				t.Fatalf("Suggest: %v", err)
			}
			if got != tt.want {
				t.Errorf("Suggest = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAI_SuggestUnknownKind(t *testing.T) {
	o := &OpenAI{chat: &mockChatService{content: "x"}, model: "gpt-4o-mini"}
	if _, err := o.Suggest(context.Background(), "banner", "text"); err == nil {
		t.Fatal("Suggest with unknown kind succeeded, want error")
	}
}

func TestOpenAI_SuggestAPIError(t *testing.T) {
	o := &OpenAI{chat: &mockChatService{err: errors.New("rate limited")}, model: "gpt-4o-mini"}
	if _, err := o.Suggest(context.Background(), KindCTALabel, "Click here"); err == nil {
		t.Fatal("Suggest succeeded, want error from API")
	}
}

func TestOpenAI_SuggestEmptyResponse(t *testing.T) {
	o := &OpenAI{chat: &mockChatService{content: "   "}, model: "gpt-4o-mini"}
	if _, err := o.Suggest(context.Background(), KindCTALabel, "Click here"); err == nil {
		t.Fatal("Suggest succeeded, want error on empty response")
	}
}

func TestNoopSuggester(t *testing.T) {
	s := &NoopSuggester{}
	if _, err := s.Suggest(context.Background(), KindCTALabel, "Click here"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Suggest error = %v, want ErrNotConfigured", err)
	}
	if s.ModelName() != "" {
		t.Errorf("ModelName = %q, want empty", s.ModelName())
	}
}
