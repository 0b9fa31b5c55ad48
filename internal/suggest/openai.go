package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface check
var _ Suggester = (*OpenAI)(nil)

// ChatService defines the interface for making chat completion API calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements the suggestion service using OpenAI's API
type OpenAI struct {
	chat  ChatService
	model openai.ChatModel
}

// NewOpenAI creates a new OpenAI suggestion service
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		chat:  client.Chat.Completions,
		model: openai.ChatModel(model),
	}
}

// Suggest rewrites the given copy text according to its kind.
func (o *OpenAI) Suggest(ctx context.Context, kind, text string) (string, error) {
	instruction, err := instructionFor(kind)
	if err != nil {
		return "", err
	}

	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instruction),
			openai.UserMessage(text),
		}),
		Model: openai.F(o.model),
	})
	if err != nil {
		return "", fmt.Errorf("suggestion generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("suggestion generation failed: no choices returned")
	}

	suggestion := strings.TrimSpace(resp.Choices[0].Message.Content)
	if suggestion == "" {
		return "", fmt.Errorf("suggestion generation failed: empty response")
	}
	return suggestion, nil
}

// ModelName returns the chat model name
func (o *OpenAI) ModelName() string {
	return string(o.model)
}

// instructionFor returns the system prompt for a suggestion kind.
func instructionFor(kind string) (string, error) {
	switch kind {
	case KindCTALabel:
		return "Rewrite the given call-to-action button label so it describes " +
			"the specific action a user will take. Keep it under six words. " +
			"Respond with the rewritten label only.", nil
	case KindPrompt:
		return "Rewrite the given informational prompt so it clearly states what " +
			"information the assistant should present. Respond with the rewritten " +
			"prompt only.", nil
	default:
		return "", fmt.Errorf("unknown suggestion kind %q", kind)
	}
}
