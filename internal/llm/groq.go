package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// groqBaseURL is Groq's OpenAI-compatible completion endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// ErrNotConfigured is returned by Complete when no API credential was
// present at startup. It is the only model-call error callers are expected
// to branch on.
var ErrNotConfigured = errors.New("llm: GROQ_API_KEY not set")

// Client issues a single system+user prompt pair to a language model and
// returns the raw response text. Implementations make no guarantee about
// the shape of that text; callers requesting JSON must parse defensively.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// GroqClient calls the Groq chat completion API. Credentials and the model
// name are fixed at construction; a client built without a key reports
// ErrNotConfigured on every call rather than failing at startup.
type GroqClient struct {
	client *openai.Client
	model  string
}

// NewGroqClient constructs a Groq-backed client. An empty model falls back
// to the caller-visible default only if provided empty by config.
func NewGroqClient(apiKey, model string) *GroqClient {
	c := &GroqClient{model: model}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = groqBaseURL
		c.client = openai.NewClientWithConfig(cfg)
	}
	return c
}

// Model reports the configured model name, exposed on /health.
func (c *GroqClient) Model() string { return c.model }

// Complete sends one system+user exchange and returns the assistant text
// verbatim, or an empty string if the service returned no choices.
func (c *GroqClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
