// Package llm talks to an OpenAI-compatible chat completion endpoint
// (OpenRouter by default) to turn a failure brief into a unified diff.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is used when neither the flag nor REPODOC_MODEL is set.
	DefaultModel = "z-ai/glm-4.5"

	defaultMaxTokens = 2000
)

const systemPrompt = `You are Repo Doctor, a tight code patch generator.
Rules
1. Output one single fenced code block labeled diff that contains a unified diff. No chit chat.
2. Keep the patch minimal. Do not refactor unless needed to make tests pass.
3. Change only files that exist in the repo snapshot.
4. If a test needs adjusting because the code is correct, adjust the test with the smallest change.
5. Use correct paths relative to repo root.
6. Do not add binary files.
7. If unsure, prefer a guard clause or a clear fix with a small test.
`

// Config holds the connection settings. All fields have defaults except the
// API key.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	ReasoningTokens  int
}

// Client wraps the chat completion API.
type Client struct {
	api   *openai.Client
	model string
	max   int
}

// New creates a Client. The API key falls back to OPENROUTER_API_KEY and the
// model to REPODOC_MODEL.
func New(cfg Config) (*Client, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("OPENROUTER_API_KEY")
	}
	if key == "" {
		return nil, errors.New("OPENROUTER_API_KEY not set")
	}
	model := cfg.Model
	if model == "" {
		model = os.Getenv("REPODOC_MODEL")
	}
	if model == "" {
		model = DefaultModel
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	max := cfg.MaxTokens
	if max == 0 {
		max = defaultMaxTokens
	}

	apiCfg := openai.DefaultConfig(key)
	apiCfg.BaseURL = base
	return &Client{api: openai.NewClientWithConfig(apiCfg), model: model, max: max}, nil
}

// Model returns the model identifier the client will use.
func (c *Client) Model() string {
	return c.model
}

// Propose sends the prompt and returns the raw model output plus usage.
func (c *Client) Propose(ctx context.Context, userPrompt string) (string, Usage, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0,
		MaxTokens:   c.max,
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", Usage{}, errors.New("model returned no choices")
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	if details := resp.Usage.CompletionTokensDetails; details != nil {
		usage.ReasoningTokens = details.ReasoningTokens
	}
	return resp.Choices[0].Message.Content, usage, nil
}

// BuildUserPrompt assembles the user message from the failure brief and the
// focused code context.
func BuildUserPrompt(projectName, failureBrief, fileList, codeSlices string) string {
	return fmt.Sprintf(`Project
%s

Failure brief
%s

Files in focus
%s

Code excerpts with line numbers
%s

Goal
Produce ONE unified diff that fixes the failing tests and keeps behavior sane.
`, projectName, failureBrief, fileList, codeSlices)
}
