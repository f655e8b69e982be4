package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("REPODOC_MODEL", "")
	c, err := New(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
}

func TestNewModelFromEnv(t *testing.T) {
	t.Setenv("REPODOC_MODEL", "acme/fixer-1")
	c, err := New(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "acme/fixer-1", c.Model())
}

func TestBuildUserPrompt(t *testing.T) {
	out := BuildUserPrompt("Sample", "brief text", "a.py\nb.py", "   1 x = 1")
	assert.Contains(t, out, "Project\nSample")
	assert.Contains(t, out, "Failure brief\nbrief text")
	assert.Contains(t, out, "Files in focus\na.py\nb.py")
	assert.Contains(t, out, "ONE unified diff")
}

func TestEstimateCost(t *testing.T) {
	got := EstimateCost(Usage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000})
	assert.Equal(t, "tokens in 1000000, out 1000000, est cost $1.0000", got)
}

func TestEstimateCostWithReasoning(t *testing.T) {
	got := EstimateCost(Usage{PromptTokens: 100, CompletionTokens: 200, ReasoningTokens: 50})
	assert.Contains(t, got, "reasoning 50")
}
