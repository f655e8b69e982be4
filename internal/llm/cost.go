package llm

import "fmt"

// OpenRouter prices for z-ai/glm-4.5 as of Jul 2025, USD per million tokens.
const (
	inputPricePerM  = 0.20
	outputPricePerM = 0.80
)

// EstimateCost renders a rough spend line for one completion.
func EstimateCost(u Usage) string {
	cost := float64(u.PromptTokens)*inputPricePerM/1e6 + float64(u.CompletionTokens)*outputPricePerM/1e6
	if u.ReasoningTokens > 0 {
		return fmt.Sprintf("tokens in %d, out %d, reasoning %d, est cost $%.4f",
			u.PromptTokens, u.CompletionTokens, u.ReasoningTokens, cost)
	}
	return fmt.Sprintf("tokens in %d, out %d, est cost $%.4f", u.PromptTokens, u.CompletionTokens, cost)
}
