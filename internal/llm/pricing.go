package llm

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Used by the event log to record an estimated cost per request.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models this server is expected to run against.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku-latest":    {0.8, 4},
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-3-7-sonnet-latest":   {3, 15},
	"claude-3-7-sonnet-20250219": {3, 15},

	// OpenAI
	"gpt-4o":      {2.5, 10},
	"gpt-4o-mini": {0.15, 0.6},
	"gpt-4.1":     {2, 8},

	// Gemini
	"gemini-2.0-flash": {0.1, 0.4},
	"gemini-2.0-pro":   {1.25, 5},
}
