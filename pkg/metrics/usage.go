package metrics

// TokenUsage carries the engine-reported prompt and completion token counts
// for one generation call.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// Usage builds a TokenUsage from raw eval counts, deriving the total.
func Usage(prompt, completion int) TokenUsage {
	return TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// IsZero reports whether the engine supplied no usage data at all.
func (u TokenUsage) IsZero() bool {
	return u == TokenUsage{}
}
