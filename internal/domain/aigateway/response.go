package aigateway

// Generation defaults applied when the caller leaves options unset.
const (
	DefaultMaxTokens   = 4000
	DefaultTemperature = float32(0.7)
)

// Metadata keys shared by all adapters.
const (
	MetaFinishReason     = "finish_reason"
	MetaPromptTokens     = "prompt_tokens"
	MetaCompletionTokens = "completion_tokens"
	MetaActualProvider   = "actual_provider"
	MetaRateLimited      = "rate_limited"
)

// GenerateOptions tunes a single text generation call. Zero values mean
// "use the adapter default"; an unrecognized model name propagates as a
// vendor error, the gateway does not second-guess vendor capability tables.
type GenerateOptions struct {
	Model        string   `json:"model,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	Temperature  *float32 `json:"temperature,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
}

// EffectiveMaxTokens returns the generation cap with the default applied.
func (o GenerateOptions) EffectiveMaxTokens() int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return DefaultMaxTokens
}

// EffectiveTemperature returns the sampling temperature with the default applied.
func (o GenerateOptions) EffectiveTemperature() float32 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return DefaultTemperature
}

// AIResponse is the normalized envelope returned by every adapter call.
// Provider always reflects the logical selection ("default" for the shared
// pool) even when another vendor executed the call underneath, so billing
// attribution stays correct across adapter swaps.
type AIResponse struct {
	Content          *string        `json:"content"` // nil for embedding calls
	Provider         ProviderName   `json:"provider"`
	ModelUsed        string         `json:"model_used"`
	TokensUsed       int            `json:"tokens_used"`
	GenerationTimeMS int64          `json:"generation_time_ms"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}
