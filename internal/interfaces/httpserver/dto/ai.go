package dto

// GenerateRequest is the body for POST /v1/ai/generate.
type GenerateRequest struct {
	Prompt       string   `json:"prompt" binding:"required"`
	Model        string   `json:"model,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	Temperature  *float32 `json:"temperature,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
}

// GenerateResponse mirrors the normalized gateway response.
type GenerateResponse struct {
	Content          *string        `json:"content"`
	Provider         string         `json:"provider"`
	ModelUsed        string         `json:"model_used"`
	TokensUsed       int            `json:"tokens_used"`
	GenerationTimeMS int64          `json:"generation_time_ms"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// EmbeddingRequest is the body for POST /v1/ai/embeddings.
type EmbeddingRequest struct {
	Text string `json:"text" binding:"required"`
}

// EmbeddingResponse carries the embedding vector.
type EmbeddingResponse struct {
	Embedding  []float64 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
	Provider   string    `json:"provider"`
}

// ConnectProviderRequest is the body for PUT /v1/ai/providers/:provider.
type ConnectProviderRequest struct {
	APIKey   string            `json:"api_key"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ProviderConfigResponse is one tenant provider row. The credential never
// leaves the service; only the hint is exposed.
type ProviderConfigResponse struct {
	PublicID     string            `json:"public_id"`
	ProviderName string            `json:"provider_name"`
	APIKeyHint   *string           `json:"api_key_hint,omitempty"`
	Active       bool              `json:"is_active"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}
