package inference

import (
	"context"

	"venturedesk/ai-api/internal/domain/aigateway"
)

// DefaultAdapter wraps the operator-funded Anthropic credential shared by
// every tenant without BYOK configuration. It forces the cheap model tier
// unless the caller overrides, and stamps each response so downstream billing
// can tell shared-pool traffic from BYOK traffic.
type DefaultAdapter struct {
	inner aigateway.Adapter
	model string
}

var _ aigateway.Adapter = (*DefaultAdapter)(nil)

func NewDefaultAdapter(inner aigateway.Adapter, model string) *DefaultAdapter {
	return &DefaultAdapter{inner: inner, model: model}
}

func (d *DefaultAdapter) Name() aigateway.ProviderName {
	return aigateway.ProviderDefault
}

func (d *DefaultAdapter) GenerateText(ctx context.Context, prompt string, opts aigateway.GenerateOptions) (*aigateway.AIResponse, error) {
	if opts.Model == "" {
		opts.Model = d.model
	}

	resp, err := d.inner.GenerateText(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	// Callers see the logical provider; the vendor that actually answered
	// is preserved in metadata.
	actual := d.inner.Name()
	resp.Provider = aigateway.ProviderDefault
	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any)
	}
	resp.Metadata[aigateway.MetaActualProvider] = string(actual)
	resp.Metadata[aigateway.MetaRateLimited] = true

	return resp, nil
}

// GenerateEmbedding is intentionally not proxied through the shared pool.
func (d *DefaultAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	return nil, aigateway.NewCapabilityError(aigateway.ProviderDefault, "embeddings",
		"connect your own OpenAI or Google provider to enable embeddings")
}

func (d *DefaultAdapter) IsHealthy(ctx context.Context) bool {
	return d.inner.IsHealthy(ctx)
}
