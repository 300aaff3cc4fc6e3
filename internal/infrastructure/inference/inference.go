// Package inference implements the vendor adapters behind the AI provider
// gateway: OpenAI, Anthropic, Google, and the operator-funded default pool.
package inference

import (
	"errors"
	"fmt"
	"time"

	"venturedesk/ai-api/internal/config"
	"venturedesk/ai-api/internal/domain/aigateway"
)

// Factory builds vendor adapters from decrypted BYOK credentials and owns the
// process-wide default adapter.
type Factory struct {
	defaultAdapter aigateway.Adapter
	httpTimeout    time.Duration
}

var _ aigateway.AdapterFactory = (*Factory)(nil)

// NewFactory constructs the factory and the shared default adapter. The
// operator credential is required here so a misconfigured deployment fails at
// startup rather than on the first shared-pool call.
func NewFactory(cfg *config.Config) (*Factory, error) {
	if cfg.DefaultAnthropicAPIKey == "" {
		return nil, fmt.Errorf("default provider credential is not configured")
	}

	inner := NewAnthropicAdapter(cfg.DefaultAnthropicAPIKey, cfg.HTTPTimeout)
	return &Factory{
		defaultAdapter: NewDefaultAdapter(inner, cfg.DefaultAnthropicModel),
		httpTimeout:    cfg.HTTPTimeout,
	}, nil
}

// NewAdapter instantiates the adapter for a BYOK vendor. The key lives only
// inside the returned adapter.
func (f *Factory) NewAdapter(name aigateway.ProviderName, apiKey string) (aigateway.Adapter, error) {
	switch name {
	case aigateway.ProviderOpenAI:
		return NewOpenAIAdapter(apiKey, f.httpTimeout), nil
	case aigateway.ProviderAnthropic:
		return NewAnthropicAdapter(apiKey, f.httpTimeout), nil
	case aigateway.ProviderGoogle:
		return NewGoogleAdapter(apiKey, f.httpTimeout), nil
	case aigateway.ProviderDefault:
		return f.defaultAdapter, nil
	default:
		return nil, fmt.Errorf("no adapter registered for provider %q", name)
	}
}

// Default returns the shared-pool adapter.
func (f *Factory) Default() aigateway.Adapter {
	return f.defaultAdapter
}

var errEmptyEmbedding = errors.New("vendor returned an empty embedding response")

const healthProbePrompt = "ping"

// healthProbeOptions keeps the liveness call as cheap as the vendor allows.
func healthProbeOptions() aigateway.GenerateOptions {
	return aigateway.GenerateOptions{MaxTokens: 1}
}
