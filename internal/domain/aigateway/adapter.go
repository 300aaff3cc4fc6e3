package aigateway

import "context"

// Adapter is the uniform contract every vendor implementation satisfies.
// New vendors are added by implementing this interface and registering them
// with the adapter factory, never by branching on vendor name in callers.
type Adapter interface {
	// Name returns the logical provider this adapter answers as.
	Name() ProviderName

	// GenerateText runs one text generation call and returns the normalized
	// response envelope. Failures are *GatewayError values.
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (*AIResponse, error)

	// GenerateEmbedding returns the embedding vector for text. Vendors
	// without an embedding API fail with KindCapabilityUnsupported.
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)

	// IsHealthy issues a minimal real call to the vendor and reports
	// pass/fail without returning an error.
	IsHealthy(ctx context.Context) bool
}

// AdapterFactory builds vendor adapters from decrypted credentials. The
// implementation lives in the inference infrastructure package.
type AdapterFactory interface {
	// NewAdapter instantiates the adapter for a known BYOK vendor. The key
	// is held in memory for the adapter's lifetime only.
	NewAdapter(name ProviderName, apiKey string) (Adapter, error)

	// Default returns the process-wide shared-pool adapter.
	Default() Adapter
}
