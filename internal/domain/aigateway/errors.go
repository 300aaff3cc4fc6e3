package aigateway

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures so calling features can branch on
// the failure class instead of parsing error text.
type ErrorKind string

const (
	// KindCredentialDecryption: stored ciphertext could not be opened.
	// Internal storage or secret-rotation fault, never a tenant problem.
	KindCredentialDecryption ErrorKind = "credential_decryption_failed"
	// KindConfigurationInvalid: active row missing its key, or an unknown
	// provider name. Data-integrity bug in the settings flow.
	KindConfigurationInvalid ErrorKind = "configuration_invalid"
	// KindProviderUnhealthy: a freshly decrypted BYOK credential failed its
	// live probe.
	KindProviderUnhealthy ErrorKind = "provider_unhealthy"
	// KindCapabilityUnsupported: operation not offered by the resolved
	// vendor, e.g. embeddings on Anthropic or the shared pool.
	KindCapabilityUnsupported ErrorKind = "capability_unsupported"
	// KindGenerationFailed: the vendor call itself failed. Retry policy
	// belongs to the caller.
	KindGenerationFailed ErrorKind = "generation_failed"
)

// GatewayError is the typed error surfaced by every gateway operation. It
// carries the provider name and enough request context for diagnostic replay.
// API keys must never be placed in Context.
type GatewayError struct {
	Kind     ErrorKind
	Provider ProviderName
	Message  string
	Err      error
	Context  map[string]any
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai gateway [%s] provider %q: %s: %v", e.Kind, e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("ai gateway [%s] provider %q: %s", e.Kind, e.Provider, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, provider ProviderName, message string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Provider: provider, Message: message, Err: err}
}

// NewDecryptionError reports a ciphertext that could not be opened.
func NewDecryptionError(provider ProviderName, err error) *GatewayError {
	return newError(KindCredentialDecryption, provider, "stored credential could not be decrypted", err)
}

// NewConfigurationError reports a broken provider configuration row.
func NewConfigurationError(provider ProviderName, message string) *GatewayError {
	return newError(KindConfigurationInvalid, provider, message, nil)
}

// NewUnhealthyError reports a BYOK credential that failed its health probe.
func NewUnhealthyError(provider ProviderName) *GatewayError {
	return newError(KindProviderUnhealthy, provider, "provider failed health check; the connected API key appears invalid", nil)
}

// NewCapabilityError reports an operation the resolved provider does not offer.
func NewCapabilityError(provider ProviderName, operation, hint string) *GatewayError {
	e := newError(KindCapabilityUnsupported, provider, fmt.Sprintf("%s is not supported by this provider", operation), nil)
	if hint != "" {
		e.Context = map[string]any{"hint": hint}
	}
	return e
}

// NewGenerationError wraps a failed vendor call with the offending prompt and
// options for replay.
func NewGenerationError(provider ProviderName, prompt string, opts GenerateOptions, err error) *GatewayError {
	e := newError(KindGenerationFailed, provider, "provider generation failed", err)
	e.Context = map[string]any{
		"prompt":  prompt,
		"options": opts,
	}
	return e
}

// IsKind reports whether err is a GatewayError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		return gatewayErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not a GatewayError.
func KindOf(err error) ErrorKind {
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		return gatewayErr.Kind
	}
	return ""
}
