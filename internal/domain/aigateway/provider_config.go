package aigateway

import (
	"context"
	"strings"
	"time"
)

// ProviderName identifies a vendor slot. "default" is the operator-funded
// shared pool used when a tenant has no BYOK configuration.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGoogle    ProviderName = "google"
	ProviderDefault   ProviderName = "default"
)

// KnownProviderNames lists every provider slot the gateway can resolve.
func KnownProviderNames() []ProviderName {
	return []ProviderName{ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderDefault}
}

// ParseProviderName normalizes a raw provider string. Unknown names are a
// configuration error, never silently mapped to the default pool.
func ParseProviderName(raw string) (ProviderName, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return ProviderOpenAI, true
	case "anthropic":
		return ProviderAnthropic, true
	case "gemini", "google", "googleai":
		return ProviderGoogle, true
	case "default":
		return ProviderDefault, true
	default:
		return "", false
	}
}

// AIProviderConfig is a tenant's stored configuration for one vendor slot.
// Rows are deactivated rather than deleted on disconnect so the audit history
// survives key rotation.
type AIProviderConfig struct {
	ID              uint         `json:"id"`
	PublicID        string       `json:"public_id"`
	TenantID        string       `json:"tenant_id"`
	ProviderName    ProviderName `json:"provider_name"`
	EncryptedAPIKey *string      `json:"-"`                      // encrypted at rest, decrypted in memory when needed
	APIKeyHint      *string      `json:"api_key_hint,omitempty"` // last4, not the secret
	Active          bool         `json:"is_active"`
	Metadata        map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RequiresKey reports whether this slot must carry a credential. Only the
// shared default pool is keyless per tenant.
func (c *AIProviderConfig) RequiresKey() bool {
	return c.ProviderName != ProviderDefault
}

// AIProviderConfigFilter defines optional conditions for querying configs.
type AIProviderConfigFilter struct {
	TenantID     *string
	ProviderName *ProviderName
	Active       *bool
}

// AIProviderConfigRepository abstracts persistence for provider configs.
type AIProviderConfigRepository interface {
	Create(ctx context.Context, cfg *AIProviderConfig) error
	Update(ctx context.Context, cfg *AIProviderConfig) error
	FindByFilter(ctx context.Context, filter AIProviderConfigFilter) ([]*AIProviderConfig, error)
	FindByTenant(ctx context.Context, tenantID string) ([]*AIProviderConfig, error)
	Count(ctx context.Context, filter AIProviderConfigFilter) (int64, error)
}
