package aigateway

import (
	"context"
	"strings"
	"sync"

	"venturedesk/ai-api/internal/infrastructure/logger"
	"venturedesk/ai-api/internal/utils/crypto"
)

// Resolver turns a tenant's stored provider configurations into a ready-to-use
// adapter. Resolved adapters are cached per (tenant, provider) until the
// settings flow invalidates them; a cache hit is returned without re-probing
// the vendor so resolution adds no latency to steady-state calls.
type Resolver struct {
	factory AdapterFactory
	secret  string

	mu    sync.RWMutex
	cache map[string]Adapter
}

func NewResolver(factory AdapterFactory, secret string) *Resolver {
	return &Resolver{
		factory: factory,
		secret:  secret,
		cache:   make(map[string]Adapter),
	}
}

func cacheKey(tenantID string, name ProviderName) string {
	return tenantID + "/" + string(name)
}

// Resolve selects the tenant's active configuration and returns a healthy
// adapter for it, or the shared default adapter when none is active.
//
// A BYOK credential that fails its health probe surfaces as
// KindProviderUnhealthy; it must never silently fall back to the default
// pool, which would route tenant traffic onto the shared key without consent.
func (r *Resolver) Resolve(ctx context.Context, tenantID string, configs []*AIProviderConfig) (Adapter, error) {
	active := activeConfig(configs)
	if active == nil || active.ProviderName == ProviderDefault {
		// Shared pool: process-wide, keyless per tenant, nothing to cache.
		return r.factory.Default(), nil
	}

	name, ok := ParseProviderName(string(active.ProviderName))
	if !ok {
		return nil, NewConfigurationError(active.ProviderName, "unknown provider name")
	}

	key := cacheKey(tenantID, name)
	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	// An active non-default row without ciphertext should never exist; it
	// signals a settings-flow bug, not a "no key yet" state.
	if active.EncryptedAPIKey == nil || strings.TrimSpace(*active.EncryptedAPIKey) == "" {
		return nil, NewConfigurationError(name, "active configuration is missing its encrypted API key")
	}

	apiKey, err := crypto.DecryptString(r.secret, *active.EncryptedAPIKey)
	if err != nil {
		return nil, NewDecryptionError(name, err)
	}

	adapter, err := r.factory.NewAdapter(name, apiKey)
	if err != nil {
		return nil, NewConfigurationError(name, err.Error())
	}

	if !adapter.IsHealthy(ctx) {
		return nil, NewUnhealthyError(name)
	}

	// Concurrent first-use may race to this point; last writer wins. The
	// redundant health probes are bounded and adapters are interchangeable.
	r.mu.Lock()
	r.cache[key] = adapter
	r.mu.Unlock()

	log := logger.GetLogger()
	log.Info().
		Str("tenant_id", tenantID).
		Str("provider", string(name)).
		Msg("provider adapter resolved and cached")

	return adapter, nil
}

// Invalidate purges every cached adapter for the tenant. The settings flow
// calls this on connect, rotate, and disconnect so the next resolution
// re-decrypts and re-validates instead of reusing a client bound to a revoked
// credential. Returns the number of entries removed.
func (r *Resolver) Invalidate(tenantID string) int {
	prefix := tenantID + "/"

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key := range r.cache {
		if strings.HasPrefix(key, prefix) {
			delete(r.cache, key)
			removed++
		}
	}
	return removed
}

// CacheSize returns the number of live cached adapters.
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Revalidate re-probes every cached adapter and evicts the ones that fail, so
// a key revoked at the vendor mid-session stops being served within one sweep
// interval. Run from the background cron; never called on the request path.
func (r *Resolver) Revalidate(ctx context.Context) int {
	r.mu.RLock()
	snapshot := make(map[string]Adapter, len(r.cache))
	for key, adapter := range r.cache {
		snapshot[key] = adapter
	}
	r.mu.RUnlock()

	log := logger.GetLogger()
	evicted := 0
	for key, adapter := range snapshot {
		if ctx.Err() != nil {
			return evicted
		}
		if adapter.IsHealthy(ctx) {
			continue
		}
		r.mu.Lock()
		// Only evict if the entry was not replaced while we probed.
		if current, ok := r.cache[key]; ok && current == adapter {
			delete(r.cache, key)
			evicted++
		}
		r.mu.Unlock()
		log.Warn().
			Str("cache_key", key).
			Str("provider", string(adapter.Name())).
			Msg("cached provider adapter failed revalidation, evicted")
	}
	return evicted
}

// activeConfig returns the row the gateway should act on. The persistence
// layer guarantees at most one active row per vendor slot; with several
// vendors active the first wins deterministically by row order.
func activeConfig(configs []*AIProviderConfig) *AIProviderConfig {
	for _, cfg := range configs {
		if cfg != nil && cfg.Active {
			return cfg
		}
	}
	return nil
}
