package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AI-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Resolver outcomes
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "resolutions_total",
			Help:      "Adapter resolutions by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// Token counters
	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model", "provider"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model", "provider"},
	)

	// Gateway errors by kind
	GatewayErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "gateway_errors_total",
			Help:      "Gateway failures by provider and error kind",
		},
		[]string{"provider", "kind"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Vendor inference duration
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "generation_duration_seconds",
			Help:      "AI generation duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "provider"},
	)

	// Provider health gauge
	ProviderHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "provider_health",
			Help:      "Provider health status (1=healthy, 0=unhealthy)",
		},
		[]string{"provider"},
	)

	// Adapter cache size gauge
	AdapterCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "adapter_cache_size",
			Help:      "Number of cached tenant adapters",
		},
	)

	// Shared pool usage
	SharedPoolCallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venturedesk",
			Subsystem: "ai_api",
			Name:      "shared_pool_calls_total",
			Help:      "Generation calls served by the operator-funded pool",
		},
	)
)

// RecordRequest records an HTTP request with all relevant labels
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordResolution records one adapter resolution attempt
func RecordResolution(provider, outcome string) {
	ResolutionsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordTokens records token usage for a generation request
func RecordTokens(model, provider string, promptTokens, completionTokens int) {
	TokensPromptTotal.WithLabelValues(model, provider).Add(float64(promptTokens))
	TokensCompletionTotal.WithLabelValues(model, provider).Add(float64(completionTokens))
}

// RecordGenerationDuration records the duration of a vendor inference call
func RecordGenerationDuration(model, provider string, durationSec float64) {
	GenerationDuration.WithLabelValues(model, provider).Observe(durationSec)
}

// RecordGatewayError records a gateway failure by error kind
func RecordGatewayError(provider, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	GatewayErrorsTotal.WithLabelValues(provider, kind).Inc()
}

// SetProviderHealth sets the health status of a provider
func SetProviderHealth(provider string, healthy bool) {
	val := 0.0
	if healthy {
		val = 1.0
	}
	ProviderHealth.WithLabelValues(provider).Set(val)
}

// SetAdapterCacheSize reports the current resolver cache size
func SetAdapterCacheSize(size int) {
	AdapterCacheSize.Set(float64(size))
}

// RecordSharedPoolCall counts one shared-pool generation
func RecordSharedPoolCall() {
	SharedPoolCallsTotal.Inc()
}
