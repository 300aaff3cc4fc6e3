package aigateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"venturedesk/ai-api/internal/infrastructure/logger"
)

// AIUsageRecord captures one successful gateway call for billing attribution.
// Provider is the logical selection; ActualProvider the vendor that executed,
// so shared-pool traffic can be throttled and charged separately downstream.
type AIUsageRecord struct {
	ID               uint            `json:"id"`
	TenantID         string          `json:"tenant_id"`
	Provider         ProviderName    `json:"provider"`
	ActualProvider   ProviderName    `json:"actual_provider"`
	ModelUsed        string          `json:"model_used"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalTokens      int             `json:"total_tokens"`
	EstimatedCostUSD decimal.Decimal `json:"estimated_cost_usd"`
	DurationMS       int64           `json:"duration_ms"`
	SharedPool       bool            `json:"shared_pool"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AIUsageRepository abstracts persistence for usage records.
type AIUsageRepository interface {
	Create(ctx context.Context, record *AIUsageRecord) error
	SumTotalTokens(ctx context.Context, tenantID string, since time.Time) (int64, error)
}

// Rough USD cost per 1K total tokens, keyed by model family prefix. Good
// enough for dashboard estimates; invoicing reconciles against vendor bills.
var costPer1KTokens = map[string]decimal.Decimal{
	"gpt-4o":         decimal.NewFromFloat(0.0075),
	"gpt-4o-mini":    decimal.NewFromFloat(0.00045),
	"claude-sonnet":  decimal.NewFromFloat(0.009),
	"claude-3-5":     decimal.NewFromFloat(0.0024),
	"gemini-2.0":     decimal.NewFromFloat(0.00025),
	"text-embedding": decimal.NewFromFloat(0.00002),
}

func estimateCostUSD(model string, totalTokens int) decimal.Decimal {
	var rate decimal.Decimal
	bestLen := 0
	for prefix, perK := range costPer1KTokens {
		if len(prefix) > bestLen && len(model) >= len(prefix) && model[:len(prefix)] == prefix {
			rate = perK
			bestLen = len(prefix)
		}
	}
	if bestLen == 0 {
		return decimal.Zero
	}
	return rate.Mul(decimal.NewFromInt(int64(totalTokens))).Div(decimal.NewFromInt(1000))
}

// UsageRecorder persists usage records derived from gateway responses.
type UsageRecorder struct {
	repo AIUsageRepository
}

func NewUsageRecorder(repo AIUsageRepository) *UsageRecorder {
	return &UsageRecorder{repo: repo}
}

// Record stores the usage of one successful call. Recording is best-effort:
// a persistence failure is logged and never fails the AI call itself.
func (u *UsageRecorder) Record(ctx context.Context, tenantID string, resp *AIResponse) {
	if u == nil || u.repo == nil || resp == nil {
		return
	}

	record := RecordFromResponse(tenantID, resp)
	if err := u.repo.Create(ctx, record); err != nil {
		log := logger.GetLogger()
		log.Error().
			Err(err).
			Str("tenant_id", tenantID).
			Str("provider", string(resp.Provider)).
			Msg("failed to persist AI usage record")
	}
}

// RecordFromResponse derives a usage record from a normalized response.
func RecordFromResponse(tenantID string, resp *AIResponse) *AIUsageRecord {
	record := &AIUsageRecord{
		TenantID:         tenantID,
		Provider:         resp.Provider,
		ActualProvider:   resp.Provider,
		ModelUsed:        resp.ModelUsed,
		TotalTokens:      resp.TokensUsed,
		EstimatedCostUSD: estimateCostUSD(resp.ModelUsed, resp.TokensUsed),
		DurationMS:       resp.GenerationTimeMS,
	}

	if actual, ok := resp.Metadata[MetaActualProvider].(string); ok {
		record.ActualProvider = ProviderName(actual)
	}
	if limited, ok := resp.Metadata[MetaRateLimited].(bool); ok {
		record.SharedPool = limited
	}
	if prompt, ok := resp.Metadata[MetaPromptTokens].(int); ok {
		record.PromptTokens = prompt
	}
	if completion, ok := resp.Metadata[MetaCompletionTokens].(int); ok {
		record.CompletionTokens = completion
	}

	return record
}
