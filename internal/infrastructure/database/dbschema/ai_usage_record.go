package dbschema

import (
	"time"

	"github.com/shopspring/decimal"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(AIUsageRecord{})
}

type AIUsageRecord struct {
	ID               uint            `gorm:"primaryKey"`
	TenantID         string          `gorm:"size:64;not null;index;index:idx_ai_usage_tenant_created,priority:1"`
	Provider         string          `gorm:"size:64;not null"`
	ActualProvider   string          `gorm:"size:64;not null"`
	ModelUsed        string          `gorm:"size:255;not null"`
	PromptTokens     int             `gorm:"not null;default:0"`
	CompletionTokens int             `gorm:"not null;default:0"`
	TotalTokens      int             `gorm:"not null;default:0"`
	EstimatedCostUSD decimal.Decimal `gorm:"type:numeric(12,6);not null;default:0"`
	DurationMS       int64           `gorm:"not null;default:0"`
	SharedPool       bool            `gorm:"not null;default:false;index"`
	CreatedAt        time.Time       `gorm:"not null;index:idx_ai_usage_tenant_created,priority:2"`
}

func NewSchemaAIUsageRecord(r *aigateway.AIUsageRecord) *AIUsageRecord {
	if r == nil {
		return nil
	}

	return &AIUsageRecord{
		ID:               r.ID,
		TenantID:         r.TenantID,
		Provider:         string(r.Provider),
		ActualProvider:   string(r.ActualProvider),
		ModelUsed:        r.ModelUsed,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
		EstimatedCostUSD: r.EstimatedCostUSD,
		DurationMS:       r.DurationMS,
		SharedPool:       r.SharedPool,
		CreatedAt:        r.CreatedAt,
	}
}

// EtoD converts a persisted usage record into its domain representation.
func (r *AIUsageRecord) EtoD() *aigateway.AIUsageRecord {
	return &aigateway.AIUsageRecord{
		ID:               r.ID,
		TenantID:         r.TenantID,
		Provider:         aigateway.ProviderName(r.Provider),
		ActualProvider:   aigateway.ProviderName(r.ActualProvider),
		ModelUsed:        r.ModelUsed,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
		EstimatedCostUSD: r.EstimatedCostUSD,
		DurationMS:       r.DurationMS,
		SharedPool:       r.SharedPool,
		CreatedAt:        r.CreatedAt,
	}
}
