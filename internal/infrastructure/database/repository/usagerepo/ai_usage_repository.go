package usagerepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/database/dbschema"
	"venturedesk/ai-api/internal/utils/platformerrors"
)

type Repository struct {
	db *gorm.DB
}

func NewAIUsageRepository(db *gorm.DB) aigateway.AIUsageRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, record *aigateway.AIUsageRecord) error {
	model := dbschema.NewSchemaAIUsageRecord(record)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create usage record")
	}
	record.ID = model.ID
	record.CreatedAt = model.CreatedAt
	return nil
}

func (r *Repository) SumTotalTokens(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&dbschema.AIUsageRecord{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, since).
		Select("COALESCE(SUM(total_tokens), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to sum usage tokens")
	}
	return total, nil
}
