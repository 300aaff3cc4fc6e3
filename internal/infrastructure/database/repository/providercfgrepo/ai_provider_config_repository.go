package providercfgrepo

import (
	"context"

	"gorm.io/gorm"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/database/dbschema"
	"venturedesk/ai-api/internal/utils/platformerrors"
)

type Repository struct {
	db *gorm.DB
}

func NewAIProviderConfigRepository(db *gorm.DB) aigateway.AIProviderConfigRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, cfg *aigateway.AIProviderConfig) error {
	model := dbschema.NewSchemaAIProviderConfig(cfg)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create provider config")
	}
	cfg.ID = model.ID
	cfg.CreatedAt = model.CreatedAt
	cfg.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, cfg *aigateway.AIProviderConfig) error {
	model := dbschema.NewSchemaAIProviderConfig(cfg)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to update provider config")
	}
	cfg.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *Repository) FindByFilter(ctx context.Context, filter aigateway.AIProviderConfigFilter) ([]*aigateway.AIProviderConfig, error) {
	var models []dbschema.AIProviderConfig
	if err := r.applyFilter(ctx, filter).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list provider configs")
	}

	result := make([]*aigateway.AIProviderConfig, 0, len(models))
	for i := range models {
		result = append(result, models[i].EtoD())
	}
	return result, nil
}

func (r *Repository) FindByTenant(ctx context.Context, tenantID string) ([]*aigateway.AIProviderConfig, error) {
	return r.FindByFilter(ctx, aigateway.AIProviderConfigFilter{TenantID: &tenantID})
}

func (r *Repository) Count(ctx context.Context, filter aigateway.AIProviderConfigFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count provider configs")
	}
	return count, nil
}

func (r *Repository) applyFilter(ctx context.Context, filter aigateway.AIProviderConfigFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&dbschema.AIProviderConfig{})
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.ProviderName != nil {
		query = query.Where("provider_name = ?", string(*filter.ProviderName))
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}
