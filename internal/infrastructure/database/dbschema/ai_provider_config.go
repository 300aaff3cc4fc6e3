package dbschema

import (
	"encoding/json"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/database"
	"venturedesk/ai-api/internal/infrastructure/logger"

	"gorm.io/datatypes"
)

func init() {
	database.RegisterSchemaForAutoMigrate(AIProviderConfig{})
}

type AIProviderConfig struct {
	BaseModel
	PublicID        string         `gorm:"size:64;not null;uniqueIndex"`
	TenantID        string         `gorm:"size:64;not null;index;uniqueIndex:ux_ai_provider_tenant_name,priority:1"`
	ProviderName    string         `gorm:"size:64;not null;uniqueIndex:ux_ai_provider_tenant_name,priority:2"`
	EncryptedAPIKey *string        `gorm:"type:text"`
	APIKeyHint      *string        `gorm:"size:128"`
	Active          *bool          `gorm:"not null;default:true;index"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
}

func NewSchemaAIProviderConfig(c *aigateway.AIProviderConfig) *AIProviderConfig {
	if c == nil {
		return nil
	}

	var metadataJSON datatypes.JSON
	if len(c.Metadata) > 0 {
		if data, err := json.Marshal(c.Metadata); err == nil {
			metadataJSON = datatypes.JSON(data)
		}
	}

	active := c.Active
	return &AIProviderConfig{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID:        c.PublicID,
		TenantID:        c.TenantID,
		ProviderName:    string(c.ProviderName),
		EncryptedAPIKey: c.EncryptedAPIKey,
		APIKeyHint:      c.APIKeyHint,
		Active:          &active,
		Metadata:        metadataJSON,
	}
}

// EtoD converts a persisted provider config into its domain representation.
func (c *AIProviderConfig) EtoD() *aigateway.AIProviderConfig {
	var metadata map[string]string
	if len(c.Metadata) > 0 {
		if err := json.Unmarshal(c.Metadata, &metadata); err != nil {
			log := logger.GetLogger()
			log.Error().Msgf("failed to unmarshal provider config metadata for config ID %d: %v", c.ID, err)
		}
	}

	active := false
	if c.Active != nil {
		active = *c.Active
	}

	return &aigateway.AIProviderConfig{
		ID:              c.ID,
		PublicID:        c.PublicID,
		TenantID:        c.TenantID,
		ProviderName:    aigateway.ProviderName(c.ProviderName),
		EncryptedAPIKey: c.EncryptedAPIKey,
		APIKeyHint:      c.APIKeyHint,
		Active:          active,
		Metadata:        metadata,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
