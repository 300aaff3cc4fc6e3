package providercfgrepo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/database/dbschema"
	"venturedesk/ai-api/internal/utils/ptr"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&dbschema.AIProviderConfig{}, &dbschema.AIUsageRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateAndFindByTenant(t *testing.T) {
	repo := NewAIProviderConfigRepository(newTestDB(t))
	ctx := context.Background()

	cfg := &aigateway.AIProviderConfig{
		PublicID:        "aipc_123",
		TenantID:        "tenant-1",
		ProviderName:    aigateway.ProviderOpenAI,
		EncryptedAPIKey: ptr.ToString("ciphertext"),
		APIKeyHint:      ptr.ToString("k3y4"),
		Active:          true,
		Metadata:        map[string]string{"source": "settings"},
	}
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cfg.ID == 0 {
		t.Fatal("expected generated ID to be written back")
	}

	configs, err := repo.FindByTenant(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("find by tenant: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("expected 1 config, got %d", len(configs))
	}
	got := configs[0]
	if got.ProviderName != aigateway.ProviderOpenAI {
		t.Fatalf("unexpected provider: %s", got.ProviderName)
	}
	if got.EncryptedAPIKey == nil || *got.EncryptedAPIKey != "ciphertext" {
		t.Fatalf("ciphertext not round-tripped: %v", got.EncryptedAPIKey)
	}
	if got.Metadata["source"] != "settings" {
		t.Fatalf("metadata not round-tripped: %v", got.Metadata)
	}

	other, err := repo.FindByTenant(ctx, "tenant-2")
	if err != nil {
		t.Fatalf("find other tenant: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected tenant isolation, got %d rows", len(other))
	}
}

func TestFindByFilterActiveAndProvider(t *testing.T) {
	repo := NewAIProviderConfigRepository(newTestDB(t))
	ctx := context.Background()

	seed := []*aigateway.AIProviderConfig{
		{PublicID: "aipc_a", TenantID: "tenant-1", ProviderName: aigateway.ProviderOpenAI, EncryptedAPIKey: ptr.ToString("c1"), Active: true},
		{PublicID: "aipc_b", TenantID: "tenant-1", ProviderName: aigateway.ProviderAnthropic, EncryptedAPIKey: ptr.ToString("c2"), Active: false},
		{PublicID: "aipc_c", TenantID: "tenant-2", ProviderName: aigateway.ProviderOpenAI, EncryptedAPIKey: ptr.ToString("c3"), Active: true},
	}
	for _, cfg := range seed {
		if err := repo.Create(ctx, cfg); err != nil {
			t.Fatalf("seed create: %v", err)
		}
	}

	tenant := "tenant-1"
	active := true
	configs, err := repo.FindByFilter(ctx, aigateway.AIProviderConfigFilter{TenantID: &tenant, Active: &active})
	if err != nil {
		t.Fatalf("find by filter: %v", err)
	}
	if len(configs) != 1 || configs[0].PublicID != "aipc_a" {
		t.Fatalf("expected only the active tenant-1 row, got %+v", configs)
	}

	name := aigateway.ProviderOpenAI
	count, err := repo.Count(ctx, aigateway.AIProviderConfigFilter{ProviderName: &name})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 openai rows, got %d", count)
	}
}

func TestUpdateDeactivates(t *testing.T) {
	repo := NewAIProviderConfigRepository(newTestDB(t))
	ctx := context.Background()

	cfg := &aigateway.AIProviderConfig{
		PublicID:        "aipc_rot",
		TenantID:        "tenant-1",
		ProviderName:    aigateway.ProviderGoogle,
		EncryptedAPIKey: ptr.ToString("old-ciphertext"),
		Active:          true,
	}
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("create: %v", err)
	}

	cfg.Active = false
	if err := repo.Update(ctx, cfg); err != nil {
		t.Fatalf("update: %v", err)
	}

	configs, err := repo.FindByTenant(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("deactivation must not delete the row, got %d rows", len(configs))
	}
	if configs[0].Active {
		t.Fatal("expected row to be inactive after update")
	}
	if configs[0].EncryptedAPIKey == nil || *configs[0].EncryptedAPIKey != "old-ciphertext" {
		t.Fatal("ciphertext must survive deactivation for audit history")
	}
}
