package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/shared"
	"github.com/ledgerlink/backend/internal/infrastructure/persistence/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.AccountModel{},
		&models.TaxRateModel{},
		&models.CatalogItemModel{},
	)
	require.NoError(t, err)

	return db
}

func TestGormAccountRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	now := time.Now()
	account := &ledger.Account{
		Code:        "200",
		Name:        "Sales",
		Type:        "REVENUE",
		ExternalRef: "acc-1",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Save(ctx, account))

	loaded, err := repo.FindByCode(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, "Sales", loaded.Name)
	assert.True(t, loaded.IsActive)

	t.Run("save is an upsert by code", func(t *testing.T) {
		account.IsActive = false
		require.NoError(t, repo.Save(ctx, account))

		loaded, err := repo.FindByCode(ctx, "200")
		require.NoError(t, err)
		assert.False(t, loaded.IsActive)

		var count int64
		require.NoError(t, db.Model(&models.AccountModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTaxRateRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormTaxRateRepository(db)
	ctx := context.Background()

	now := time.Now()
	rate := &ledger.TaxRate{
		TypeName:    "OUTPUT",
		DisplayName: "Standard VAT",
		Rate:        decimal.RequireFromString("19.00"),
		ExternalRef: "OUTPUT",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Save(ctx, rate))

	loaded, err := repo.FindByTypeName(ctx, "OUTPUT")
	require.NoError(t, err)
	assert.Equal(t, "Standard VAT", loaded.DisplayName)
	assert.True(t, loaded.Rate.Equal(decimal.RequireFromString("19.00")))
}

func TestGormCatalogItemRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormCatalogItemRepository(db)
	ctx := context.Background()

	now := time.Now()
	item := &ledger.CatalogItem{
		Code:       "DEV-DAY",
		Name:       "Development day",
		UnitAmount: decimal.RequireFromString("960.00"),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Save(ctx, item))

	loaded, err := repo.FindByCode(ctx, "DEV-DAY")
	require.NoError(t, err)
	assert.True(t, loaded.UnitAmount.Equal(decimal.RequireFromString("960.00")))
}
