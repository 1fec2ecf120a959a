package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/shared"
	"github.com/ledgerlink/backend/internal/infrastructure/persistence/models"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

var _ ledger.AccountRepository = (*GormAccountRepository)(nil)

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByCode finds a cached account by its code
func (r *GormAccountRepository) FindByCode(ctx context.Context, code string) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts a cached account
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	model := &models.AccountModel{}
	model.FromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormTaxRateRepository implements ledger.TaxRateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

var _ ledger.TaxRateRepository = (*GormTaxRateRepository)(nil)

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindByTypeName finds a cached tax rate by its type name
func (r *GormTaxRateRepository) FindByTypeName(ctx context.Context, typeName string) (*ledger.TaxRate, error) {
	var model models.TaxRateModel
	if err := r.db.WithContext(ctx).First(&model, "type_name = ?", typeName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts a cached tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *ledger.TaxRate) error {
	model := &models.TaxRateModel{}
	model.FromDomain(rate)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormCatalogItemRepository implements ledger.CatalogItemRepository using GORM
type GormCatalogItemRepository struct {
	db *gorm.DB
}

var _ ledger.CatalogItemRepository = (*GormCatalogItemRepository)(nil)

// NewGormCatalogItemRepository creates a new GormCatalogItemRepository
func NewGormCatalogItemRepository(db *gorm.DB) *GormCatalogItemRepository {
	return &GormCatalogItemRepository{db: db}
}

// FindByCode finds a cached catalog item by its code
func (r *GormCatalogItemRepository) FindByCode(ctx context.Context, code string) (*ledger.CatalogItem, error) {
	var model models.CatalogItemModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts a cached catalog item
func (r *GormCatalogItemRepository) Save(ctx context.Context, item *ledger.CatalogItem) error {
	model := &models.CatalogItemModel{}
	model.FromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}
