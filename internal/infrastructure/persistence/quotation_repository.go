package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/shared"
	"github.com/ledgerlink/backend/internal/infrastructure/persistence/models"
)

// GormQuotationRepository implements ledger.QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

var _ ledger.QuotationRepository = (*GormQuotationRepository)(nil)

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation with its lines in document order
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalRef finds a quotation by its remote reference within a tenant
func (r *GormQuotationRepository) FindByExternalRef(ctx context.Context, tenantID, externalRef string) (*ledger.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("remote_tenant_id = ? AND external_ref = ?", tenantID, externalRef).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a quotation. Lines are replaced wholesale so positions
// always reflect the current document order.
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *ledger.Quotation) error {
	model := models.QuotationModelFromDomain(quotation)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", model.ID).
			Delete(&models.QuotationLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Create(&model.Lines).Error
	})
}
