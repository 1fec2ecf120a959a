package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerlink/backend/internal/domain/sync"
	"github.com/ledgerlink/backend/internal/infrastructure/persistence/models"
)

// GormExternalLinkRepository implements sync.ExternalLinkRepository using GORM
type GormExternalLinkRepository struct {
	db *gorm.DB
}

var _ sync.ExternalLinkRepository = (*GormExternalLinkRepository)(nil)

// NewGormExternalLinkRepository creates a new GormExternalLinkRepository
func NewGormExternalLinkRepository(db *gorm.DB) *GormExternalLinkRepository {
	return &GormExternalLinkRepository{db: db}
}

// FindByLocal finds the link for a local entity within a tenant
func (r *GormExternalLinkRepository) FindByLocal(ctx context.Context, tenantID string, entityType sync.EntityType, localID uuid.UUID) (*sync.ExternalLink, error) {
	var model models.ExternalLinkModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND local_id = ?", tenantID, entityType, localID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sync.ErrLinkNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalRef finds the link carrying a remote reference within a tenant
func (r *GormExternalLinkRepository) FindByExternalRef(ctx context.Context, tenantID string, entityType sync.EntityType, externalRef string) (*sync.ExternalLink, error) {
	var model models.ExternalLinkModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND external_ref = ?", tenantID, entityType, externalRef).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sync.ErrLinkNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a link, inserting or updating as needed
func (r *GormExternalLinkRepository) Save(ctx context.Context, link *sync.ExternalLink) error {
	model := models.ExternalLinkModelFromDomain(link)
	return r.db.WithContext(ctx).Save(model).Error
}
