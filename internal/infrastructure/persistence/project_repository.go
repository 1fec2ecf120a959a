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

// GormProjectRepository implements ledger.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

var _ ledger.ProjectRepository = (*GormProjectRepository)(nil)

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a project, inserting or updating as needed
func (r *GormProjectRepository) Save(ctx context.Context, project *ledger.Project) error {
	model := models.ProjectModelFromDomain(project)
	return r.db.WithContext(ctx).Save(model).Error
}
