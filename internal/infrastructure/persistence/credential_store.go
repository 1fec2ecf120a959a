package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledgerlink/backend/internal/domain/sync"
	"github.com/ledgerlink/backend/internal/infrastructure/persistence/models"
)

// remoteLedgerProvider keys the single credential row for the remote
// accounting platform.
const remoteLedgerProvider = "remote_ledger"

// GormTokenStore implements sync.TokenStore on the remote_credentials
// table. The refresh token is single-use; SaveRefreshToken must land
// before the old token's replacement is ever used again.
type GormTokenStore struct {
	db *gorm.DB
}

var _ sync.TokenStore = (*GormTokenStore)(nil)

// NewGormTokenStore creates a new GormTokenStore
func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

// LoadRefreshToken returns the stored refresh token, or "" when the
// operator has never authorized (or has logged out).
func (s *GormTokenStore) LoadRefreshToken(ctx context.Context) (string, error) {
	var model models.RemoteCredentialModel
	if err := s.db.WithContext(ctx).
		First(&model, "provider = ?", remoteLedgerProvider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return model.RefreshToken, nil
}

// SaveRefreshToken upserts the rotating refresh token
func (s *GormTokenStore) SaveRefreshToken(ctx context.Context, token string) error {
	model := &models.RemoteCredentialModel{
		Provider:     remoteLedgerProvider,
		RefreshToken: token,
		UpdatedAt:    time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{"refresh_token", "updated_at"}),
		}).
		Create(model).Error
}

// Clear removes the stored refresh token
func (s *GormTokenStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Delete(&models.RemoteCredentialModel{}, "provider = ?", remoteLedgerProvider).Error
}
