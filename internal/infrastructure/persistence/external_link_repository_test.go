package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerlink/backend/internal/domain/sync"
	"github.com/ledgerlink/backend/internal/infrastructure/persistence/models"
)

func setupSyncTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ExternalLinkModel{},
		&models.RemoteCredentialModel{},
	)
	require.NoError(t, err)

	return db
}

func TestGormExternalLinkRepository(t *testing.T) {
	db := setupSyncTestDB(t)
	repo := NewGormExternalLinkRepository(db)
	ctx := context.Background()

	localID := uuid.New()
	link, err := sync.NewExternalLink("tenant-1", sync.EntityTypeInvoice, localID, "rem-42")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, link))

	t.Run("find by local identity", func(t *testing.T) {
		found, err := repo.FindByLocal(ctx, "tenant-1", sync.EntityTypeInvoice, localID)
		require.NoError(t, err)
		assert.Equal(t, "rem-42", found.ExternalRef)
		assert.Equal(t, sync.LinkSyncStatusPending, found.LastSyncStatus)
	})

	t.Run("find by external ref", func(t *testing.T) {
		found, err := repo.FindByExternalRef(ctx, "tenant-1", sync.EntityTypeInvoice, "rem-42")
		require.NoError(t, err)
		assert.Equal(t, localID, found.LocalID)
	})

	t.Run("entity type scopes the lookup", func(t *testing.T) {
		_, err := repo.FindByLocal(ctx, "tenant-1", sync.EntityTypeQuotation, localID)
		assert.ErrorIs(t, err, sync.ErrLinkNotFound)
	})

	t.Run("tenant scopes the lookup", func(t *testing.T) {
		_, err := repo.FindByExternalRef(ctx, "tenant-2", sync.EntityTypeInvoice, "rem-42")
		assert.ErrorIs(t, err, sync.ErrLinkNotFound)
	})

	t.Run("supersede persists the new ref", func(t *testing.T) {
		require.NoError(t, link.Supersede("rem-43"))
		link.MarkSynced()
		require.NoError(t, repo.Save(ctx, link))

		found, err := repo.FindByLocal(ctx, "tenant-1", sync.EntityTypeInvoice, localID)
		require.NoError(t, err)
		assert.Equal(t, "rem-43", found.ExternalRef)
		assert.Equal(t, sync.LinkSyncStatusSuccess, found.LastSyncStatus)

		var count int64
		require.NoError(t, db.Model(&models.ExternalLinkModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count, "superseding must update in place, not create a second link")
	})
}

func TestGormTokenStore(t *testing.T) {
	db := setupSyncTestDB(t)
	store := NewGormTokenStore(db)
	ctx := context.Background()

	t.Run("empty before first save", func(t *testing.T) {
		token, err := store.LoadRefreshToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("save and rotate", func(t *testing.T) {
		require.NoError(t, store.SaveRefreshToken(ctx, "refresh-1"))
		require.NoError(t, store.SaveRefreshToken(ctx, "refresh-2"))

		token, err := store.LoadRefreshToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "refresh-2", token)

		var count int64
		require.NoError(t, db.Model(&models.RemoteCredentialModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count, "rotation must overwrite the single credential row")
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		token, err := store.LoadRefreshToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}
