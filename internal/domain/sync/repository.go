package sync

import (
	"context"

	"github.com/google/uuid"
)

// ExternalLinkRepository is the persistent identity store: one row per
// (tenant, entity type, local id), written by the resolver and read on
// every outbound push and inbound resolution.
type ExternalLinkRepository interface {
	FindByLocal(ctx context.Context, tenantID string, entityType EntityType, localID uuid.UUID) (*ExternalLink, error)
	FindByExternalRef(ctx context.Context, tenantID string, entityType EntityType, externalRef string) (*ExternalLink, error)
	Save(ctx context.Context, link *ExternalLink) error
}

// TokenStore persists the rotating refresh token between processes.
// The access token is never persisted; it lives in process memory only.
type TokenStore interface {
	LoadRefreshToken(ctx context.Context) (string, error)
	SaveRefreshToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
