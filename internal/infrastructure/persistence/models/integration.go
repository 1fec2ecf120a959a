package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

// ExternalLinkModel is the persistence model for the ExternalLink domain entity.
type ExternalLinkModel struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key"`
	TenantID       string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_external_link_identity,priority:1"`
	EntityType     sync.EntityType     `gorm:"type:varchar(20);not null;uniqueIndex:idx_external_link_identity,priority:2"`
	LocalID        uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_external_link_identity,priority:3"`
	ExternalRef    string              `gorm:"type:varchar(100);not null;index:idx_external_link_ref"`
	LastSyncAt     *time.Time          `gorm:"index"`
	LastSyncStatus sync.LinkSyncStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	LastSyncError  string              `gorm:"type:text"`
	CreatedAt      time.Time           `gorm:"not null"`
	UpdatedAt      time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExternalLinkModel) TableName() string {
	return "external_links"
}

// ToDomain converts the persistence model to a domain ExternalLink entity.
func (m *ExternalLinkModel) ToDomain() *sync.ExternalLink {
	return &sync.ExternalLink{
		ID:             m.ID,
		TenantID:       m.TenantID,
		EntityType:     m.EntityType,
		LocalID:        m.LocalID,
		ExternalRef:    m.ExternalRef,
		LastSyncAt:     m.LastSyncAt,
		LastSyncStatus: m.LastSyncStatus,
		LastSyncError:  m.LastSyncError,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ExternalLink entity.
func (m *ExternalLinkModel) FromDomain(l *sync.ExternalLink) {
	m.ID = l.ID
	m.TenantID = l.TenantID
	m.EntityType = l.EntityType
	m.LocalID = l.LocalID
	m.ExternalRef = l.ExternalRef
	m.LastSyncAt = l.LastSyncAt
	m.LastSyncStatus = l.LastSyncStatus
	m.LastSyncError = l.LastSyncError
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// ExternalLinkModelFromDomain creates a new persistence model from a domain ExternalLink entity.
func ExternalLinkModelFromDomain(l *sync.ExternalLink) *ExternalLinkModel {
	m := &ExternalLinkModel{}
	m.FromDomain(l)
	return m
}

// RemoteCredentialModel stores the rotating refresh token. Exactly one
// row exists per provider; the access token is never persisted.
type RemoteCredentialModel struct {
	Provider     string    `gorm:"type:varchar(50);primary_key"`
	RefreshToken string    `gorm:"type:text;not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RemoteCredentialModel) TableName() string {
	return "remote_credentials"
}
