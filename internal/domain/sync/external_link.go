package sync

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies which local entity kind a link belongs to
type EntityType string

const (
	EntityTypeClient      EntityType = "client"
	EntityTypeInvoice     EntityType = "invoice"
	EntityTypeQuotation   EntityType = "quotation"
	EntityTypeProject     EntityType = "project"
	EntityTypeAccount     EntityType = "account"
	EntityTypeTaxRate     EntityType = "tax_rate"
	EntityTypeCatalogItem EntityType = "catalog_item"
)

// IsValid reports whether the entity type is a member of the enumeration
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeClient, EntityTypeInvoice, EntityTypeQuotation, EntityTypeProject,
		EntityTypeAccount, EntityTypeTaxRate, EntityTypeCatalogItem:
		return true
	}
	return false
}

// LinkSyncStatus is the outcome of the last sync against a link
type LinkSyncStatus string

const (
	LinkSyncStatusPending LinkSyncStatus = "PENDING"
	LinkSyncStatusSuccess LinkSyncStatus = "SUCCESS"
	LinkSyncStatusFailed  LinkSyncStatus = "FAILED"
)

// ExternalLink maps a local entity to the remote ledger's canonical id
// for one tenant. A local entity has at most one link per tenant; links
// are superseded when a stale pointer is detected, never deleted.
type ExternalLink struct {
	ID             uuid.UUID
	TenantID       string
	EntityType     EntityType
	LocalID        uuid.UUID
	ExternalRef    string
	LastSyncAt     *time.Time
	LastSyncStatus LinkSyncStatus
	LastSyncError  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewExternalLink creates a new identity link
func NewExternalLink(tenantID string, entityType EntityType, localID uuid.UUID, externalRef string) (*ExternalLink, error) {
	if tenantID == "" {
		return nil, ErrLinkInvalidTenant
	}
	if !entityType.IsValid() {
		return nil, ErrLinkInvalidEntityType
	}
	if localID == uuid.Nil {
		return nil, ErrLinkInvalidLocalID
	}
	if externalRef == "" {
		return nil, ErrLinkInvalidExternal
	}
	now := time.Now()
	return &ExternalLink{
		ID:             uuid.New(),
		TenantID:       tenantID,
		EntityType:     entityType,
		LocalID:        localID,
		ExternalRef:    externalRef,
		LastSyncStatus: LinkSyncStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Supersede replaces a stale external reference (remote object was
// deleted and recreated under a new id)
func (l *ExternalLink) Supersede(externalRef string) error {
	if externalRef == "" {
		return ErrLinkInvalidExternal
	}
	l.ExternalRef = externalRef
	l.UpdatedAt = time.Now()
	return nil
}

// MarkSynced records a successful sync against this link
func (l *ExternalLink) MarkSynced() {
	now := time.Now()
	l.LastSyncAt = &now
	l.LastSyncStatus = LinkSyncStatusSuccess
	l.LastSyncError = ""
	l.UpdatedAt = now
}

// MarkFailed records a failed sync against this link
func (l *ExternalLink) MarkFailed(reason string) {
	now := time.Now()
	l.LastSyncAt = &now
	l.LastSyncStatus = LinkSyncStatusFailed
	l.LastSyncError = reason
	l.UpdatedAt = now
}
