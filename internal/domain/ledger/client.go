package ledger

import (
	"strings"
	"time"

	"github.com/ledgerlink/backend/internal/domain/shared"
)

// Client represents a local business client (the bill-to party on
// quotations and invoices).
type Client struct {
	shared.BaseEntity
	Name        string
	Email       string
	Phone       string
	AddressLine string
	City        string
	Country     string
	// ExternalRef is the remote ledger's canonical id for this client on
	// the owning tenant. Empty until the client has been pushed or
	// resolved inbound at least once.
	ExternalRef    string
	RemoteTenantID string
}

// NewClient creates a new client
func NewClient(name, email, phone string) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrClientNameRequired
	}
	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Phone:      phone,
	}, nil
}

// HasEmail reports whether the client carries a usable email address
func (c *Client) HasEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}

// LinkRemote records the remote reference and owning tenant on the client
func (c *Client) LinkRemote(tenantID, externalRef string) {
	c.RemoteTenantID = tenantID
	c.ExternalRef = externalRef
	c.UpdatedAt = time.Now()
}
