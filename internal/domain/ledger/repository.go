package ledger

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository persists clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByEmail(ctx context.Context, email string) (*Client, error)
	FindByExternalRef(ctx context.Context, tenantID, externalRef string) (*Client, error)
	Save(ctx context.Context, client *Client) error
}

// QuotationRepository persists quotations with their line items
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindByExternalRef(ctx context.Context, tenantID, externalRef string) (*Quotation, error)
	Save(ctx context.Context, quotation *Quotation) error
}

// InvoiceRepository persists invoices with their line items
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByExternalRef(ctx context.Context, tenantID, externalRef string) (*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
}

// ProjectRepository persists projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Save(ctx context.Context, project *Project) error
}

// AccountRepository is the local chart-of-accounts cache
type AccountRepository interface {
	FindByCode(ctx context.Context, code string) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

// TaxRateRepository is the local tax rate cache
type TaxRateRepository interface {
	FindByTypeName(ctx context.Context, typeName string) (*TaxRate, error)
	Save(ctx context.Context, rate *TaxRate) error
}

// CatalogItemRepository is the local catalog item cache
type CatalogItemRepository interface {
	FindByCode(ctx context.Context, code string) (*CatalogItem, error)
	Save(ctx context.Context, item *CatalogItem) error
}
