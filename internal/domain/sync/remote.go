package sync

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is an authorized remote account context. Every remote call is
// scoped to exactly one tenant.
type Tenant struct {
	ID   string
	Name string
}

// RemoteQuoteStatus is the remote ledger's quote status enumeration
type RemoteQuoteStatus string

const (
	RemoteQuoteStatusDraft    RemoteQuoteStatus = "DRAFT"
	RemoteQuoteStatusSent     RemoteQuoteStatus = "SENT"
	RemoteQuoteStatusAccepted RemoteQuoteStatus = "ACCEPTED"
	RemoteQuoteStatusDeclined RemoteQuoteStatus = "DECLINED"
	RemoteQuoteStatusInvoiced RemoteQuoteStatus = "INVOICED"
	RemoteQuoteStatusDeleted  RemoteQuoteStatus = "DELETED"
)

// RemoteInvoiceStatus is the remote ledger's invoice status enumeration.
// It is finer-grained than the local one; several remote states collapse
// onto a single local status.
type RemoteInvoiceStatus string

const (
	RemoteInvoiceStatusDraft      RemoteInvoiceStatus = "DRAFT"
	RemoteInvoiceStatusSubmitted  RemoteInvoiceStatus = "SUBMITTED"
	RemoteInvoiceStatusAuthorised RemoteInvoiceStatus = "AUTHORISED"
	RemoteInvoiceStatusPaid       RemoteInvoiceStatus = "PAID"
	RemoteInvoiceStatusVoided     RemoteInvoiceStatus = "VOIDED"
	RemoteInvoiceStatusDeleted    RemoteInvoiceStatus = "DELETED"
)

// RemoteContact is the remote ledger's contact resource
type RemoteContact struct {
	Ref   string
	Name  string
	Email string
	Phone string
}

// RemoteLine is one line of a remote quote or invoice. The remote API
// does not echo a client-supplied correlation id for new lines; matching
// back onto local lines goes by description equality in document order.
type RemoteLine struct {
	Ref         string
	Description string
	Quantity    decimal.Decimal
	UnitAmount  decimal.Decimal
	AccountRef  string
	TaxRef      string
	ItemRef     string
}

// RemoteInvoice is the remote ledger's invoice resource
type RemoteInvoice struct {
	Ref        string
	Number     string
	ContactRef string
	Status     RemoteInvoiceStatus
	Currency   string
	Lines      []RemoteLine
	Total      decimal.Decimal
	DueDate    *time.Time
}

// RemoteQuote is the remote ledger's quote resource
type RemoteQuote struct {
	Ref        string
	Number     string
	ContactRef string
	Status     RemoteQuoteStatus
	Currency   string
	Lines      []RemoteLine
	Total      decimal.Decimal
}

// RemoteAccount is a remote chart-of-accounts entry
type RemoteAccount struct {
	Ref      string
	Code     string
	Name     string
	Type     string
	IsActive bool
}

// RemoteTaxRate is a remote tax rate
type RemoteTaxRate struct {
	Ref         string
	TypeName    string
	DisplayName string
	Rate        decimal.Decimal
	IsActive    bool
}

// RemoteItem is a remote catalog item
type RemoteItem struct {
	Ref        string
	Code       string
	Name       string
	UnitAmount decimal.Decimal
	IsActive   bool
}

// RemoteProject is the remote project-tracking sub-resource
type RemoteProject struct {
	Ref        string
	Name       string
	ContactRef string
	Status     string
}

// RemoteLedger is the port to the remote accounting platform. Every
// call is scoped to a tenant and carries a bounded timeout through ctx.
// Update-or-create calls are declarative: the full document with all
// lines is sent every time.
type RemoteLedger interface {
	// Contacts
	GetContact(ctx context.Context, tenantID, ref string) (*RemoteContact, error)
	FindContactByEmail(ctx context.Context, tenantID, email string) (*RemoteContact, error)
	UpsertContact(ctx context.Context, tenantID string, contact *RemoteContact) (*RemoteContact, error)

	// Invoices
	GetInvoice(ctx context.Context, tenantID, ref string) (*RemoteInvoice, error)
	UpsertInvoice(ctx context.Context, tenantID string, invoice *RemoteInvoice) (*RemoteInvoice, error)

	// Quotes
	GetQuote(ctx context.Context, tenantID, ref string) (*RemoteQuote, error)
	UpsertQuote(ctx context.Context, tenantID string, quote *RemoteQuote) (*RemoteQuote, error)

	// Catalog
	GetAccountByCode(ctx context.Context, tenantID, code string) (*RemoteAccount, error)
	ListAccounts(ctx context.Context, tenantID string, activeOnly bool) ([]RemoteAccount, error)
	GetTaxRateByType(ctx context.Context, tenantID, typeName string) (*RemoteTaxRate, error)
	ListTaxRates(ctx context.Context, tenantID string, activeOnly bool) ([]RemoteTaxRate, error)
	GetItemByCode(ctx context.Context, tenantID, code string) (*RemoteItem, error)
	ListItems(ctx context.Context, tenantID string, activeOnly bool) ([]RemoteItem, error)

	// Projects
	UpsertProject(ctx context.Context, tenantID string, project *RemoteProject) (*RemoteProject, error)
}
