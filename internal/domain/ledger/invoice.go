package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerlink/backend/internal/domain/shared"
)

// InvoiceStatus is the closed status enumeration for invoices
type InvoiceStatus string

const (
	InvoiceStatusGenerated InvoiceStatus = "generated"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCanceled  InvoiceStatus = "canceled"
)

// AllInvoiceStatuses returns every member of the enumeration
func AllInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceStatusGenerated,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusCanceled,
	}
}

// IsValid reports whether the status is a member of the enumeration
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusGenerated, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCanceled:
		return true
	}
	return false
}

// Invoice is a local invoice document
type Invoice struct {
	shared.BaseEntity
	Number         string
	ClientID       uuid.UUID
	ProjectID      *uuid.UUID
	Status         InvoiceStatus
	Currency       string
	Lines          []LineItem
	IssueDate      time.Time
	DueDate        *time.Time
	ExternalRef    string
	RemoteTenantID string
}

// NewInvoice creates a new invoice in the generated status
func NewInvoice(number string, clientID uuid.UUID) (*Invoice, error) {
	if number == "" {
		return nil, ErrDocumentNumberRequired
	}
	if clientID == uuid.Nil {
		return nil, ErrDocumentClientRequired
	}
	base := shared.NewBaseEntity()
	return &Invoice{
		BaseEntity: base,
		Number:     number,
		ClientID:   clientID,
		Status:     InvoiceStatusGenerated,
		Currency:   "EUR",
		Lines:      make([]LineItem, 0),
		IssueDate:  base.CreatedAt,
	}, nil
}

// AddLine appends a line item to the invoice
func (i *Invoice) AddLine(line LineItem) {
	i.Lines = append(i.Lines, line)
	i.UpdatedAt = time.Now()
}

// Total returns the sum of all line amounts
func (i *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for idx := range i.Lines {
		total = total.Add(i.Lines[idx].Amount())
	}
	return total
}

// SetStatus transitions the invoice status
func (i *Invoice) SetStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return ErrInvalidInvoiceStatus
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}

// LinkRemote records the remote reference and owning tenant
func (i *Invoice) LinkRemote(tenantID, externalRef string) {
	i.RemoteTenantID = tenantID
	i.ExternalRef = externalRef
	i.UpdatedAt = time.Now()
}

// ClearRemoteRef drops a stale remote pointer (remote object was deleted)
func (i *Invoice) ClearRemoteRef() {
	i.ExternalRef = ""
	i.UpdatedAt = time.Now()
}
