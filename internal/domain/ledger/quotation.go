package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerlink/backend/internal/domain/shared"
)

// QuotationStatus is the closed status enumeration for quotations
type QuotationStatus string

const (
	QuotationStatusCreated   QuotationStatus = "created"
	QuotationStatusSubmitted QuotationStatus = "submitted"
	QuotationStatusConfirmed QuotationStatus = "confirmed"
	QuotationStatusRejected  QuotationStatus = "rejected"
	QuotationStatusRevised   QuotationStatus = "revised"
	QuotationStatusInvoiced  QuotationStatus = "invoiced"
)

// AllQuotationStatuses returns every member of the enumeration
func AllQuotationStatuses() []QuotationStatus {
	return []QuotationStatus{
		QuotationStatusCreated,
		QuotationStatusSubmitted,
		QuotationStatusConfirmed,
		QuotationStatusRejected,
		QuotationStatusRevised,
		QuotationStatusInvoiced,
	}
}

// IsValid reports whether the status is a member of the enumeration
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusCreated, QuotationStatusSubmitted, QuotationStatusConfirmed,
		QuotationStatusRejected, QuotationStatusRevised, QuotationStatusInvoiced:
		return true
	}
	return false
}

// Quotation is a local quotation document
type Quotation struct {
	shared.BaseEntity
	Number    string
	ClientID  uuid.UUID
	ProjectID *uuid.UUID
	Status    QuotationStatus
	Currency  string
	Lines     []LineItem
	IssueDate time.Time
	// ExternalRef and RemoteTenantID denormalize the owning tenant's
	// identity link onto the document itself.
	ExternalRef    string
	RemoteTenantID string
}

// NewQuotation creates a new quotation in the created status
func NewQuotation(number string, clientID uuid.UUID) (*Quotation, error) {
	if number == "" {
		return nil, ErrDocumentNumberRequired
	}
	if clientID == uuid.Nil {
		return nil, ErrDocumentClientRequired
	}
	base := shared.NewBaseEntity()
	return &Quotation{
		BaseEntity: base,
		Number:     number,
		ClientID:   clientID,
		Status:     QuotationStatusCreated,
		Currency:   "EUR",
		Lines:      make([]LineItem, 0),
		IssueDate:  base.CreatedAt,
	}, nil
}

// AddLine appends a line item to the quotation
func (q *Quotation) AddLine(line LineItem) {
	q.Lines = append(q.Lines, line)
	q.UpdatedAt = time.Now()
}

// Total returns the sum of all line amounts
func (q *Quotation) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range q.Lines {
		total = total.Add(q.Lines[i].Amount())
	}
	return total
}

// LinkRemote records the remote reference and owning tenant
func (q *Quotation) LinkRemote(tenantID, externalRef string) {
	q.RemoteTenantID = tenantID
	q.ExternalRef = externalRef
	q.UpdatedAt = time.Now()
}

// ClearRemoteRef drops a stale remote pointer (remote object was deleted)
func (q *Quotation) ClearRemoteRef() {
	q.ExternalRef = ""
	q.UpdatedAt = time.Now()
}
