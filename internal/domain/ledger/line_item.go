package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerlink/backend/internal/domain/shared"
)

// LineItem is one row of a quotation or invoice document. AccountCode,
// TaxType and ItemCode are the remote ledger's natural keys; they are
// resolved into remote references at push time and a missing code only
// drops that field, never the line.
type LineItem struct {
	shared.BaseEntity
	Description string
	Quantity    decimal.Decimal
	UnitAmount  decimal.Decimal
	AccountCode string
	TaxType     string
	ItemCode    string
	// ExternalRef is the remote line id. Empty means the line has never
	// been pushed; after a successful push every line carries one.
	ExternalRef string
}

// NewLineItem creates a new line item
func NewLineItem(description string, quantity, unitAmount decimal.Decimal) (*LineItem, error) {
	if description == "" {
		return nil, ErrLineDescriptionRequired
	}
	if quantity.IsNegative() {
		return nil, ErrLineInvalidQuantity
	}
	return &LineItem{
		BaseEntity:  shared.NewBaseEntity(),
		Description: description,
		Quantity:    quantity,
		UnitAmount:  unitAmount,
	}, nil
}

// Amount returns quantity * unit amount
func (l *LineItem) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitAmount)
}

// IsLinked reports whether the line already carries a remote line id
func (l *LineItem) IsLinked() bool {
	return l.ExternalRef != ""
}
