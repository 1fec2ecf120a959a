package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a locally cached chart-of-accounts entry, keyed by the
// remote ledger's account code.
type Account struct {
	Code        string
	Name        string
	Type        string
	ExternalRef string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaxRate is a locally cached tax rate, keyed by the remote ledger's
// tax type name.
type TaxRate struct {
	TypeName    string
	DisplayName string
	Rate        decimal.Decimal
	ExternalRef string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CatalogItem is a locally cached catalog item (product/service),
// keyed by the remote ledger's item code.
type CatalogItem struct {
	Code        string
	Name        string
	UnitAmount  decimal.Decimal
	ExternalRef string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
