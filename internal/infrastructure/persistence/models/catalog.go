package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlink/backend/internal/domain/ledger"
)

// AccountModel caches one remote chart-of-accounts entry. The remote
// account code is the natural primary key.
type AccountModel struct {
	Code        string    `gorm:"type:varchar(50);primary_key"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Type        string    `gorm:"type:varchar(50)"`
	ExternalRef string    `gorm:"type:varchar(100);index"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		Code:        m.Code,
		Name:        m.Name,
		Type:        m.Type,
		ExternalRef: m.ExternalRef,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.ExternalRef = a.ExternalRef
	m.IsActive = a.IsActive
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
}

// TaxRateModel caches one remote tax rate, keyed by tax type name.
type TaxRateModel struct {
	TypeName    string          `gorm:"type:varchar(50);primary_key;column:type_name"`
	DisplayName string          `gorm:"type:varchar(200);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	ExternalRef string          `gorm:"type:varchar(100);index"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TaxRateModel) TableName() string {
	return "tax_rates"
}

// ToDomain converts the persistence model to a domain TaxRate entity.
func (m *TaxRateModel) ToDomain() *ledger.TaxRate {
	return &ledger.TaxRate{
		TypeName:    m.TypeName,
		DisplayName: m.DisplayName,
		Rate:        m.Rate,
		ExternalRef: m.ExternalRef,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain TaxRate entity.
func (m *TaxRateModel) FromDomain(r *ledger.TaxRate) {
	m.TypeName = r.TypeName
	m.DisplayName = r.DisplayName
	m.Rate = r.Rate
	m.ExternalRef = r.ExternalRef
	m.IsActive = r.IsActive
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}

// CatalogItemModel caches one remote catalog item, keyed by item code.
type CatalogItemModel struct {
	Code        string          `gorm:"type:varchar(50);primary_key"`
	Name        string          `gorm:"type:varchar(200);not null"`
	UnitAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExternalRef string          `gorm:"type:varchar(100);index"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CatalogItemModel) TableName() string {
	return "catalog_items"
}

// ToDomain converts the persistence model to a domain CatalogItem entity.
func (m *CatalogItemModel) ToDomain() *ledger.CatalogItem {
	return &ledger.CatalogItem{
		Code:        m.Code,
		Name:        m.Name,
		UnitAmount:  m.UnitAmount,
		ExternalRef: m.ExternalRef,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain CatalogItem entity.
func (m *CatalogItemModel) FromDomain(i *ledger.CatalogItem) {
	m.Code = i.Code
	m.Name = i.Name
	m.UnitAmount = i.UnitAmount
	m.ExternalRef = i.ExternalRef
	m.IsActive = i.IsActive
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}
