package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerlink/backend/internal/domain/ledger"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	BaseModel
	Name           string `gorm:"type:varchar(200);not null"`
	Email          string `gorm:"type:varchar(200);index"`
	Phone          string `gorm:"type:varchar(50)"`
	AddressLine    string `gorm:"type:varchar(300)"`
	City           string `gorm:"type:varchar(100)"`
	Country        string `gorm:"type:varchar(100)"`
	ExternalRef    string `gorm:"type:varchar(100);index"`
	RemoteTenantID string `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *ledger.Client {
	return &ledger.Client{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		AddressLine:    m.AddressLine,
		City:           m.City,
		Country:        m.Country,
		ExternalRef:    m.ExternalRef,
		RemoteTenantID: m.RemoteTenantID,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *ledger.Client) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.AddressLine = c.AddressLine
	m.City = c.City
	m.Country = c.Country
	m.ExternalRef = c.ExternalRef
	m.RemoteTenantID = c.RemoteTenantID
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *ledger.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// QuotationModel is the persistence model for the Quotation aggregate.
type QuotationModel struct {
	BaseModel
	Number         string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProjectID      *uuid.UUID             `gorm:"type:uuid;index"`
	Status         ledger.QuotationStatus `gorm:"type:varchar(20);not null;default:'created'"`
	Currency       string                 `gorm:"type:varchar(3);not null;default:'EUR'"`
	IssueDate      time.Time              `gorm:"not null"`
	ExternalRef    string                 `gorm:"type:varchar(100);index"`
	RemoteTenantID string                 `gorm:"type:varchar(100);index"`
	Lines          []QuotationLineModel   `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// QuotationLineModel is one persisted quotation line. Position preserves
// the document order the line matcher depends on.
type QuotationLineModel struct {
	BaseModel
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AccountCode string          `gorm:"type:varchar(50)"`
	TaxType     string          `gorm:"type:varchar(50)"`
	ItemCode    string          `gorm:"type:varchar(50)"`
	ExternalRef string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (QuotationLineModel) TableName() string {
	return "quotation_lines"
}

// ToDomain converts the persistence model to a domain Quotation entity.
func (m *QuotationModel) ToDomain() *ledger.Quotation {
	lines := make([]ledger.LineItem, 0, len(m.Lines))
	for i := range m.Lines {
		lm := &m.Lines[i]
		lines = append(lines, ledger.LineItem{
			BaseEntity:  lm.BaseModel.ToDomain(),
			Description: lm.Description,
			Quantity:    lm.Quantity,
			UnitAmount:  lm.UnitAmount,
			AccountCode: lm.AccountCode,
			TaxType:     lm.TaxType,
			ItemCode:    lm.ItemCode,
			ExternalRef: lm.ExternalRef,
		})
	}
	return &ledger.Quotation{
		BaseEntity:     m.BaseModel.ToDomain(),
		Number:         m.Number,
		ClientID:       m.ClientID,
		ProjectID:      m.ProjectID,
		Status:         m.Status,
		Currency:       m.Currency,
		Lines:          lines,
		IssueDate:      m.IssueDate,
		ExternalRef:    m.ExternalRef,
		RemoteTenantID: m.RemoteTenantID,
	}
}

// FromDomain populates the persistence model from a domain Quotation entity.
func (m *QuotationModel) FromDomain(q *ledger.Quotation) {
	m.FromDomainBaseEntity(q.BaseEntity)
	m.Number = q.Number
	m.ClientID = q.ClientID
	m.ProjectID = q.ProjectID
	m.Status = q.Status
	m.Currency = q.Currency
	m.IssueDate = q.IssueDate
	m.ExternalRef = q.ExternalRef
	m.RemoteTenantID = q.RemoteTenantID
	m.Lines = make([]QuotationLineModel, 0, len(q.Lines))
	for i := range q.Lines {
		l := &q.Lines[i]
		lm := QuotationLineModel{
			QuotationID: q.ID,
			Position:    i,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitAmount:  l.UnitAmount,
			AccountCode: l.AccountCode,
			TaxType:     l.TaxType,
			ItemCode:    l.ItemCode,
			ExternalRef: l.ExternalRef,
		}
		lm.FromDomainBaseEntity(l.BaseEntity)
		m.Lines = append(m.Lines, lm)
	}
}

// QuotationModelFromDomain creates a new persistence model from a domain Quotation entity.
func QuotationModelFromDomain(q *ledger.Quotation) *QuotationModel {
	m := &QuotationModel{}
	m.FromDomain(q)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	BaseModel
	Number         string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProjectID      *uuid.UUID           `gorm:"type:uuid;index"`
	Status         ledger.InvoiceStatus `gorm:"type:varchar(20);not null;default:'generated'"`
	Currency       string               `gorm:"type:varchar(3);not null;default:'EUR'"`
	IssueDate      time.Time            `gorm:"not null"`
	DueDate        *time.Time           `gorm:""`
	ExternalRef    string               `gorm:"type:varchar(100);index"`
	RemoteTenantID string               `gorm:"type:varchar(100);index"`
	Lines          []InvoiceLineModel   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is one persisted invoice line
type InvoiceLineModel struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AccountCode string          `gorm:"type:varchar(50)"`
	TaxType     string          `gorm:"type:varchar(50)"`
	ItemCode    string          `gorm:"type:varchar(50)"`
	ExternalRef string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *ledger.Invoice {
	lines := make([]ledger.LineItem, 0, len(m.Lines))
	for i := range m.Lines {
		lm := &m.Lines[i]
		lines = append(lines, ledger.LineItem{
			BaseEntity:  lm.BaseModel.ToDomain(),
			Description: lm.Description,
			Quantity:    lm.Quantity,
			UnitAmount:  lm.UnitAmount,
			AccountCode: lm.AccountCode,
			TaxType:     lm.TaxType,
			ItemCode:    lm.ItemCode,
			ExternalRef: lm.ExternalRef,
		})
	}
	return &ledger.Invoice{
		BaseEntity:     m.BaseModel.ToDomain(),
		Number:         m.Number,
		ClientID:       m.ClientID,
		ProjectID:      m.ProjectID,
		Status:         m.Status,
		Currency:       m.Currency,
		Lines:          lines,
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		ExternalRef:    m.ExternalRef,
		RemoteTenantID: m.RemoteTenantID,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *ledger.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.Number = inv.Number
	m.ClientID = inv.ClientID
	m.ProjectID = inv.ProjectID
	m.Status = inv.Status
	m.Currency = inv.Currency
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.ExternalRef = inv.ExternalRef
	m.RemoteTenantID = inv.RemoteTenantID
	m.Lines = make([]InvoiceLineModel, 0, len(inv.Lines))
	for i := range inv.Lines {
		l := &inv.Lines[i]
		lm := InvoiceLineModel{
			InvoiceID:   inv.ID,
			Position:    i,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitAmount:  l.UnitAmount,
			AccountCode: l.AccountCode,
			TaxType:     l.TaxType,
			ItemCode:    l.ItemCode,
			ExternalRef: l.ExternalRef,
		}
		lm.FromDomainBaseEntity(l.BaseEntity)
		m.Lines = append(m.Lines, lm)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *ledger.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ProjectModel is the persistence model for the Project domain entity.
type ProjectModel struct {
	BaseModel
	Name           string               `gorm:"type:varchar(200);not null"`
	ClientID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status         ledger.ProjectStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ExternalRef    string               `gorm:"type:varchar(100);index"`
	RemoteTenantID string               `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *ledger.Project {
	return &ledger.Project{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		ClientID:       m.ClientID,
		Status:         m.Status,
		ExternalRef:    m.ExternalRef,
		RemoteTenantID: m.RemoteTenantID,
	}
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *ledger.Project) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.ClientID = p.ClientID
	m.Status = p.Status
	m.ExternalRef = p.ExternalRef
	m.RemoteTenantID = p.RemoteTenantID
}

// ProjectModelFromDomain creates a new persistence model from a domain Project entity.
func ProjectModelFromDomain(p *ledger.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}
