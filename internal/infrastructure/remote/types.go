package remote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

// Wire DTOs for the remote ledger API. Field names follow the remote
// platform's JSON contract; mapping to and from domain types happens
// here so the rest of the codebase never sees wire shapes.

type contactDTO struct {
	ContactID    string `json:"contactId,omitempty"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

func (d *contactDTO) toDomain() *sync.RemoteContact {
	return &sync.RemoteContact{
		Ref:   d.ContactID,
		Name:  d.Name,
		Email: d.EmailAddress,
		Phone: d.Phone,
	}
}

func contactFromDomain(c *sync.RemoteContact) *contactDTO {
	return &contactDTO{
		ContactID:    c.Ref,
		Name:         c.Name,
		EmailAddress: c.Email,
		Phone:        c.Phone,
	}
}

type lineDTO struct {
	LineID      string          `json:"lineId,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitAmount  decimal.Decimal `json:"unitAmount"`
	AccountCode string          `json:"accountCode,omitempty"`
	TaxType     string          `json:"taxType,omitempty"`
	ItemCode    string          `json:"itemCode,omitempty"`
}

func (d *lineDTO) toDomain() sync.RemoteLine {
	return sync.RemoteLine{
		Ref:         d.LineID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitAmount:  d.UnitAmount,
		AccountRef:  d.AccountCode,
		TaxRef:      d.TaxType,
		ItemRef:     d.ItemCode,
	}
}

func lineFromDomain(l sync.RemoteLine) lineDTO {
	return lineDTO{
		LineID:      l.Ref,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitAmount:  l.UnitAmount,
		AccountCode: l.AccountRef,
		TaxType:     l.TaxRef,
		ItemCode:    l.ItemRef,
	}
}

func linesToDomain(dtos []lineDTO) []sync.RemoteLine {
	lines := make([]sync.RemoteLine, 0, len(dtos))
	for _, d := range dtos {
		lines = append(lines, d.toDomain())
	}
	return lines
}

func linesFromDomain(lines []sync.RemoteLine) []lineDTO {
	dtos := make([]lineDTO, 0, len(lines))
	for _, l := range lines {
		dtos = append(dtos, lineFromDomain(l))
	}
	return dtos
}

type invoiceDTO struct {
	InvoiceID     string          `json:"invoiceId,omitempty"`
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	ContactID     string          `json:"contactId"`
	Status        string          `json:"status,omitempty"`
	CurrencyCode  string          `json:"currencyCode,omitempty"`
	LineItems     []lineDTO       `json:"lineItems"`
	Total         decimal.Decimal `json:"total,omitempty"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
}

func (d *invoiceDTO) toDomain() *sync.RemoteInvoice {
	return &sync.RemoteInvoice{
		Ref:        d.InvoiceID,
		Number:     d.InvoiceNumber,
		ContactRef: d.ContactID,
		Status:     sync.RemoteInvoiceStatus(d.Status),
		Currency:   d.CurrencyCode,
		Lines:      linesToDomain(d.LineItems),
		Total:      d.Total,
		DueDate:    d.DueDate,
	}
}

func invoiceFromDomain(inv *sync.RemoteInvoice) *invoiceDTO {
	return &invoiceDTO{
		InvoiceID:     inv.Ref,
		InvoiceNumber: inv.Number,
		ContactID:     inv.ContactRef,
		Status:        string(inv.Status),
		CurrencyCode:  inv.Currency,
		LineItems:     linesFromDomain(inv.Lines),
		Total:         inv.Total,
		DueDate:       inv.DueDate,
	}
}

type quoteDTO struct {
	QuoteID      string          `json:"quoteId,omitempty"`
	QuoteNumber  string          `json:"quoteNumber,omitempty"`
	ContactID    string          `json:"contactId"`
	Status       string          `json:"status,omitempty"`
	CurrencyCode string          `json:"currencyCode,omitempty"`
	LineItems    []lineDTO       `json:"lineItems"`
	Total        decimal.Decimal `json:"total,omitempty"`
}

func (d *quoteDTO) toDomain() *sync.RemoteQuote {
	return &sync.RemoteQuote{
		Ref:        d.QuoteID,
		Number:     d.QuoteNumber,
		ContactRef: d.ContactID,
		Status:     sync.RemoteQuoteStatus(d.Status),
		Currency:   d.CurrencyCode,
		Lines:      linesToDomain(d.LineItems),
		Total:      d.Total,
	}
}

func quoteFromDomain(q *sync.RemoteQuote) *quoteDTO {
	return &quoteDTO{
		QuoteID:      q.Ref,
		QuoteNumber:  q.Number,
		ContactID:    q.ContactRef,
		Status:       string(q.Status),
		CurrencyCode: q.Currency,
		LineItems:    linesFromDomain(q.Lines),
		Total:        q.Total,
	}
}

type accountDTO struct {
	AccountID string `json:"accountId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

func (d *accountDTO) toDomain() sync.RemoteAccount {
	return sync.RemoteAccount{
		Ref:      d.AccountID,
		Code:     d.Code,
		Name:     d.Name,
		Type:     d.Type,
		IsActive: d.Status == "ACTIVE",
	}
}

type taxRateDTO struct {
	TaxType       string          `json:"taxType"`
	Name          string          `json:"name"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	Status        string          `json:"status"`
}

func (d *taxRateDTO) toDomain() sync.RemoteTaxRate {
	return sync.RemoteTaxRate{
		Ref:         d.TaxType,
		TypeName:    d.TaxType,
		DisplayName: d.Name,
		Rate:        d.EffectiveRate,
		IsActive:    d.Status == "ACTIVE",
	}
}

type itemDTO struct {
	ItemID     string          `json:"itemId"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	UnitAmount decimal.Decimal `json:"unitAmount"`
	IsActive   bool            `json:"isActive"`
}

func (d *itemDTO) toDomain() sync.RemoteItem {
	return sync.RemoteItem{
		Ref:        d.ItemID,
		Code:       d.Code,
		Name:       d.Name,
		UnitAmount: d.UnitAmount,
		IsActive:   d.IsActive,
	}
}

type projectDTO struct {
	ProjectID string `json:"projectId,omitempty"`
	Name      string `json:"name"`
	ContactID string `json:"contactId"`
	Status    string `json:"status,omitempty"`
}

func (d *projectDTO) toDomain() *sync.RemoteProject {
	return &sync.RemoteProject{
		Ref:        d.ProjectID,
		Name:       d.Name,
		ContactRef: d.ContactID,
		Status:     d.Status,
	}
}

func projectFromDomain(p *sync.RemoteProject) *projectDTO {
	return &projectDTO{
		ProjectID: p.Ref,
		Name:      p.Name,
		ContactID: p.ContactRef,
		Status:    p.Status,
	}
}
