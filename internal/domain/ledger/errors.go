package ledger

import "github.com/ledgerlink/backend/internal/domain/shared"

// Ledger domain errors
var (
	ErrClientNotFound          = shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	ErrClientNameRequired      = shared.NewDomainError("CLIENT_NAME_REQUIRED", "Client name is required")
	ErrQuotationNotFound       = shared.NewDomainError("QUOTATION_NOT_FOUND", "Quotation not found")
	ErrInvoiceNotFound         = shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
	ErrProjectNotFound         = shared.NewDomainError("PROJECT_NOT_FOUND", "Project not found")
	ErrProjectNameRequired     = shared.NewDomainError("PROJECT_NAME_REQUIRED", "Project name is required")
	ErrDocumentNumberRequired  = shared.NewDomainError("DOCUMENT_NUMBER_REQUIRED", "Document number is required")
	ErrDocumentClientRequired  = shared.NewDomainError("DOCUMENT_CLIENT_REQUIRED", "Document requires a client")
	ErrInvalidInvoiceStatus    = shared.NewDomainError("INVALID_INVOICE_STATUS", "Invalid invoice status")
	ErrInvalidQuotationStatus  = shared.NewDomainError("INVALID_QUOTATION_STATUS", "Invalid quotation status")
	ErrLineDescriptionRequired = shared.NewDomainError("LINE_DESCRIPTION_REQUIRED", "Line item description is required")
	ErrLineInvalidQuantity     = shared.NewDomainError("LINE_INVALID_QUANTITY", "Line item quantity cannot be negative")
	ErrAccountNotFound         = shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
	ErrTaxRateNotFound         = shared.NewDomainError("TAX_RATE_NOT_FOUND", "Tax rate not found")
	ErrCatalogItemNotFound     = shared.NewDomainError("CATALOG_ITEM_NOT_FOUND", "Catalog item not found")
)
