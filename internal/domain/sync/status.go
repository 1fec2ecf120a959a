package sync

import "github.com/ledgerlink/backend/internal/domain/ledger"

// Status translation tables. The localToRemote direction is total over
// the local enumerations; the remote enumerations are finer-grained and
// collapse onto fewer local states, so the inverse is not injective.
// Unknown codes are rejected with a decode error, never defaulted.

// QuotationStatusToRemote maps a local quotation status to the remote
// quote status. Total and pure: every member of the local enumeration
// maps to exactly one remote code.
func QuotationStatusToRemote(s ledger.QuotationStatus) (RemoteQuoteStatus, error) {
	switch s {
	case ledger.QuotationStatusCreated:
		return RemoteQuoteStatusDraft, nil
	case ledger.QuotationStatusSubmitted:
		return RemoteQuoteStatusSent, nil
	case ledger.QuotationStatusConfirmed:
		return RemoteQuoteStatusAccepted, nil
	case ledger.QuotationStatusRejected:
		return RemoteQuoteStatusDeclined, nil
	case ledger.QuotationStatusRevised:
		// revised collapses onto DECLINED; the inverse resolves DECLINED
		// to rejected, so revised does not round-trip.
		return RemoteQuoteStatusDeclined, nil
	case ledger.QuotationStatusInvoiced:
		return RemoteQuoteStatusInvoiced, nil
	}
	return "", ErrUnknownLocalStatus
}

// QuotationStatusFromRemote maps a remote quote status to the local
// quotation status. DELETED has no local quotation state and is handled
// by the caller as a stale-pointer signal.
func QuotationStatusFromRemote(s RemoteQuoteStatus) (ledger.QuotationStatus, error) {
	switch s {
	case RemoteQuoteStatusDraft:
		return ledger.QuotationStatusCreated, nil
	case RemoteQuoteStatusSent:
		return ledger.QuotationStatusSubmitted, nil
	case RemoteQuoteStatusAccepted:
		return ledger.QuotationStatusConfirmed, nil
	case RemoteQuoteStatusDeclined:
		return ledger.QuotationStatusRejected, nil
	case RemoteQuoteStatusInvoiced:
		return ledger.QuotationStatusInvoiced, nil
	}
	return "", ErrUnknownRemoteStatus
}

// ProjectStatusToRemote maps a local project status to the remote
// project-tracking status. The remote side only distinguishes open and
// closed projects, so active and on_hold both map to INPROGRESS.
func ProjectStatusToRemote(s ledger.ProjectStatus) (string, error) {
	switch s {
	case ledger.ProjectStatusActive, ledger.ProjectStatusOnHold:
		return "INPROGRESS", nil
	case ledger.ProjectStatusCompleted:
		return "CLOSED", nil
	}
	return "", ErrUnknownLocalStatus
}

// InvoiceStatusToRemote maps a local invoice status to the remote
// invoice status. Total and pure.
func InvoiceStatusToRemote(s ledger.InvoiceStatus) (RemoteInvoiceStatus, error) {
	switch s {
	case ledger.InvoiceStatusGenerated:
		return RemoteInvoiceStatusDraft, nil
	case ledger.InvoiceStatusSent:
		return RemoteInvoiceStatusSubmitted, nil
	case ledger.InvoiceStatusPaid:
		return RemoteInvoiceStatusPaid, nil
	case ledger.InvoiceStatusCanceled:
		return RemoteInvoiceStatusVoided, nil
	}
	return "", ErrUnknownLocalStatus
}

// InvoiceStatusFromRemote maps a remote invoice status to the local
// invoice status. SUBMITTED and AUTHORISED both collapse onto sent;
// DELETED and VOIDED both collapse onto canceled.
func InvoiceStatusFromRemote(s RemoteInvoiceStatus) (ledger.InvoiceStatus, error) {
	switch s {
	case RemoteInvoiceStatusDraft:
		return ledger.InvoiceStatusGenerated, nil
	case RemoteInvoiceStatusSubmitted, RemoteInvoiceStatusAuthorised:
		return ledger.InvoiceStatusSent, nil
	case RemoteInvoiceStatusPaid:
		return ledger.InvoiceStatusPaid, nil
	case RemoteInvoiceStatusVoided, RemoteInvoiceStatusDeleted:
		return ledger.InvoiceStatusCanceled, nil
	}
	return "", ErrUnknownRemoteStatus
}
