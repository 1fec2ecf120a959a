package sync

import (
	"github.com/google/uuid"

	"github.com/ledgerlink/backend/internal/domain/shared"
)

// Event types emitted by the sync context
const (
	EventTypeProjectAutoResumeRequested = "sync.project_auto_resume_requested"
)

// ProjectAutoResumeRequested is emitted when an inbound webhook marks an
// invoice as paid while its owning project is on hold. The project
// module consumes it; this context only announces the fact.
type ProjectAutoResumeRequested struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Reason    string    `json:"reason"`
}

// NewProjectAutoResumeRequested creates the auto-resume event
func NewProjectAutoResumeRequested(projectID, invoiceID uuid.UUID, reason string) *ProjectAutoResumeRequested {
	return &ProjectAutoResumeRequested{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectAutoResumeRequested, "project", projectID),
		ProjectID:       projectID,
		InvoiceID:       invoiceID,
		Reason:          reason,
	}
}
