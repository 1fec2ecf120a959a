package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/shared"
	"github.com/ledgerlink/backend/internal/domain/sync"
)

// ProjectResumeHandler consumes the auto-resume notification and moves
// the on-hold project back to active. Registered on the in-process
// event bus at startup.
type ProjectResumeHandler struct {
	projectRepo ledger.ProjectRepository
	logger      *zap.Logger
}

var _ shared.EventHandler = (*ProjectResumeHandler)(nil)

// NewProjectResumeHandler creates a new ProjectResumeHandler
func NewProjectResumeHandler(projectRepo ledger.ProjectRepository, logger *zap.Logger) *ProjectResumeHandler {
	return &ProjectResumeHandler{projectRepo: projectRepo, logger: logger}
}

// EventTypes returns the subscribed event types
func (h *ProjectResumeHandler) EventTypes() []string {
	return []string{sync.EventTypeProjectAutoResumeRequested}
}

// Handle resumes the project named by the event
func (h *ProjectResumeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	resume, ok := event.(*sync.ProjectAutoResumeRequested)
	if !ok {
		return nil
	}

	project, err := h.projectRepo.FindByID(ctx, resume.ProjectID)
	if err != nil {
		return err
	}
	if !project.IsOnHold() {
		return nil
	}

	project.Resume()
	if err := h.projectRepo.Save(ctx, project); err != nil {
		return err
	}

	h.logger.Info("project auto-resumed",
		zap.String("project_id", resume.ProjectID.String()),
		zap.String("invoice_id", resume.InvoiceID.String()),
		zap.String("reason", resume.Reason))
	return nil
}
