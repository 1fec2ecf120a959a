package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outbound job names as they appear on the queue
const (
	JobSyncContact           = "syncContact"
	JobSyncInvoice           = "syncInvoice"
	JobSyncQuotation         = "syncQuotation"
	JobSyncProject           = "syncProject"
	JobUpdateInvoiceStatus   = "updateInvoiceStatus"
	JobUpdateQuotationStatus = "updateQuotationStatus"
)

// JobPayload is the envelope every outbound job carries: the local
// entity's primary key plus the conflict override flag.
type JobPayload struct {
	ID    uuid.UUID `json:"id"`
	Force bool      `json:"force,omitempty"`
}

// JobDispatcher routes named queue jobs to the outbound sync service.
// A returned error means the job failed; the queue consumer owns the
// log-and-ack versus requeue decision.
type JobDispatcher struct {
	outbound *OutboundSyncService
	logger   *zap.Logger
}

// NewJobDispatcher creates a new JobDispatcher
func NewJobDispatcher(outbound *OutboundSyncService, logger *zap.Logger) *JobDispatcher {
	return &JobDispatcher{outbound: outbound, logger: logger}
}

// Dispatch executes one named job
func (d *JobDispatcher) Dispatch(ctx context.Context, jobName string, body []byte) error {
	var payload JobPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode job payload: %w", err)
	}
	if payload.ID == uuid.Nil {
		return fmt.Errorf("job %s carries no entity id", jobName)
	}

	d.logger.Debug("dispatching sync job",
		zap.String("job", jobName),
		zap.String("entity_id", payload.ID.String()))

	switch jobName {
	case JobSyncContact:
		return d.outbound.SyncContact(ctx, payload.ID)
	case JobSyncInvoice:
		return d.outbound.SyncInvoice(ctx, payload.ID, payload.Force)
	case JobSyncQuotation:
		return d.outbound.SyncQuotation(ctx, payload.ID, payload.Force)
	case JobSyncProject:
		return d.outbound.SyncProject(ctx, payload.ID)
	case JobUpdateInvoiceStatus:
		return d.outbound.UpdateInvoiceStatus(ctx, payload.ID)
	case JobUpdateQuotationStatus:
		return d.outbound.UpdateQuotationStatus(ctx, payload.ID)
	default:
		return fmt.Errorf("unknown job name: %s", jobName)
	}
}
