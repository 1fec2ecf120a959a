package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

// WebhookEnvelope is the signed batch the remote platform POSTs to the
// webhook endpoint. The signature covers the raw body, so the envelope
// is decoded only after the HMAC check passed.
type WebhookEnvelope struct {
	// An empty batch is valid: the platform probes the endpoint with
	// zero-event envelopes to verify the subscription
	Events             []WebhookEventDTO `json:"events" validate:"dive"`
	FirstEventSequence int64             `json:"firstEventSequence"`
	LastEventSequence  int64             `json:"lastEventSequence"`
	Entropy            string            `json:"entropy"`
}

// WebhookEventDTO is one change notification inside the envelope
type WebhookEventDTO struct {
	ResourceID    string `json:"resourceId" validate:"required"`
	TenantID      string `json:"tenantId" validate:"required"`
	EventCategory string `json:"eventCategory" validate:"required,oneof=CONTACT INVOICE QUOTATION"`
	EventType     string `json:"eventType" validate:"required,oneof=CREATE UPDATE DELETE"`
}

var validate = validator.New()

// Validate checks the envelope against the enum and presence rules
func (e *WebhookEnvelope) Validate() error {
	return validate.Struct(e)
}

// ToDomain converts the envelope's events to domain webhook events
func (e *WebhookEnvelope) ToDomain() []sync.WebhookEvent {
	events := make([]sync.WebhookEvent, 0, len(e.Events))
	for _, dto := range e.Events {
		events = append(events, sync.WebhookEvent{
			ResourceID: dto.ResourceID,
			TenantID:   dto.TenantID,
			Category:   sync.EventCategory(dto.EventCategory),
			Type:       sync.EventType(dto.EventType),
		})
	}
	return events
}
