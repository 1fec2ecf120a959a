package sync

// EventCategory identifies which remote resource kind a webhook event
// refers to
type EventCategory string

const (
	EventCategoryContact   EventCategory = "CONTACT"
	EventCategoryInvoice   EventCategory = "INVOICE"
	EventCategoryQuotation EventCategory = "QUOTATION"
)

// IsValid reports whether the category is a member of the enumeration
func (c EventCategory) IsValid() bool {
	switch c {
	case EventCategoryContact, EventCategoryInvoice, EventCategoryQuotation:
		return true
	}
	return false
}

// EventType identifies what happened to the remote resource
type EventType string

const (
	EventTypeCreate EventType = "CREATE"
	EventTypeUpdate EventType = "UPDATE"
	EventTypeDelete EventType = "DELETE"
)

// IsValid reports whether the event type is a member of the enumeration
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeCreate, EventTypeUpdate, EventTypeDelete:
		return true
	}
	return false
}

// WebhookEvent is one remote change notification. Events arrive in
// batches inside a signed envelope, are deduplicated against the echo
// suppression set, resolved into a full remote fetch and applied; the
// event itself is never persisted.
type WebhookEvent struct {
	ResourceID string
	TenantID   string
	Category   EventCategory
	Type       EventType
}

// Validate rejects unknown enumeration members at the boundary
func (e *WebhookEvent) Validate() error {
	if !e.Category.IsValid() {
		return ErrWebhookInvalidCategory
	}
	if !e.Type.IsValid() {
		return ErrWebhookInvalidType
	}
	return nil
}
