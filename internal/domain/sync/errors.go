package sync

import "github.com/ledgerlink/backend/internal/domain/shared"

// Sync domain errors. ErrRemoteUnavailable and ErrRemoteRateLimited are
// recoverable at the job boundary; the rest abort the current operation.
var (
	// ErrUnauthenticated means no usable access or refresh token exists;
	// the operator must re-consent before any remote call can succeed.
	ErrUnauthenticated = shared.NewDomainError("UNAUTHENTICATED", "No valid remote session; re-authorization required")
	// ErrSignatureMismatch rejects an inbound webhook whose HMAC does not
	// match the raw body.
	ErrSignatureMismatch = shared.NewDomainError("SIGNATURE_MISMATCH", "Webhook signature verification failed")
	// ErrRemoteConflict signals a document number already linked to a
	// different external reference; callers may retry with Force.
	ErrRemoteConflict = shared.NewDomainError("REMOTE_CONFLICT", "Remote resource conflicts with an existing reference")
	// ErrRemoteUnavailable covers network failures, timeouts and 5xx.
	ErrRemoteUnavailable = shared.NewDomainError("REMOTE_UNAVAILABLE", "Remote ledger is unavailable")
	// ErrRemoteRateLimited is returned on 429 from the remote ledger.
	ErrRemoteRateLimited = shared.NewDomainError("REMOTE_RATE_LIMITED", "Remote ledger rate limit exceeded")
	// ErrRemoteInvalidResponse means the remote payload could not be decoded.
	ErrRemoteInvalidResponse = shared.NewDomainError("REMOTE_INVALID_RESPONSE", "Remote ledger returned an unparseable response")
	// ErrRemoteRequestFailed covers remaining 4xx rejections from the remote ledger.
	ErrRemoteRequestFailed = shared.NewDomainError("REMOTE_REQUEST_FAILED", "Remote ledger rejected the request")
	// ErrResolutionFailed means a required reference (e.g. the bill-to
	// contact) could not be resolved; the single document's sync aborts.
	ErrResolutionFailed = shared.NewDomainError("RESOLUTION_FAILED", "Required remote reference could not be resolved")
	// ErrRemoteNotFound is returned when the remote object does not exist.
	ErrRemoteNotFound = shared.NewDomainError("REMOTE_NOT_FOUND", "Remote resource not found")

	ErrLinkNotFound          = shared.NewDomainError("LINK_NOT_FOUND", "External identity link not found")
	ErrLinkInvalidTenant     = shared.NewDomainError("LINK_INVALID_TENANT", "Identity link requires a tenant id")
	ErrLinkInvalidEntityType = shared.NewDomainError("LINK_INVALID_ENTITY_TYPE", "Identity link requires a valid entity type")
	ErrLinkInvalidLocalID    = shared.NewDomainError("LINK_INVALID_LOCAL_ID", "Identity link requires a local entity id")
	ErrLinkInvalidExternal   = shared.NewDomainError("LINK_INVALID_EXTERNAL_REF", "Identity link requires an external reference")

	ErrUnknownLocalStatus  = shared.NewDomainError("UNKNOWN_LOCAL_STATUS", "Local status code is not a member of the enumeration")
	ErrUnknownRemoteStatus = shared.NewDomainError("UNKNOWN_REMOTE_STATUS", "Remote status code is not a member of the enumeration")

	ErrWebhookInvalidCategory = shared.NewDomainError("WEBHOOK_INVALID_CATEGORY", "Webhook event category is not recognized")
	ErrWebhookInvalidType     = shared.NewDomainError("WEBHOOK_INVALID_TYPE", "Webhook event type is not recognized")
)
