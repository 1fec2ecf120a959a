// Package sync contains the remote-ledger synchronization bounded context.
// This context keeps the local business ledger and the remote accounting
// platform eventually consistent in both directions.
//
// Key concepts:
//   - RemoteLedger: Port interface for the remote accounting platform's REST API
//   - ExternalLink: Entity mapping a local record to its remote id per tenant
//   - WebhookEvent: Value object for inbound remote change notifications
//   - EchoSuppressor: Port for discarding webhooks caused by our own writes
//   - Status translation: pure mapping between local and remote status codes
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package sync
