package sync

import (
	"context"
	"errors"
	gosync "sync"

	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/shared"
	"github.com/ledgerlink/backend/internal/domain/sync"
)

// InboundSyncService applies remote change notifications to the local
// ledger. Events are processed concurrently under a bounded worker pool
// and independently: one event's failure is logged, never propagated to
// its siblings.
type InboundSyncService struct {
	clientRepo  ledger.ClientRepository
	invoiceRepo ledger.InvoiceRepository
	projectRepo ledger.ProjectRepository
	linkRepo    sync.ExternalLinkRepository
	remote      sync.RemoteLedger
	echo        sync.EchoSuppressor
	publisher   shared.EventPublisher
	workers     int
	logger      *zap.Logger
}

// NewInboundSyncService creates a new InboundSyncService
func NewInboundSyncService(
	clientRepo ledger.ClientRepository,
	invoiceRepo ledger.InvoiceRepository,
	projectRepo ledger.ProjectRepository,
	linkRepo sync.ExternalLinkRepository,
	remote sync.RemoteLedger,
	echo sync.EchoSuppressor,
	publisher shared.EventPublisher,
	workers int,
	logger *zap.Logger,
) *InboundSyncService {
	if workers <= 0 {
		workers = 1
	}
	return &InboundSyncService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		linkRepo:    linkRepo,
		remote:      remote,
		echo:        echo,
		publisher:   publisher,
		workers:     workers,
		logger:      logger,
	}
}

// ProcessEvents fans a webhook batch out over the worker pool. At most
// `workers` fetch+apply operations are in flight at once, keeping the
// inbound path inside the remote API's rate limits.
func (s *InboundSyncService) ProcessEvents(ctx context.Context, events []sync.WebhookEvent) {
	sem := make(chan struct{}, s.workers)
	var wg gosync.WaitGroup

	for i := range events {
		event := events[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := s.processEvent(ctx, event); err != nil {
				s.logger.Error("webhook event processing failed",
					zap.String("resource_id", event.ResourceID),
					zap.String("category", string(event.Category)),
					zap.String("type", string(event.Type)),
					zap.Error(err))
			}
		}()
	}
	wg.Wait()
}

// processEvent applies a single webhook event
func (s *InboundSyncService) processEvent(ctx context.Context, event sync.WebhookEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	suppressed, err := s.echo.IsSuppressed(ctx, event.ResourceID, event.Category)
	if err != nil {
		return err
	}
	if suppressed {
		s.logger.Debug("discarding self-echo webhook",
			zap.String("resource_id", event.ResourceID),
			zap.String("category", string(event.Category)))
		return nil
	}

	switch event.Category {
	case sync.EventCategoryContact:
		return s.applyContact(ctx, event)
	case sync.EventCategoryInvoice:
		return s.applyInvoice(ctx, event)
	default:
		s.logger.Info("unhandled webhook category",
			zap.String("category", string(event.Category)),
			zap.String("resource_id", event.ResourceID))
		return nil
	}
}

// applyContact upserts the local client for a remote contact change.
// The local record is found by external reference first, then by exact
// email; if neither matches a new client is created.
func (s *InboundSyncService) applyContact(ctx context.Context, event sync.WebhookEvent) error {
	contact, err := s.remote.GetContact(ctx, event.TenantID, event.ResourceID)
	if err != nil {
		return err
	}

	client, err := s.clientRepo.FindByExternalRef(ctx, event.TenantID, contact.Ref)
	if errors.Is(err, shared.ErrNotFound) && contact.Email != "" {
		client, err = s.clientRepo.FindByEmail(ctx, contact.Email)
	}
	switch {
	case err == nil:
		client.Name = contact.Name
		client.Email = contact.Email
		client.Phone = contact.Phone
	case errors.Is(err, shared.ErrNotFound):
		client, err = ledger.NewClient(contact.Name, contact.Email, contact.Phone)
		if err != nil {
			return err
		}
	default:
		return err
	}

	client.LinkRemote(event.TenantID, contact.Ref)
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return err
	}
	return s.saveLink(ctx, event.TenantID, sync.EntityTypeClient, client, contact.Ref)
}

// applyInvoice reconciles a remote invoice change onto the local
// invoice: status translation, line matching and line-level reference
// fill-in. A paid invoice whose owning project is on hold triggers the
// auto-resume notification.
func (s *InboundSyncService) applyInvoice(ctx context.Context, event sync.WebhookEvent) error {
	remote, err := s.remote.GetInvoice(ctx, event.TenantID, event.ResourceID)
	if err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.FindByExternalRef(ctx, event.TenantID, remote.Ref)
	if errors.Is(err, shared.ErrNotFound) {
		// Remote-only invoice; nothing local to reconcile against
		s.logger.Info("inbound invoice has no local counterpart",
			zap.String("external_ref", remote.Ref),
			zap.String("tenant_id", event.TenantID))
		return nil
	}
	if err != nil {
		return err
	}

	newStatus, err := sync.InvoiceStatusFromRemote(remote.Status)
	if err != nil {
		return err
	}
	prevStatus := invoice.Status
	if prevStatus != newStatus {
		if err := invoice.SetStatus(newStatus); err != nil {
			return err
		}
	}

	MatchLines(invoice.Lines, remote.Lines)
	s.fillLineReferences(invoice.Lines, remote.Lines)

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return err
	}

	if newStatus == ledger.InvoiceStatusPaid && prevStatus != ledger.InvoiceStatusPaid {
		s.notifyPaid(ctx, invoice)
	}
	return nil
}

// fillLineReferences carries remote account/tax/item keys onto the
// matching local lines, the inverse of the outbound per-line resolution
func (s *InboundSyncService) fillLineReferences(local []ledger.LineItem, remote []sync.RemoteLine) {
	byRef := make(map[string]*sync.RemoteLine, len(remote))
	for i := range remote {
		if remote[i].Ref != "" {
			byRef[remote[i].Ref] = &remote[i]
		}
	}
	for i := range local {
		r, ok := byRef[local[i].ExternalRef]
		if !ok {
			continue
		}
		if r.AccountRef != "" {
			local[i].AccountCode = r.AccountRef
		}
		if r.TaxRef != "" {
			local[i].TaxType = r.TaxRef
		}
		if r.ItemRef != "" {
			local[i].ItemCode = r.ItemRef
		}
	}
}

// notifyPaid emits the project auto-resume notification when the paid
// invoice belongs to an on-hold project
func (s *InboundSyncService) notifyPaid(ctx context.Context, invoice *ledger.Invoice) {
	if invoice.ProjectID == nil {
		return
	}
	project, err := s.projectRepo.FindByID(ctx, *invoice.ProjectID)
	if err != nil {
		s.logger.Warn("failed to load project for paid invoice",
			zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
		return
	}
	if !project.IsOnHold() {
		return
	}
	event := sync.NewProjectAutoResumeRequested(project.ID, invoice.ID, "invoice paid remotely")
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish auto-resume event",
			zap.String("project_id", project.ID.String()), zap.Error(err))
	}
}

// saveLink upserts the identity link established by an inbound event
func (s *InboundSyncService) saveLink(ctx context.Context, tenantID string, entityType sync.EntityType, client *ledger.Client, externalRef string) error {
	link, err := s.linkRepo.FindByLocal(ctx, tenantID, entityType, client.ID)
	switch {
	case err == nil:
		if link.ExternalRef != externalRef {
			if err := link.Supersede(externalRef); err != nil {
				return err
			}
		}
	case errors.Is(err, sync.ErrLinkNotFound):
		link, err = sync.NewExternalLink(tenantID, entityType, client.ID, externalRef)
		if err != nil {
			return err
		}
	default:
		return err
	}
	link.MarkSynced()
	return s.linkRepo.Save(ctx, link)
}
