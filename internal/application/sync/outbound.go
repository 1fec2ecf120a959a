package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/sync"
)

// OutboundSyncService pushes local documents to the remote ledger. The
// upsert routines are structurally identical per entity: resolve the
// tenant, pre-fetch the remote object for the status no-op guard and
// stale-pointer detection, resolve references, push the full document,
// register echo suppression, persist links and line ids.
//
// Failures are returned to the job boundary, which logs and swallows
// them; the business transaction that changed the local record has
// already committed and the queue's retry policy governs resumption.
type OutboundSyncService struct {
	invoiceRepo   ledger.InvoiceRepository
	quotationRepo ledger.QuotationRepository
	clientRepo    ledger.ClientRepository
	projectRepo   ledger.ProjectRepository
	linkRepo      sync.ExternalLinkRepository
	resolver      *Resolver
	remote        sync.RemoteLedger
	echo          sync.EchoSuppressor
	echoTTL       time.Duration
	logger        *zap.Logger
}

// NewOutboundSyncService creates a new OutboundSyncService
func NewOutboundSyncService(
	invoiceRepo ledger.InvoiceRepository,
	quotationRepo ledger.QuotationRepository,
	clientRepo ledger.ClientRepository,
	projectRepo ledger.ProjectRepository,
	linkRepo sync.ExternalLinkRepository,
	resolver *Resolver,
	remote sync.RemoteLedger,
	echo sync.EchoSuppressor,
	echoTTL time.Duration,
	logger *zap.Logger,
) *OutboundSyncService {
	return &OutboundSyncService{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
		clientRepo:    clientRepo,
		projectRepo:   projectRepo,
		linkRepo:      linkRepo,
		resolver:      resolver,
		remote:        remote,
		echo:          echo,
		echoTTL:       echoTTL,
		logger:        logger,
	}
}

// resolveTenant determines which remote tenant owns an entity: the
// entity's own tenant if set, else the parent project's. An empty
// result means the entity is not connected to any remote account yet
// and its sync is a silent no-op.
func (s *OutboundSyncService) resolveTenant(ctx context.Context, own string, projectID *uuid.UUID) (string, error) {
	if own != "" {
		return own, nil
	}
	if projectID == nil {
		return "", nil
	}
	project, err := s.projectRepo.FindByID(ctx, *projectID)
	if err != nil {
		return "", err
	}
	return project.RemoteTenantID, nil
}

// buildRemoteLines converts local lines to remote lines, resolving the
// account, tax and item codes per line. An unresolvable code drops that
// field from the line; the line itself is always pushed.
func (s *OutboundSyncService) buildRemoteLines(ctx context.Context, tenantID string, lines []ledger.LineItem) []sync.RemoteLine {
	out := make([]sync.RemoteLine, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		remote := sync.RemoteLine{
			Ref:         l.ExternalRef,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitAmount:  l.UnitAmount,
		}
		if l.AccountCode != "" {
			if _, err := s.resolver.ResolveAccount(ctx, tenantID, l.AccountCode); err != nil {
				s.logger.Warn("unresolvable account code dropped from line",
					zap.String("account_code", l.AccountCode), zap.Error(err))
			} else {
				remote.AccountRef = l.AccountCode
			}
		}
		if l.TaxType != "" {
			if _, err := s.resolver.ResolveTaxRate(ctx, tenantID, l.TaxType); err != nil {
				s.logger.Warn("unresolvable tax type dropped from line",
					zap.String("tax_type", l.TaxType), zap.Error(err))
			} else {
				remote.TaxRef = l.TaxType
			}
		}
		if l.ItemCode != "" {
			if _, err := s.resolver.ResolveItem(ctx, tenantID, l.ItemCode); err != nil {
				s.logger.Warn("unresolvable item code dropped from line",
					zap.String("item_code", l.ItemCode), zap.Error(err))
			} else {
				remote.ItemRef = l.ItemCode
			}
		}
		out = append(out, remote)
	}
	return out
}

// saveLink upserts the identity link for a pushed entity
func (s *OutboundSyncService) saveLink(ctx context.Context, tenantID string, entityType sync.EntityType, localID uuid.UUID, externalRef string) error {
	link, err := s.linkRepo.FindByLocal(ctx, tenantID, entityType, localID)
	switch {
	case err == nil:
		if link.ExternalRef != externalRef {
			if err := link.Supersede(externalRef); err != nil {
				return err
			}
		}
	case errors.Is(err, sync.ErrLinkNotFound):
		link, err = sync.NewExternalLink(tenantID, entityType, localID, externalRef)
		if err != nil {
			return err
		}
	default:
		return err
	}
	link.MarkSynced()
	return s.linkRepo.Save(ctx, link)
}

// markLinkFailed records a push failure on the entity's identity link.
// Entities that were never linked have nothing to record against, and
// a failure to persist the outcome must not mask the push error.
func (s *OutboundSyncService) markLinkFailed(ctx context.Context, tenantID string, entityType sync.EntityType, localID uuid.UUID, cause error) {
	link, err := s.linkRepo.FindByLocal(ctx, tenantID, entityType, localID)
	if err != nil {
		return
	}
	link.MarkFailed(cause.Error())
	if err := s.linkRepo.Save(ctx, link); err != nil {
		s.logger.Warn("failed to record sync failure on link",
			zap.String("local_id", localID.String()), zap.Error(err))
	}
}

// SyncInvoice pushes one invoice to the remote ledger
func (s *OutboundSyncService) SyncInvoice(ctx context.Context, invoiceID uuid.UUID, force bool) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	tenantID, err := s.resolveTenant(ctx, invoice.RemoteTenantID, invoice.ProjectID)
	if err != nil {
		return err
	}
	if tenantID == "" {
		s.logger.Debug("invoice has no remote tenant, skipping sync",
			zap.String("invoice_id", invoiceID.String()))
		return nil
	}

	// Pre-fetch for the status no-op guard and stale-pointer detection
	var remoteStatus sync.RemoteInvoiceStatus
	if invoice.ExternalRef != "" {
		existing, err := s.remote.GetInvoice(ctx, tenantID, invoice.ExternalRef)
		switch {
		case err == nil && existing.Status == sync.RemoteInvoiceStatusDeleted:
			invoice.ClearRemoteRef()
		case err == nil:
			remoteStatus = existing.Status
		case errors.Is(err, sync.ErrRemoteNotFound):
			invoice.ClearRemoteRef()
		default:
			return err
		}
	}

	client, err := s.clientRepo.FindByID(ctx, invoice.ClientID)
	if err != nil {
		return err
	}
	contactRef, err := s.resolver.ResolveContact(ctx, client, tenantID)
	if err != nil {
		return err
	}

	desired, err := sync.InvoiceStatusToRemote(invoice.Status)
	if err != nil {
		return err
	}
	doc := &sync.RemoteInvoice{
		Ref:        invoice.ExternalRef,
		Number:     invoice.Number,
		ContactRef: contactRef,
		Currency:   invoice.Currency,
		Lines:      s.buildRemoteLines(ctx, tenantID, invoice.Lines),
		Total:      invoice.Total(),
		DueDate:    invoice.DueDate,
	}
	// Re-sending an unchanged status can be rejected by the remote state
	// machine, so the field is omitted when it would be a no-op.
	if remoteStatus != desired {
		doc.Status = desired
	}

	saved, err := s.remote.UpsertInvoice(ctx, tenantID, doc)
	if err != nil {
		if !errors.Is(err, sync.ErrRemoteConflict) || !force {
			s.markLinkFailed(ctx, tenantID, sync.EntityTypeInvoice, invoice.ID, err)
			return err
		}
		// Force drops the conflicting local number so the remote
		// assigns one from its own sequence
		doc.Number = ""
		if saved, err = s.remote.UpsertInvoice(ctx, tenantID, doc); err != nil {
			s.markLinkFailed(ctx, tenantID, sync.EntityTypeInvoice, invoice.ID, err)
			return err
		}
	}

	// Registered before this write's own webhook can arrive
	if err := s.echo.Register(ctx, saved.Ref, sync.EventCategoryInvoice, s.echoTTL); err != nil {
		s.logger.Warn("failed to register echo suppression", zap.Error(err))
	}

	if invoice.ExternalRef != saved.Ref || invoice.RemoteTenantID != tenantID {
		invoice.LinkRemote(tenantID, saved.Ref)
	}
	MatchLines(invoice.Lines, saved.Lines)
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return err
	}
	return s.saveLink(ctx, tenantID, sync.EntityTypeInvoice, invoice.ID, saved.Ref)
}

// SyncQuotation pushes one quotation to the remote ledger
func (s *OutboundSyncService) SyncQuotation(ctx context.Context, quotationID uuid.UUID, force bool) error {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return err
	}

	tenantID, err := s.resolveTenant(ctx, quotation.RemoteTenantID, quotation.ProjectID)
	if err != nil {
		return err
	}
	if tenantID == "" {
		s.logger.Debug("quotation has no remote tenant, skipping sync",
			zap.String("quotation_id", quotationID.String()))
		return nil
	}

	var remoteStatus sync.RemoteQuoteStatus
	if quotation.ExternalRef != "" {
		existing, err := s.remote.GetQuote(ctx, tenantID, quotation.ExternalRef)
		switch {
		case err == nil && existing.Status == sync.RemoteQuoteStatusDeleted:
			quotation.ClearRemoteRef()
		case err == nil:
			remoteStatus = existing.Status
		case errors.Is(err, sync.ErrRemoteNotFound):
			quotation.ClearRemoteRef()
		default:
			return err
		}
	}

	client, err := s.clientRepo.FindByID(ctx, quotation.ClientID)
	if err != nil {
		return err
	}
	contactRef, err := s.resolver.ResolveContact(ctx, client, tenantID)
	if err != nil {
		return err
	}

	desired, err := sync.QuotationStatusToRemote(quotation.Status)
	if err != nil {
		return err
	}
	doc := &sync.RemoteQuote{
		Ref:        quotation.ExternalRef,
		Number:     quotation.Number,
		ContactRef: contactRef,
		Currency:   quotation.Currency,
		Lines:      s.buildRemoteLines(ctx, tenantID, quotation.Lines),
		Total:      quotation.Total(),
	}
	if remoteStatus != desired {
		doc.Status = desired
	}

	saved, err := s.remote.UpsertQuote(ctx, tenantID, doc)
	if err != nil {
		if !errors.Is(err, sync.ErrRemoteConflict) || !force {
			s.markLinkFailed(ctx, tenantID, sync.EntityTypeQuotation, quotation.ID, err)
			return err
		}
		doc.Number = ""
		if saved, err = s.remote.UpsertQuote(ctx, tenantID, doc); err != nil {
			s.markLinkFailed(ctx, tenantID, sync.EntityTypeQuotation, quotation.ID, err)
			return err
		}
	}

	if err := s.echo.Register(ctx, saved.Ref, sync.EventCategoryQuotation, s.echoTTL); err != nil {
		s.logger.Warn("failed to register echo suppression", zap.Error(err))
	}

	if quotation.ExternalRef != saved.Ref || quotation.RemoteTenantID != tenantID {
		quotation.LinkRemote(tenantID, saved.Ref)
	}
	MatchLines(quotation.Lines, saved.Lines)
	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return err
	}
	return s.saveLink(ctx, tenantID, sync.EntityTypeQuotation, quotation.ID, saved.Ref)
}

// SyncContact pushes one client to the remote ledger
func (s *OutboundSyncService) SyncContact(ctx context.Context, clientID uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return err
	}
	tenantID := client.RemoteTenantID
	if tenantID == "" {
		s.logger.Debug("client has no remote tenant, skipping sync",
			zap.String("client_id", clientID.String()))
		return nil
	}

	contactRef, err := s.resolver.ResolveContact(ctx, client, tenantID)
	if err != nil {
		return err
	}

	saved, err := s.remote.UpsertContact(ctx, tenantID, &sync.RemoteContact{
		Ref:   contactRef,
		Name:  client.Name,
		Email: client.Email,
		Phone: client.Phone,
	})
	if err != nil {
		s.markLinkFailed(ctx, tenantID, sync.EntityTypeClient, client.ID, err)
		return err
	}

	if err := s.echo.Register(ctx, saved.Ref, sync.EventCategoryContact, s.echoTTL); err != nil {
		s.logger.Warn("failed to register echo suppression", zap.Error(err))
	}

	if client.ExternalRef != saved.Ref {
		client.LinkRemote(tenantID, saved.Ref)
		if err := s.clientRepo.Save(ctx, client); err != nil {
			return err
		}
	}
	return s.saveLink(ctx, tenantID, sync.EntityTypeClient, client.ID, saved.Ref)
}

// SyncProject pushes one project to the remote project-tracking resource
func (s *OutboundSyncService) SyncProject(ctx context.Context, projectID uuid.UUID) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	tenantID := project.RemoteTenantID
	if tenantID == "" {
		s.logger.Debug("project has no remote tenant, skipping sync",
			zap.String("project_id", projectID.String()))
		return nil
	}

	client, err := s.clientRepo.FindByID(ctx, project.ClientID)
	if err != nil {
		return err
	}
	contactRef, err := s.resolver.ResolveContact(ctx, client, tenantID)
	if err != nil {
		return err
	}

	status, err := sync.ProjectStatusToRemote(project.Status)
	if err != nil {
		return err
	}
	saved, err := s.remote.UpsertProject(ctx, tenantID, &sync.RemoteProject{
		Ref:        project.ExternalRef,
		Name:       project.Name,
		ContactRef: contactRef,
		Status:     status,
	})
	if err != nil {
		s.markLinkFailed(ctx, tenantID, sync.EntityTypeProject, project.ID, err)
		return err
	}

	if project.ExternalRef != saved.Ref {
		project.LinkRemote(tenantID, saved.Ref)
		if err := s.projectRepo.Save(ctx, project); err != nil {
			return err
		}
	}
	return s.saveLink(ctx, tenantID, sync.EntityTypeProject, project.ID, saved.Ref)
}

// UpdateInvoiceStatus pushes a status change for an invoice. The remote
// API is declarative, so this is the same full-document upsert; the
// no-op guard keeps an unchanged status out of the payload.
func (s *OutboundSyncService) UpdateInvoiceStatus(ctx context.Context, invoiceID uuid.UUID) error {
	return s.SyncInvoice(ctx, invoiceID, false)
}

// UpdateQuotationStatus pushes a status change for a quotation
func (s *OutboundSyncService) UpdateQuotationStatus(ctx context.Context, quotationID uuid.UUID) error {
	return s.SyncQuotation(ctx, quotationID, false)
}
