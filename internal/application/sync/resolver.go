package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/shared"
	"github.com/ledgerlink/backend/internal/domain/sync"
)

// Resolver resolves local entities and natural keys into remote
// references. Contacts go through the identity link table; accounts,
// tax rates and catalog items go through lazily populated local cache
// tables keyed by the remote's natural key.
type Resolver struct {
	linkRepo    sync.ExternalLinkRepository
	clientRepo  ledger.ClientRepository
	accountRepo ledger.AccountRepository
	taxRateRepo ledger.TaxRateRepository
	itemRepo    ledger.CatalogItemRepository
	remote      sync.RemoteLedger
	logger      *zap.Logger
}

// NewResolver creates a new Resolver
func NewResolver(
	linkRepo sync.ExternalLinkRepository,
	clientRepo ledger.ClientRepository,
	accountRepo ledger.AccountRepository,
	taxRateRepo ledger.TaxRateRepository,
	itemRepo ledger.CatalogItemRepository,
	remote sync.RemoteLedger,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		linkRepo:    linkRepo,
		clientRepo:  clientRepo,
		accountRepo: accountRepo,
		taxRateRepo: taxRateRepo,
		itemRepo:    itemRepo,
		remote:      remote,
		logger:      logger,
	}
}

// ResolveContact returns the remote contact reference for a client on
// the given tenant, establishing it if absent: link lookup, then exact
// email search, then create-or-update push. A failure here aborts the
// whole document, since an invoice or quote cannot exist without a
// bill-to party.
func (r *Resolver) ResolveContact(ctx context.Context, client *ledger.Client, tenantID string) (string, error) {
	link, err := r.linkRepo.FindByLocal(ctx, tenantID, sync.EntityTypeClient, client.ID)
	if err == nil {
		return link.ExternalRef, nil
	}
	if !errors.Is(err, sync.ErrLinkNotFound) {
		return "", sync.ErrResolutionFailed.WithDetails(err.Error())
	}

	var ref string
	if client.HasEmail() {
		contact, err := r.remote.FindContactByEmail(ctx, tenantID, client.Email)
		if err == nil {
			ref = contact.Ref
		} else if !errors.Is(err, sync.ErrRemoteNotFound) {
			return "", sync.ErrResolutionFailed.WithDetails(err.Error())
		}
	}

	if ref == "" {
		created, err := r.remote.UpsertContact(ctx, tenantID, &sync.RemoteContact{
			Name:  client.Name,
			Email: client.Email,
			Phone: client.Phone,
		})
		if err != nil {
			return "", sync.ErrResolutionFailed.WithDetails(err.Error())
		}
		ref = created.Ref
	}

	if err := r.persistContactLink(ctx, client, tenantID, ref); err != nil {
		return "", sync.ErrResolutionFailed.WithDetails(err.Error())
	}
	return ref, nil
}

// persistContactLink writes the identity link and the denormalized
// reference on the client, skipping the write when nothing changed.
func (r *Resolver) persistContactLink(ctx context.Context, client *ledger.Client, tenantID, ref string) error {
	link, err := sync.NewExternalLink(tenantID, sync.EntityTypeClient, client.ID, ref)
	if err != nil {
		return err
	}
	link.MarkSynced()
	if err := r.linkRepo.Save(ctx, link); err != nil {
		return err
	}

	if client.RemoteTenantID == tenantID && client.ExternalRef == ref {
		return nil
	}
	client.LinkRemote(tenantID, ref)
	return r.clientRepo.Save(ctx, client)
}

// ResolveAccount returns the remote reference for a chart-of-accounts
// code: local cache first, then a single remote fetch by code on miss.
// An unresolvable code is reported to the caller, which omits the field
// rather than aborting the document.
func (r *Resolver) ResolveAccount(ctx context.Context, tenantID, code string) (string, error) {
	cached, err := r.accountRepo.FindByCode(ctx, code)
	if err == nil {
		return cached.ExternalRef, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return "", err
	}

	remote, err := r.remote.GetAccountByCode(ctx, tenantID, code)
	if err != nil {
		return "", err
	}

	now := time.Now()
	account := &ledger.Account{
		Code:        remote.Code,
		Name:        remote.Name,
		Type:        remote.Type,
		ExternalRef: remote.Ref,
		IsActive:    remote.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.accountRepo.Save(ctx, account); err != nil {
		r.logger.Warn("failed to cache account", zap.String("code", code), zap.Error(err))
	}
	return remote.Ref, nil
}

// ResolveTaxRate returns the remote reference for a tax type name,
// using the same cache-then-fetch pattern as ResolveAccount.
func (r *Resolver) ResolveTaxRate(ctx context.Context, tenantID, typeName string) (string, error) {
	cached, err := r.taxRateRepo.FindByTypeName(ctx, typeName)
	if err == nil {
		return cached.ExternalRef, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return "", err
	}

	remote, err := r.remote.GetTaxRateByType(ctx, tenantID, typeName)
	if err != nil {
		return "", err
	}

	now := time.Now()
	rate := &ledger.TaxRate{
		TypeName:    remote.TypeName,
		DisplayName: remote.DisplayName,
		Rate:        remote.Rate,
		ExternalRef: remote.Ref,
		IsActive:    remote.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.taxRateRepo.Save(ctx, rate); err != nil {
		r.logger.Warn("failed to cache tax rate", zap.String("type_name", typeName), zap.Error(err))
	}
	return remote.Ref, nil
}

// ResolveItem returns the remote reference for a catalog item code,
// using the same cache-then-fetch pattern as ResolveAccount.
func (r *Resolver) ResolveItem(ctx context.Context, tenantID, code string) (string, error) {
	cached, err := r.itemRepo.FindByCode(ctx, code)
	if err == nil {
		return cached.ExternalRef, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return "", err
	}

	remote, err := r.remote.GetItemByCode(ctx, tenantID, code)
	if err != nil {
		return "", err
	}

	now := time.Now()
	item := &ledger.CatalogItem{
		Code:        remote.Code,
		Name:        remote.Name,
		UnitAmount:  remote.UnitAmount,
		ExternalRef: remote.Ref,
		IsActive:    remote.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.itemRepo.Save(ctx, item); err != nil {
		r.logger.Warn("failed to cache catalog item", zap.String("code", code), zap.Error(err))
	}
	return remote.Ref, nil
}

// MatchLines assigns remote line ids to previously unlinked local lines
// by description equality in document order. The remote API does not
// echo a client correlation id for new lines, so exact-text matching is
// the only available heuristic; duplicate descriptions match in order.
// Returns the number of newly linked local lines.
func MatchLines(local []ledger.LineItem, remote []sync.RemoteLine) int {
	consumed := make([]bool, len(remote))

	// Remote lines already pointed at by a local line stay with it
	for i := range local {
		if !local[i].IsLinked() {
			continue
		}
		for j := range remote {
			if !consumed[j] && remote[j].Ref == local[i].ExternalRef {
				consumed[j] = true
				break
			}
		}
	}

	matched := 0
	for i := range local {
		if local[i].IsLinked() {
			continue
		}
		for j := range remote {
			if consumed[j] || remote[j].Ref == "" {
				continue
			}
			if remote[j].Description == local[i].Description {
				local[i].ExternalRef = remote[j].Ref
				consumed[j] = true
				matched++
				break
			}
		}
	}
	return matched
}
