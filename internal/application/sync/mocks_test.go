package sync

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/shared"
	"github.com/ledgerlink/backend/internal/domain/sync"
)

// fakeRemote is an in-memory stand-in for the remote ledger. Upserts
// assign references the way the real platform does and every call is
// recorded so tests can assert on the exact payloads sent.
type fakeRemote struct {
	mu       gosync.Mutex
	contacts map[string]*sync.RemoteContact
	invoices map[string]*sync.RemoteInvoice
	quotes   map[string]*sync.RemoteQuote
	accounts map[string]sync.RemoteAccount
	taxRates map[string]sync.RemoteTaxRate
	items    map[string]sync.RemoteItem
	projects map[string]*sync.RemoteProject

	upsertedContacts []*sync.RemoteContact
	upsertedInvoices []*sync.RemoteInvoice
	upsertedQuotes   []*sync.RemoteQuote

	upsertInvoiceErr error
	nextRef          int
}

var _ sync.RemoteLedger = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		contacts: make(map[string]*sync.RemoteContact),
		invoices: make(map[string]*sync.RemoteInvoice),
		quotes:   make(map[string]*sync.RemoteQuote),
		accounts: make(map[string]sync.RemoteAccount),
		taxRates: make(map[string]sync.RemoteTaxRate),
		items:    make(map[string]sync.RemoteItem),
		projects: make(map[string]*sync.RemoteProject),
	}
}

func (f *fakeRemote) allocRef(prefix string) string {
	f.nextRef++
	return fmt.Sprintf("%s-%d", prefix, f.nextRef)
}

func (f *fakeRemote) GetContact(_ context.Context, _, ref string) (*sync.RemoteContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[ref]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sync.ErrRemoteNotFound
}

func (f *fakeRemote) FindContactByEmail(_ context.Context, _, email string) (*sync.RemoteContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if strings.EqualFold(c.Email, email) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, sync.ErrRemoteNotFound
}

func (f *fakeRemote) UpsertContact(_ context.Context, _ string, contact *sync.RemoteContact) (*sync.RemoteContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *contact
	if copied.Ref == "" {
		copied.Ref = f.allocRef("con")
	}
	f.contacts[copied.Ref] = &copied
	recorded := copied
	f.upsertedContacts = append(f.upsertedContacts, &recorded)
	result := copied
	return &result, nil
}

func (f *fakeRemote) GetInvoice(_ context.Context, _, ref string) (*sync.RemoteInvoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv, ok := f.invoices[ref]; ok {
		copied := *inv
		copied.Lines = append([]sync.RemoteLine(nil), inv.Lines...)
		return &copied, nil
	}
	return nil, sync.ErrRemoteNotFound
}

func (f *fakeRemote) UpsertInvoice(_ context.Context, _ string, invoice *sync.RemoteInvoice) (*sync.RemoteInvoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertInvoiceErr != nil {
		return nil, f.upsertInvoiceErr
	}
	copied := *invoice
	copied.Lines = append([]sync.RemoteLine(nil), invoice.Lines...)
	if copied.Ref == "" {
		copied.Ref = f.allocRef("inv")
	}
	for i := range copied.Lines {
		if copied.Lines[i].Ref == "" {
			copied.Lines[i].Ref = f.allocRef("line")
		}
	}
	if copied.Status == "" {
		if existing, ok := f.invoices[copied.Ref]; ok {
			copied.Status = existing.Status
		} else {
			copied.Status = sync.RemoteInvoiceStatusDraft
		}
	}
	f.invoices[copied.Ref] = &copied
	recorded := *invoice
	recorded.Lines = append([]sync.RemoteLine(nil), invoice.Lines...)
	f.upsertedInvoices = append(f.upsertedInvoices, &recorded)
	result := copied
	result.Lines = append([]sync.RemoteLine(nil), copied.Lines...)
	return &result, nil
}

func (f *fakeRemote) GetQuote(_ context.Context, _, ref string) (*sync.RemoteQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.quotes[ref]; ok {
		copied := *q
		copied.Lines = append([]sync.RemoteLine(nil), q.Lines...)
		return &copied, nil
	}
	return nil, sync.ErrRemoteNotFound
}

func (f *fakeRemote) UpsertQuote(_ context.Context, _ string, quote *sync.RemoteQuote) (*sync.RemoteQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *quote
	copied.Lines = append([]sync.RemoteLine(nil), quote.Lines...)
	if copied.Ref == "" {
		copied.Ref = f.allocRef("quo")
	}
	for i := range copied.Lines {
		if copied.Lines[i].Ref == "" {
			copied.Lines[i].Ref = f.allocRef("line")
		}
	}
	if copied.Status == "" {
		if existing, ok := f.quotes[copied.Ref]; ok {
			copied.Status = existing.Status
		} else {
			copied.Status = sync.RemoteQuoteStatusDraft
		}
	}
	f.quotes[copied.Ref] = &copied
	recorded := *quote
	recorded.Lines = append([]sync.RemoteLine(nil), quote.Lines...)
	f.upsertedQuotes = append(f.upsertedQuotes, &recorded)
	result := copied
	result.Lines = append([]sync.RemoteLine(nil), copied.Lines...)
	return &result, nil
}

func (f *fakeRemote) GetAccountByCode(_ context.Context, _, code string) (*sync.RemoteAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[code]; ok {
		return &a, nil
	}
	return nil, sync.ErrRemoteNotFound
}

func (f *fakeRemote) ListAccounts(_ context.Context, _ string, _ bool) ([]sync.RemoteAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sync.RemoteAccount, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRemote) GetTaxRateByType(_ context.Context, _, typeName string) (*sync.RemoteTaxRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.taxRates[typeName]; ok {
		return &r, nil
	}
	return nil, sync.ErrRemoteNotFound
}

func (f *fakeRemote) ListTaxRates(_ context.Context, _ string, _ bool) ([]sync.RemoteTaxRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sync.RemoteTaxRate, 0, len(f.taxRates))
	for _, r := range f.taxRates {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRemote) GetItemByCode(_ context.Context, _, code string) (*sync.RemoteItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.items[code]; ok {
		return &i, nil
	}
	return nil, sync.ErrRemoteNotFound
}

func (f *fakeRemote) ListItems(_ context.Context, _ string, _ bool) ([]sync.RemoteItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sync.RemoteItem, 0, len(f.items))
	for _, i := range f.items {
		out = append(out, i)
	}
	return out, nil
}

func (f *fakeRemote) UpsertProject(_ context.Context, _ string, project *sync.RemoteProject) (*sync.RemoteProject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *project
	if copied.Ref == "" {
		copied.Ref = f.allocRef("prj")
	}
	f.projects[copied.Ref] = &copied
	result := copied
	return &result, nil
}

// --- In-memory repositories -------------------------------------------------

type memClientRepo struct {
	mu   gosync.Mutex
	byID map[uuid.UUID]*ledger.Client
}

var _ ledger.ClientRepository = (*memClientRepo)(nil)

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{byID: make(map[uuid.UUID]*ledger.Client)}
}

func (r *memClientRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memClientRepo) FindByEmail(_ context.Context, email string) (*ledger.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if strings.EqualFold(c.Email, email) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memClientRepo) FindByExternalRef(_ context.Context, tenantID, externalRef string) (*ledger.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.RemoteTenantID == tenantID && c.ExternalRef == externalRef {
			copied := *c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memClientRepo) Save(_ context.Context, client *ledger.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *client
	r.byID[client.ID] = &copied
	return nil
}

type memInvoiceRepo struct {
	mu   gosync.Mutex
	byID map[uuid.UUID]*ledger.Invoice
}

var _ ledger.InvoiceRepository = (*memInvoiceRepo)(nil)

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{byID: make(map[uuid.UUID]*ledger.Invoice)}
}

func copyInvoice(inv *ledger.Invoice) *ledger.Invoice {
	copied := *inv
	copied.Lines = append([]ledger.LineItem(nil), inv.Lines...)
	return &copied
}

func (r *memInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.byID[id]; ok {
		return copyInvoice(inv), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memInvoiceRepo) FindByExternalRef(_ context.Context, tenantID, externalRef string) (*ledger.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.byID {
		if inv.RemoteTenantID == tenantID && inv.ExternalRef == externalRef {
			return copyInvoice(inv), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInvoiceRepo) Save(_ context.Context, invoice *ledger.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[invoice.ID] = copyInvoice(invoice)
	return nil
}

type memQuotationRepo struct {
	mu   gosync.Mutex
	byID map[uuid.UUID]*ledger.Quotation
}

var _ ledger.QuotationRepository = (*memQuotationRepo)(nil)

func newMemQuotationRepo() *memQuotationRepo {
	return &memQuotationRepo{byID: make(map[uuid.UUID]*ledger.Quotation)}
}

func copyQuotation(q *ledger.Quotation) *ledger.Quotation {
	copied := *q
	copied.Lines = append([]ledger.LineItem(nil), q.Lines...)
	return &copied
}

func (r *memQuotationRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.byID[id]; ok {
		return copyQuotation(q), nil
	}
	return nil, shared.ErrNotFound
}

func (r *memQuotationRepo) FindByExternalRef(_ context.Context, tenantID, externalRef string) (*ledger.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.byID {
		if q.RemoteTenantID == tenantID && q.ExternalRef == externalRef {
			return copyQuotation(q), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memQuotationRepo) Save(_ context.Context, quotation *ledger.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[quotation.ID] = copyQuotation(quotation)
	return nil
}

type memProjectRepo struct {
	mu   gosync.Mutex
	byID map[uuid.UUID]*ledger.Project
}

var _ ledger.ProjectRepository = (*memProjectRepo)(nil)

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{byID: make(map[uuid.UUID]*ledger.Project)}
}

func (r *memProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProjectRepo) Save(_ context.Context, project *ledger.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *project
	r.byID[project.ID] = &copied
	return nil
}

type memLinkRepo struct {
	mu    gosync.Mutex
	links map[string]*sync.ExternalLink
}

var _ sync.ExternalLinkRepository = (*memLinkRepo)(nil)

func newMemLinkRepo() *memLinkRepo {
	return &memLinkRepo{links: make(map[string]*sync.ExternalLink)}
}

func linkKey(tenantID string, entityType sync.EntityType, localID uuid.UUID) string {
	return tenantID + "|" + string(entityType) + "|" + localID.String()
}

func (r *memLinkRepo) FindByLocal(_ context.Context, tenantID string, entityType sync.EntityType, localID uuid.UUID) (*sync.ExternalLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.links[linkKey(tenantID, entityType, localID)]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, sync.ErrLinkNotFound
}

func (r *memLinkRepo) FindByExternalRef(_ context.Context, tenantID string, entityType sync.EntityType, externalRef string) (*sync.ExternalLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.TenantID == tenantID && l.EntityType == entityType && l.ExternalRef == externalRef {
			copied := *l
			return &copied, nil
		}
	}
	return nil, sync.ErrLinkNotFound
}

func (r *memLinkRepo) Save(_ context.Context, link *sync.ExternalLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *link
	r.links[linkKey(link.TenantID, link.EntityType, link.LocalID)] = &copied
	return nil
}

// --- Catalog cache fakes ----------------------------------------------------

// memAccountRepo tracks in-flight Save concurrency so the worker pool
// bound can be asserted.
type memAccountRepo struct {
	mu          gosync.Mutex
	byCode      map[string]*ledger.Account
	saveErrFor  map[string]error
	saveDelay   time.Duration
	inFlight    int
	maxInFlight int
}

var _ ledger.AccountRepository = (*memAccountRepo)(nil)

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{
		byCode:     make(map[string]*ledger.Account),
		saveErrFor: make(map[string]error),
	}
}

func (r *memAccountRepo) FindByCode(_ context.Context, code string) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byCode[code]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memAccountRepo) Save(_ context.Context, account *ledger.Account) error {
	r.mu.Lock()
	r.inFlight++
	if r.inFlight > r.maxInFlight {
		r.maxInFlight = r.inFlight
	}
	delay := r.saveDelay
	err := r.saveErrFor[account.Code]
	r.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	r.mu.Lock()
	r.inFlight--
	if err == nil {
		copied := *account
		r.byCode[account.Code] = &copied
	}
	r.mu.Unlock()
	return err
}

type memTaxRateRepo struct {
	mu     gosync.Mutex
	byName map[string]*ledger.TaxRate
}

var _ ledger.TaxRateRepository = (*memTaxRateRepo)(nil)

func newMemTaxRateRepo() *memTaxRateRepo {
	return &memTaxRateRepo{byName: make(map[string]*ledger.TaxRate)}
}

func (r *memTaxRateRepo) FindByTypeName(_ context.Context, typeName string) (*ledger.TaxRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byName[typeName]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTaxRateRepo) Save(_ context.Context, rate *ledger.TaxRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *rate
	r.byName[rate.TypeName] = &copied
	return nil
}

type memItemRepo struct {
	mu     gosync.Mutex
	byCode map[string]*ledger.CatalogItem
}

var _ ledger.CatalogItemRepository = (*memItemRepo)(nil)

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{byCode: make(map[string]*ledger.CatalogItem)}
}

func (r *memItemRepo) FindByCode(_ context.Context, code string) (*ledger.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byCode[code]; ok {
		copied := *i
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) Save(_ context.Context, item *ledger.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.byCode[item.Code] = &copied
	return nil
}

// --- Echo and event fakes ---------------------------------------------------

type fakeEcho struct {
	mu         gosync.Mutex
	registered []string
	entries    map[string]bool
}

var _ sync.EchoSuppressor = (*fakeEcho)(nil)

func newFakeEcho() *fakeEcho {
	return &fakeEcho{entries: make(map[string]bool)}
}

func (f *fakeEcho) Register(_ context.Context, resourceID string, category sync.EventCategory, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sync.EchoKey(resourceID, category)
	f.registered = append(f.registered, key)
	f.entries[key] = true
	return nil
}

func (f *fakeEcho) IsSuppressed(_ context.Context, resourceID string, category sync.EventCategory) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[sync.EchoKey(resourceID, category)], nil
}

func (f *fakeEcho) Close() error { return nil }

type fakePublisher struct {
	mu     gosync.Mutex
	events []shared.DomainEvent
}

var _ shared.EventPublisher = (*fakePublisher)(nil)

func (f *fakePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return nil
}
