package sync

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/sync"
)

type inboundFixture struct {
	service     *InboundSyncService
	remote      *fakeRemote
	echo        *fakeEcho
	publisher   *fakePublisher
	clientRepo  *memClientRepo
	invoiceRepo *memInvoiceRepo
	projectRepo *memProjectRepo
	linkRepo    *memLinkRepo
}

func newInboundFixture(workers int) *inboundFixture {
	f := &inboundFixture{
		remote:      newFakeRemote(),
		echo:        newFakeEcho(),
		publisher:   &fakePublisher{},
		clientRepo:  newMemClientRepo(),
		invoiceRepo: newMemInvoiceRepo(),
		projectRepo: newMemProjectRepo(),
		linkRepo:    newMemLinkRepo(),
	}
	f.service = NewInboundSyncService(
		f.clientRepo, f.invoiceRepo, f.projectRepo, f.linkRepo,
		f.remote, f.echo, f.publisher, workers, zap.NewNop(),
	)
	return f
}

func TestInbound_EchoSuppressedEventSkipped(t *testing.T) {
	ctx := context.Background()
	f := newInboundFixture(2)
	f.remote.contacts["con-1"] = &sync.RemoteContact{Ref: "con-1", Name: "Acme", Email: "a@b.test"}

	require.NoError(t, f.echo.Register(ctx, "con-1", sync.EventCategoryContact, time.Minute))

	f.service.ProcessEvents(ctx, []sync.WebhookEvent{
		{ResourceID: "con-1", TenantID: "tenant-1", Category: sync.EventCategoryContact, Type: sync.EventTypeUpdate},
	})

	_, err := f.clientRepo.FindByEmail(ctx, "a@b.test")
	assert.Error(t, err, "suppressed event must not be applied")
}

func TestInbound_ContactUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("match by external ref", func(t *testing.T) {
		f := newInboundFixture(2)
		client, err := ledger.NewClient("Acme Ltd", "old@acme.test", "")
		require.NoError(t, err)
		client.LinkRemote("tenant-1", "con-1")
		require.NoError(t, f.clientRepo.Save(ctx, client))

		f.remote.contacts["con-1"] = &sync.RemoteContact{Ref: "con-1", Name: "Acme Limited", Email: "new@acme.test"}

		f.service.ProcessEvents(ctx, []sync.WebhookEvent{
			{ResourceID: "con-1", TenantID: "tenant-1", Category: sync.EventCategoryContact, Type: sync.EventTypeUpdate},
		})

		saved, err := f.clientRepo.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Limited", saved.Name)
		assert.Equal(t, "new@acme.test", saved.Email)
	})

	t.Run("match by email links the client", func(t *testing.T) {
		f := newInboundFixture(2)
		client, err := ledger.NewClient("Acme Ltd", "billing@acme.test", "")
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		f.remote.contacts["con-9"] = &sync.RemoteContact{Ref: "con-9", Name: "Acme Ltd", Email: "billing@acme.test"}

		f.service.ProcessEvents(ctx, []sync.WebhookEvent{
			{ResourceID: "con-9", TenantID: "tenant-1", Category: sync.EventCategoryContact, Type: sync.EventTypeUpdate},
		})

		saved, err := f.clientRepo.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "con-9", saved.ExternalRef)

		link, err := f.linkRepo.FindByLocal(ctx, "tenant-1", sync.EntityTypeClient, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "con-9", link.ExternalRef)
	})

	t.Run("no match creates a new client", func(t *testing.T) {
		f := newInboundFixture(2)
		f.remote.contacts["con-5"] = &sync.RemoteContact{Ref: "con-5", Name: "New Corp", Email: "hi@new.test"}

		f.service.ProcessEvents(ctx, []sync.WebhookEvent{
			{ResourceID: "con-5", TenantID: "tenant-1", Category: sync.EventCategoryContact, Type: sync.EventTypeCreate},
		})

		created, err := f.clientRepo.FindByExternalRef(ctx, "tenant-1", "con-5")
		require.NoError(t, err)
		assert.Equal(t, "New Corp", created.Name)
	})
}

func TestInbound_InvoiceReconciliation(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *inboundFixture, status ledger.InvoiceStatus, projectID *ledger.Project) *ledger.Invoice {
		t.Helper()
		client, err := ledger.NewClient("Acme Ltd", "", "")
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))

		inv, err := ledger.NewInvoice("INV-0001", client.ID)
		require.NoError(t, err)
		inv.Status = status
		inv.LinkRemote("tenant-1", "inv-1")
		if projectID != nil {
			inv.ProjectID = &projectID.ID
		}
		line, err := ledger.NewLineItem("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100))
		require.NoError(t, err)
		inv.AddLine(*line)
		require.NoError(t, f.invoiceRepo.Save(ctx, inv))
		return inv
	}

	t.Run("status and line ids applied", func(t *testing.T) {
		f := newInboundFixture(2)
		inv := seed(t, f, ledger.InvoiceStatusGenerated, nil)

		f.remote.invoices["inv-1"] = &sync.RemoteInvoice{
			Ref:    "inv-1",
			Status: sync.RemoteInvoiceStatusAuthorised,
			Lines: []sync.RemoteLine{
				{Ref: "line-1", Description: "Consulting", AccountRef: "200", TaxRef: "OUTPUT"},
			},
		}

		f.service.ProcessEvents(ctx, []sync.WebhookEvent{
			{ResourceID: "inv-1", TenantID: "tenant-1", Category: sync.EventCategoryInvoice, Type: sync.EventTypeUpdate},
		})

		saved, err := f.invoiceRepo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.InvoiceStatusSent, saved.Status, "AUTHORISED collapses onto sent")
		require.Len(t, saved.Lines, 1)
		assert.Equal(t, "line-1", saved.Lines[0].ExternalRef)
		assert.Equal(t, "200", saved.Lines[0].AccountCode)
		assert.Equal(t, "OUTPUT", saved.Lines[0].TaxType)
	})

	t.Run("paid invoice resumes the on-hold project", func(t *testing.T) {
		f := newInboundFixture(2)

		client, err := ledger.NewClient("Acme Ltd", "", "")
		require.NoError(t, err)
		require.NoError(t, f.clientRepo.Save(ctx, client))
		project, err := ledger.NewProject("Relaunch", client.ID)
		require.NoError(t, err)
		project.Status = ledger.ProjectStatusOnHold
		require.NoError(t, f.projectRepo.Save(ctx, project))

		inv := seed(t, f, ledger.InvoiceStatusSent, project)

		f.remote.invoices["inv-1"] = &sync.RemoteInvoice{Ref: "inv-1", Status: sync.RemoteInvoiceStatusPaid}

		f.service.ProcessEvents(ctx, []sync.WebhookEvent{
			{ResourceID: "inv-1", TenantID: "tenant-1", Category: sync.EventCategoryInvoice, Type: sync.EventTypeUpdate},
		})

		saved, err := f.invoiceRepo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.InvoiceStatusPaid, saved.Status)

		require.Len(t, f.publisher.events, 1)
		resume, ok := f.publisher.events[0].(*sync.ProjectAutoResumeRequested)
		require.True(t, ok)
		assert.Equal(t, project.ID, resume.ProjectID)
		assert.Equal(t, inv.ID, resume.InvoiceID)
	})

	t.Run("already paid invoice emits nothing", func(t *testing.T) {
		f := newInboundFixture(2)
		seed(t, f, ledger.InvoiceStatusPaid, nil)

		f.remote.invoices["inv-1"] = &sync.RemoteInvoice{Ref: "inv-1", Status: sync.RemoteInvoiceStatusPaid}

		f.service.ProcessEvents(ctx, []sync.WebhookEvent{
			{ResourceID: "inv-1", TenantID: "tenant-1", Category: sync.EventCategoryInvoice, Type: sync.EventTypeUpdate},
		})

		assert.Empty(t, f.publisher.events)
	})

	t.Run("voided remote cancels locally", func(t *testing.T) {
		f := newInboundFixture(2)
		inv := seed(t, f, ledger.InvoiceStatusSent, nil)

		f.remote.invoices["inv-1"] = &sync.RemoteInvoice{Ref: "inv-1", Status: sync.RemoteInvoiceStatusVoided}

		f.service.ProcessEvents(ctx, []sync.WebhookEvent{
			{ResourceID: "inv-1", TenantID: "tenant-1", Category: sync.EventCategoryInvoice, Type: sync.EventTypeUpdate},
		})

		saved, err := f.invoiceRepo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.InvoiceStatusCanceled, saved.Status)
	})
}

func TestInbound_PerEventIsolation(t *testing.T) {
	ctx := context.Background()
	f := newInboundFixture(2)

	// First event's remote fetch fails (no such contact); the second is valid
	f.remote.contacts["con-2"] = &sync.RemoteContact{Ref: "con-2", Name: "Second Corp", Email: "two@b.test"}

	f.service.ProcessEvents(ctx, []sync.WebhookEvent{
		{ResourceID: "con-missing", TenantID: "tenant-1", Category: sync.EventCategoryContact, Type: sync.EventTypeUpdate},
		{ResourceID: "con-2", TenantID: "tenant-1", Category: sync.EventCategoryContact, Type: sync.EventTypeCreate},
	})

	created, err := f.clientRepo.FindByExternalRef(ctx, "tenant-1", "con-2")
	require.NoError(t, err)
	assert.Equal(t, "Second Corp", created.Name)
}

func TestInbound_UnhandledCategoryIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newInboundFixture(2)
	f.remote.contacts["con-1"] = &sync.RemoteContact{Ref: "con-1", Name: "Acme", Email: "a@b.test"}

	f.service.ProcessEvents(ctx, []sync.WebhookEvent{
		{ResourceID: "quo-1", TenantID: "tenant-1", Category: sync.EventCategoryQuotation, Type: sync.EventTypeUpdate},
		{ResourceID: "con-1", TenantID: "tenant-1", Category: sync.EventCategoryContact, Type: sync.EventTypeCreate},
	})

	_, err := f.clientRepo.FindByExternalRef(ctx, "tenant-1", "con-1")
	assert.NoError(t, err, "sibling events still processed")
}

func TestInbound_UnknownRemoteStatusRejected(t *testing.T) {
	ctx := context.Background()
	f := newInboundFixture(1)

	client, err := ledger.NewClient("Acme Ltd", "", "")
	require.NoError(t, err)
	require.NoError(t, f.clientRepo.Save(ctx, client))
	inv, err := ledger.NewInvoice("INV-0001", client.ID)
	require.NoError(t, err)
	inv.LinkRemote("tenant-1", "inv-1")
	require.NoError(t, f.invoiceRepo.Save(ctx, inv))

	f.remote.invoices["inv-1"] = &sync.RemoteInvoice{Ref: "inv-1", Status: sync.RemoteInvoiceStatus("ARCHIVED")}

	f.service.ProcessEvents(ctx, []sync.WebhookEvent{
		{ResourceID: "inv-1", TenantID: "tenant-1", Category: sync.EventCategoryInvoice, Type: sync.EventTypeUpdate},
	})

	saved, err := f.invoiceRepo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusGenerated, saved.Status, "unknown code rejected, local state untouched")
}
