package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

type catalogFixture struct {
	service     *CatalogSyncService
	remote      *fakeRemote
	accountRepo *memAccountRepo
	taxRateRepo *memTaxRateRepo
	itemRepo    *memItemRepo
}

func newCatalogFixture(workers int) *catalogFixture {
	f := &catalogFixture{
		remote:      newFakeRemote(),
		accountRepo: newMemAccountRepo(),
		taxRateRepo: newMemTaxRateRepo(),
		itemRepo:    newMemItemRepo(),
	}
	f.service = NewCatalogSyncService(f.accountRepo, f.taxRateRepo, f.itemRepo, f.remote, workers, zap.NewNop())
	return f
}

func TestCatalog_SyncAccounts(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(4)
	f.remote.accounts["200"] = sync.RemoteAccount{Ref: "acc-1", Code: "200", Name: "Sales", Type: "REVENUE", IsActive: true}
	f.remote.accounts["400"] = sync.RemoteAccount{Ref: "acc-2", Code: "400", Name: "Advertising", Type: "EXPENSE", IsActive: true}

	result, err := f.service.SyncAccounts(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, sync.BulkSyncStatusSuccess, result.Status)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Zero(t, result.FailedCount)

	cached, err := f.accountRepo.FindByCode(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", cached.ExternalRef)
	assert.Equal(t, "REVENUE", cached.Type)
}

func TestCatalog_WorkerPoolBound(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(3)
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("%03d", i)
		f.remote.accounts[code] = sync.RemoteAccount{Ref: "acc-" + code, Code: code, IsActive: true}
	}
	f.accountRepo.saveDelay = 5 * time.Millisecond

	result, err := f.service.SyncAccounts(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 20, result.SuccessCount)
	assert.LessOrEqual(t, f.accountRepo.maxInFlight, 3, "no more than `workers` upserts in flight")
	assert.Positive(t, f.accountRepo.maxInFlight)
}

func TestCatalog_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(2)
	f.remote.accounts["200"] = sync.RemoteAccount{Ref: "acc-1", Code: "200", IsActive: true}
	f.remote.accounts["300"] = sync.RemoteAccount{Ref: "acc-2", Code: "300", IsActive: true}
	f.remote.accounts["400"] = sync.RemoteAccount{Ref: "acc-3", Code: "400", IsActive: true}
	f.accountRepo.saveErrFor["300"] = errors.New("constraint violated")

	result, err := f.service.SyncAccounts(ctx, "tenant-1")
	require.NoError(t, err, "item failures never fail the run")
	assert.Equal(t, sync.BulkSyncStatusPartial, result.Status)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.FailedItems, 1)
	assert.Equal(t, "300", result.FailedItems[0].Key)
	assert.Contains(t, result.FailedItems[0].ErrorMessage, "constraint violated")

	_, err = f.accountRepo.FindByCode(ctx, "200")
	assert.NoError(t, err, "siblings of the failed item still land")
}

func TestCatalog_AllFailuresMarkTheRunFailed(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(2)
	f.remote.accounts["200"] = sync.RemoteAccount{Ref: "acc-1", Code: "200", IsActive: true}
	f.accountRepo.saveErrFor["200"] = errors.New("disk full")

	result, err := f.service.SyncAccounts(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, sync.BulkSyncStatusFailed, result.Status)
}

func TestCatalog_EmptyRemoteListSucceeds(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(2)

	result, err := f.service.SyncItems(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, sync.BulkSyncStatusSuccess, result.Status)
	assert.Zero(t, result.TotalCount)
}

func TestCatalog_SyncAll(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(2)
	f.remote.accounts["200"] = sync.RemoteAccount{Ref: "acc-1", Code: "200", IsActive: true}
	f.remote.taxRates["OUTPUT"] = sync.RemoteTaxRate{Ref: "OUTPUT", TypeName: "OUTPUT", DisplayName: "Standard VAT", Rate: decimal.RequireFromString("19"), IsActive: true}
	f.remote.items["DEV-DAY"] = sync.RemoteItem{Ref: "itm-1", Code: "DEV-DAY", Name: "Development day", UnitAmount: decimal.NewFromInt(960), IsActive: true}

	results, err := f.service.SyncAll(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results["accounts"].SuccessCount)
	assert.Equal(t, 1, results["tax_rates"].SuccessCount)
	assert.Equal(t, 1, results["items"].SuccessCount)

	rate, err := f.taxRateRepo.FindByTypeName(ctx, "OUTPUT")
	require.NoError(t, err)
	assert.True(t, rate.Rate.Equal(decimal.RequireFromString("19")))

	item, err := f.itemRepo.FindByCode(ctx, "DEV-DAY")
	require.NoError(t, err)
	assert.Equal(t, "itm-1", item.ExternalRef)
}
