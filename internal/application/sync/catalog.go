package sync

import (
	"context"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"github.com/ledgerlink/backend/internal/domain/ledger"
	"github.com/ledgerlink/backend/internal/domain/sync"
)

// CatalogSyncService pulls the remote chart of accounts, tax rates and
// catalog items into the local cache tables. Upserts run under a fixed
// worker pool; one item's failure never aborts the rest of the run.
type CatalogSyncService struct {
	accountRepo ledger.AccountRepository
	taxRateRepo ledger.TaxRateRepository
	itemRepo    ledger.CatalogItemRepository
	remote      sync.RemoteLedger
	workers     int
	logger      *zap.Logger
}

// NewCatalogSyncService creates a new CatalogSyncService
func NewCatalogSyncService(
	accountRepo ledger.AccountRepository,
	taxRateRepo ledger.TaxRateRepository,
	itemRepo ledger.CatalogItemRepository,
	remote sync.RemoteLedger,
	workers int,
	logger *zap.Logger,
) *CatalogSyncService {
	if workers <= 0 {
		workers = 1
	}
	return &CatalogSyncService{
		accountRepo: accountRepo,
		taxRateRepo: taxRateRepo,
		itemRepo:    itemRepo,
		remote:      remote,
		workers:     workers,
		logger:      logger,
	}
}

// upsertTask is one keyed upsert within a bulk run
type upsertTask struct {
	key string
	fn  func(ctx context.Context) error
}

// runPool executes tasks under the fixed-size worker pool and collects
// per-item outcomes into a SyncResult
func (s *CatalogSyncService) runPool(ctx context.Context, tasks []upsertTask) *sync.SyncResult {
	result := &sync.SyncResult{
		TotalCount: len(tasks),
		SyncedAt:   time.Now(),
	}

	sem := make(chan struct{}, s.workers)
	var wg gosync.WaitGroup
	var mu gosync.Mutex

	for i := range tasks {
		task := tasks[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			err := task.fn(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.FailedCount++
				result.FailedItems = append(result.FailedItems, sync.SyncFailure{
					Key:          task.key,
					ErrorMessage: err.Error(),
				})
				s.logger.Warn("catalog item upsert failed",
					zap.String("key", task.key), zap.Error(err))
				return
			}
			result.SuccessCount++
		}()
	}
	wg.Wait()

	result.Finalize()
	return result
}

// SyncAccounts pulls the active chart of accounts for a tenant
func (s *CatalogSyncService) SyncAccounts(ctx context.Context, tenantID string) (*sync.SyncResult, error) {
	accounts, err := s.remote.ListAccounts(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}

	tasks := make([]upsertTask, 0, len(accounts))
	for i := range accounts {
		remote := accounts[i]
		tasks = append(tasks, upsertTask{
			key: remote.Code,
			fn: func(ctx context.Context) error {
				now := time.Now()
				return s.accountRepo.Save(ctx, &ledger.Account{
					Code:        remote.Code,
					Name:        remote.Name,
					Type:        remote.Type,
					ExternalRef: remote.Ref,
					IsActive:    remote.IsActive,
					CreatedAt:   now,
					UpdatedAt:   now,
				})
			},
		})
	}

	result := s.runPool(ctx, tasks)
	s.logger.Info("account sync finished",
		zap.String("tenant_id", tenantID),
		zap.Int("total", result.TotalCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

// SyncTaxRates pulls the active tax rates for a tenant
func (s *CatalogSyncService) SyncTaxRates(ctx context.Context, tenantID string) (*sync.SyncResult, error) {
	rates, err := s.remote.ListTaxRates(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}

	tasks := make([]upsertTask, 0, len(rates))
	for i := range rates {
		remote := rates[i]
		tasks = append(tasks, upsertTask{
			key: remote.TypeName,
			fn: func(ctx context.Context) error {
				now := time.Now()
				return s.taxRateRepo.Save(ctx, &ledger.TaxRate{
					TypeName:    remote.TypeName,
					DisplayName: remote.DisplayName,
					Rate:        remote.Rate,
					ExternalRef: remote.Ref,
					IsActive:    remote.IsActive,
					CreatedAt:   now,
					UpdatedAt:   now,
				})
			},
		})
	}

	result := s.runPool(ctx, tasks)
	s.logger.Info("tax rate sync finished",
		zap.String("tenant_id", tenantID),
		zap.Int("total", result.TotalCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

// SyncItems pulls the active catalog items for a tenant
func (s *CatalogSyncService) SyncItems(ctx context.Context, tenantID string) (*sync.SyncResult, error) {
	items, err := s.remote.ListItems(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}

	tasks := make([]upsertTask, 0, len(items))
	for i := range items {
		remote := items[i]
		tasks = append(tasks, upsertTask{
			key: remote.Code,
			fn: func(ctx context.Context) error {
				now := time.Now()
				return s.itemRepo.Save(ctx, &ledger.CatalogItem{
					Code:        remote.Code,
					Name:        remote.Name,
					UnitAmount:  remote.UnitAmount,
					ExternalRef: remote.Ref,
					IsActive:    remote.IsActive,
					CreatedAt:   now,
					UpdatedAt:   now,
				})
			},
		})
	}

	result := s.runPool(ctx, tasks)
	s.logger.Info("catalog item sync finished",
		zap.String("tenant_id", tenantID),
		zap.Int("total", result.TotalCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

// SyncAll runs the three catalog syncs in sequence. Each list is
// fetched and applied independently; the first fetch error aborts the
// remaining lists since the session is likely unusable.
func (s *CatalogSyncService) SyncAll(ctx context.Context, tenantID string) (map[string]*sync.SyncResult, error) {
	results := make(map[string]*sync.SyncResult, 3)

	accounts, err := s.SyncAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	results["accounts"] = accounts

	rates, err := s.SyncTaxRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	results["tax_rates"] = rates

	items, err := s.SyncItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	results["items"] = items

	return results, nil
}
