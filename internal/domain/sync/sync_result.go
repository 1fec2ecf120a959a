package sync

import "time"

// BulkSyncStatus is the overall outcome of a bulk catalog sync
type BulkSyncStatus string

const (
	BulkSyncStatusSuccess BulkSyncStatus = "SUCCESS"
	BulkSyncStatusPartial BulkSyncStatus = "PARTIAL"
	BulkSyncStatusFailed  BulkSyncStatus = "FAILED"
)

// SyncFailure records one failed item within a bulk operation
type SyncFailure struct {
	Key          string
	ErrorMessage string
}

// SyncResult summarizes a bulk catalog sync run. Item failures are
// isolated; the operation never aborts early.
type SyncResult struct {
	Status       BulkSyncStatus
	TotalCount   int
	SuccessCount int
	FailedCount  int
	FailedItems  []SyncFailure
	SyncedAt     time.Time
}

// Finalize sets the overall status from the counters
func (r *SyncResult) Finalize() {
	switch {
	case r.FailedCount == 0:
		r.Status = BulkSyncStatusSuccess
	case r.SuccessCount > 0:
		r.Status = BulkSyncStatusPartial
	default:
		r.Status = BulkSyncStatusFailed
	}
}
