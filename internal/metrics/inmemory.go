package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RankChecks               uint64
	RankChecksFound          uint64
	BatchRanks               uint64
	RankCheckDurationCount   uint64
	RankCheckDurationTotalNs int64
	SERPRequests             uint64
	SERPErrors               uint64
	SERPCredits              uint64
	UsageRecordFailures      uint64
	ReportSaveFailures       uint64
}

// InMemoryRecorder stores metrics in memory. Used by the snapshot
// endpoint and in tests.
type InMemoryRecorder struct {
	rankChecks               uint64
	rankChecksFound          uint64
	batchRanks               uint64
	rankCheckDurationCount   uint64
	rankCheckDurationTotalNs int64
	serpRequests             uint64
	serpErrors               uint64
	serpCredits              uint64
	usageRecordFailures      uint64
	reportSaveFailures       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RankChecks:               atomic.LoadUint64(&m.rankChecks),
		RankChecksFound:          atomic.LoadUint64(&m.rankChecksFound),
		BatchRanks:               atomic.LoadUint64(&m.batchRanks),
		RankCheckDurationCount:   atomic.LoadUint64(&m.rankCheckDurationCount),
		RankCheckDurationTotalNs: atomic.LoadInt64(&m.rankCheckDurationTotalNs),
		SERPRequests:             atomic.LoadUint64(&m.serpRequests),
		SERPErrors:               atomic.LoadUint64(&m.serpErrors),
		SERPCredits:              atomic.LoadUint64(&m.serpCredits),
		UsageRecordFailures:      atomic.LoadUint64(&m.usageRecordFailures),
		ReportSaveFailures:       atomic.LoadUint64(&m.reportSaveFailures),
	}
}

// IncRankCheck increments the rank check counter.
func (m *InMemoryRecorder) IncRankCheck(found bool) {
	atomic.AddUint64(&m.rankChecks, 1)
	if found {
		atomic.AddUint64(&m.rankChecksFound, 1)
	}
}

// IncBatchRank increments the batch run counter.
func (m *InMemoryRecorder) IncBatchRank() {
	atomic.AddUint64(&m.batchRanks, 1)
}

// ObserveRankCheckDuration records rank check duration.
func (m *InMemoryRecorder) ObserveRankCheckDuration(duration time.Duration) {
	atomic.AddUint64(&m.rankCheckDurationCount, 1)
	atomic.AddInt64(&m.rankCheckDurationTotalNs, duration.Nanoseconds())
}

// IncSERPRequest increments the search API request counter.
func (m *InMemoryRecorder) IncSERPRequest() {
	atomic.AddUint64(&m.serpRequests, 1)
}

// IncSERPError increments the search API error counter.
func (m *InMemoryRecorder) IncSERPError() {
	atomic.AddUint64(&m.serpErrors, 1)
}

// AddSERPCredits adds consumed search API credits.
func (m *InMemoryRecorder) AddSERPCredits(credits int) {
	if credits > 0 {
		atomic.AddUint64(&m.serpCredits, uint64(credits))
	}
}

// IncUsageRecordFailed increments the usage accounting failure counter.
func (m *InMemoryRecorder) IncUsageRecordFailed() {
	atomic.AddUint64(&m.usageRecordFailures, 1)
}

// IncReportSaveFailed increments the report persistence failure counter.
func (m *InMemoryRecorder) IncReportSaveFailed() {
	atomic.AddUint64(&m.reportSaveFailures, 1)
}
