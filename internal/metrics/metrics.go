// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Rank resolution metrics
	IncRankCheck(found bool)
	IncBatchRank()
	ObserveRankCheckDuration(duration time.Duration)

	// Search API metrics
	IncSERPRequest()
	IncSERPError()
	AddSERPCredits(credits int)

	// Accounting metrics
	IncUsageRecordFailed()
	IncReportSaveFailed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
