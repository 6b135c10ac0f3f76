package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRankCheck is a no-op.
func (n *NoopRecorder) IncRankCheck(found bool) {}

// IncBatchRank is a no-op.
func (n *NoopRecorder) IncBatchRank() {}

// ObserveRankCheckDuration is a no-op.
func (n *NoopRecorder) ObserveRankCheckDuration(duration time.Duration) {}

// IncSERPRequest is a no-op.
func (n *NoopRecorder) IncSERPRequest() {}

// IncSERPError is a no-op.
func (n *NoopRecorder) IncSERPError() {}

// AddSERPCredits is a no-op.
func (n *NoopRecorder) AddSERPCredits(credits int) {}

// IncUsageRecordFailed is a no-op.
func (n *NoopRecorder) IncUsageRecordFailed() {}

// IncReportSaveFailed is a no-op.
func (n *NoopRecorder) IncReportSaveFailed() {}
