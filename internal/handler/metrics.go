package handler

import (
	"fmt"
	"net/http"

	"github.com/rankscout/rankscout/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "rankscout_rank_checks_total{found=\"true\"} %d\n", snap.RankChecksFound)
	writeMetric(w, "rankscout_rank_checks_total{found=\"false\"} %d\n", snap.RankChecks-snap.RankChecksFound)
	writeMetric(w, "rankscout_batch_ranks_total %d\n", snap.BatchRanks)
	writeMetric(w, "rankscout_rank_check_duration_seconds_count %d\n", snap.RankCheckDurationCount)
	writeMetric(w, "rankscout_rank_check_duration_seconds_sum %.6f\n", float64(snap.RankCheckDurationTotalNs)/1e9)

	writeMetric(w, "rankscout_serp_requests_total %d\n", snap.SERPRequests)
	writeMetric(w, "rankscout_serp_errors_total %d\n", snap.SERPErrors)
	writeMetric(w, "rankscout_serp_credits_total %d\n", snap.SERPCredits)

	writeMetric(w, "rankscout_usage_record_failures_total %d\n", snap.UsageRecordFailures)
	writeMetric(w, "rankscout_report_save_failures_total %d\n", snap.ReportSaveFailures)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
