package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rankscout/rankscout/internal/handler/dto"
	"github.com/rankscout/rankscout/internal/model"
)

// UsageReader loads usage counters.
type UsageReader interface {
	GetUsage(ctx context.Context, userID string) (*model.UsageCounters, error)
}

// StatsHandler exposes usage accounting.
type StatsHandler struct {
	usage  UsageReader
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(usage UsageReader, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		usage:  usage,
		logger: logger,
	}
}

// Usage handles GET /api/v1/stats/usage.
// Pass user_id to include that user's counter alongside the total.
func (h *StatsHandler) Usage(w http.ResponseWriter, r *http.Request) {
	if h.usage == nil {
		writeError(w, http.StatusServiceUnavailable, "USAGE_UNAVAILABLE", "Usage accounting is not configured")
		return
	}

	counters, err := h.usage.GetUsage(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.logger.Error("usage read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.UsageResponse{
		TotalChecks: counters.TotalChecks,
		UserChecks:  counters.UserChecks,
	})
}
