package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rankscout/rankscout/internal/handler/dto"
	"github.com/rankscout/rankscout/internal/model"
	"github.com/rankscout/rankscout/internal/repository"
	"github.com/rankscout/rankscout/internal/serp"
	"github.com/rankscout/rankscout/internal/service"
)

// ReportReader loads persisted batch reports.
type ReportReader interface {
	GetReportByID(ctx context.Context, id string) (*model.RankReport, error)
	ListReports(ctx context.Context, filter repository.ReportFilter, cursor string, limit int) ([]*model.RankReport, string, error)
}

// RankHandler handles HTTP requests for rank operations.
type RankHandler struct {
	svc     *service.RankService
	reports ReportReader
	logger  *slog.Logger
}

// NewRankHandler creates a new RankHandler. reports may be nil when
// report persistence is not wired.
func NewRankHandler(svc *service.RankService, reports ReportReader, logger *slog.Logger) *RankHandler {
	return &RankHandler{
		svc:     svc,
		reports: reports,
		logger:  logger,
	}
}

// Check handles POST /api/v1/rank/check.
func (h *RankHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.CheckRank(r.Context(), service.CheckRankInput{
		Query:     req.Query,
		TargetURL: req.TargetURL,
		Location:  req.Location,
		UserID:    req.UserID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("rank_checked",
		"query", result.Query,
		"found", result.Found(),
		"total_checked", result.TotalChecked,
		"credits", result.Credits,
	)

	writeJSON(w, http.StatusOK, dto.ToCheckRankResponse(result))
}

// Batch handles POST /api/v1/rank/batch.
func (h *RankHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	output, err := h.svc.BatchRank(r.Context(), service.BatchRankInput{
		Keywords:  req.Keywords,
		TargetURL: req.TargetURL,
		Location:  req.Location,
		Top:       req.Top,
		UserID:    req.UserID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("batch_ranked",
		"keyword_count", len(output.Results),
		"top", output.Top,
		"credits", output.Credits,
		"report_id", output.ReportID,
	)

	writeJSON(w, http.StatusOK, dto.ToBatchRankResponse(output))
}

// ListReports handles GET /api/v1/rank/reports.
func (h *RankHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "REPORTS_UNAVAILABLE", "Report storage is not configured")
		return
	}

	query := r.URL.Query()

	limit := 20
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	filter := repository.ReportFilter{UserID: query.Get("user_id")}

	reports, nextCursor, err := h.reports.ListReports(r.Context(), filter, query.Get("cursor"), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToReportListResponse(reports, nextCursor, nextCursor != ""))
}

// GetReport handles GET /api/v1/rank/reports/{id}.
func (h *RankHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "REPORTS_UNAVAILABLE", "Report storage is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Report ID is required")
		return
	}

	report, err := h.reports.GetReportByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToReportResponse(report))
}

// handleServiceError maps service errors to HTTP responses.
func (h *RankHandler) handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *serp.APIError

	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "EMPTY_QUERY", "Query must not be empty")
	case errors.Is(err, service.ErrMissingTargetURL):
		writeError(w, http.StatusBadRequest, "MISSING_TARGET_URL", "Target URL is required")
	case errors.Is(err, service.ErrNoKeywords):
		writeError(w, http.StatusBadRequest, "NO_KEYWORDS", "At least one keyword is required")
	case errors.Is(err, service.ErrTooManyKeywords):
		writeError(w, http.StatusBadRequest, "TOO_MANY_KEYWORDS", "Maximum of 15 keywords per batch")
	case errors.Is(err, repository.ErrReportNotFound):
		writeError(w, http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found")
	case errors.Is(err, repository.ErrInvalidCursor):
		writeError(w, http.StatusBadRequest, "INVALID_CURSOR", "Invalid pagination cursor")
	case errors.As(err, &apiErr):
		h.logger.Warn("serp_error", "error", err)
		writeError(w, http.StatusBadRequest, "SERP_ERROR", "Search API request failed")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
