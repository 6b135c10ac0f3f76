package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rankscout/rankscout/internal/geo"
	"github.com/rankscout/rankscout/internal/handler/dto"
	"github.com/rankscout/rankscout/internal/model"
)

const (
	minSuggestQueryLen  = 2
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// LocationSearcher finds canonical locations by name prefix.
type LocationSearcher interface {
	SearchLocations(ctx context.Context, prefix string, countries []string, limit int) ([]*model.Location, error)
}

// GeoHandler handles location suggestion requests.
type GeoHandler struct {
	store  LocationSearcher
	logger *slog.Logger
}

// NewGeoHandler creates a new GeoHandler.
func NewGeoHandler(store LocationSearcher, logger *slog.Logger) *GeoHandler {
	return &GeoHandler{
		store:  store,
		logger: logger,
	}
}

// Suggest handles GET /api/v1/geo/suggest.
// Results are restricted to the supported countries and ordered from
// broadest location type to narrowest.
func (h *GeoHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := strings.TrimSpace(query.Get("q"))
	if len(q) < minSuggestQueryLen {
		writeError(w, http.StatusBadRequest, "QUERY_TOO_SHORT", "Query must be at least 2 characters")
		return
	}

	limit := defaultSuggestLimit
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxSuggestLimit {
			limit = parsed
		}
	}

	countries := geo.AllowedCountries()
	if c := strings.TrimSpace(query.Get("country")); c != "" {
		code := strings.ToUpper(c)
		if !geo.AllowedCountryCodes[code] {
			writeError(w, http.StatusBadRequest, "UNSUPPORTED_COUNTRY", "Country is not supported")
			return
		}
		countries = []string{code}
	}

	locations, err := h.store.SearchLocations(r.Context(), q, countries, limit)
	if err != nil {
		h.logger.Error("location search failed", "error", err, "query", q)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLocationListResponse(locations))
}
