package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rankscout/rankscout/internal/handler/dto"
	"github.com/rankscout/rankscout/internal/model"
)

type stubLocationSearcher struct {
	locations []*model.Location
	prefix    string
	countries []string
	limit     int
	err       error
}

func (s *stubLocationSearcher) SearchLocations(_ context.Context, prefix string, countries []string, limit int) ([]*model.Location, error) {
	s.prefix = prefix
	s.countries = countries
	s.limit = limit
	return s.locations, s.err
}

func TestGeoHandler_Suggest(t *testing.T) {
	store := &stubLocationSearcher{locations: []*model.Location{
		{Code: 2554, Name: "New Zealand", CountryISOCode: "NZ", Type: "Country"},
		{Code: 1011036, Name: "Auckland", CountryISOCode: "NZ", Type: "City"},
	}}
	h := NewGeoHandler(store, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geo/suggest?q=auck", nil)
	rec := httptest.NewRecorder()

	h.Suggest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response dto.LocationListResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 2 {
		t.Fatalf("got %d locations, want 2", len(response.Data))
	}
	if got := response.Data[1].Display; got != "Auckland (City - NZ)" {
		t.Errorf("display = %q, want %q", got, "Auckland (City - NZ)")
	}

	if store.prefix != "auck" {
		t.Errorf("search prefix = %q, want %q", store.prefix, "auck")
	}
	if store.limit != defaultSuggestLimit {
		t.Errorf("search limit = %d, want %d", store.limit, defaultSuggestLimit)
	}
	if len(store.countries) == 0 {
		t.Error("expected country filter to default to supported markets")
	}
}

func TestGeoHandler_Suggest_QueryTooShort(t *testing.T) {
	h := NewGeoHandler(&stubLocationSearcher{}, discardLogger())

	for _, q := range []string{"", "a", "  a  "} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/geo/suggest?q="+url.QueryEscape(q), nil)
		rec := httptest.NewRecorder()

		h.Suggest(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("q=%q: expected status 400, got %d", q, rec.Code)
		}
	}
}

func TestGeoHandler_Suggest_CountryFilter(t *testing.T) {
	store := &stubLocationSearcher{}
	h := NewGeoHandler(store, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geo/suggest?q=auck&country=nz", nil)
	rec := httptest.NewRecorder()

	h.Suggest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if len(store.countries) != 1 || store.countries[0] != "NZ" {
		t.Errorf("countries = %v, want [NZ]", store.countries)
	}
}

func TestGeoHandler_Suggest_UnsupportedCountry(t *testing.T) {
	store := &stubLocationSearcher{}
	h := NewGeoHandler(store, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geo/suggest?q=tokyo&country=jp", nil)
	rec := httptest.NewRecorder()

	h.Suggest(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != "UNSUPPORTED_COUNTRY" {
		t.Errorf("code = %q, want %q", response.Code, "UNSUPPORTED_COUNTRY")
	}
	if store.prefix != "" {
		t.Error("expected no search for unsupported country")
	}
}
