package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rankscout/rankscout/internal/geo"
	"github.com/rankscout/rankscout/internal/metrics"
	"github.com/rankscout/rankscout/internal/model"
	"github.com/rankscout/rankscout/internal/serp"
)

type fakeSERPClient struct {
	calls   []serp.FindRankInput
	results map[string]*model.RankResult
	err     error
	failOn  string
}

func (f *fakeSERPClient) FindURLRank(_ context.Context, input serp.FindRankInput) (*model.RankResult, error) {
	f.calls = append(f.calls, input)
	if f.err != nil && (f.failOn == "" || f.failOn == input.Query) {
		return nil, f.err
	}
	if r, ok := f.results[input.Query]; ok {
		return r, nil
	}
	return &model.RankResult{
		Query:        input.Query,
		TargetURL:    input.TargetURL,
		Top:          input.Top,
		TotalChecked: input.Top,
		Credits:      1,
	}, nil
}

type fakeUsageRecorder struct {
	userID string
	total  int
	err    error
}

func (f *fakeUsageRecorder) IncrementUsage(_ context.Context, userID string, n int) error {
	if f.err != nil {
		return f.err
	}
	f.userID = userID
	f.total += n
	return nil
}

type fakeReportStore struct {
	reports []*model.RankReport
	err     error
}

func (f *fakeReportStore) CreateReport(_ context.Context, report *model.RankReport) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, report)
	return nil
}

type staticLocationStore struct {
	locations map[int]*model.Location
}

func (s *staticLocationStore) GetLocationByCode(_ context.Context, code int) (*model.Location, error) {
	if loc, ok := s.locations[code]; ok {
		return loc, nil
	}
	return nil, errors.New("not found")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResolver() *geo.Resolver {
	store := &staticLocationStore{locations: map[int]*model.Location{
		1011036: {Code: 1011036, Name: "Auckland", CountryISOCode: "NZ", Type: string(model.LocationTypeCity)},
	}}
	return geo.NewResolver(store, testLogger())
}

func newTestService(client SERPClient, usage UsageRecorder, reports ReportStore) *RankService {
	return NewRankService(client, testResolver(), usage, reports, metrics.NewInMemory(), testLogger())
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestCheckRank(t *testing.T) {
	client := &fakeSERPClient{results: map[string]*model.RankResult{
		"seo training": {
			Query:        "seo training",
			TargetURL:    "https://example.com/seo",
			Rank:         intPtr(3),
			URL:          strPtr("https://example.com/seo"),
			Top:          20,
			TotalChecked: 20,
			Credits:      2,
		},
	}}
	usage := &fakeUsageRecorder{}
	svc := newTestService(client, usage, nil)

	result, err := svc.CheckRank(context.Background(), CheckRankInput{
		Query:     "seo training",
		TargetURL: "https://example.com/seo",
		Location:  "1011036",
		UserID:    "user-1",
	})
	if err != nil {
		t.Fatalf("CheckRank() error = %v", err)
	}

	if result.Rank == nil || *result.Rank != 3 {
		t.Errorf("Rank = %v, want 3", result.Rank)
	}
	if result.Credits != 2 {
		t.Errorf("Credits = %d, want 2", result.Credits)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected 1 search call, got %d", len(client.calls))
	}
	if got := client.calls[0].Location; got != "Auckland, New Zealand" {
		t.Errorf("resolved location = %q, want %q", got, "Auckland, New Zealand")
	}
	if got := client.calls[0].Country; got != "nz" {
		t.Errorf("country bias = %q, want %q", got, "nz")
	}
	if client.calls[0].Top != DefaultTop {
		t.Errorf("Top = %d, want %d", client.calls[0].Top, DefaultTop)
	}
	if usage.total != 1 {
		t.Errorf("usage total = %d, want 1", usage.total)
	}
}

func TestCheckRankValidation(t *testing.T) {
	svc := newTestService(&fakeSERPClient{}, nil, nil)

	tests := []struct {
		name    string
		input   CheckRankInput
		wantErr error
	}{
		{
			name:    "empty query",
			input:   CheckRankInput{Query: "  ", TargetURL: "https://example.com"},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "missing target",
			input:   CheckRankInput{Query: "seo", TargetURL: ""},
			wantErr: ErrMissingTargetURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CheckRank(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckRank() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckRankNoLocation(t *testing.T) {
	client := &fakeSERPClient{}
	svc := newTestService(client, nil, nil)

	if _, err := svc.CheckRank(context.Background(), CheckRankInput{
		Query:     "seo",
		TargetURL: "https://example.com",
	}); err != nil {
		t.Fatalf("CheckRank() error = %v", err)
	}

	if got := client.calls[0].Location; got != "" {
		t.Errorf("Location = %q, want empty", got)
	}
	if got := client.calls[0].Country; got != "" {
		t.Errorf("Country = %q, want empty", got)
	}
}

func TestCheckRankUsageFailureIsSwallowed(t *testing.T) {
	usage := &fakeUsageRecorder{err: errors.New("redis down")}
	svc := newTestService(&fakeSERPClient{}, usage, nil)

	if _, err := svc.CheckRank(context.Background(), CheckRankInput{
		Query:     "seo",
		TargetURL: "https://example.com",
	}); err != nil {
		t.Fatalf("CheckRank() error = %v, want nil", err)
	}
}

func TestBatchRank(t *testing.T) {
	client := &fakeSERPClient{results: map[string]*model.RankResult{
		"kw1": {Rank: intPtr(2), URL: strPtr("https://example.com/a"), Credits: 2},
		"kw2": {Credits: 2},
	}}
	usage := &fakeUsageRecorder{}
	reports := &fakeReportStore{}
	svc := newTestService(client, usage, reports)

	output, err := svc.BatchRank(context.Background(), BatchRankInput{
		Keywords:  []string{"kw1", "kw2"},
		TargetURL: "https://example.com",
		Location:  "1011036",
		Top:       30,
		UserID:    "user-1",
	})
	if err != nil {
		t.Fatalf("BatchRank() error = %v", err)
	}

	if output.Location != "Auckland, New Zealand" {
		t.Errorf("Location = %q, want %q", output.Location, "Auckland, New Zealand")
	}
	if output.CountryBias != "nz" {
		t.Errorf("CountryBias = %q, want %q", output.CountryBias, "nz")
	}
	if output.Top != 30 {
		t.Errorf("Top = %d, want 30", output.Top)
	}
	if len(output.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(output.Results))
	}
	if output.Results[0].Rank == nil || *output.Results[0].Rank != 2 {
		t.Errorf("kw1 rank = %v, want 2", output.Results[0].Rank)
	}
	if output.Results[1].Rank != nil {
		t.Errorf("kw2 rank = %v, want nil", output.Results[1].Rank)
	}
	if output.Credits != 4 {
		t.Errorf("Credits = %d, want 4", output.Credits)
	}
	if usage.total != 2 {
		t.Errorf("usage total = %d, want 2", usage.total)
	}

	if len(reports.reports) != 1 {
		t.Fatalf("got %d saved reports, want 1", len(reports.reports))
	}
	report := reports.reports[0]
	if output.ReportID == "" || output.ReportID != report.ID {
		t.Errorf("ReportID = %q, want saved report id %q", output.ReportID, report.ID)
	}
	if report.KeywordCount != 2 {
		t.Errorf("report KeywordCount = %d, want 2", report.KeywordCount)
	}
	if report.Credits != 4 {
		t.Errorf("report Credits = %d, want 4", report.Credits)
	}
}

func TestBatchRankValidation(t *testing.T) {
	tooMany := make([]string, MaxBatchKeywords+1)
	for i := range tooMany {
		tooMany[i] = "kw"
	}

	tests := []struct {
		name    string
		input   BatchRankInput
		wantErr error
	}{
		{
			name:    "no keywords",
			input:   BatchRankInput{TargetURL: "https://example.com"},
			wantErr: ErrNoKeywords,
		},
		{
			name:    "too many keywords",
			input:   BatchRankInput{Keywords: tooMany, TargetURL: "https://example.com"},
			wantErr: ErrTooManyKeywords,
		},
		{
			name:    "blank keyword",
			input:   BatchRankInput{Keywords: []string{"kw1", "  "}, TargetURL: "https://example.com"},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "missing target",
			input:   BatchRankInput{Keywords: []string{"kw1"}},
			wantErr: ErrMissingTargetURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSERPClient{}
			svc := newTestService(client, nil, nil)

			_, err := svc.BatchRank(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BatchRank() error = %v, want %v", err, tt.wantErr)
			}
			if len(client.calls) != 0 {
				t.Errorf("expected no search calls, got %d", len(client.calls))
			}
		})
	}
}

func TestBatchRankTopClamp(t *testing.T) {
	tests := []struct {
		name string
		top  int
		want int
	}{
		{name: "zero defaults", top: 0, want: DefaultTop},
		{name: "negative defaults", top: -5, want: DefaultTop},
		{name: "above max clamps", top: 500, want: MaxTop},
		{name: "in range kept", top: 50, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSERPClient{}
			svc := newTestService(client, nil, nil)

			output, err := svc.BatchRank(context.Background(), BatchRankInput{
				Keywords:  []string{"kw1"},
				TargetURL: "https://example.com",
				Top:       tt.top,
			})
			if err != nil {
				t.Fatalf("BatchRank() error = %v", err)
			}
			if output.Top != tt.want {
				t.Errorf("Top = %d, want %d", output.Top, tt.want)
			}
			if client.calls[0].Top != tt.want {
				t.Errorf("search Top = %d, want %d", client.calls[0].Top, tt.want)
			}
		})
	}
}

func TestBatchRankAllOrNothing(t *testing.T) {
	client := &fakeSERPClient{
		err:    errors.New("upstream 500"),
		failOn: "kw2",
	}
	usage := &fakeUsageRecorder{}
	reports := &fakeReportStore{}
	svc := newTestService(client, usage, reports)

	_, err := svc.BatchRank(context.Background(), BatchRankInput{
		Keywords:  []string{"kw1", "kw2", "kw3"},
		TargetURL: "https://example.com",
		UserID:    "user-1",
	})
	if err == nil {
		t.Fatal("BatchRank() error = nil, want failure")
	}

	// kw3 is never attempted, nothing is accounted or persisted.
	if len(client.calls) != 2 {
		t.Errorf("got %d search calls, want 2", len(client.calls))
	}
	if usage.total != 0 {
		t.Errorf("usage total = %d, want 0", usage.total)
	}
	if len(reports.reports) != 0 {
		t.Errorf("got %d saved reports, want 0", len(reports.reports))
	}
}

func TestBatchRankReportFailureIsSwallowed(t *testing.T) {
	reports := &fakeReportStore{err: errors.New("pg down")}
	svc := newTestService(&fakeSERPClient{}, nil, reports)

	output, err := svc.BatchRank(context.Background(), BatchRankInput{
		Keywords:  []string{"kw1"},
		TargetURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("BatchRank() error = %v, want nil", err)
	}
	if output.ReportID != "" {
		t.Errorf("ReportID = %q, want empty on save failure", output.ReportID)
	}
}
