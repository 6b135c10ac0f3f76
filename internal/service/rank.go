// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rankscout/rankscout/internal/geo"
	"github.com/rankscout/rankscout/internal/metrics"
	"github.com/rankscout/rankscout/internal/model"
	"github.com/rankscout/rankscout/internal/serp"
)

// Service errors.
var (
	ErrEmptyQuery       = errors.New("query must not be empty")
	ErrMissingTargetURL = errors.New("target URL is required")
	ErrNoKeywords       = errors.New("no keywords provided")
	ErrTooManyKeywords  = errors.New("maximum of 15 keywords per batch")
)

const (
	// MaxBatchKeywords caps batch size. Each keyword fans out to paid
	// search API calls, so the cap is a cost-control policy.
	MaxBatchKeywords = 15

	// DefaultTop is the result window when the caller does not set one.
	DefaultTop = 20

	// MaxTop is the largest supported result window.
	MaxTop = 100
)

// SERPClient resolves one keyword's rank via the external search API.
type SERPClient interface {
	FindURLRank(ctx context.Context, input serp.FindRankInput) (*model.RankResult, error)
}

// UsageRecorder tracks how many checks were performed.
type UsageRecorder interface {
	IncrementUsage(ctx context.Context, userID string, n int) error
}

// ReportStore persists batch run reports.
type ReportStore interface {
	CreateReport(ctx context.Context, report *model.RankReport) error
}

// RankService orchestrates rank resolution for single keywords and batches.
type RankService struct {
	serp     SERPClient
	resolver *geo.Resolver
	usage    UsageRecorder
	reports  ReportStore
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewRankService creates a new RankService. usage and reports may be nil
// when the corresponding accounting is not wired (tests).
func NewRankService(serpClient SERPClient, resolver *geo.Resolver, usage UsageRecorder, reports ReportStore, recorder metrics.Recorder, logger *slog.Logger) *RankService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RankService{
		serp:     serpClient,
		resolver: resolver,
		usage:    usage,
		reports:  reports,
		metrics:  recorder,
		logger:   logger,
	}
}

// CheckRankInput defines input for a single-keyword rank check.
type CheckRankInput struct {
	Query     string
	TargetURL string
	Location  string
	UserID    string
}

// CheckRank resolves the rank of one keyword for the target URL.
func (s *RankService) CheckRank(ctx context.Context, input CheckRankInput) (*model.RankResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRankCheckDuration(time.Since(start))
	}()

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	target := strings.TrimSpace(input.TargetURL)
	if target == "" {
		return nil, ErrMissingTargetURL
	}

	loc := s.resolveLocation(ctx, input.Location)

	result, err := s.serp.FindURLRank(ctx, serp.FindRankInput{
		Query:     query,
		TargetURL: target,
		Location:  loc.Display,
		Country:   loc.CountryCode,
		Top:       DefaultTop,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRankCheck(result.Found())
	s.recordUsage(ctx, input.UserID, 1)

	return result, nil
}

// BatchRankInput defines input for a multi-keyword rank check.
type BatchRankInput struct {
	Keywords  []string
	TargetURL string
	Location  string
	Top       int
	UserID    string
}

// BatchRankOutput is the aggregate outcome of a batch run.
type BatchRankOutput struct {
	Location    string
	CountryBias string
	TargetURL   string
	Top         int
	Results     []model.KeywordRank
	Credits     int
	ReportID    string
}

// BatchRank resolves ranks for up to MaxBatchKeywords keywords against
// one target URL. The location is resolved once and shared across the
// batch. A failure on any keyword aborts the whole batch; no partial
// results are returned. Usage accounting and report persistence are
// best-effort and never fail the response.
func (s *RankService) BatchRank(ctx context.Context, input BatchRankInput) (*BatchRankOutput, error) {
	keywords, err := validateKeywords(input.Keywords)
	if err != nil {
		return nil, err
	}
	target := strings.TrimSpace(input.TargetURL)
	if target == "" {
		return nil, ErrMissingTargetURL
	}

	top := clampTop(input.Top)
	loc := s.resolveLocation(ctx, input.Location)

	results := make([]model.KeywordRank, 0, len(keywords))
	credits := 0

	for _, keyword := range keywords {
		r, err := s.serp.FindURLRank(ctx, serp.FindRankInput{
			Query:     keyword,
			TargetURL: target,
			Location:  loc.Display,
			Country:   loc.CountryCode,
			Top:       top,
		})
		if err != nil {
			return nil, fmt.Errorf("rank check for %q: %w", keyword, err)
		}

		credits += r.Credits
		results = append(results, model.KeywordRank{
			Keyword: keyword,
			Rank:    r.Rank,
			URL:     r.URL,
		})
	}

	s.metrics.IncBatchRank()
	s.recordUsage(ctx, input.UserID, len(keywords))

	output := &BatchRankOutput{
		Location:    loc.Display,
		CountryBias: loc.CountryCode,
		TargetURL:   target,
		Top:         top,
		Results:     results,
		Credits:     credits,
	}
	output.ReportID = s.saveReport(ctx, input.UserID, output)

	return output, nil
}

// resolveLocation resolves the location once for a request. An empty
// location yields zero values so the search API receives no geo bias.
func (s *RankService) resolveLocation(ctx context.Context, location string) geo.ResolvedLocation {
	if strings.TrimSpace(location) == "" {
		return geo.ResolvedLocation{Source: geo.SourceUnresolved}
	}
	return s.resolver.Resolve(ctx, location)
}

// recordUsage increments usage counters. Accounting must never block
// the primary result, so failures are logged and dropped.
func (s *RankService) recordUsage(ctx context.Context, userID string, n int) {
	if s.usage == nil {
		return
	}
	if err := s.usage.IncrementUsage(ctx, userID, n); err != nil {
		s.metrics.IncUsageRecordFailed()
		s.logger.Warn("usage accounting failed",
			slog.String("user_id", userID),
			slog.Int("count", n),
			slog.String("error", err.Error()),
		)
	}
}

// saveReport persists the batch outcome. Same best-effort policy as
// usage accounting; returns the report ID, or empty on failure.
func (s *RankService) saveReport(ctx context.Context, userID string, output *BatchRankOutput) string {
	if s.reports == nil {
		return ""
	}

	report := &model.RankReport{
		ID:           ulid.Make().String(),
		UserID:       userID,
		TargetURL:    output.TargetURL,
		Location:     output.Location,
		CountryBias:  output.CountryBias,
		Top:          output.Top,
		KeywordCount: len(output.Results),
		Results:      output.Results,
		Credits:      output.Credits,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.reports.CreateReport(ctx, report); err != nil {
		s.metrics.IncReportSaveFailed()
		s.logger.Warn("report persistence failed",
			slog.String("report_id", report.ID),
			slog.String("error", err.Error()),
		)
		return ""
	}

	return report.ID
}

// validateKeywords rejects empty or oversized batches and blank entries
// before any paid external call is made.
func validateKeywords(keywords []string) ([]string, error) {
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if len(keywords) > MaxBatchKeywords {
		return nil, ErrTooManyKeywords
	}

	cleaned := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		trimmed := strings.TrimSpace(keyword)
		if trimmed == "" {
			return nil, ErrEmptyQuery
		}
		cleaned = append(cleaned, trimmed)
	}

	return cleaned, nil
}

// clampTop bounds the result window to [1, MaxTop], defaulting to
// DefaultTop when unset or non-positive.
func clampTop(top int) int {
	if top < 1 {
		return DefaultTop
	}
	if top > MaxTop {
		return MaxTop
	}
	return top
}
