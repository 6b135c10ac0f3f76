// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"fmt"
	"time"

	"github.com/rankscout/rankscout/internal/model"
	"github.com/rankscout/rankscout/internal/service"
)

// CheckRankRequest represents the request body for a single rank check.
type CheckRankRequest struct {
	Query     string `json:"query"`
	TargetURL string `json:"target_url"`
	Location  string `json:"location,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// BatchRankRequest represents the request body for a batch rank check.
type BatchRankRequest struct {
	Keywords  []string `json:"keywords"`
	TargetURL string   `json:"target_url"`
	Location  string   `json:"location,omitempty"`
	Top       int      `json:"top,omitempty"`
	UserID    string   `json:"user_id,omitempty"`
}

// CheckRankResponse represents the outcome of a single rank check.
// Rank is either the numeric position or a "Not in top N" string.
type CheckRankResponse struct {
	Query        string  `json:"query"`
	TargetURL    string  `json:"target_url"`
	Rank         any     `json:"rank"`
	URL          *string `json:"url,omitempty"`
	TotalChecked int     `json:"total_checked"`
	Top          int     `json:"top"`
	Credits      int     `json:"credits"`
}

// KeywordRankResponse is one keyword's outcome within a batch response.
type KeywordRankResponse struct {
	Keyword string  `json:"keyword"`
	Rank    any     `json:"rank"`
	URL     *string `json:"url,omitempty"`
}

// BatchRankResponse represents the outcome of a batch rank check.
type BatchRankResponse struct {
	OK          bool                  `json:"ok"`
	TargetURL   string                `json:"target_url"`
	Location    string                `json:"location,omitempty"`
	CountryBias string                `json:"country_bias,omitempty"`
	Top         int                   `json:"top"`
	Results     []KeywordRankResponse `json:"results"`
	Credits     int                   `json:"credits"`
	ReportID    string                `json:"report_id,omitempty"`
}

// ReportResponse represents a persisted batch report.
type ReportResponse struct {
	ID           string                `json:"id"`
	TargetURL    string                `json:"target_url"`
	Location     string                `json:"location,omitempty"`
	CountryBias  string                `json:"country_bias,omitempty"`
	Top          int                   `json:"top"`
	KeywordCount int                   `json:"keyword_count"`
	Results      []KeywordRankResponse `json:"results"`
	Credits      int                   `json:"credits"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ReportListResponse represents a paginated list of reports.
type ReportListResponse struct {
	Data       []ReportResponse `json:"data"`
	Pagination *Pagination      `json:"pagination"`
}

// Pagination provides cursor-based pagination info.
type Pagination struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// rankValue renders a rank as a number when found, or the
// "Not in top N" sentinel string when not.
func rankValue(rank *int, top int) any {
	if rank == nil {
		return fmt.Sprintf("Not in top %d", top)
	}
	return *rank
}

// ToCheckRankResponse converts a RankResult to its API representation.
func ToCheckRankResponse(result *model.RankResult) *CheckRankResponse {
	return &CheckRankResponse{
		Query:        result.Query,
		TargetURL:    result.TargetURL,
		Rank:         rankValue(result.Rank, result.Top),
		URL:          result.URL,
		TotalChecked: result.TotalChecked,
		Top:          result.Top,
		Credits:      result.Credits,
	}
}

// ToBatchRankResponse converts a batch outcome to its API representation.
func ToBatchRankResponse(output *service.BatchRankOutput) *BatchRankResponse {
	return &BatchRankResponse{
		OK:          true,
		TargetURL:   output.TargetURL,
		Location:    output.Location,
		CountryBias: output.CountryBias,
		Top:         output.Top,
		Results:     toKeywordRankResponses(output.Results, output.Top),
		Credits:     output.Credits,
		ReportID:    output.ReportID,
	}
}

// ToReportResponse converts a RankReport model to ReportResponse DTO.
func ToReportResponse(report *model.RankReport) *ReportResponse {
	return &ReportResponse{
		ID:           report.ID,
		TargetURL:    report.TargetURL,
		Location:     report.Location,
		CountryBias:  report.CountryBias,
		Top:          report.Top,
		KeywordCount: report.KeywordCount,
		Results:      toKeywordRankResponses(report.Results, report.Top),
		Credits:      report.Credits,
		CreatedAt:    report.CreatedAt,
	}
}

// ToReportListResponse converts a page of reports to ReportListResponse.
func ToReportListResponse(reports []*model.RankReport, nextCursor string, hasMore bool) *ReportListResponse {
	responses := make([]ReportResponse, len(reports))
	for i, report := range reports {
		responses[i] = *ToReportResponse(report)
	}
	return &ReportListResponse{
		Data: responses,
		Pagination: &Pagination{
			NextCursor: nextCursor,
			HasMore:    hasMore,
		},
	}
}

func toKeywordRankResponses(results []model.KeywordRank, top int) []KeywordRankResponse {
	responses := make([]KeywordRankResponse, len(results))
	for i, r := range results {
		responses[i] = KeywordRankResponse{
			Keyword: r.Keyword,
			Rank:    rankValue(r.Rank, top),
			URL:     r.URL,
		}
	}
	return responses
}
