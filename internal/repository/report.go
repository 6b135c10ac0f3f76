package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rankscout/rankscout/internal/model"
)

// Common errors for report repository operations.
var (
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidCursor  = errors.New("invalid pagination cursor")
)

// ReportFilter defines filters for listing rank reports.
type ReportFilter struct {
	UserID string
}

// PaginationCursor represents decoded cursor for pagination.
type PaginationCursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReport inserts a new rank report.
func (r *Repository) CreateReport(ctx context.Context, report *model.RankReport) error {
	results, err := json.Marshal(report.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal report results: %w", err)
	}

	query := `
		INSERT INTO rank_reports (id, user_id, target_url, location, country_bias, top_n, keyword_count, results, credits, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.pool.Exec(ctx, query,
		report.ID,
		report.UserID,
		report.TargetURL,
		report.Location,
		report.CountryBias,
		report.Top,
		report.KeywordCount,
		results,
		report.Credits,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetReportByID retrieves a rank report by its ID.
func (r *Repository) GetReportByID(ctx context.Context, id string) (*model.RankReport, error) {
	query := `
		SELECT id, user_id, target_url, location, country_bias, top_n, keyword_count, results, credits, created_at
		FROM rank_reports
		WHERE id = $1
	`

	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report by ID: %w", err)
	}

	return report, nil
}

// ListReports retrieves a paginated list of rank reports, newest first.
func (r *Repository) ListReports(ctx context.Context, filter ReportFilter, cursor string, limit int) ([]*model.RankReport, string, error) {
	var cursorData *PaginationCursor
	if cursor != "" {
		var err error
		cursorData, err = decodeCursor(cursor)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
	}

	query := `
		SELECT id, user_id, target_url, location, country_bias, top_n, keyword_count, results, credits, created_at
		FROM rank_reports
		WHERE 1=1
	`
	args := []any{}
	argIndex := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, filter.UserID)
		argIndex++
	}

	if cursorData != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, cursorData.CreatedAt, cursorData.ID)
		argIndex += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIndex)
	args = append(args, limit+1) // Fetch one extra to determine hasMore

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.RankReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating reports: %w", err)
	}

	var nextCursor string
	if len(reports) > limit {
		reports = reports[:limit]
		last := reports[len(reports)-1]
		nextCursor = encodeCursor(&PaginationCursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		})
	}

	return reports, nextCursor, nil
}

// DeleteReportsBefore removes reports created before the given time.
// Used by retention cleanup.
func (r *Repository) DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM rank_reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old reports: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanReport scans a single row into a RankReport model.
func scanReport(row pgx.Row) (*model.RankReport, error) {
	var report model.RankReport
	var results []byte

	err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.TargetURL,
		&report.Location,
		&report.CountryBias,
		&report.Top,
		&report.KeywordCount,
		&results,
		&report.Credits,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if err := json.Unmarshal(results, &report.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report results: %w", err)
		}
	}

	return &report, nil
}

// encodeCursor encodes pagination cursor to base64.
func encodeCursor(cursor *PaginationCursor) string {
	data, _ := json.Marshal(cursor)
	return base64.URLEncoding.EncodeToString(data)
}

// decodeCursor decodes base64 pagination cursor.
func decodeCursor(s string) (*PaginationCursor, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var cursor PaginationCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}
