package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rankscout/rankscout/internal/model"
)

// ErrLocationNotFound indicates no locations-table entry for a code.
var ErrLocationNotFound = errors.New("location not found")

// GetLocationByCode retrieves a geo target constant by its code.
func (r *Repository) GetLocationByCode(ctx context.Context, code int) (*model.Location, error) {
	query := `
		SELECT location_code, location_name, country_iso_code, location_type
		FROM locations
		WHERE location_code = $1
	`

	var loc model.Location
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&loc.Code,
		&loc.Name,
		&loc.CountryISOCode,
		&loc.Type,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location by code: %w", err)
	}

	return &loc, nil
}

// SearchLocations finds locations whose name starts with the given
// prefix, restricted to the allowed countries. Broader location types
// sort before narrower ones (Country, Region, District, City), then by
// name, matching the ordering of the suggestion dropdown.
func (r *Repository) SearchLocations(ctx context.Context, prefix string, countries []string, limit int) ([]*model.Location, error) {
	query := `
		SELECT location_code, location_name, country_iso_code, location_type
		FROM locations
		WHERE location_name ILIKE $1 || '%'
		  AND country_iso_code = ANY($2)
		ORDER BY
			CASE location_type
				WHEN 'Country' THEN 0
				WHEN 'Region' THEN 1
				WHEN 'District' THEN 2
				WHEN 'City' THEN 3
				ELSE 9
			END,
			LOWER(location_name)
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, prefix, countries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}
	defer rows.Close()

	var locations []*model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.Code, &loc.Name, &loc.CountryISOCode, &loc.Type); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, &loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

// UpsertLocation inserts or replaces a locations-table entry.
// Used by the import tooling and tests; serving traffic only reads.
func (r *Repository) UpsertLocation(ctx context.Context, loc *model.Location) error {
	query := `
		INSERT INTO locations (location_code, location_name, country_iso_code, location_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (location_code) DO UPDATE
		SET location_name = EXCLUDED.location_name,
		    country_iso_code = EXCLUDED.country_iso_code,
		    location_type = EXCLUDED.location_type
	`

	_, err := r.pool.Exec(ctx, query, loc.Code, loc.Name, loc.CountryISOCode, loc.Type)
	if err != nil {
		return fmt.Errorf("failed to upsert location: %w", err)
	}

	return nil
}
