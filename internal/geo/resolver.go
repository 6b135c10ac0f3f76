// Package geo resolves caller-supplied location values into identifiers
// usable by the search API.
package geo

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rankscout/rankscout/internal/model"
	"github.com/rankscout/rankscout/internal/repository"
)

// Source identifies how a location value was resolved.
type Source string

const (
	// SourceLookup means the value was a numeric code found in the
	// locations table.
	SourceLookup Source = "lookup"
	// SourceDisplay means the value was parsed from a display string
	// like "Auckland (City · NZ)".
	SourceDisplay Source = "display"
	// SourceUnresolved means parsing failed and the raw input is passed
	// through as a best effort.
	SourceUnresolved Source = "unresolved"
)

// ResolvedLocation is the outcome of resolving a location value.
// Display is always non-empty for non-empty input, even when resolution
// fails; CountryCode is empty when unknown.
type ResolvedLocation struct {
	CityName    string
	CountryCode string // 2-letter lowercase, or empty
	Display     string
	Source      Source
}

// Resolved reports whether the value matched a known shape.
func (l ResolvedLocation) Resolved() bool {
	return l.Source != SourceUnresolved
}

// LocationStore looks up geo target constants by code.
type LocationStore interface {
	GetLocationByCode(ctx context.Context, code int) (*model.Location, error)
}

// Resolver turns location values into search API parameters.
// Resolution never fails: malformed input degrades to an unresolved
// pass-through rather than an error.
type Resolver struct {
	store  LocationStore
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by a location store.
func NewResolver(store LocationStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve maps a location value to a ResolvedLocation. The value is
// either a numeric location code or a display string of the form
// "Name (Type · CC)".
func (r *Resolver) Resolve(ctx context.Context, raw string) ResolvedLocation {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return unresolved(raw)
	}

	if isNumeric(trimmed) {
		if loc, ok := r.lookupCode(ctx, trimmed); ok {
			return fromLookup(loc)
		}
		// Unknown code: fall through to generic parsing, which will
		// degrade to a pass-through for a bare number.
	}

	if resolved, ok := parseDisplayString(trimmed); ok {
		return resolved
	}

	return unresolved(raw)
}

func (r *Resolver) lookupCode(ctx context.Context, value string) (*model.Location, bool) {
	code, err := strconv.Atoi(value)
	if err != nil {
		return nil, false
	}

	loc, err := r.store.GetLocationByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrLocationNotFound) {
			r.logger.Warn("location lookup failed",
				slog.Int("code", code),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	return loc, true
}

// fromLookup builds a ResolvedLocation from a locations-table entry.
func fromLookup(loc *model.Location) ResolvedLocation {
	resolved := ResolvedLocation{
		CityName:    loc.Name,
		CountryCode: strings.ToLower(strings.TrimSpace(loc.CountryISOCode)),
		Source:      SourceLookup,
	}

	if strings.Contains(loc.Name, ",") {
		// The table name already carries a region/country suffix;
		// just normalize the comma spacing.
		parts := strings.Split(loc.Name, ",")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		resolved.Display = strings.Join(parts, ", ")
		return resolved
	}

	resolved.Display = loc.Name + ", " + CountryName(loc.CountryISOCode)
	return resolved
}

// parseDisplayString parses values shaped like "Auckland (City · NZ)".
// The token after the last separator inside the parentheses is treated
// as a country code when it is exactly two letters. This heuristic is a
// deliberate simplification; anything else degrades gracefully.
func parseDisplayString(value string) (ResolvedLocation, bool) {
	open := strings.Index(value, "(")
	closing := strings.LastIndex(value, ")")
	if open <= 0 || closing <= open {
		return ResolvedLocation{}, false
	}

	name := strings.TrimSpace(value[:open])
	if name == "" {
		return ResolvedLocation{}, false
	}

	inside := value[open+1 : closing]
	tokens := strings.Split(inside, "·")
	if len(tokens) == 1 {
		tokens = strings.Split(inside, "-")
	}

	resolved := ResolvedLocation{
		CityName: name,
		Display:  name,
		Source:   SourceDisplay,
	}

	last := strings.TrimSpace(tokens[len(tokens)-1])
	if len(last) == 2 && isAlpha(last) {
		resolved.CountryCode = strings.ToLower(last)
		resolved.Display = name + ", " + CountryName(last)
	}

	return resolved, true
}

func unresolved(raw string) ResolvedLocation {
	return ResolvedLocation{
		CityName: raw,
		Display:  raw,
		Source:   SourceUnresolved,
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return len(s) > 0
}
