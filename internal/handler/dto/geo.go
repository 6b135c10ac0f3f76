package dto

import "github.com/rankscout/rankscout/internal/model"

// LocationResponse represents a canonical location in suggestions.
type LocationResponse struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	Type        string `json:"type"`
	Display     string `json:"display"`
}

// LocationListResponse represents geo suggestion results.
type LocationListResponse struct {
	Data []LocationResponse `json:"data"`
}

// UsageResponse represents usage counters for the stats endpoint.
type UsageResponse struct {
	TotalChecks int64 `json:"total_checks"`
	UserChecks  int64 `json:"user_checks,omitempty"`
}

// ToLocationListResponse converts Location models to suggestion DTOs.
// Display uses the canonical "Name (Type - CC)" form the rank endpoints
// accept back as a location string.
func ToLocationListResponse(locations []*model.Location) *LocationListResponse {
	responses := make([]LocationResponse, len(locations))
	for i, loc := range locations {
		responses[i] = LocationResponse{
			Code:        loc.Code,
			Name:        loc.Name,
			CountryCode: loc.CountryISOCode,
			Type:        loc.Type,
			Display:     loc.Name + " (" + loc.Type + " - " + loc.CountryISOCode + ")",
		}
	}
	return &LocationListResponse{Data: responses}
}
