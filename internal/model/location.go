// Package model defines domain entities for the application.
package model

// LocationType classifies a geo target constant.
type LocationType string

const (
	LocationTypeCountry  LocationType = "Country"
	LocationTypeRegion   LocationType = "Region"
	LocationTypeDistrict LocationType = "District"
	LocationTypeCity     LocationType = "City"
)

// Location is a geo target constant from the locations table.
// Codes follow the keyword-data location taxonomy (e.g. 1011036 = Auckland).
type Location struct {
	Code           int    `json:"code"`
	Name           string `json:"name"`
	CountryISOCode string `json:"country_iso_code"`
	Type           string `json:"type"`
}
