package geo

import (
	"sort"
	"strings"
)

// countryNames maps ISO 3166-1 alpha-2 codes to full country names for
// the markets the locations table is filtered to.
var countryNames = map[string]string{
	"US": "United States",
	"GB": "United Kingdom",
	"CA": "Canada",
	"AU": "Australia",
	"NZ": "New Zealand",
	"IE": "Ireland",
	"SG": "Singapore",
	"AE": "United Arab Emirates",
	"IL": "Israel",
	"ZA": "South Africa",
	"PH": "Philippines",
	"IN": "India",
	"NG": "Nigeria",
	"MY": "Malaysia",
	"PK": "Pakistan",
	"KE": "Kenya",
	"GH": "Ghana",
}

// AllowedCountryCodes is the set of countries served by geo suggestions.
var AllowedCountryCodes = func() map[string]bool {
	set := make(map[string]bool, len(countryNames))
	for code := range countryNames {
		set[code] = true
	}
	return set
}()

// AllowedCountries returns the supported ISO codes in sorted order.
func AllowedCountries() []string {
	codes := make([]string, 0, len(countryNames))
	for code := range countryNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CountryName resolves an ISO code to its full country name, falling
// back to the uppercase code itself when unmapped.
func CountryName(isoCode string) string {
	code := strings.ToUpper(strings.TrimSpace(isoCode))
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}
