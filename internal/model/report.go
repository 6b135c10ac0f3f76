package model

import "time"

// RankReport is a persisted record of one batch rank run.
// Results are stored as JSONB; the report itself is immutable once written.
type RankReport struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	TargetURL    string        `json:"target_url"`
	Location     string        `json:"location"`
	CountryBias  string        `json:"country_bias"`
	Top          int           `json:"top"`
	KeywordCount int           `json:"keyword_count"`
	Results      []KeywordRank `json:"results"`
	Credits      int           `json:"credits"`
	CreatedAt    time.Time     `json:"created_at"`
}

// UsageCounters is a snapshot of the usage accounting counters.
type UsageCounters struct {
	TotalChecks int64 `json:"total_checks"`
	UserChecks  int64 `json:"user_checks"`
}
