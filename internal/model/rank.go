package model

// RankResult is the outcome of resolving one keyword's organic rank.
// Rank and URL are nil when the target was not found within Top results.
type RankResult struct {
	Query        string  `json:"query"`
	TargetURL    string  `json:"target_url"`
	Rank         *int    `json:"rank"`
	URL          *string `json:"url"`
	TotalChecked int     `json:"totalChecked"`
	Top          int     `json:"top"`
	Credits      int     `json:"credits"`
}

// Found reports whether the target URL appeared within the checked results.
func (r *RankResult) Found() bool {
	return r.Rank != nil
}

// KeywordRank is one keyword's outcome within a batch run.
type KeywordRank struct {
	Keyword string  `json:"keyword"`
	Rank    *int    `json:"rank"`
	URL     *string `json:"url"`
}
