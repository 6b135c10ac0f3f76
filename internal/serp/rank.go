package serp

import "github.com/rankscout/rankscout/internal/model"

// matchRank scans accumulated organic results for the target URL and
// returns the 1-based position of the best match within top results.
//
// Match policy: an exact (host, path) match wins immediately. The first
// item on the target's domain with a different path is remembered as a
// fallback and used only when no exact match appears in the scanned
// window. Neither match leaves Rank nil.
func matchRank(items []OrganicResult, query, targetURL string, top int) *model.RankResult {
	target := Normalize(targetURL)

	result := &model.RankResult{
		Query:     query,
		TargetURL: targetURL,
		Top:       top,
	}

	result.TotalChecked = len(items)
	if result.TotalChecked > top {
		result.TotalChecked = top
	}

	var fallbackRank int
	var fallbackURL string

	for i, item := range items {
		if i >= top {
			break
		}
		if item.Link == "" {
			continue
		}

		candidate := Normalize(item.Link)
		if candidate.Host != target.Host {
			continue
		}

		if candidate.Path == target.Path {
			rank := i + 1
			link := item.Link
			result.Rank = &rank
			result.URL = &link
			return result
		}

		if fallbackRank == 0 {
			fallbackRank = i + 1
			fallbackURL = item.Link
		}
	}

	if fallbackRank > 0 {
		result.Rank = &fallbackRank
		result.URL = &fallbackURL
	}

	return result
}
