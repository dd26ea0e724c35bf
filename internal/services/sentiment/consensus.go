package sentiment

import "SentiCast/internal/domain/models"

// Consensus returns the most frequent sentiment among non-failed results.
// Ties go to the label seen first in declaration order; no usable result
// yields "Unknown".
func Consensus(results []models.EndpointResult) string {
	counts := make(map[string]int, len(results))
	var order []string
	for _, r := range results {
		if r.Failed() || r.Sentiment == "" {
			continue
		}
		if _, ok := counts[r.Sentiment]; !ok {
			order = append(order, r.Sentiment)
		}
		counts[r.Sentiment]++
	}

	best, bestCount := models.UnknownSentiment, 0
	for _, s := range order {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}
