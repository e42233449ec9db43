package evaluation

import (
	"strings"

	"github.com/santekene/ai-service/internal/domain/entities"
)

// RecallAtK computes Recall@K: the fraction of relevant items found in the top-K retrieved results.
// Items are compared case-insensitively. Returns 1.0 if relevant is empty.
func RecallAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 1.0
	}

	relevantSet := make(map[string]struct{}, len(relevant))
	for _, r := range relevant {
		relevantSet[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	if k < 0 {
		k = 0
	}
	topK := retrieved
	if k < len(topK) {
		topK = topK[:k]
	}

	found := 0
	for _, r := range topK {
		key := strings.ToLower(strings.TrimSpace(r))
		if _, ok := relevantSet[key]; ok {
			found++
			delete(relevantSet, key)
		}
	}

	return float64(found) / float64(len(relevant))
}

// SeverityDistance is the absolute gap between two severities on the urgency scale.
func SeverityDistance(expected, actual entities.Severity) int {
	d := expected.UrgencyLevel() - actual.UrgencyLevel()
	if d < 0 {
		return -d
	}
	return d
}

// UnderTriaged reports whether actual is less urgent than expected.
func UnderTriaged(expected, actual entities.Severity) bool {
	return actual.UrgencyLevel() < expected.UrgencyLevel()
}

// FacilityMatches reports whether actual is one of the accepted facility types.
// An empty accepted list matches anything.
func FacilityMatches(accepted []entities.FacilityType, actual entities.FacilityType) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, f := range accepted {
		if f == actual {
			return true
		}
	}
	return false
}
