package strategy

import (
	"sort"

	"advisor/pkg/models"
)

// TierCount is how many top-ranked strategies receive a tier marker.
const TierCount = 3

// Rank orders strategies by descending optimality, ties broken by ascending
// emission index. The input keeps emission order; the returned slice carries
// ranks 1..N and tier markers for the top three. EmissionIndex travels with
// each record so SWOT lookups stay correct after reordering.
func Rank(items []models.Strategy) []models.Strategy {
	ranked := make([]models.Strategy, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		oi, oj := ranked[i].OptimalityOrZero(), ranked[j].OptimalityOrZero()
		if oi != oj {
			return oi > oj
		}
		return ranked[i].EmissionIndex < ranked[j].EmissionIndex
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		if i < TierCount {
			ranked[i].Tier = i + 1
		}
	}
	return ranked
}
