package stats

import (
	"sort"

	"github.com/verte-zerg/typewriter/internal/model"
)

// MostPractised keeps the n units with the most attempts, busiest first.
// Units with equal attempts stay in name order.
func MostPractised(units []model.UnitStats, n int) []model.UnitStats {
	if n <= 0 {
		return nil
	}
	ranked := append([]model.UnitStats(nil), units...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Unit < ranked[j].Unit
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Attempts() > ranked[j].Attempts()
	})
	return ranked[:min(n, len(ranked))]
}
