package stats

import (
	"sort"

	"github.com/verte-zerg/typewriter/internal/model"
)

// SelectWeakUnits selects the lowest-accuracy units that were missed at
// least once.
func SelectWeakUnits(units []model.UnitStats, top int) []string {
	candidates := make([]model.UnitStats, 0, len(units))
	for _, u := range units {
		if u.Incorrect > 0 {
			candidates = append(candidates, u)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i])
		aj := accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Unit < candidates[j].Unit
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Unit)
	}
	return out
}

func accuracy(u model.UnitStats) float64 {
	total := u.Attempts()
	if total == 0 {
		return 1.0
	}
	return float64(u.Correct) / float64(total)
}
