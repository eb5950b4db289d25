package scoring

import (
	"math"
	"sort"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// minPercentile is the floor for any employee who has a score in the area.
// Zero is reserved for "no expertise recorded yet".
const minPercentile = 0.1

// AreaStanding is one employee's score and percentile within a single area.
// Both fields are zero when the employee has no score recorded there; that is
// a valid, common state rather than an error.
type AreaStanding struct {
	Score      float64 `json:"score"`
	Percentile float64 `json:"percentile"`
}

// Standing computes the standing of userID among all score rows of one area.
// The percentile is on a 0-100 scale with one decimal place; the top scorer
// of a multi-employee area obtains 100.0.
func Standing(rows []types.AreaScore, userID int) AreaStanding {
	sorted := make([]types.AreaScore, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	idx := -1
	for i, row := range sorted {
		if row.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return AreaStanding{}
	}

	return AreaStanding{
		Score:      sorted[idx].Score,
		Percentile: percentile(len(sorted), len(sorted)-idx),
	}
}

// percentile converts a 1-based rank counted from the bottom of the area
// into a percentage with one decimal place. n is the number of employees
// scored in the area.
func percentile(n, rank int) float64 {
	if n <= 1 {
		// A lone scorer has no cohort to stand ahead of.
		return minPercentile
	}
	p := math.Round((1-float64(n-rank)/float64(n))*1000) / 10
	if p <= 0 {
		p = minPercentile
	}
	return p
}
