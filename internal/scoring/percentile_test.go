package scoring

import (
	"testing"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
	"github.com/stretchr/testify/assert"
)

func scores(pairs ...[2]float64) []types.AreaScore {
	rows := make([]types.AreaScore, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, types.AreaScore{UserID: int(p[0]), AreaID: 1, Score: p[1]})
	}
	return rows
}

func TestStanding_TopScorerGetsFullPercentile(t *testing.T) {
	rows := scores([2]float64{1, 900}, [2]float64{2, 500}, [2]float64{3, 100})

	standing := Standing(rows, 1)
	assert.Equal(t, 900.0, standing.Score)
	assert.Equal(t, 100.0, standing.Percentile)
}

func TestStanding_LowestScorerInLargeArea(t *testing.T) {
	rows := scores(
		[2]float64{1, 1000}, [2]float64{2, 900}, [2]float64{3, 800},
		[2]float64{4, 700}, [2]float64{5, 600}, [2]float64{6, 500},
		[2]float64{7, 400}, [2]float64{8, 300}, [2]float64{9, 200},
		[2]float64{10, 100},
	)

	standing := Standing(rows, 10)
	assert.Equal(t, 100.0, standing.Score)
	// Bottom of ten: 1/10 of the field, one decimal place.
	assert.Equal(t, 10.0, standing.Percentile)
}

func TestStanding_SingleEmployeeClampsToFloor(t *testing.T) {
	rows := scores([2]float64{7, 250})

	standing := Standing(rows, 7)
	assert.Equal(t, 250.0, standing.Score)
	assert.Equal(t, 0.1, standing.Percentile)
}

func TestStanding_NoRowReportsZeroes(t *testing.T) {
	rows := scores([2]float64{1, 900}, [2]float64{2, 500})

	standing := Standing(rows, 99)
	assert.Zero(t, standing.Score)
	assert.Zero(t, standing.Percentile)
}

func TestStanding_EmptyAreaReportsZeroes(t *testing.T) {
	standing := Standing(nil, 1)
	assert.Zero(t, standing.Score)
	assert.Zero(t, standing.Percentile)
}

func TestStanding_MiddleRankOneDecimal(t *testing.T) {
	rows := scores([2]float64{1, 300}, [2]float64{2, 200}, [2]float64{3, 100})

	standing := Standing(rows, 2)
	// Second of three: round((1 - 1/3) * 1000) / 10 = 66.7.
	assert.Equal(t, 66.7, standing.Percentile)
}

func TestStanding_DoesNotMutateInput(t *testing.T) {
	rows := scores([2]float64{1, 100}, [2]float64{2, 900})

	Standing(rows, 1)
	assert.Equal(t, 1, rows[0].UserID)
	assert.Equal(t, 100.0, rows[0].Score)
}
