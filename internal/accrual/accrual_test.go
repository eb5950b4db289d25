package accrual

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store tracking ledger totals across cycles.
type fakeStore struct {
	assignments   []types.Assignment
	positionAreas map[int][]int
	scores        map[[2]int]float64
	runs          map[time.Time]bool

	areasErr     map[int]error
	incrementErr map[[2]int]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		positionAreas: map[int][]int{},
		scores:        map[[2]int]float64{},
		runs:          map[time.Time]bool{},
		areasErr:      map[int]error{},
		incrementErr:  map[[2]int]error{},
	}
}

func (s *fakeStore) ActiveAssignments(_ context.Context, day time.Time) ([]types.Assignment, error) {
	var active []types.Assignment
	for _, a := range s.assignments {
		if a.ActiveOn(day) {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *fakeStore) PositionAreas(_ context.Context, positionID int) ([]int, error) {
	if err := s.areasErr[positionID]; err != nil {
		return nil, err
	}
	return s.positionAreas[positionID], nil
}

func (s *fakeStore) IncrementAreaScore(_ context.Context, userID, areaID int, points float64) error {
	key := [2]int{userID, areaID}
	if err := s.incrementErr[key]; err != nil {
		return err
	}
	s.scores[key] += points
	return nil
}

func (s *fakeStore) RecordRun(_ context.Context, day time.Time) (bool, error) {
	if s.runs[day] {
		return false, nil
	}
	s.runs[day] = true
	return true, nil
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC) }
}

func TestRun_AccruesDailyRatePerPair(t *testing.T) {
	store := newFakeStore()
	store.assignments = []types.Assignment{
		{UserID: 1, PositionID: 10, StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	store.positionAreas[10] = []int{4, 5}

	job := NewJob(store, scoring.NewPointValuer(0, 0), WithClock(fixedClock()))
	summary, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Assignments: 1, Pairs: 2}, summary)
	daily := scoring.NewPointValuer(0, 0).DailyPoints()
	assert.InDelta(t, daily, store.scores[[2]int{1, 4}], 1e-9)
	assert.InDelta(t, daily, store.scores[[2]int{1, 5}], 1e-9)
}

func TestRun_KCyclesAccumulateKTimesDaily(t *testing.T) {
	store := newFakeStore()
	store.assignments = []types.Assignment{
		{UserID: 1, PositionID: 10, StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	store.positionAreas[10] = []int{4}

	job := NewJob(store, scoring.NewPointValuer(0, 0), WithClock(fixedClock()))
	for i := 0; i < 5; i++ {
		_, err := job.Run(context.Background())
		require.NoError(t, err)
	}

	daily := scoring.NewPointValuer(0, 0).DailyPoints()
	assert.InDelta(t, 5*daily, store.scores[[2]int{1, 4}], 1e-9)
}

func TestRun_EndedAssignmentDoesNotAccrue(t *testing.T) {
	ended := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.assignments = []types.Assignment{
		{UserID: 1, PositionID: 10, StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), EndDate: &ended},
	}
	store.positionAreas[10] = []int{4}

	summary, err := NewJob(store, scoring.NewPointValuer(0, 0), WithClock(fixedClock())).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{}, summary)
	assert.Empty(t, store.scores)
}

func TestRun_PositionWithoutAreasIsNoop(t *testing.T) {
	store := newFakeStore()
	store.assignments = []types.Assignment{
		{UserID: 1, PositionID: 10, StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}

	summary, err := NewJob(store, scoring.NewPointValuer(0, 0), WithClock(fixedClock())).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Assignments: 1}, summary)
	assert.Empty(t, store.scores)
}

func TestRun_FailedIncrementSkipsPairNotBatch(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.assignments = []types.Assignment{
		{UserID: 1, PositionID: 10, StartDate: start},
		{UserID: 2, PositionID: 10, StartDate: start},
	}
	store.positionAreas[10] = []int{4}
	store.incrementErr[[2]int{1, 4}] = errors.New("deadlock detected")

	summary, err := NewJob(store, scoring.NewPointValuer(0, 0), WithClock(fixedClock())).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Assignments: 2, Pairs: 1, Failures: 1}, summary)
	assert.Empty(t, store.scores[[2]int{1, 4}])
	assert.NotZero(t, store.scores[[2]int{2, 4}])
}

func TestRun_AreaLookupFailureSkipsAssignment(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.assignments = []types.Assignment{
		{UserID: 1, PositionID: 10, StartDate: start},
		{UserID: 2, PositionID: 11, StartDate: start},
	}
	store.positionAreas[11] = []int{4}
	store.areasErr[10] = errors.New("connection reset")

	summary, err := NewJob(store, scoring.NewPointValuer(0, 0), WithClock(fixedClock())).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Assignments: 2, Pairs: 1, Failures: 1}, summary)
}

func TestRun_GuardSkipsSecondCycleSameDay(t *testing.T) {
	store := newFakeStore()
	store.assignments = []types.Assignment{
		{UserID: 1, PositionID: 10, StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	store.positionAreas[10] = []int{4}

	job := NewJob(store, scoring.NewPointValuer(0, 0), WithClock(fixedClock()), WithGuard())

	first, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Equal(t, 1, first.Pairs)

	second, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Zero(t, second.Pairs)

	daily := scoring.NewPointValuer(0, 0).DailyPoints()
	assert.InDelta(t, daily, store.scores[[2]int{1, 4}], 1e-9)
}
