// Package accrual implements the scheduled job that grows area expertise
// scores from active work assignments.
package accrual

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/metrics"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/scoring"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// Store is the persistence surface the job needs. IncrementAreaScore must be
// an atomic upsert-with-increment so concurrent cycles cannot lose updates.
type Store interface {
	// ActiveAssignments returns assignments active on the given day.
	ActiveAssignments(ctx context.Context, day time.Time) ([]types.Assignment, error)
	// PositionAreas returns the area ids linked to a position.
	PositionAreas(ctx context.Context, positionID int) ([]int, error)
	// IncrementAreaScore adds points to the (user, area) ledger entry,
	// creating it seeded with points when absent.
	IncrementAreaScore(ctx context.Context, userID, areaID int, points float64) error
	// RecordRun marks the day as run. Returns false when the day was
	// already recorded.
	RecordRun(ctx context.Context, day time.Time) (bool, error)
}

// Summary reports what one cycle did.
type Summary struct {
	Assignments int  `json:"assignments"`
	Pairs       int  `json:"pairs"`
	Failures    int  `json:"failures"`
	Skipped     bool `json:"skipped"`
}

// Job is one accrual cycle runner. Running it more than once per day
// double-counts unless the run-date guard is enabled.
type Job struct {
	store  Store
	valuer *scoring.PointValuer
	now    func() time.Time
	guard  bool
}

// Option configures a Job.
type Option func(*Job)

// WithGuard enables the run-date guard: a cycle for a day that already ran
// is skipped instead of double-counting.
func WithGuard() Option {
	return func(j *Job) { j.guard = true }
}

// WithClock overrides the job clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(j *Job) { j.now = now }
}

// NewJob creates an accrual Job.
func NewJob(store Store, valuer *scoring.PointValuer, opts ...Option) *Job {
	j := &Job{store: store, valuer: valuer, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run executes one accrual cycle: every assignment active today contributes
// the daily rate to each area linked to its position. Per-pair failures are
// logged and skipped so a late failure never discards already-applied
// increments; there is no batch-wide transaction.
func (j *Job) Run(ctx context.Context) (Summary, error) {
	day := j.now().Truncate(24 * time.Hour)

	if j.guard {
		fresh, err := j.store.RecordRun(ctx, day)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to record accrual run: %w", err)
		}
		if !fresh {
			log.Printf("Accrual cycle for %s already ran, skipping", day.Format("2006-01-02"))
			metrics.AccrualCyclesSkipped.Inc()
			return Summary{Skipped: true}, nil
		}
	}

	metrics.AccrualCycles.Inc()

	assignments, err := j.store.ActiveAssignments(ctx, day)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load active assignments: %w", err)
	}

	daily := j.valuer.DailyPoints()
	summary := Summary{Assignments: len(assignments)}

	for _, assignment := range assignments {
		areaIDs, err := j.store.PositionAreas(ctx, assignment.PositionID)
		if err != nil {
			log.Printf("Skipping assignment (user %d, position %d): failed to resolve areas: %v",
				assignment.UserID, assignment.PositionID, err)
			summary.Failures++
			metrics.AccrualPairFailures.Inc()
			continue
		}

		// A position linked to no areas contributes nothing. Not an error.
		for _, areaID := range areaIDs {
			if err := j.store.IncrementAreaScore(ctx, assignment.UserID, areaID, daily); err != nil {
				log.Printf("Skipping increment (user %d, area %d): %v", assignment.UserID, areaID, err)
				summary.Failures++
				metrics.AccrualPairFailures.Inc()
				continue
			}
			summary.Pairs++
			metrics.AccrualPairIncrements.Inc()
		}
	}

	log.Printf("Accrual cycle complete: %d assignments, %d increments, %d failures",
		summary.Assignments, summary.Pairs, summary.Failures)
	return summary, nil
}
