package db

import (
	"context"
	"fmt"
	"time"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

// -----------------------------------------------------------------------------
// Area Score Ledger
// -----------------------------------------------------------------------------

// ActiveAssignments returns assignments active on the given day.
func (db *DB) ActiveAssignments(ctx context.Context, day time.Time) ([]types.Assignment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, position_id, start_date, end_date
		 FROM employee_positions
		 WHERE start_date <= $1
		   AND (end_date IS NULL OR end_date >= $1)`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query active assignments: %w", err)
	}
	defer rows.Close()

	var assignments []types.Assignment
	for rows.Next() {
		var a types.Assignment
		if err := rows.Scan(&a.UserID, &a.PositionID, &a.StartDate, &a.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// PositionAreas returns the area ids linked to a position.
func (db *DB) PositionAreas(ctx context.Context, positionID int) ([]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT area_id FROM project_position_areas WHERE position_id = $1`,
		positionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query position areas: %w", err)
	}
	return scanInts(rows)
}

// IncrementAreaScore atomically adds points to the (user, area) ledger entry,
// creating it seeded with points when absent. Safe under concurrent cycles.
func (db *DB) IncrementAreaScore(ctx context.Context, userID, areaID int, points float64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_area_scores (user_id, area_id, score, last_updated)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, area_id)
		 DO UPDATE SET score = user_area_scores.score + EXCLUDED.score, last_updated = NOW()`,
		userID, areaID, points,
	)
	if err != nil {
		return fmt.Errorf("failed to increment area score (user %d, area %d): %w", userID, areaID, err)
	}
	return nil
}

// RecordRun marks the day as run. Returns false when the day was already
// recorded, so callers can skip a duplicate cycle.
func (db *DB) RecordRun(ctx context.Context, day time.Time) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO accrual_runs (run_date) VALUES ($1)
		 ON CONFLICT (run_date) DO NOTHING`,
		day,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record accrual run: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
