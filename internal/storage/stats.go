package storage

import (
	"context"
	"fmt"
	"time"
)

// ExerciseStatsRow aggregates a user's rep quality per exercise.
type ExerciseStatsRow struct {
	Exercise   string  `json:"exercise"`
	Sessions   int     `json:"sessions"`
	GoodReps   int     `json:"good_reps"`
	BadReps    int     `json:"bad_reps"`
	GoodRatio  float64 `json:"good_ratio"`
	LastActive *string `json:"last_active,omitempty"`
}

// ExerciseStats returns per-exercise totals over a time range.
func (db *DB) ExerciseStats(ctx context.Context, start, end time.Time) ([]ExerciseStatsRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise,
		        COUNT(*) AS sessions,
		        COALESCE(SUM(good_reps), 0) AS good_reps,
		        COALESCE(SUM(bad_reps), 0) AS bad_reps,
		        TO_CHAR(MAX(started_at), 'YYYY-MM-DD') AS last_active
		 FROM sessions
		 WHERE started_at >= $1 AND started_at <= $2
		 GROUP BY exercise
		 ORDER BY exercise`, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying exercise stats: %w", err)
	}
	defer rows.Close()

	var out []ExerciseStatsRow
	for rows.Next() {
		var row ExerciseStatsRow
		if err := rows.Scan(&row.Exercise, &row.Sessions, &row.GoodReps, &row.BadReps, &row.LastActive); err != nil {
			return nil, fmt.Errorf("scanning exercise stats: %w", err)
		}
		if total := row.GoodReps + row.BadReps; total > 0 {
			row.GoodRatio = float64(row.GoodReps) / float64(total)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
