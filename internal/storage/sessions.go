package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionRow is one training session as stored.
type SessionRow struct {
	ID        uuid.UUID  `json:"id"`
	Exercise  string     `json:"exercise"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	GoodReps  int        `json:"good_reps"`
	BadReps   int        `json:"bad_reps"`
}

// RepEventRow is one completed repetition.
type RepEventRow struct {
	ID        int64     `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	CountedAt time.Time `json:"counted_at"`
	Good      bool      `json:"good"`
	Feedback  string    `json:"feedback"`
}

// StartSession inserts a new session row with zero counts.
func (db *DB) StartSession(ctx context.Context, id uuid.UUID, exercise string, startedAt time.Time) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, exercise, started_at, good_reps, bad_reps)
		 VALUES ($1, $2, $3, 0, 0)`,
		id, exercise, startedAt)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// FinishSession stamps the end time and final counts on a session.
func (db *DB) FinishSession(ctx context.Context, id uuid.UUID, endedAt time.Time, good, bad int) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE sessions SET ended_at = $2, good_reps = $3, bad_reps = $4 WHERE id = $1`,
		id, endedAt, good, bad)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	return nil
}

// RecordRep appends a rep event and bumps the session's running counts.
func (db *DB) RecordRep(ctx context.Context, sessionID uuid.UUID, at time.Time, good bool, feedback string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning rep tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO rep_events (session_id, counted_at, good, feedback) VALUES ($1, $2, $3, $4)`,
		sessionID, at, good, feedback)
	if err != nil {
		return fmt.Errorf("inserting rep event: %w", err)
	}

	column := "bad_reps"
	if good {
		column = "good_reps"
	}
	_, err = tx.Exec(ctx,
		fmt.Sprintf(`UPDATE sessions SET %s = %s + 1 WHERE id = $1`, column, column),
		sessionID)
	if err != nil {
		return fmt.Errorf("updating session counts: %w", err)
	}

	return tx.Commit(ctx)
}

// GetSession returns one session by id.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (SessionRow, error) {
	var row SessionRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, exercise, started_at, ended_at, good_reps, bad_reps
		 FROM sessions WHERE id = $1`, id).
		Scan(&row.ID, &row.Exercise, &row.StartedAt, &row.EndedAt, &row.GoodReps, &row.BadReps)
	if err != nil {
		return SessionRow{}, fmt.Errorf("getting session: %w", err)
	}
	return row, nil
}

// QuerySessions returns sessions in a time range, newest first, optionally
// filtered by exercise name.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, exercise string, limit int) ([]SessionRow, error) {
	query := `SELECT id, exercise, started_at, ended_at, good_reps, bad_reps
	          FROM sessions WHERE started_at >= $1 AND started_at <= $2`
	args := []any{start, end}
	if exercise != "" {
		query += ` AND exercise = $3`
		args = append(args, exercise)
	}
	query += fmt.Sprintf(` ORDER BY started_at DESC LIMIT %d`, limit)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var row SessionRow
		if err := rows.Scan(&row.ID, &row.Exercise, &row.StartedAt, &row.EndedAt, &row.GoodReps, &row.BadReps); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// QueryRepEvents returns a session's rep events in order.
func (db *DB) QueryRepEvents(ctx context.Context, sessionID uuid.UUID) ([]RepEventRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, counted_at, good, feedback
		 FROM rep_events WHERE session_id = $1 ORDER BY counted_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying rep events: %w", err)
	}
	defer rows.Close()

	var out []RepEventRow
	for rows.Next() {
		var row RepEventRow
		if err := rows.Scan(&row.ID, &row.SessionID, &row.CountedAt, &row.Good, &row.Feedback); err != nil {
			return nil, fmt.Errorf("scanning rep event: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
