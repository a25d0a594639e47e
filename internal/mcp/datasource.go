package mcp

import (
	"context"
	"time"

	"github.com/claude/repcoach/internal/exercise"
	"github.com/claude/repcoach/internal/storage"
	"github.com/google/uuid"
)

// ExerciseInfo is the catalog entry shape served over MCP. Matches the JSON
// the REST /api/v1/exercises endpoint returns.
type ExerciseInfo struct {
	Name             string  `json:"name"`
	FormChecks       int     `json:"form_checks"`
	RepSeconds       float64 `json:"rep_seconds"`
	VisibilityPrompt string  `json:"visibility_prompt"`
	Bilateral        bool    `json:"bilateral"`
}

// DataSource abstracts the data layer for MCP tools. Both Local (in-process
// database plus catalog) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	ListExercises(ctx context.Context) ([]ExerciseInfo, error)
	QuerySessions(ctx context.Context, start, end time.Time, exercise string, limit int) ([]storage.SessionRow, error)
	GetSession(ctx context.Context, id uuid.UUID) (storage.SessionRow, error)
	QueryRepEvents(ctx context.Context, sessionID uuid.UUID) ([]storage.RepEventRow, error)
	ExerciseStats(ctx context.Context, start, end time.Time) ([]storage.ExerciseStatsRow, error)
}

// Local serves MCP from the in-process database and exercise registry.
type Local struct {
	*storage.DB
	Registry *exercise.Registry
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

func (l Local) ListExercises(_ context.Context) ([]ExerciseInfo, error) {
	defs := l.Registry.All()
	out := make([]ExerciseInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, ExerciseInfo{
			Name:             d.Name,
			FormChecks:       len(d.FormChecks),
			RepSeconds:       d.Timing.Total(),
			VisibilityPrompt: d.Visibility.Message,
			Bilateral:        len(d.Angles) == 2,
		})
	}
	return out, nil
}
