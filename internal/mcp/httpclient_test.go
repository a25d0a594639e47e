package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/repcoach/internal/storage"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestListExercises verifies the catalog endpoint parsing.
func TestListExercises(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []ExerciseInfo{
				{Name: "bicep_curl", FormChecks: 2, RepSeconds: 6, VisibilityPrompt: "SHOW YOUR RIGHT ARM"},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	exercises, err := client.ListExercises(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 1 || exercises[0].Name != "bicep_curl" {
		t.Errorf("exercises = %+v, want one bicep_curl entry", exercises)
	}
}

// TestQuerySessions verifies the history endpoint query params and parsing.
func TestQuerySessions(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("exercise"); got != "squat" {
				t.Errorf("exercise=%q, want squat", got)
			}
			if got := r.URL.Query().Get("start"); got == "" {
				t.Error("start param missing")
			}
			writeTestJSON(t, w, []storage.SessionRow{
				{ID: id, Exercise: "squat", StartedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC), GoodReps: 12, BadReps: 3},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	start := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	rows, err := client.QuerySessions(context.Background(), start, end, "squat", 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].ID != id || rows[0].GoodReps != 12 {
		t.Errorf("row = %+v", rows[0])
	}
}

// TestQueryRepEvents verifies the per-session rep listing path and parsing.
func TestQueryRepEvents(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history/" + id.String() + "/reps": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []storage.RepEventRow{
				{ID: 1, SessionID: id, Good: true, Feedback: "GOOD REP!"},
				{ID: 2, SessionID: id, Good: false, Feedback: "BAD TIMING"},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	rows, err := client.QueryRepEvents(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1].Good || rows[1].Feedback != "BAD TIMING" {
		t.Errorf("row = %+v", rows[1])
	}
}

// TestExerciseStats verifies the stats endpoint parsing.
func TestExerciseStats(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []storage.ExerciseStatsRow{
				{Exercise: "bicep_curl", Sessions: 4, GoodReps: 40, BadReps: 10, GoodRatio: 0.8},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	rows, err := client.ExerciseStats(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].GoodRatio != 0.8 {
		t.Errorf("rows = %+v", rows)
	}
}

// TestGetSessionNotFound verifies a clear error when the ID is absent from
// history.
func TestGetSessionNotFound(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []storage.SessionRow{})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.GetSession(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown session")
	}
}

// TestErrorStatusSurfaced verifies non-200 responses become errors with the
// body included.
func TestErrorStatusSurfaced(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.ListExercises(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}
