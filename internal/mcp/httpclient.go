package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/repcoach/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the repcoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) ListExercises(ctx context.Context) ([]ExerciseInfo, error) {
	body, err := c.get(ctx, "/api/v1/exercises", nil)
	if err != nil {
		return nil, err
	}

	var out []ExerciseInfo
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return out, nil
}

func (c *HTTPClient) QuerySessions(ctx context.Context, start, end time.Time, exercise string, _ int) ([]storage.SessionRow, error) {
	params := timeParams(start, end)
	if exercise != "" {
		params.Set("exercise", exercise)
	}

	body, err := c.get(ctx, "/api/v1/history", params)
	if err != nil {
		return nil, err
	}

	var rows []storage.SessionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, id uuid.UUID) (storage.SessionRow, error) {
	// The REST surface has no single-session history endpoint; filter the
	// full range client-side.
	rows, err := c.QuerySessions(ctx, time.Unix(0, 0), time.Now(), "", 0)
	if err != nil {
		return storage.SessionRow{}, err
	}
	for _, row := range rows {
		if row.ID == id {
			return row, nil
		}
	}
	return storage.SessionRow{}, fmt.Errorf("httpclient: session %s not found", id)
}

func (c *HTTPClient) QueryRepEvents(ctx context.Context, sessionID uuid.UUID) ([]storage.RepEventRow, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/history/%s/reps", sessionID), nil)
	if err != nil {
		return nil, err
	}

	var rows []storage.RepEventRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode rep events: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) ExerciseStats(ctx context.Context, start, end time.Time) ([]storage.ExerciseStatsRow, error) {
	body, err := c.get(ctx, "/api/v1/stats", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var rows []storage.ExerciseStatsRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return rows, nil
}
