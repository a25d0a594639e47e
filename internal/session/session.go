// Package session owns the lifecycle around one exercise engine: the
// pre-tracking visibility gate, the get-ready countdown, serialized frame
// updates, and write-through of rep events to storage.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/repcoach/internal/engine"
	"github.com/claude/repcoach/internal/exercise"
	"github.com/claude/repcoach/internal/pose"
	"github.com/google/uuid"
)

// State is the session's program state. Tracking only begins once the
// required joints are visible and the countdown has elapsed.
type State string

const (
	StateWaiting   State = "waiting_for_body"
	StateCountdown State = "countdown"
	StateTracking  State = "tracking"
)

// CountdownSeconds is the get-ready delay between the visibility gate
// passing and tracking starting.
const CountdownSeconds = 5

// Recorder persists session summaries and per-rep events. Implemented by
// storage.DB; nil disables persistence (replay and tests).
type Recorder interface {
	StartSession(ctx context.Context, id uuid.UUID, exercise string, startedAt time.Time) error
	FinishSession(ctx context.Context, id uuid.UUID, endedAt time.Time, good, bad int) error
	RecordRep(ctx context.Context, sessionID uuid.UUID, at time.Time, good bool, feedback string) error
}

// FrameResult is the per-frame answer to the client. Exactly one of
// Prompt/Countdown/Frame is meaningful depending on State.
type FrameResult struct {
	State     State         `json:"state"`
	Prompt    string        `json:"prompt,omitempty"`
	Countdown int           `json:"countdown,omitempty"`
	Frame     *engine.Frame `json:"frame,omitempty"`
}

// Session is one active exercise session. All frame input for a session
// funnels through its mutex; the engine itself is single-owner.
type Session struct {
	ID        uuid.UUID
	Exercise  string
	StartedAt time.Time

	rec Recorder
	log *slog.Logger

	mu             sync.Mutex
	state          State
	countdownStart time.Time
	eng            *engine.Engine
	lastFrame      engine.Frame
}

func newSession(def *exercise.Definition, rec Recorder, log *slog.Logger, now time.Time) (*Session, error) {
	eng, err := engine.New(def, now)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.New(),
		Exercise:  def.Name,
		StartedAt: now,
		rec:       rec,
		log:       log,
		state:     StateWaiting,
		eng:       eng,
	}, nil
}

// Update feeds one frame of landmarks into the session.
func (s *Session) Update(ctx context.Context, joints []pose.Landmark, now time.Time) FrameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := s.eng.Definition()

	if s.state == StateWaiting {
		if !pose.Visible(joints, def.Visibility.Joints, pose.DefaultVisibilityThreshold) {
			return FrameResult{State: StateWaiting, Prompt: def.Visibility.Message}
		}
		s.state = StateCountdown
		s.countdownStart = now
	}

	if s.state == StateCountdown {
		since := now.Sub(s.countdownStart).Seconds()
		if since < CountdownSeconds {
			// Clamp so the frame that passes the gate shows the full
			// count, not one above it.
			remaining := int(CountdownSeconds-since) + 1
			if remaining > CountdownSeconds {
				remaining = CountdownSeconds
			}
			return FrameResult{State: StateCountdown, Countdown: remaining}
		}
		s.state = StateTracking
	}

	if len(joints) == 0 {
		// No person this frame: keep the last known output on screen.
		f := s.lastFrame
		f.FormFeedback = engine.MsgNoPerson
		f.SpeedFeedback = ""
		return FrameResult{State: StateTracking, Frame: &f}
	}

	frame, outcome := s.eng.Update(joints, now)
	s.lastFrame = frame

	if outcome != nil && s.rec != nil {
		if err := s.rec.RecordRep(ctx, s.ID, now, outcome.Good, outcome.Feedback); err != nil {
			s.log.Warn("recording rep failed", "session", s.ID, "error", err)
		}
	}

	return FrameResult{State: StateTracking, Frame: &frame}
}

// Reset reinitializes the session to its waiting state with zero counts.
func (s *Session) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Reset(now)
	s.state = StateWaiting
	s.lastFrame = engine.Frame{}
}

// Summary is a point-in-time snapshot of the session.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Exercise  string    `json:"exercise"`
	StartedAt time.Time `json:"started_at"`
	State     State     `json:"state"`
	GoodReps  int       `json:"good_reps"`
	BadReps   int       `json:"bad_reps"`
}

// Summary returns the current snapshot.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:        s.ID,
		Exercise:  s.Exercise,
		StartedAt: s.StartedAt,
		State:     s.state,
		GoodReps:  s.lastFrame.GoodReps,
		BadReps:   s.lastFrame.BadReps,
	}
}
