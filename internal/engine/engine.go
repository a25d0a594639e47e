package engine

import (
	"fmt"
	"time"

	"github.com/claude/repcoach/internal/exercise"
	"github.com/claude/repcoach/internal/pose"
)

// Frame is the per-tick output handed to the renderer.
type Frame struct {
	// Bar is a render coordinate for the movement bar, not semantic.
	Bar           float64 `json:"bar"`
	Percent       float64 `json:"percent"`
	GoodReps      int     `json:"good_reps"`
	BadReps       int     `json:"bad_reps"`
	FormFeedback  string  `json:"form_feedback"`
	SpeedFeedback string  `json:"speed_feedback"`
	PaceProgress  float64 `json:"pace_progress"`
	Phase         Phase   `json:"phase"`
}

// Engine evaluates one exercise session frame by frame. It is single-owner:
// callers serialize Update/Reset per engine instance.
type Engine struct {
	def     *exercise.Definition
	machine *Machine
	form    string
}

// New validates the definition and returns an engine at session start.
func New(def *exercise.Definition, now time.Time) (*Engine, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exercise definition: %w", err)
	}
	return &Engine{
		def:     def,
		machine: NewMachine(def.Timing, now),
		form:    MsgStart,
	}, nil
}

// Definition returns the exercise this engine runs.
func (e *Engine) Definition() *exercise.Definition { return e.def }

// Reset reinitializes the session: phase Down, zero counts, fresh stamps.
func (e *Engine) Reset(now time.Time) {
	e.machine.Reset(now)
	e.form = MsgStart
}

// Update advances the session by one frame of landmarks and returns the
// renderer output plus the outcome of a rep if one completed on this tick.
// Callers skip Update for frames with no person detected.
func (e *Engine) Update(joints []pose.Landmark, now time.Time) (Frame, *RepOutcome) {
	angle, tracked := CombinedAngle(e.def, joints)
	if !tracked {
		// Primary joints missing entirely: treat like a visibility failure
		// so an in-progress rep is abandoned, not judged.
		e.form = e.def.Visibility.Message
		pace, outcome := e.machine.Tick(0, false, now)
		return e.frame(barBottom, 0, pace), outcome
	}

	percent := ProgressPercent(angle, e.def.Range, e.def.Direction)
	bar := BarHeight(percent, barTop, barBottom)

	verdict := EvaluateForm(e.def.FormChecks, joints)
	e.form = verdict.Message

	pace, outcome := e.machine.Tick(percent, verdict.OK, now)
	return e.frame(bar, percent, pace), outcome
}

func (e *Engine) frame(bar, percent, pace float64) Frame {
	good, bad := e.machine.Counts()
	return Frame{
		Bar:           bar,
		Percent:       percent,
		GoodReps:      good,
		BadReps:       bad,
		FormFeedback:  e.form,
		SpeedFeedback: e.machine.Speed(),
		PaceProgress:  pace,
		Phase:         e.machine.Phase(),
	}
}
