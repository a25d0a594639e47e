package engine

import (
	"math"
	"time"

	"github.com/claude/repcoach/internal/exercise"
)

// Phase is one of the four states of the repetition cycle. The machine
// cycles indefinitely; there is no terminal state.
type Phase string

const (
	PhaseDown      Phase = "down"
	PhaseGoingUp   Phase = "going_up"
	PhaseHold      Phase = "hold"
	PhaseGoingDown Phase = "going_down"
)

// Progress thresholds driving phase transitions.
const (
	liftOffPercent = 10 // Down -> GoingUp
	topPercent     = 90 // GoingUp -> Hold; dropping under it exits Hold early
	bottomPercent  = 5  // GoingDown -> Down, and the abandon threshold
)

// RepOutcome reports a repetition completed on this tick.
type RepOutcome struct {
	Good     bool
	Feedback string
}

// Machine is the four-phase repetition state machine. It owns rep counting,
// timing verdicts, and the speed-feedback arbitration. Not safe for
// concurrent use; callers serialize ticks per machine.
type Machine struct {
	timing exercise.Timing

	phase      Phase
	phaseStart time.Time
	speed      feedback
	timingGood bool
	goodReps   int
	badReps    int
}

// NewMachine returns a machine in the Down phase with fresh timestamps.
func NewMachine(t exercise.Timing, now time.Time) *Machine {
	m := &Machine{timing: t}
	m.Reset(now)
	return m
}

// Reset reinitializes the machine to session start. Calling it repeatedly
// is idempotent apart from the timestamps passed in.
func (m *Machine) Reset(now time.Time) {
	m.phase = PhaseDown
	m.phaseStart = now
	m.speed = feedback{msg: MsgStart, setAt: now}
	m.timingGood = true
	m.goodReps = 0
	m.badReps = 0
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Counts returns the good and bad rep totals for the session.
func (m *Machine) Counts() (good, bad int) { return m.goodReps, m.badReps }

// Speed returns the current speed-feedback message.
func (m *Machine) Speed() string { return m.speed.msg }

// Tick advances the machine by one frame. percent is the progress percent
// in [0,100], formOK the current form verdict, now the injected clock.
// It returns the pace progress in [0,1] and, when a rep completed on this
// tick, its outcome.
func (m *Machine) Tick(percent float64, formOK bool, now time.Time) (pace float64, outcome *RepOutcome) {
	t := m.timing
	total := t.Total()

	// Abandon the in-progress rep: form broke mid-movement, or the subject
	// dropped back to the bottom before reaching the top.
	moving := m.phase != PhaseDown
	if (!formOK && moving) || (percent <= bottomPercent && (m.phase == PhaseGoingUp || m.phase == PhaseHold)) {
		m.phase = PhaseDown
		m.speed.set(MsgRepReset, now)
	}

	elapsed := now.Sub(m.phaseStart).Seconds()

	switch m.phase {
	case PhaseDown:
		if !(isTerminal(m.speed.msg) && now.Sub(m.speed.setAt) < terminalWindow) {
			m.speed.msg = MsgLiftUp
		}
		if percent >= liftOffPercent {
			m.phase = PhaseGoingUp
			m.phaseStart = now
			m.timingGood = true
		}

	case PhaseGoingUp:
		if !(isWarning(m.speed.msg) && now.Sub(m.speed.setAt) < warningWindow) {
			m.speed.msg = MsgGo
		}
		pace = math.Min(elapsed, t.Concentric) / total
		if percent >= topPercent {
			if math.Abs(elapsed-t.Concentric) > t.Tolerance {
				if elapsed < t.Concentric {
					m.speed.set(MsgTooFast, now)
				} else {
					m.speed.set(MsgTooSlow, now)
				}
				m.timingGood = false
			}
			m.phase = PhaseHold
			m.phaseStart = now
		} else if elapsed > t.Concentric+t.Tolerance {
			m.speed.msg = MsgTooSlow
			m.timingGood = false
		}

	case PhaseHold:
		if !(isWarning(m.speed.msg) && now.Sub(m.speed.setAt) < warningWindow) {
			m.speed.msg = MsgHold
		}
		pace = t.Concentric/total + elapsed/total
		if percent < topPercent {
			// Slipped out of the top position before the hold was done.
			m.speed.set(MsgHoldAtTop, now)
			m.timingGood = false
			m.phase = PhaseGoingDown
			m.phaseStart = now
		} else if elapsed >= t.Hold {
			m.phase = PhaseGoingDown
			m.phaseStart = now
		}

	case PhaseGoingDown:
		if !(isWarning(m.speed.msg) && now.Sub(m.speed.setAt) < warningWindow) {
			m.speed.msg = MsgBackSlowly
		}
		pace = (t.Concentric+t.Hold)/total + elapsed/total
		if percent <= bottomPercent {
			if math.Abs(elapsed-t.Eccentric) > t.Tolerance {
				if elapsed < t.Eccentric {
					m.speed.msg = MsgTooFast
				} else {
					m.speed.msg = MsgTooSlow
				}
				m.timingGood = false
			}
			if m.timingGood && formOK {
				m.goodReps++
				m.speed.msg = MsgGoodRep
			} else {
				m.badReps++
				// A pending warning is more specific than the generic verdict.
				if !isWarning(m.speed.msg) {
					m.speed.msg = MsgBadTiming
				}
			}
			outcome = &RepOutcome{Good: m.timingGood && formOK, Feedback: m.speed.msg}
			m.speed.setAt = now
			m.phase = PhaseDown
			m.phaseStart = now
		}
	}

	if pace > 1 {
		pace = 1
	} else if pace < 0 {
		pace = 0
	}
	return pace, outcome
}
