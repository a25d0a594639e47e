package engine

import (
	"testing"
	"time"

	"github.com/claude/repcoach/internal/exercise"
)

var testTiming = exercise.Timing{Concentric: 2, Hold: 1, Eccentric: 3, Tolerance: 0.7}

// at returns the test clock offset by s seconds.
func at(s float64) time.Time {
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(s * float64(time.Second)))
}

// TestMachineGoodRepCycle runs a full on-time cycle with good form and
// expects exactly one good rep and zero bad reps.
func TestMachineGoodRepCycle(t *testing.T) {
	m := NewMachine(testTiming, at(0))

	m.Tick(0, true, at(0))
	if m.Phase() != PhaseDown {
		t.Fatalf("phase = %s, want down", m.Phase())
	}

	m.Tick(15, true, at(0.1))
	if m.Phase() != PhaseGoingUp {
		t.Fatalf("phase = %s, want going_up", m.Phase())
	}

	// Reach the top exactly on the concentric target.
	m.Tick(95, true, at(2.1))
	if m.Phase() != PhaseHold {
		t.Fatalf("phase = %s, want hold", m.Phase())
	}

	// Satisfy the hold duration.
	m.Tick(95, true, at(3.1))
	if m.Phase() != PhaseGoingDown {
		t.Fatalf("phase = %s, want going_down", m.Phase())
	}

	// Return to the bottom exactly on the eccentric target.
	_, outcome := m.Tick(0, true, at(6.1))
	if outcome == nil || !outcome.Good {
		t.Fatalf("outcome = %+v, want good rep", outcome)
	}
	good, bad := m.Counts()
	if good != 1 || bad != 0 {
		t.Errorf("counts = %d/%d, want 1/0", good, bad)
	}
	if m.Speed() != MsgGoodRep {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgGoodRep)
	}
	if m.Phase() != PhaseDown {
		t.Errorf("phase = %s, want down", m.Phase())
	}
}

// TestMachineSlowConcentric reaches the top past the tolerance window and
// expects TOO SLOW at the crossing tick and a bad rep at completion.
func TestMachineSlowConcentric(t *testing.T) {
	m := NewMachine(testTiming, at(0))

	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0))

	// concentric + tolerance + 1 seconds to reach the top.
	m.Tick(95, true, at(3.7))
	if m.Speed() != MsgTooSlow {
		t.Fatalf("speed at crossing = %q, want %q", m.Speed(), MsgTooSlow)
	}
	if m.Phase() != PhaseHold {
		t.Fatalf("phase = %s, want hold", m.Phase())
	}

	m.Tick(95, true, at(4.7))
	_, outcome := m.Tick(0, true, at(7.7))
	if outcome == nil || outcome.Good {
		t.Fatalf("outcome = %+v, want bad rep", outcome)
	}
	good, bad := m.Counts()
	if good != 0 || bad != 1 {
		t.Errorf("counts = %d/%d, want 0/1", good, bad)
	}
	if m.Speed() != MsgBadTiming {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgBadTiming)
	}
}

// TestMachineMidPhaseTooSlow verifies the stay-in-phase warning when the
// concentric window expires before the top is reached.
func TestMachineMidPhaseTooSlow(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0))

	m.Tick(50, true, at(3))
	if m.Phase() != PhaseGoingUp {
		t.Errorf("phase = %s, want going_up", m.Phase())
	}
	if m.Speed() != MsgTooSlow {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgTooSlow)
	}
}

// TestMachineFormBreakAbandonsRep drops the form verdict mid-rep and
// expects an immediate reset counting neither a good nor a bad rep. The
// break lands with the subject back near the bottom, so the machine stays
// in Down after the reset.
func TestMachineFormBreakAbandonsRep(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0.1))

	_, outcome := m.Tick(3, false, at(0.5))
	if outcome != nil {
		t.Fatalf("outcome = %+v, want none", outcome)
	}
	if m.Phase() != PhaseDown {
		t.Errorf("phase = %s, want down", m.Phase())
	}
	if m.Speed() != MsgRepReset {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgRepReset)
	}
	good, bad := m.Counts()
	if good != 0 || bad != 0 {
		t.Errorf("counts = %d/%d, want 0/0", good, bad)
	}
}

// TestMachineFormBreakMidMovementResumes verifies a form break while still
// above the lift-off threshold resets the rep but re-enters GoingUp on the
// same tick: the subject is mid-movement, so the next rep attempt starts
// immediately.
func TestMachineFormBreakMidMovementResumes(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0.1))

	_, outcome := m.Tick(50, false, at(0.5))
	if outcome != nil {
		t.Fatalf("outcome = %+v, want none", outcome)
	}
	if m.Phase() != PhaseGoingUp {
		t.Errorf("phase = %s, want going_up (new attempt from mid-movement)", m.Phase())
	}
	if m.Speed() != MsgRepReset {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgRepReset)
	}
	good, bad := m.Counts()
	if good != 0 || bad != 0 {
		t.Errorf("counts = %d/%d, want 0/0", good, bad)
	}
}

// TestMachineProgressDropAbandonsRep verifies that slipping back to the
// bottom during GoingUp abandons the rep.
func TestMachineProgressDropAbandonsRep(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0.1))

	m.Tick(3, true, at(0.5))
	if m.Phase() != PhaseDown {
		t.Errorf("phase = %s, want down", m.Phase())
	}
	if m.Speed() != MsgRepReset {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgRepReset)
	}
}

// TestMachineResetMessageSuppression verifies REP RESET survives the Down
// default for one second, then yields to LIFT UP. The form break lands at
// the bottom so the machine stays in Down and the window is not re-stamped.
func TestMachineResetMessageSuppression(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0.1))
	m.Tick(3, false, at(0.5))

	m.Tick(0, true, at(0.9))
	if m.Speed() != MsgRepReset {
		t.Errorf("speed within window = %q, want %q", m.Speed(), MsgRepReset)
	}

	m.Tick(0, true, at(1.6))
	if m.Speed() != MsgLiftUp {
		t.Errorf("speed after window = %q, want %q", m.Speed(), MsgLiftUp)
	}
}

// TestMachineEarlyHoldExit verifies dropping below the top during Hold sets
// HOLD AT TOP, moves straight to GoingDown, and spoils the rep.
func TestMachineEarlyHoldExit(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0.1))
	m.Tick(95, true, at(2.1))

	m.Tick(50, true, at(2.3))
	if m.Phase() != PhaseGoingDown {
		t.Fatalf("phase = %s, want going_down", m.Phase())
	}
	if m.Speed() != MsgHoldAtTop {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgHoldAtTop)
	}

	_, outcome := m.Tick(0, true, at(5.3))
	if outcome == nil || outcome.Good {
		t.Fatalf("outcome = %+v, want bad rep", outcome)
	}
	good, bad := m.Counts()
	if good != 0 || bad != 1 {
		t.Errorf("counts = %d/%d, want 0/1", good, bad)
	}
}

// TestMachineFastEccentricWarningPreserved verifies a TOO FAST set at the
// bottom crossing wins over the generic BAD TIMING verdict.
func TestMachineFastEccentricWarningPreserved(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0.1))
	m.Tick(95, true, at(2.1))
	m.Tick(95, true, at(3.1))

	// Crash down in half a second.
	_, outcome := m.Tick(0, true, at(3.6))
	if outcome == nil || outcome.Good {
		t.Fatalf("outcome = %+v, want bad rep", outcome)
	}
	if m.Speed() != MsgTooFast {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgTooFast)
	}
}

// TestMachinePaceProgressClamped verifies the pace output stays in [0,1]
// even when a phase runs far past its expected duration.
func TestMachinePaceProgressClamped(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0))
	m.Tick(95, true, at(2))
	m.Tick(95, true, at(3))

	// GoingDown held far beyond the eccentric target.
	pace, _ := m.Tick(50, true, at(60))
	if pace < 0 || pace > 1 {
		t.Errorf("pace = %f, want within [0,1]", pace)
	}
}

// TestMachineResetIdempotent verifies back-to-back resets land on the same
// state: Down phase, zero counts.
func TestMachineResetIdempotent(t *testing.T) {
	m := NewMachine(testTiming, at(0))
	m.Tick(0, true, at(0))
	m.Tick(15, true, at(0.1))
	m.Tick(95, true, at(2.1))

	m.Reset(at(3))
	m.Reset(at(3))
	good, bad := m.Counts()
	if m.Phase() != PhaseDown || good != 0 || bad != 0 {
		t.Errorf("state = %s %d/%d, want down 0/0", m.Phase(), good, bad)
	}
	if m.Speed() != MsgStart {
		t.Errorf("speed = %q, want %q", m.Speed(), MsgStart)
	}
}
