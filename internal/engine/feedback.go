package engine

import "time"

// User-facing feedback vocabulary. Per-frame anomalies surface through these
// strings rather than as errors.
const (
	MsgStart      = "START"
	MsgGood       = "GOOD"
	MsgLiftUp     = "LIFT UP"
	MsgGo         = "GO"
	MsgHold       = "HOLD"
	MsgBackSlowly = "BACK SLOWLY"
	MsgTooFast    = "TOO FAST"
	MsgTooSlow    = "TOO SLOW"
	MsgHoldAtTop  = "HOLD AT TOP"
	MsgRepReset   = "REP RESET"
	MsgGoodRep    = "GOOD REP!"
	MsgBadTiming  = "BAD TIMING"
	MsgNoPerson   = "NO PERSON DETECTED"
)

// Suppression windows: a freshly set warning keeps the per-phase default
// from overwriting it for warningWindow; rep-terminal messages (GOOD REP!,
// BAD TIMING, REP RESET and the warnings) survive in the Down phase for
// terminalWindow.
const (
	warningWindow  = 500 * time.Millisecond
	terminalWindow = time.Second
)

// feedback is the current speed message with the instant it was set,
// so suppression is a pure function of the injected clock.
type feedback struct {
	msg   string
	setAt time.Time
}

// set replaces the message and stamps it. Phase defaults assign msg
// directly instead, leaving the previous stamp in place.
func (f *feedback) set(msg string, now time.Time) {
	f.msg = msg
	f.setAt = now
}

func isWarning(msg string) bool {
	switch msg {
	case MsgTooFast, MsgTooSlow, MsgHoldAtTop:
		return true
	}
	return false
}

func isTerminal(msg string) bool {
	switch msg {
	case MsgGoodRep, MsgBadTiming, MsgRepReset:
		return true
	}
	return isWarning(msg)
}
