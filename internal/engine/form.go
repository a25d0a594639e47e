package engine

import (
	"math"

	"github.com/claude/repcoach/internal/exercise"
	"github.com/claude/repcoach/internal/pose"
)

// Verdict is the result of evaluating the form checks for one frame.
type Verdict struct {
	OK      bool
	Message string
}

// EvaluateForm runs the checks in declaration order; the first failing
// check decides the verdict and later checks are not evaluated. Angle and
// positional checks whose joints fall outside the landmark list are skipped
// rather than failed, so partial tracking mid-rep degrades gracefully.
func EvaluateForm(checks []exercise.FormCheck, joints []pose.Landmark) Verdict {
	for _, c := range checks {
		switch c.Kind {
		case exercise.CheckVisibility:
			if !pose.Visible(joints, c.Joints, pose.DefaultVisibilityThreshold) {
				return Verdict{OK: false, Message: c.Message}
			}

		case exercise.CheckPositional:
			a, b := c.Joints[0], c.Joints[1]
			if a >= len(joints) || b >= len(joints) {
				continue
			}
			if positionalFails(c, joints[a], joints[b]) {
				return Verdict{OK: false, Message: c.Message}
			}

		case exercise.CheckAngle:
			if c.Joints[0] >= len(joints) || c.Joints[1] >= len(joints) || c.Joints[2] >= len(joints) {
				continue
			}
			angle := AngleAt(joints[c.Joints[0]], joints[c.Joints[1]], joints[c.Joints[2]])
			if angleFails(c, angle) {
				return Verdict{OK: false, Message: c.Message}
			}
		}
	}
	return Verdict{OK: true, Message: MsgGood}
}

func angleFails(c exercise.FormCheck, angle float64) bool {
	switch c.Predicate {
	case exercise.AngleAbove:
		return angle > c.Threshold
	case exercise.AngleBelow:
		return angle < c.Threshold
	}
	return false
}

func positionalFails(c exercise.FormCheck, a, b pose.Landmark) bool {
	switch c.Rule {
	case exercise.PosLeanRatioBelow:
		dy := math.Abs(a.Y - b.Y)
		if dy == 0 {
			return false
		}
		return math.Abs(a.X-b.X)/dy < c.Param
	case exercise.PosFirstAboveSecond:
		// Y grows downward, so "above" is a smaller Y.
		return a.Y < b.Y-c.Param
	case exercise.PosVerticalGapAbove:
		return math.Abs(a.Y-b.Y) > c.Param
	}
	return false
}
