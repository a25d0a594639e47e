// Package engine turns a per-frame stream of body landmarks into rep counts,
// timing verdicts, and form feedback for one exercise session.
package engine

import (
	"math"

	"github.com/claude/repcoach/internal/exercise"
	"github.com/claude/repcoach/internal/pose"
)

// Movement-bar render coordinates: 100% fills to the top pixel row,
// 0% sits at the bottom.
const (
	barTop    = 100.0
	barBottom = 650.0
)

// AngleAt returns the angle at p2 formed by the rays to p1 and p3, in
// degrees. Negative atan2 differences wrap by +360, giving [0,360) — the
// same convention as the pose detector, which the exercise thresholds are
// tuned against.
func AngleAt(p1, p2, p3 pose.Landmark) float64 {
	rad := math.Atan2(p3.Y-p2.Y, p3.X-p2.X) - math.Atan2(p1.Y-p2.Y, p1.X-p2.X)
	deg := rad * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// CombinedAngle computes the definition's primary angle: the single triple's
// angle, or the mean of both triples for bilateral exercises. ok is false
// when a referenced joint is outside the landmark list.
func CombinedAngle(def *exercise.Definition, joints []pose.Landmark) (angle float64, ok bool) {
	var sum float64
	for _, triple := range def.Angles {
		for _, id := range triple {
			if id < 0 || id >= len(joints) {
				return 0, false
			}
		}
		sum += AngleAt(joints[triple[0]], joints[triple[1]], joints[triple[2]])
	}
	return sum / float64(len(def.Angles)), true
}

// interp linearly maps x from [x0,x1] onto [y0,y1], clamping to the nearest
// endpoint outside the input range.
func interp(x, x0, x1, y0, y1 float64) float64 {
	if x <= x0 {
		return y0
	}
	if x >= x1 {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// ProgressPercent maps a joint angle into [0,100] progress. Normal
// direction maps Range.Min to 100 and Range.Max to 0; Inverse swaps the
// endpoints. Angles outside the range clamp, never extrapolate.
func ProgressPercent(angle float64, rng exercise.AngleRange, dir exercise.Direction) float64 {
	if dir == exercise.DirectionInverse {
		return interp(angle, rng.Min, rng.Max, 0, 100)
	}
	return interp(angle, rng.Min, rng.Max, 100, 0)
}

// BarHeight maps progress percent onto the inverted movement-bar render
// range: 100% at top, 0% at bottom.
func BarHeight(percent, top, bottom float64) float64 {
	return interp(percent, 0, 100, bottom, top)
}
