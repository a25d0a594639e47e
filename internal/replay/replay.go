package replay

import (
	"fmt"
	"io"
	"time"

	"github.com/claude/repcoach/internal/engine"
	"github.com/claude/repcoach/internal/exercise"
)

// Rep is one completed repetition in a replayed recording.
type Rep struct {
	At       time.Duration `json:"at"`
	Good     bool          `json:"good"`
	Feedback string        `json:"feedback"`
}

// Result summarizes one replayed recording.
type Result struct {
	Frames   int           `json:"frames"`
	Duration time.Duration `json:"duration"`
	GoodReps int           `json:"good_reps"`
	BadReps  int           `json:"bad_reps"`
	Reps     []Rep         `json:"reps"`
}

// Run feeds a JSONL recording through a fresh engine using the recorded
// clock. Frames with no landmarks are skipped, matching how a live session
// handles tracking loss.
func Run(def *exercise.Definition, r io.Reader) (*Result, error) {
	frames, err := ReadFrames(r)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("recording is empty")
	}

	base := time.Unix(0, 0).UTC()
	eng, err := engine.New(def, base)
	if err != nil {
		return nil, err
	}

	res := &Result{Frames: len(frames)}
	var last engine.Frame
	for _, f := range frames {
		at := time.Duration(f.T * float64(time.Second))
		if len(f.Landmarks) == 0 {
			continue
		}
		frame, outcome := eng.Update(f.Landmarks, base.Add(at))
		last = frame
		if outcome != nil {
			res.Reps = append(res.Reps, Rep{At: at, Good: outcome.Good, Feedback: outcome.Feedback})
		}
	}

	res.Duration = time.Duration(frames[len(frames)-1].T * float64(time.Second))
	res.GoodReps = last.GoodReps
	res.BadReps = last.BadReps
	return res, nil
}
