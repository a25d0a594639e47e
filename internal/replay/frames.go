// Package replay runs recorded landmark streams through the rep engine
// offline, producing the same counts and feedback as a live session.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/claude/repcoach/internal/pose"
)

// Frame is one recorded line: a timestamp in seconds from the start of the
// recording plus the landmark set seen on that frame.
type Frame struct {
	T         float64         `json:"t"`
	Landmarks []pose.Landmark `json:"landmarks"`
}

// maxLineBytes caps one JSONL line; a full 33-landmark frame is well under
// this.
const maxLineBytes = 1 << 20

// ReadFrames parses a JSONL recording. Blank lines are skipped; timestamps
// must be non-decreasing.
func ReadFrames(r io.Reader) ([]Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var frames []Frame
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if f.T < 0 {
			return nil, fmt.Errorf("line %d: negative timestamp %f", line, f.T)
		}
		if n := len(frames); n > 0 && f.T < frames[n-1].T {
			return nil, fmt.Errorf("line %d: timestamp %f before previous %f", line, f.T, frames[n-1].T)
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}
	return frames, nil
}
