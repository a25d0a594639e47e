// Package pose defines the landmark input contract shared with the external
// pose detector. Coordinates follow the detector's pixel convention: X grows
// rightward, Y grows downward, Z is the detector's depth estimate.
package pose

// MediaPipe 33-landmark ids for the joints the builtin exercises reference.
const (
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
	LeftFootIndex = 31
	RightFootIdx  = 32
)

// Landmark is one body joint position for a single frame.
// Visibility is the detector's tracking confidence in [0,1].
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// DefaultVisibilityThreshold is the confidence below which a joint is
// treated as untracked.
const DefaultVisibilityThreshold = 0.7

// Visible reports whether every required joint is currently trackable.
// An empty landmark list (no person detected) is never visible.
func Visible(landmarks []Landmark, required []int, threshold float64) bool {
	if len(landmarks) == 0 {
		return false
	}
	for _, id := range required {
		if id < 0 || id >= len(landmarks) {
			return false
		}
		if landmarks[id].Visibility < threshold {
			return false
		}
	}
	return true
}
