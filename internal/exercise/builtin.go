package exercise

import (
	"fmt"
	"sort"

	"github.com/claude/repcoach/internal/pose"
)

// builtins is the shipped exercise catalog. Thresholds were tuned against
// the detector's angle convention; change them together with the detector.
var builtins = []Definition{
	{
		Name:      "bicep_curl",
		Angles:    [][3]int{{pose.RightShoulder, pose.RightElbow, pose.RightWrist}},
		Range:     AngleRange{Min: 40, Max: 160},
		Direction: DirectionNormal,
		Timing:    Timing{Concentric: 2, Hold: 1, Eccentric: 3, Tolerance: 0.7},
		FormChecks: []FormCheck{
			{
				Kind:      CheckAngle,
				Joints:    []int{pose.RightHip, pose.RightShoulder, pose.RightElbow},
				Threshold: 30,
				Predicate: AngleAbove,
				Message:   "PIN YOUR ELBOW",
			},
			{
				Kind:    CheckVisibility,
				Joints:  []int{pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.RightHip},
				Message: "KEEP RIGHT UPPER BODY VISIBLE",
			},
		},
		Visibility: VisibilityGate{
			Joints:  []int{pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.RightHip},
			Message: "SHOW RIGHT UPPER BODY",
		},
	},
	{
		Name:      "squat",
		Angles:    [][3]int{{pose.RightHip, pose.RightKnee, pose.RightAnkle}},
		Range:     AngleRange{Min: 90, Max: 175},
		Direction: DirectionNormal,
		Timing:    Timing{Concentric: 2, Hold: 1, Eccentric: 1, Tolerance: 1},
		FormChecks: []FormCheck{
			{
				Kind:      CheckAngle,
				Joints:    []int{pose.RightShoulder, pose.RightHip, pose.RightKnee},
				Threshold: 80,
				Predicate: AngleBelow,
				Message:   "KEEP CHEST UP",
			},
			{
				Kind:      CheckAngle,
				Joints:    []int{pose.RightHip, pose.RightKnee, pose.RightAnkle},
				Threshold: 80,
				Predicate: AngleBelow,
				Message:   "SQUAT TOO DEEP",
			},
			{
				Kind:    CheckVisibility,
				Joints:  []int{pose.RightShoulder, pose.RightHip, pose.RightKnee, pose.RightAnkle},
				Message: "KEEP WHOLE RIGHT BODY VISIBLE",
			},
		},
		Visibility: VisibilityGate{
			Joints:  []int{pose.RightShoulder, pose.RightHip, pose.RightKnee, pose.RightAnkle, pose.RightFootIdx},
			Message: "SHOW RIGHT FULL BODY",
		},
	},
	{
		Name:      "wall_push_up",
		Angles:    [][3]int{{pose.RightShoulder, pose.RightElbow, pose.RightWrist}},
		Range:     AngleRange{Min: 90, Max: 160},
		Direction: DirectionNormal,
		Timing:    Timing{Concentric: 4, Hold: 1, Eccentric: 2, Tolerance: 0.7},
		FormChecks: []FormCheck{
			{
				Kind:      CheckAngle,
				Joints:    []int{pose.RightShoulder, pose.RightHip, pose.RightAnkle},
				Threshold: 160,
				Predicate: AngleBelow,
				Message:   "KEEP BACK STRAIGHT",
			},
			{
				Kind:    CheckPositional,
				Joints:  []int{pose.RightShoulder, pose.RightHip},
				Rule:    PosLeanRatioBelow,
				Param:   0.15,
				Message: "LEAN FORWARD MORE",
			},
			{
				// Elbow drifting above the shoulder line means flared elbows.
				Kind:    CheckPositional,
				Joints:  []int{pose.RightElbow, pose.RightShoulder},
				Rule:    PosFirstAboveSecond,
				Param:   30,
				Message: "TUCK YOUR ELBOWS",
			},
			{
				Kind:    CheckPositional,
				Joints:  []int{pose.RightWrist, pose.RightShoulder},
				Rule:    PosFirstAboveSecond,
				Param:   0,
				Message: "LOWER YOUR HANDS",
			},
			{
				Kind:    CheckVisibility,
				Joints:  []int{pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.RightHip},
				Message: "KEEP RIGHT UPPER BODY VISIBLE",
			},
		},
		Visibility: VisibilityGate{
			Joints:  []int{pose.RightShoulder, pose.RightElbow, pose.RightWrist, pose.RightHip},
			Message: "SHOW RIGHT UPPER BODY",
		},
	},
	{
		Name:      "glute_bridge",
		Angles:    [][3]int{{pose.RightShoulder, pose.RightHip, pose.RightKnee}},
		Range:     AngleRange{Min: 130, Max: 170},
		Direction: DirectionInverse,
		Timing:    Timing{Concentric: 2, Hold: 2, Eccentric: 3, Tolerance: 0.7},
		FormChecks: []FormCheck{
			{
				Kind:      CheckAngle,
				Joints:    []int{pose.RightShoulder, pose.RightHip, pose.RightKnee},
				Threshold: 180,
				Predicate: AngleAbove,
				Message:   "AVOID ARCHING BACK",
			},
			{
				Kind:      CheckAngle,
				Joints:    []int{pose.RightHip, pose.RightKnee, pose.RightAnkle},
				Threshold: 110,
				Predicate: AngleAbove,
				Message:   "KEEP FEET CLOSER",
			},
			{
				Kind:    CheckPositional,
				Joints:  []int{pose.RightShoulder, pose.RightAnkle},
				Rule:    PosVerticalGapAbove,
				Param:   40,
				Message: "KEEP SHOULDERS & FEET ON GROUND",
			},
		},
		Visibility: VisibilityGate{
			Joints:  []int{pose.RightShoulder, pose.RightHip, pose.RightKnee, pose.RightAnkle},
			Message: "SHOW FULL RIGHT SIDE OF BODY",
		},
	},
	{
		Name:      "seated_leg_raise",
		Angles:    [][3]int{{pose.RightHip, pose.RightKnee, pose.RightAnkle}},
		Range:     AngleRange{Min: 90, Max: 155},
		Direction: DirectionInverse,
		Timing:    Timing{Concentric: 3, Hold: 2, Eccentric: 4, Tolerance: 0.7},
		FormChecks: []FormCheck{
			{
				Kind:      CheckAngle,
				Joints:    []int{pose.RightShoulder, pose.RightHip, pose.RightKnee},
				Threshold: 110,
				Predicate: AngleAbove,
				Message:   "SIT UP STRAIGHT",
			},
			{
				Kind:    CheckPositional,
				Joints:  []int{pose.RightKnee, pose.RightHip},
				Rule:    PosFirstAboveSecond,
				Param:   0,
				Message: "KEEP THIGH ON CHAIR",
			},
		},
		Visibility: VisibilityGate{
			Joints:  []int{pose.RightShoulder, pose.RightHip, pose.RightKnee, pose.RightAnkle},
			Message: "SHOW FULL RIGHT SIDE OF BODY",
		},
	},
}

// Registry is an immutable, validated set of exercise definitions.
type Registry struct {
	byName map[string]*Definition
}

// NewRegistry validates the given definitions and builds a lookup registry.
// Duplicate names are rejected.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate exercise %q", d.Name)
		}
		r.byName[d.Name] = &d
	}
	return r, nil
}

// Builtin returns a registry holding the shipped catalog.
func Builtin() *Registry {
	r, err := NewRegistry(builtins)
	if err != nil {
		// The shipped catalog is covered by tests; a validation failure
		// here is a programming error.
		panic(err)
	}
	return r
}

// Get returns the definition for name, or nil if unknown.
func (r *Registry) Get(name string) *Definition {
	return r.byName[name]
}

// Names returns all exercise names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all definitions in name order.
func (r *Registry) All() []*Definition {
	defs := make([]*Definition, 0, len(r.byName))
	for _, name := range r.Names() {
		defs = append(defs, r.byName[name])
	}
	return defs
}
