// Package exercise holds the declarative exercise definitions the engine
// runs against. Definitions are validated once at load time and treated as
// immutable afterwards.
package exercise

import "fmt"

// Direction controls how a joint angle maps to progress percent.
type Direction string

const (
	// DirectionNormal maps Range.Min to 100% and Range.Max to 0%
	// (curls, presses: smaller angle means higher progress).
	DirectionNormal Direction = "normal"
	// DirectionInverse maps Range.Min to 0% and Range.Max to 100%
	// (lifts such as glute bridge: larger angle means higher progress).
	DirectionInverse Direction = "inverse"
)

// AngleRange is the working angle span of an exercise, in degrees.
type AngleRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Timing is the expected duration of each rep segment, in seconds.
// Tolerance is the allowed deviation before a segment counts as mistimed.
type Timing struct {
	Concentric float64 `yaml:"concentric" json:"concentric"`
	Hold       float64 `yaml:"hold" json:"hold"`
	Eccentric  float64 `yaml:"eccentric" json:"eccentric"`
	Tolerance  float64 `yaml:"tolerance" json:"tolerance"`
}

// Total returns the expected duration of a full rep.
func (t Timing) Total() float64 {
	return t.Concentric + t.Hold + t.Eccentric
}

// CheckKind discriminates the FormCheck variants.
type CheckKind string

const (
	CheckAngle      CheckKind = "angle"
	CheckPositional CheckKind = "positional"
	CheckVisibility CheckKind = "visibility"
)

// AnglePredicate is the failure condition of an angle check.
type AnglePredicate string

const (
	// AngleAbove fails when the measured angle exceeds the threshold.
	AngleAbove AnglePredicate = "above"
	// AngleBelow fails when the measured angle is under the threshold.
	AngleBelow AnglePredicate = "below"
)

// PositionalRule is the failure condition of a positional check, defined on
// the two referenced joints a (Joints[0]) and b (Joints[1]) in the
// detector's pixel convention (Y grows downward).
type PositionalRule string

const (
	// PosLeanRatioBelow fails when |a.X-b.X| / |a.Y-b.Y| < Param,
	// i.e. the segment a-b is too close to vertical.
	PosLeanRatioBelow PositionalRule = "lean_ratio_below"
	// PosFirstAboveSecond fails when a is higher on screen than b by more
	// than Param pixels (a.Y < b.Y - Param).
	PosFirstAboveSecond PositionalRule = "first_above_second"
	// PosVerticalGapAbove fails when |a.Y-b.Y| > Param.
	PosVerticalGapAbove PositionalRule = "vertical_gap_above"
)

// FormCheck is one rule that must hold throughout a repetition. Checks are
// evaluated in declaration order and the first failure wins.
type FormCheck struct {
	Kind      CheckKind      `yaml:"kind" json:"kind"`
	Joints    []int          `yaml:"joints" json:"joints"`
	Threshold float64        `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Predicate AnglePredicate `yaml:"predicate,omitempty" json:"predicate,omitempty"`
	Rule      PositionalRule `yaml:"rule,omitempty" json:"rule,omitempty"`
	Param     float64        `yaml:"param,omitempty" json:"param,omitempty"`
	Message   string         `yaml:"message" json:"message"`
}

// VisibilityGate is the pre-session tracking requirement: the session stays
// in its waiting state until these joints are visible.
type VisibilityGate struct {
	Joints  []int  `yaml:"joints" json:"joints"`
	Message string `yaml:"message" json:"message"`
}

// Definition is one exercise's full configuration.
type Definition struct {
	Name string `yaml:"name" json:"name"`
	// Angles holds one joint triple, or two for bilateral exercises
	// (the two angles are averaged).
	Angles     [][3]int       `yaml:"angles" json:"angles"`
	Range      AngleRange     `yaml:"range" json:"range"`
	Direction  Direction      `yaml:"direction" json:"direction"`
	Timing     Timing         `yaml:"timing" json:"timing"`
	FormChecks []FormCheck    `yaml:"form_checks" json:"form_checks"`
	Visibility VisibilityGate `yaml:"visibility" json:"visibility"`
}

// Validate checks the construction-time invariants. A definition that fails
// validation cannot start a session.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("exercise name is required")
	}
	if n := len(d.Angles); n < 1 || n > 2 {
		return fmt.Errorf("exercise %s: need 1 or 2 angle triples, got %d", d.Name, n)
	}
	if d.Range.Min >= d.Range.Max {
		return fmt.Errorf("exercise %s: angle range min %.1f must be below max %.1f",
			d.Name, d.Range.Min, d.Range.Max)
	}
	switch d.Direction {
	case DirectionNormal, DirectionInverse:
	default:
		return fmt.Errorf("exercise %s: unknown direction %q", d.Name, d.Direction)
	}
	if d.Timing.Concentric <= 0 || d.Timing.Hold <= 0 || d.Timing.Eccentric <= 0 {
		return fmt.Errorf("exercise %s: timing segments must be positive", d.Name)
	}
	if d.Timing.Tolerance < 0 {
		return fmt.Errorf("exercise %s: timing tolerance must not be negative", d.Name)
	}
	for i, c := range d.FormChecks {
		if err := c.validate(); err != nil {
			return fmt.Errorf("exercise %s: form check %d: %w", d.Name, i, err)
		}
	}
	if len(d.Visibility.Joints) == 0 {
		return fmt.Errorf("exercise %s: visibility gate requires at least one joint", d.Name)
	}
	return nil
}

func (c FormCheck) validate() error {
	if c.Message == "" {
		return fmt.Errorf("message is required")
	}
	switch c.Kind {
	case CheckAngle:
		if len(c.Joints) != 3 {
			return fmt.Errorf("angle check needs 3 joints, got %d", len(c.Joints))
		}
		if c.Predicate != AngleAbove && c.Predicate != AngleBelow {
			return fmt.Errorf("unknown angle predicate %q", c.Predicate)
		}
	case CheckPositional:
		if len(c.Joints) != 2 {
			return fmt.Errorf("positional check needs 2 joints, got %d", len(c.Joints))
		}
		switch c.Rule {
		case PosLeanRatioBelow, PosFirstAboveSecond, PosVerticalGapAbove:
		default:
			return fmt.Errorf("unknown positional rule %q", c.Rule)
		}
	case CheckVisibility:
		if len(c.Joints) == 0 {
			return fmt.Errorf("visibility check needs at least one joint")
		}
	default:
		return fmt.Errorf("unknown check kind %q", c.Kind)
	}
	return nil
}
