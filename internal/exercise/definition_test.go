package exercise

import (
	"os"
	"path/filepath"
	"testing"
)

// TestBuiltinCatalogValid verifies every shipped definition passes
// construction-time validation.
func TestBuiltinCatalogValid(t *testing.T) {
	r := Builtin()
	names := r.Names()
	want := []string{"bicep_curl", "glute_bridge", "seated_leg_raise", "squat", "wall_push_up"}
	if len(names) != len(want) {
		t.Fatalf("catalog size = %d, want %d", len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

// TestValidateRejectsInvertedRange verifies min >= max fails fast.
func TestValidateRejectsInvertedRange(t *testing.T) {
	d := Builtin().Get("squat")
	bad := *d
	bad.Range = AngleRange{Min: 175, Max: 90}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

// TestValidateRejectsNonPositiveTiming verifies zero timing segments fail.
func TestValidateRejectsNonPositiveTiming(t *testing.T) {
	d := Builtin().Get("squat")
	bad := *d
	bad.Timing.Hold = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero hold duration")
	}
}

// TestValidateRejectsBadCheck verifies malformed form checks fail.
func TestValidateRejectsBadCheck(t *testing.T) {
	d := Builtin().Get("bicep_curl")
	bad := *d
	bad.FormChecks = []FormCheck{
		{Kind: CheckAngle, Joints: []int{1, 2}, Predicate: AngleAbove, Message: "X"},
	}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for angle check with 2 joints")
	}
}

// TestNewRegistryRejectsDuplicates verifies duplicate names are refused.
func TestNewRegistryRejectsDuplicates(t *testing.T) {
	d := *Builtin().Get("squat")
	if _, err := NewRegistry([]Definition{d, d}); err == nil {
		t.Fatal("expected error for duplicate exercise name")
	}
}

// TestLoadFileMergesWithBuiltins verifies a YAML exercises file adds new
// definitions and can override a builtin of the same name.
func TestLoadFileMergesWithBuiltins(t *testing.T) {
	doc := `exercises:
  - name: shoulder_press
    angles:
      - [12, 14, 16]
    range: {min: 60, max: 170}
    direction: inverse
    timing: {concentric: 2, hold: 1, eccentric: 2, tolerance: 0.5}
    form_checks:
      - kind: visibility
        joints: [12, 14, 16]
        message: KEEP ARMS VISIBLE
    visibility:
      joints: [12, 14, 16]
      message: SHOW ARMS
  - name: squat
    angles:
      - [24, 26, 28]
    range: {min: 100, max: 170}
    direction: normal
    timing: {concentric: 3, hold: 1, eccentric: 2, tolerance: 0.8}
    visibility:
      joints: [24, 26, 28]
      message: SHOW LEGS
`
	path := filepath.Join(t.TempDir(), "exercises.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if r.Get("shoulder_press") == nil {
		t.Error("shoulder_press not loaded")
	}
	if r.Get("bicep_curl") == nil {
		t.Error("builtin bicep_curl should survive the merge")
	}
	squat := r.Get("squat")
	if squat == nil || squat.Range.Min != 100 {
		t.Errorf("squat override not applied: %+v", squat)
	}
}

// TestLoadFileRejectsInvalid verifies a file definition failing validation
// surfaces an error instead of a half-built registry.
func TestLoadFileRejectsInvalid(t *testing.T) {
	doc := `exercises:
  - name: broken
    angles:
      - [12, 14, 16]
    range: {min: 170, max: 60}
    direction: normal
    timing: {concentric: 2, hold: 1, eccentric: 2}
    visibility:
      joints: [12]
      message: SHOW BODY
`
	path := filepath.Join(t.TempDir(), "exercises.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error")
	}
}
