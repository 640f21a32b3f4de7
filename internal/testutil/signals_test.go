package testutil

import (
	"math"
	"testing"
)

func TestRamp(t *testing.T) {
	r := Ramp(10, 4)
	want := []float32{10, 11, 12, 13}
	RequireSamplesEqual(t, r, want)
}

func TestFill(t *testing.T) {
	f := Fill(-0.5, 3)
	RequireSamplesEqual(t, f, []float32{-0.5, -0.5, -0.5})
}

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 0.5, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// 48 samples cover one period at 1 kHz / 48 kHz; the peak is at 12.
	if math.Abs(s[12]-0.5) > 1e-12 {
		t.Fatalf("s[12] = %v, want 0.5", s[12])
	}
}
