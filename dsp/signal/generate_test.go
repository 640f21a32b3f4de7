package signal

import (
	"testing"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestSineRejectsEmpty(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Sine(1000, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if n1[i] < -1 || n1[i] > 1 {
			t.Fatalf("noise out of range at %d: %v", i, n1[i])
		}
	}
}

func TestWhiteNoiseRejectsNegativeAmplitude(t *testing.T) {
	g := NewGenerator()
	if _, err := g.WhiteNoise(-1, 4); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
}

func TestNoiseContinuesAcrossBlocks(t *testing.T) {
	g := NewGeneratorWithOptions(nil, WithSeed(9))
	want, err := g.WhiteNoise(0.5, 12)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	n, err := g.Noise(0.5)
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}
	got := make([]float64, 0, len(want))
	block := make([]float64, 4)
	for len(got) < len(want) {
		frames, err := n.Fill(block, 2)
		if err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
		if frames != 2 {
			t.Fatalf("Fill() = %d, want 2", frames)
		}
		got = append(got, block...)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}

	n.Reset()
	if _, err := n.Fill(block, 1); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if block[0] != want[0] {
		t.Fatalf("after Reset: got %v, want %v", block[0], want[0])
	}
}

func TestNoiseLeavesPartialFrame(t *testing.T) {
	n, err := NewGenerator().Noise(1)
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}
	dst := []float64{9, 9, 9, 9, 9}
	frames, err := n.Fill(dst, 2)
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if frames != 2 {
		t.Fatalf("Fill() = %d, want 2", frames)
	}
	if dst[4] != 9 {
		t.Fatalf("trailing sample = %v, want untouched 9", dst[4])
	}
	if _, err := n.Fill(dst, 0); err == nil {
		t.Fatal("expected error for zero channels")
	}
}

func TestGeneratorSources(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(8000))
	osc, err := g.Oscillator(1000, 1)
	if err != nil {
		t.Fatalf("Oscillator() error = %v", err)
	}
	noise, err := g.Noise(1)
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}
	for _, src := range []Source{osc, noise} {
		if _, err := src.Fill(make([]float64, 8), 2); err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
	}

	if _, err := g.Oscillator(4000, 1); err == nil {
		t.Fatal("expected error for frequency at nyquist")
	}
}
