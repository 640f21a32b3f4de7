package tone

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-samplebuf/dsp/buffer"
	"github.com/cwbudde/algo-samplebuf/dsp/core"
	"github.com/cwbudde/algo-samplebuf/dsp/signal"
	"github.com/cwbudde/algo-samplebuf/internal/testutil"
)

func TestDominantFrequency(t *testing.T) {
	const sampleRate = 48000.0
	binHz := sampleRate / 4096

	for _, freq := range []float64{100, 440, 1000, 5000, 15000} {
		x := testutil.DeterministicSine(freq, sampleRate, 0.8, 4096)
		got, err := DominantFrequency(x, sampleRate)
		if err != nil {
			t.Fatalf("DominantFrequency(%v Hz) error = %v", freq, err)
		}
		if math.Abs(got-freq) > binHz {
			t.Fatalf("DominantFrequency(%v Hz) = %v, want within %v Hz", freq, got, binHz)
		}
	}
}

func TestDominantFrequencyWithNoise(t *testing.T) {
	const sampleRate = 44100.0
	g := signal.NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(sampleRate)}, signal.WithSeed(7))
	x, err := g.Sine(2000, 1, 3000)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	noise, err := g.WhiteNoise(0.1, len(x))
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	for i := range x {
		x[i] += noise[i]
	}

	got, err := DominantFrequency(x, sampleRate)
	if err != nil {
		t.Fatalf("DominantFrequency() error = %v", err)
	}
	if math.Abs(got-2000) > sampleRate/4096 {
		t.Fatalf("DominantFrequency() = %v, want about 2000", got)
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, err := DominantFrequency(nil, 48000); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("error = %v, want %v", err, ErrEmptySignal)
	}
	if _, err := DominantFrequency([]float64{0, 1, 0}, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidSampleRate)
	}
	if _, err := DominantFrequency(make([]float64, 64), 48000); !errors.Is(err, ErrNoTone) {
		t.Fatalf("error = %v, want %v", err, ErrNoTone)
	}

	faint := make([]float64, 64)
	for i := range faint {
		faint[i] = 1e-9 * math.Sin(2*math.Pi*float64(i)/8)
	}
	if _, err := DominantFrequency(faint, 48000); !errors.Is(err, ErrNoTone) {
		t.Fatalf("faint signal error = %v, want %v", err, ErrNoTone)
	}
}

func TestPeak(t *testing.T) {
	if got := Peak([]float64{0.1, -0.7, 0.5}); got != 0.7 {
		t.Fatalf("Peak() = %v, want 0.7", got)
	}
	if got := Peak(nil); got != 0 {
		t.Fatalf("Peak(nil) = %v, want 0", got)
	}
}

func TestDeinterleave(t *testing.T) {
	got, err := Deinterleave([]float32{1, -1, 2, -2, 3}, 2, 1)
	if err != nil {
		t.Fatalf("Deinterleave() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{-1, -2}, 0)

	for _, tc := range [][2]int{{0, 0}, {2, 2}, {2, -1}} {
		if _, err := Deinterleave([]float32{1}, tc[0], tc[1]); !errors.Is(err, ErrInvalidChannel) {
			t.Fatalf("Deinterleave(%d, %d) error = %v, want %v", tc[0], tc[1], err, ErrInvalidChannel)
		}
	}
}

// A tone pushed through a SampleBuffer in producer-sized blocks and pulled
// in callback-sized blocks keeps its frequency.
func TestToneSurvivesSampleBuffer(t *testing.T) {
	const (
		sampleRate = 48000.0
		channels   = 2
		frames     = 4096
	)
	b, err := buffer.New(1024)
	if err != nil {
		t.Fatalf("buffer.New() error = %v", err)
	}
	osc, err := signal.NewOscillator(1500, 0.5, sampleRate)
	if err != nil {
		t.Fatalf("NewOscillator() error = %v", err)
	}

	produced := make([]float64, 300*channels)
	pending := 0
	captured := make([]float32, 0, frames*channels)
	callback := make([]float32, 128*channels)

	for len(captured) < frames*channels {
		if pending == 0 {
			if _, err := osc.Fill(produced, channels); err != nil {
				t.Fatalf("Fill() error = %v", err)
			}
			pending = len(produced)
		}
		n := pending
		if free := b.Free(); free < n {
			n = free
		}
		start := len(produced) - pending
		pending -= b.PushFloat64(produced[start : start+n])

		ticks, err := b.PullTicks(callback, channels)
		if err != nil {
			t.Fatalf("PullTicks() error = %v", err)
		}
		captured = append(captured, callback[:ticks*channels]...)
	}
	if b.Dropped() != 0 {
		t.Fatalf("Dropped() = %d, want 0", b.Dropped())
	}

	for ch := 0; ch < channels; ch++ {
		mono, err := Deinterleave(captured[:frames*channels], channels, ch)
		if err != nil {
			t.Fatalf("Deinterleave() error = %v", err)
		}
		got, err := DominantFrequency(mono, sampleRate)
		if err != nil {
			t.Fatalf("DominantFrequency() error = %v", err)
		}
		if math.Abs(got-1500) > sampleRate/frames {
			t.Fatalf("channel %d: DominantFrequency() = %v, want about 1500", ch, got)
		}
		if p := Peak(mono); math.Abs(p-0.5) > 1e-3 {
			t.Fatalf("channel %d: Peak() = %v, want about 0.5", ch, p)
		}
	}
}
