package tone

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
	"github.com/cwbudde/algo-samplebuf/dsp/window"
)

var (
	ErrEmptySignal       = errors.New("tone: signal is empty")
	ErrInvalidSampleRate = errors.New("tone: sample rate must be positive")
	ErrNoTone            = errors.New("tone: no spectral peak above DC")
	ErrInvalidChannel    = errors.New("tone: channel out of range")
)

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples. The signal is Hann-windowed and zero-padded to a
// power of two; the peak bin is refined by parabolic interpolation. A
// spectrum whose strongest bin carries no measurable power yields ErrNoTone.
func DominantFrequency(samples []float64, sampleRate float64) (float64, error) {
	if len(samples) < 2 {
		return 0, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	windowed := make([]float64, len(samples))
	copy(windowed, samples)
	window.Apply(window.TypeHann, windowed)

	fftSize := nextPowerOf2(len(samples))
	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("tone: fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("tone: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	peak := 1
	for k := 2; k < bins; k++ {
		if power[k] > power[peak] {
			peak = k
		}
	}
	if core.NearlyEqual(power[peak], 0, 0) {
		return 0, ErrNoTone
	}

	offset := 0.0
	if peak > 1 && peak < bins-1 {
		a, b, c := power[peak-1], power[peak], power[peak+1]
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}

	return (float64(peak) + offset) * sampleRate / float64(fftSize), nil
}

// Peak returns the largest absolute sample value.
func Peak(samples []float64) float64 {
	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Deinterleave extracts one channel of interleaved float32 samples as
// float64. A trailing incomplete frame is ignored.
func Deinterleave(samples []float32, numChannels, channel int) ([]float64, error) {
	if numChannels <= 0 || channel < 0 || channel >= numChannels {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrInvalidChannel, channel, numChannels)
	}
	frames := len(samples) / numChannels
	out := make([]float64, frames)
	for f := range out {
		out[f] = float64(samples[f*numChannels+channel])
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
