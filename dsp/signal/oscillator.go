package signal

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Oscillator renders a sine wave block by block without phase
// discontinuities between blocks.
type Oscillator struct {
	step      float64
	amplitude float64
	phase     float64
}

// NewOscillator returns an oscillator at freqHz for the given sample rate.
func NewOscillator(freqHz, amplitude, sampleRate float64) (*Oscillator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("oscillator sample rate must be > 0: %f", sampleRate)
	}
	if freqHz < 0 || freqHz >= sampleRate/2 {
		return nil, fmt.Errorf("oscillator frequency must be in [0, %f): %f", sampleRate/2, freqHz)
	}
	return &Oscillator{
		step:      twoPi * freqHz / sampleRate,
		amplitude: amplitude,
	}, nil
}

// Fill writes len(dst)/numChannels interleaved frames into dst, the same
// value on every channel of a frame, and returns the frame count. Trailing
// samples that do not make up a whole frame are left untouched.
func (o *Oscillator) Fill(dst []float64, numChannels int) (int, error) {
	if numChannels <= 0 {
		return 0, fmt.Errorf("oscillator channel count must be > 0: %d", numChannels)
	}
	frames := len(dst) / numChannels
	for f := 0; f < frames; f++ {
		v := o.amplitude * math.Sin(o.phase)
		frame := dst[f*numChannels : (f+1)*numChannels]
		for c := range frame {
			frame[c] = v
		}
		o.phase += o.step
		if o.phase >= twoPi {
			o.phase -= twoPi
		}
	}
	return frames, nil
}

// Phase returns the current phase in radians, in [0, 2*pi).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Reset rewinds the oscillator to phase zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}
