package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
)

// Source renders interleaved blocks for a producer. Fill writes whole frames
// into dst and returns the frame count; Reset restarts the signal.
type Source interface {
	Fill(dst []float64, numChannels int) (int, error)
	Reset()
}

// Generator builds deterministic test signals and block sources that share
// one sample rate and noise seed.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed for noise.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator with the default seed.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Oscillator returns a phase-continuous sine source at the generator's
// sample rate.
func (g *Generator) Oscillator(freqHz, amplitude float64) (*Oscillator, error) {
	return NewOscillator(freqHz, amplitude, g.cfg.SampleRate)
}

// Noise returns a white-noise source seeded with the generator's seed. Two
// sources from generators with equal seeds render identical streams.
func (g *Generator) Noise(amplitude float64) (*Noise, error) {
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	return &Noise{
		amplitude: amplitude,
		seed:      g.seed,
		rng:       rand.New(rand.NewSource(g.seed)),
	}, nil
}

// Sine generates a sine wave starting at phase zero. Use an Oscillator when
// the wave has to continue across blocks.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise returns the first samples of the generator's noise stream.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	n, err := g.Noise(amplitude)
	if err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	_, _ = n.Fill(out, 1)
	return out, nil
}

// Noise renders uniform white noise in [-amplitude, amplitude]. Every
// sample, including each channel of a frame, is drawn independently.
type Noise struct {
	amplitude float64
	seed      int64
	rng       *rand.Rand
}

// Fill writes len(dst)/numChannels frames of noise into dst and returns the
// frame count. Trailing samples of an incomplete frame are left untouched.
func (n *Noise) Fill(dst []float64, numChannels int) (int, error) {
	if numChannels <= 0 {
		return 0, fmt.Errorf("noise channel count must be > 0: %d", numChannels)
	}
	frames := len(dst) / numChannels
	for i := range dst[:frames*numChannels] {
		dst[i] = (n.rng.Float64()*2 - 1) * n.amplitude
	}
	return frames, nil
}

// Reset restarts the noise stream from its seed.
func (n *Noise) Reset() {
	n.rng.Seed(n.seed)
}
