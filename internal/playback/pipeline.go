package playback

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-samplebuf/dsp/buffer"
	"github.com/cwbudde/algo-samplebuf/dsp/core"
	"github.com/cwbudde/algo-samplebuf/dsp/signal"
)

// Pipeline renders a test signal into a SampleBuffer on a producer goroutine
// while a Sink drains it through a buffer.Reader.
type Pipeline struct {
	cfg     Config
	proc    core.ProcessorConfig
	buf     *buffer.SampleBuffer
	src     signal.Source
	sink    Sink
	metrics *Metrics
	logger  *zap.Logger

	gain        float64
	fadeFrames  int
	totalFrames int // zero means unbounded
	produced    int
	peak        float64

	block    []float64
	envelope []float64
	out      []float32
}

// NewPipeline validates cfg and prepares every buffer the producer needs.
// metrics may be nil.
func NewPipeline(cfg Config, sink Sink, metrics *Metrics, logger *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	proc := cfg.Processor()

	buf, err := buffer.New(cfg.Audio.BufferSamples)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	src, err := newSource(cfg.Tone, proc)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}

	n := proc.BlockSamples()
	return &Pipeline{
		cfg:         cfg,
		proc:        proc,
		buf:         buf,
		src:         src,
		sink:        sink,
		metrics:     metrics,
		logger:      logger,
		gain:        core.DBToLinear(cfg.Tone.GainDB),
		fadeFrames:  durationFrames(cfg.Tone.Fade, proc.SampleRate),
		totalFrames: durationFrames(cfg.Tone.Duration, proc.SampleRate),
		block:       core.EnsureLen[float64](nil, n),
		envelope:    core.EnsureLen[float64](nil, n),
		out:         core.EnsureLen[float32](nil, n),
	}, nil
}

func newSource(tone ToneConfig, proc core.ProcessorConfig) (signal.Source, error) {
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(proc.SampleRate)},
		signal.WithSeed(tone.Seed),
	)
	if tone.Kind == ToneNoise {
		noise, err := gen.Noise(1)
		if err != nil {
			return nil, err
		}
		return noise, nil
	}
	osc, err := gen.Oscillator(tone.Frequency, 1)
	if err != nil {
		return nil, err
	}
	return osc, nil
}

// Buffer exposes the sample buffer between producer and sink.
func (p *Pipeline) Buffer() *buffer.SampleBuffer {
	return p.buf
}

// Run primes the buffer, starts the sink, and keeps the buffer topped up
// until the configured duration has been produced and consumed or ctx is
// cancelled. The sink is closed before Run returns.
func (p *Pipeline) Run(ctx context.Context) error {
	reader := buffer.NewReader(p.buf)

	p.fill()
	p.logger.Info("Starting playback",
		zap.Float64("sampleRate", p.proc.SampleRate),
		zap.Int("channels", p.proc.Channels),
		zap.Int("blockFrames", p.proc.BlockSize),
		zap.Int("bufferSamples", p.buf.Cap()),
		zap.Int("primedSamples", p.buf.Available()),
	)

	if err := p.sink.Start(reader); err != nil {
		return fmt.Errorf("playback: start sink: %w", err)
	}
	defer func() {
		_ = reader.Close()
		if err := p.sink.Close(); err != nil {
			p.logger.Warn("Failed to close sink", zap.Error(err))
		}
	}()

	// Half a block period keeps the producer ahead of a sink pulling whole
	// blocks.
	ticker := time.NewTicker(p.proc.FrameDuration(p.proc.BlockSize) / 2)
	defer ticker.Stop()

	lastUnderrun := p.buf.Underrun()
	for {
		select {
		case <-ctx.Done():
			p.logSummary("Playback cancelled")
			return nil
		case <-ticker.C:
			p.fill()

			if u := p.buf.Underrun(); u > lastUnderrun {
				p.logger.Debug("Sink underrun", zap.Uint64("missingSamples", u-lastUnderrun))
				lastUnderrun = u
			}
			if p.finished() && p.buf.Available() == 0 {
				p.logSummary("Playback complete")
				return nil
			}
		}
	}
}

// fill pushes whole blocks while the buffer has room for them.
func (p *Pipeline) fill() {
	for !p.finished() && p.buf.Free() >= len(p.block) {
		frames := p.proc.BlockSize
		if p.totalFrames > 0 && p.totalFrames-p.produced < frames {
			frames = p.totalFrames - p.produced
		}
		n := p.render(frames)
		stored := p.buf.Push(p.out[:n])
		if p.metrics != nil {
			p.metrics.AddPushed(stored)
		}
	}
	if p.metrics != nil {
		p.metrics.Observe(p.buf)
	}
}

// render writes frames of enveloped signal into p.out and returns the
// interleaved sample count.
func (p *Pipeline) render(frames int) int {
	ch := p.proc.Channels
	n := frames * ch
	block := p.block[:n]
	envelope := p.envelope[:n]

	// Fill cannot fail here: channels were validated by NewPipeline.
	_, _ = p.src.Fill(block, ch)

	for f := 0; f < frames; f++ {
		g := p.gain * p.fadeGain(p.produced+f)
		for c := 0; c < ch; c++ {
			envelope[f*ch+c] = g
		}
	}
	vecmath.MulBlockInPlace(block, envelope)

	for i, v := range block {
		s := core.SaturateSample(float32(v))
		if a := math.Abs(float64(s)); a > p.peak {
			p.peak = a
		}
		p.out[i] = s
	}
	p.produced += frames
	return n
}

// fadeGain is the fade-in/fade-out envelope at frame index.
func (p *Pipeline) fadeGain(frame int) float64 {
	if p.fadeFrames == 0 {
		return 1
	}
	g := float64(frame) / float64(p.fadeFrames)
	if p.totalFrames > 0 {
		g = min(g, float64(p.totalFrames-1-frame)/float64(p.fadeFrames))
	}
	return core.Clamp(g, 0, 1)
}

// PeakDBFS returns the largest absolute sample pushed so far in dB relative
// to full scale, or -Inf before anything was rendered.
func (p *Pipeline) PeakDBFS() float64 {
	return core.LinearToDB(p.peak)
}

func (p *Pipeline) finished() bool {
	return p.totalFrames > 0 && p.produced >= p.totalFrames
}

func (p *Pipeline) logSummary(msg string) {
	p.logger.Info(msg,
		zap.Int("framesProduced", p.produced),
		zap.Float64("peakDbfs", p.PeakDBFS()),
		zap.Uint64("droppedSamples", p.buf.Dropped()),
		zap.Uint64("underrunSamples", p.buf.Underrun()),
	)
}

func durationFrames(d time.Duration, sampleRate float64) int {
	return int(d.Seconds() * sampleRate)
}
