package playback

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
)

var ErrSinkStarted = errors.New("playback: sink already started")

// Sink consumes little-endian float32 PCM from r on its own schedule.
// Start must not block; Close stops consumption and releases the device.
type Sink interface {
	Start(r io.Reader) error
	Close() error
}

// NewSink returns the sink named by cfg.Sink.
func NewSink(cfg Config) (Sink, error) {
	switch cfg.Sink {
	case SinkNull:
		return NewNullSink(cfg.Processor(), false), nil
	case SinkOto:
		return newOtoSink(cfg.Processor())
	default:
		return nil, fmt.Errorf("%w: unknown sink %q", ErrInvalidConfig, cfg.Sink)
	}
}

// NullSink pulls one block per block period, like a sound card would, and
// throws the audio away unless capture is enabled.
type NullSink struct {
	blockBytes int
	period     time.Duration
	capture    bool

	mu       sync.Mutex
	captured []float32
	started  bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewNullSink returns a sink pacing reads at cfg's block rate.
func NewNullSink(cfg core.ProcessorConfig, capture bool) *NullSink {
	return &NullSink{
		blockBytes: cfg.BlockSamples() * 4,
		period:     cfg.FrameDuration(cfg.BlockSize),
		capture:    capture,
		done:       make(chan struct{}),
	}
}

// Start begins consuming r in a background goroutine.
func (s *NullSink) Start(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSinkStarted
	}
	s.started = true

	s.wg.Add(1)
	go s.run(r)
	return nil
}

func (s *NullSink) run(r io.Reader) {
	defer s.wg.Done()

	p := make([]byte, s.blockBytes)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			n, err := r.Read(p)
			if s.capture && n > 0 {
				s.record(p[:n])
			}
			if err != nil {
				return
			}
		}
	}
}

func (s *NullSink) record(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i+4 <= len(p); i += 4 {
		s.captured = append(s.captured, math.Float32frombits(binary.LittleEndian.Uint32(p[i:])))
	}
}

// Captured returns a copy of every sample read so far. It is empty unless
// the sink was created with capture enabled.
func (s *NullSink) Captured() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float32, len(s.captured))
	copy(out, s.captured)
	return out
}

// Close stops the reader goroutine and waits for it.
func (s *NullSink) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}
