package buffer

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
)

const bytesPerSample = 4

// Reader renders a SampleBuffer as little-endian float32 PCM.
//
// Read always fills whole samples. Missing samples are rendered as silence
// so a real-time sink is never starved, and are counted by the buffer's
// Underrun. Reader is a consumer: use it from the consumer goroutine only.
type Reader struct {
	buf     *SampleBuffer
	scratch []float32
	closed  atomic.Bool
}

// NewReader returns a Reader draining b.
func NewReader(b *SampleBuffer) *Reader {
	return &Reader{buf: b}
}

// Read fills p with len(p)/4 samples. It returns io.EOF once Close has been
// called.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, io.EOF
	}
	count := len(p) / bytesPerSample
	if count == 0 {
		return 0, nil
	}
	r.scratch = core.EnsureLen(r.scratch, count)
	samples := r.scratch

	n := r.buf.Pull(samples)
	core.Zero(samples[n:])
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
	return count * bytesPerSample, nil
}

// Close ends the stream. It is safe to call from any goroutine.
func (r *Reader) Close() error {
	r.closed.Store(true)
	return nil
}
