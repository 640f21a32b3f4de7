package buffer

import (
	"fmt"
	"sync/atomic"
)

// SampleBuffer is a fixed-capacity FIFO of float32 samples.
//
// Two monotonically increasing cursors track the stream: write counts every
// sample ever accepted, read counts every sample ever consumed. The number of
// buffered samples is write-read and the physical slot of a cursor is
// cursor % Cap(). The producer owns write, the consumer owns read.
//
// Producer side: Push, PushFloat64, Free, Dropped.
// Consumer side: Pull, PullFloat64, PullTicks, Discard, Reset,
// RemainingTicks, Underrun.
// Available, Free and Cap may be called from any goroutine.
type SampleBuffer struct {
	write atomic.Uint64
	_     [56]byte
	read  atomic.Uint64
	_     [56]byte

	dropped  atomic.Uint64
	underrun atomic.Uint64

	storage []float32
	size    uint64
}

// New returns an empty, zero-filled buffer holding at most maxSize samples.
func New(maxSize int) (*SampleBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, maxSize)
	}
	if maxSize > MaxCapacity {
		return nil, fmt.Errorf("%w: %d > %d", ErrCapacityTooLarge, maxSize, MaxCapacity)
	}
	return &SampleBuffer{
		storage: make([]float32, maxSize),
		size:    uint64(maxSize),
	}, nil
}

// Cap returns the fixed capacity in samples.
func (b *SampleBuffer) Cap() int {
	return int(b.size)
}

// Available returns the number of buffered samples, always in [0, Cap()].
//
// read is loaded before write so the difference never goes negative. An
// observer that is neither producer nor consumer may see a value the
// producer has already moved past; it is clamped to Cap().
func (b *SampleBuffer) Available() int {
	r := b.read.Load()
	n := b.write.Load() - r
	if n > b.size {
		n = b.size
	}
	return int(n)
}

// Free returns the number of samples Push can currently accept.
func (b *SampleBuffer) Free() int {
	return int(b.size) - b.Available()
}

// Dropped returns the total number of samples discarded because they did not
// fit when pushed.
func (b *SampleBuffer) Dropped() uint64 {
	return b.dropped.Load()
}

// Underrun returns the total number of samples requested by pulls that were
// not available.
func (b *SampleBuffer) Underrun() uint64 {
	return b.underrun.Load()
}

// Push appends samples to the end of the buffer and returns how many were
// stored. When the block does not fit, only its leading part is kept and the
// remainder is counted as dropped.
func (b *SampleBuffer) Push(samples []float32) int {
	if len(samples) == 0 {
		return 0
	}
	w, n := b.reserve(len(samples))
	if n > 0 {
		first, second := b.segments(w, n)
		k := copy(first, samples)
		copy(second, samples[k:n])
		b.write.Store(w + n)
	}
	return int(n)
}

// Pull copies buffered samples from the front into out, removes them, and
// returns how many were copied. If fewer than len(out) samples are buffered
// the remaining elements of out are left unmodified.
func (b *SampleBuffer) Pull(out []float32) int {
	if len(out) == 0 {
		return 0
	}
	r, n := b.acquire(len(out))
	if n > 0 {
		first, second := b.segments(r, n)
		k := copy(out, first)
		copy(out[k:], second)
		b.read.Store(r + n)
	}
	return int(n)
}

// PullTicks pulls as many complete interleaved frames as both out and the
// buffer can hold and returns the number of frames pulled. A frame is never
// split: trailing samples of an incomplete frame stay buffered.
func (b *SampleBuffer) PullTicks(out []float32, numChannels int) (int, error) {
	if numChannels <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannels, numChannels)
	}
	want := len(out) / numChannels * numChannels
	if want == 0 {
		return 0, nil
	}
	r := b.read.Load()
	avail := b.write.Load() - r
	n := avail / uint64(numChannels) * uint64(numChannels)
	if n > uint64(want) {
		n = uint64(want)
	}
	if short := uint64(want) - n; short > 0 {
		b.underrun.Add(short)
	}
	if n > 0 {
		first, second := b.segments(r, n)
		k := copy(out, first)
		copy(out[k:], second)
		b.read.Store(r + n)
	}
	return int(n) / numChannels, nil
}

// RemainingTicks returns the number of complete frames of numChannels
// interleaved samples currently buffered.
func (b *SampleBuffer) RemainingTicks(numChannels int) (int, error) {
	if numChannels <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannels, numChannels)
	}
	return b.Available() / numChannels, nil
}

// Discard drops up to n samples from the front without copying them and
// returns how many were dropped.
func (b *SampleBuffer) Discard(n int) int {
	if n <= 0 {
		return 0
	}
	r := b.read.Load()
	avail := b.write.Load() - r
	k := uint64(n)
	if k > avail {
		k = avail
	}
	b.read.Store(r + k)
	return int(k)
}

// Reset discards every buffered sample. Dropped and Underrun are kept.
func (b *SampleBuffer) Reset() {
	b.read.Store(b.write.Load())
}

// reserve returns the write cursor and how many of want samples fit,
// counting the rest as dropped.
func (b *SampleBuffer) reserve(want int) (uint64, uint64) {
	w := b.write.Load()
	free := b.size - (w - b.read.Load())
	n := uint64(want)
	if n > free {
		b.dropped.Add(n - free)
		n = free
	}
	return w, n
}

// acquire returns the read cursor and how many of want samples are
// available, counting the shortfall as underrun.
func (b *SampleBuffer) acquire(want int) (uint64, uint64) {
	r := b.read.Load()
	avail := b.write.Load() - r
	n := uint64(want)
	if n > avail {
		n = avail
	}
	if short := uint64(want) - n; short > 0 {
		b.underrun.Add(short)
	}
	return r, n
}

// segments returns the storage covering n samples starting at cursor pos.
// second is empty unless the range wraps.
func (b *SampleBuffer) segments(pos, n uint64) (first, second []float32) {
	start := pos % b.size
	end := start + n
	if end <= b.size {
		return b.storage[start:end], nil
	}
	return b.storage[start:], b.storage[:end-b.size]
}
