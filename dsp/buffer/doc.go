// Package buffer provides SampleBuffer, a fixed-capacity float32 sample FIFO
// that decouples an audio producer (a synthesis engine emitting blocks at its
// own cadence) from an audio consumer (a hardware callback pulling fixed-size
// blocks in real time).
//
// Push appends samples and truncates whatever does not fit. Pull copies
// samples out of the front and never reads past what is buffered.
// RemainingTicks reports how many complete interleaved frames are held.
// Neither overflow nor underflow is an error; both are counted and reported
// through Dropped and Underrun.
//
// SampleBuffer is a lock-free single-producer/single-consumer ring. One
// goroutine may push while another pulls without further synchronisation.
// Once New has returned, Push, Pull, PullTicks, PushFloat64, PullFloat64,
// RemainingTicks and Discard never block or panic, and they do not allocate
// unless they report ErrInvalidChannels. A Reader allocates its scratch on
// the first Read and again only when a Read asks for more samples than any
// Read before it.
//
// Reader adapts a SampleBuffer to io.Reader for byte-oriented sinks that
// expect little-endian float32 PCM.
package buffer
