package buffer

// PushFloat64 is Push for float64 producers. Samples are narrowed to float32
// as they are stored.
func (b *SampleBuffer) PushFloat64(samples []float64) int {
	if len(samples) == 0 {
		return 0
	}
	w, n := b.reserve(len(samples))
	if n > 0 {
		first, second := b.segments(w, n)
		for i := range first {
			first[i] = float32(samples[i])
		}
		rest := samples[len(first):n]
		for i := range second {
			second[i] = float32(rest[i])
		}
		b.write.Store(w + n)
	}
	return int(n)
}

// PullFloat64 is Pull for float64 consumers. Elements of out past the
// returned count are left unmodified.
func (b *SampleBuffer) PullFloat64(out []float64) int {
	if len(out) == 0 {
		return 0
	}
	r, n := b.acquire(len(out))
	if n > 0 {
		first, second := b.segments(r, n)
		for i, v := range first {
			out[i] = float64(v)
		}
		rest := out[len(first):n]
		for i, v := range second {
			rest[i] = float64(v)
		}
		b.read.Store(r + n)
	}
	return int(n)
}
