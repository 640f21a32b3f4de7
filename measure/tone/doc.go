// Package tone measures simple properties of captured audio: the dominant
// frequency of a signal and its peak level.
//
// It is used to check audio that went through a buffer or an output path:
// a known test tone goes in, and DominantFrequency should find it again at
// the far end.
//
// # Usage
//
//	mono, _ := tone.Deinterleave(captured, 2, 0)
//	freq, err := tone.DominantFrequency(mono, 48000)
package tone
