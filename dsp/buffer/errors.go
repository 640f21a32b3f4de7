package buffer

import "errors"

// MaxCapacity is the largest sample count New accepts.
const MaxCapacity = 1 << 30

var (
	ErrInvalidCapacity  = errors.New("buffer: capacity must be > 0")
	ErrCapacityTooLarge = errors.New("buffer: capacity exceeds MaxCapacity")
	ErrInvalidChannels  = errors.New("buffer: channel count must be > 0")
)
