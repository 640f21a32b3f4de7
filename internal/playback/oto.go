//go:build !headless

package playback

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
)

// OtoSink plays the stream on the default audio device through oto.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player
	mutex  sync.Mutex
}

func newOtoSink(cfg core.ProcessorConfig) (Sink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.FrameDuration(cfg.BlockSize),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("playback: oto context: %w", err)
	}
	<-ready

	return &OtoSink{ctx: ctx}, nil
}

// Start creates a player reading r and starts playback.
func (s *OtoSink) Start(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.player != nil {
		return ErrSinkStarted
	}
	s.player = s.ctx.NewPlayer(r)
	s.player.Play()
	return nil
}

// Close stops playback. The oto context itself lives for the process.
func (s *OtoSink) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
