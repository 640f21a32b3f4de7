//go:build headless

package playback

import (
	"errors"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
)

var errNoAudioDevice = errors.New("playback: oto sink unavailable in headless builds")

func newOtoSink(core.ProcessorConfig) (Sink, error) {
	return nil, errNoAudioDevice
}
