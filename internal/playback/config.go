package playback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cwbudde/algo-samplebuf/dsp/core"
)

const (
	SinkNull = "null"
	SinkOto  = "oto"

	ToneSine  = "sine"
	ToneNoise = "noise"
)

var ErrInvalidConfig = errors.New("playback: invalid configuration")

// Config is the bufplay configuration.
type Config struct {
	Audio       AudioConfig `mapstructure:"audio"`
	Tone        ToneConfig  `mapstructure:"tone"`
	Sink        string      `mapstructure:"sink"`
	MetricsAddr string      `mapstructure:"metricsAddr"`
}

// AudioConfig describes the stream between producer and sink.
type AudioConfig struct {
	SampleRate  int `mapstructure:"sampleRate"`
	Channels    int `mapstructure:"channels"`
	BlockFrames int `mapstructure:"blockFrames"`
	// BufferSamples is the SampleBuffer capacity in interleaved samples.
	BufferSamples int `mapstructure:"bufferSamples"`
}

// ToneConfig describes the test signal the producer renders.
type ToneConfig struct {
	// Kind is ToneSine or ToneNoise. Frequency only applies to ToneSine.
	Kind      string        `mapstructure:"kind"`
	Seed      int64         `mapstructure:"seed"`
	Frequency float64       `mapstructure:"frequency"`
	GainDB    float64       `mapstructure:"gainDb"`
	Fade      time.Duration `mapstructure:"fade"`
	// Duration of zero plays until the context is cancelled.
	Duration time.Duration `mapstructure:"duration"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate:    48000,
			Channels:      2,
			BlockFrames:   256,
			BufferSamples: 4096,
		},
		Tone: ToneConfig{
			Kind:      ToneSine,
			Seed:      1,
			Frequency: 440,
			GainDB:    -12,
			Fade:      20 * time.Millisecond,
			Duration:  2 * time.Second,
		},
		Sink: SinkOto,
	}
}

// LoadConfig reads configFile (YAML) on top of the defaults. An empty path
// skips the file. Environment variables prefixed BUFPLAY_ override both,
// e.g. BUFPLAY_AUDIO_SAMPLERATE or BUFPLAY_SINK.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("audio.sampleRate", def.Audio.SampleRate)
	v.SetDefault("audio.channels", def.Audio.Channels)
	v.SetDefault("audio.blockFrames", def.Audio.BlockFrames)
	v.SetDefault("audio.bufferSamples", def.Audio.BufferSamples)
	v.SetDefault("tone.kind", def.Tone.Kind)
	v.SetDefault("tone.seed", def.Tone.Seed)
	v.SetDefault("tone.frequency", def.Tone.Frequency)
	v.SetDefault("tone.gainDb", def.Tone.GainDB)
	v.SetDefault("tone.fade", def.Tone.Fade)
	v.SetDefault("tone.duration", def.Tone.Duration)
	v.SetDefault("sink", def.Sink)
	v.SetDefault("metricsAddr", def.MetricsAddr)

	v.SetEnvPrefix("BUFPLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	a := c.Audio
	switch {
	case a.SampleRate <= 0:
		return fmt.Errorf("%w: sampleRate must be > 0: %d", ErrInvalidConfig, a.SampleRate)
	case a.Channels <= 0:
		return fmt.Errorf("%w: channels must be > 0: %d", ErrInvalidConfig, a.Channels)
	case a.BlockFrames <= 0:
		return fmt.Errorf("%w: blockFrames must be > 0: %d", ErrInvalidConfig, a.BlockFrames)
	case a.BufferSamples < 2*a.BlockFrames*a.Channels:
		return fmt.Errorf("%w: bufferSamples must hold at least two blocks (%d): %d",
			ErrInvalidConfig, 2*a.BlockFrames*a.Channels, a.BufferSamples)
	case c.Tone.Kind != ToneSine && c.Tone.Kind != ToneNoise:
		return fmt.Errorf("%w: unknown tone kind %q", ErrInvalidConfig, c.Tone.Kind)
	case c.Tone.Kind == ToneSine && (c.Tone.Frequency <= 0 || c.Tone.Frequency >= float64(a.SampleRate)/2):
		return fmt.Errorf("%w: tone frequency must be in (0, %d): %v", ErrInvalidConfig, a.SampleRate/2, c.Tone.Frequency)
	case c.Tone.Fade < 0 || c.Tone.Duration < 0:
		return fmt.Errorf("%w: fade and duration must be >= 0", ErrInvalidConfig)
	case c.Sink != SinkNull && c.Sink != SinkOto:
		return fmt.Errorf("%w: unknown sink %q", ErrInvalidConfig, c.Sink)
	}
	return nil
}

// Processor returns the stream settings as a core.ProcessorConfig.
func (c Config) Processor() core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(float64(c.Audio.SampleRate)),
		core.WithBlockSize(c.Audio.BlockFrames),
		core.WithChannels(c.Audio.Channels),
	)
}
