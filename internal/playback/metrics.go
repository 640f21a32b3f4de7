package playback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cwbudde/algo-samplebuf/dsp/buffer"
)

// Metrics exports SampleBuffer activity to Prometheus.
type Metrics struct {
	buffered prometheus.Gauge
	pushed   prometheus.Counter
	pulled   prometheus.Counter
	dropped  prometheus.Counter
	underrun prometheus.Counter

	totalPushed  uint64
	lastPulled   uint64
	lastDropped  uint64
	lastUnderrun uint64
}

// NewMetrics registers the bufplay collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		buffered: f.NewGauge(prometheus.GaugeOpts{
			Name: "bufplay_buffered_samples",
			Help: "Samples currently held by the sample buffer",
		}),
		pushed: f.NewCounter(prometheus.CounterOpts{
			Name: "bufplay_pushed_samples_total",
			Help: "Samples stored by the producer",
		}),
		pulled: f.NewCounter(prometheus.CounterOpts{
			Name: "bufplay_pulled_samples_total",
			Help: "Samples consumed by the sink",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "bufplay_dropped_samples_total",
			Help: "Samples discarded because the buffer was full",
		}),
		underrun: f.NewCounter(prometheus.CounterOpts{
			Name: "bufplay_underrun_samples_total",
			Help: "Samples the sink asked for that were not buffered",
		}),
	}
}

// AddPushed records n samples stored by the producer.
func (m *Metrics) AddPushed(n int) {
	m.totalPushed += uint64(n)
	m.pushed.Add(float64(n))
}

// Observe samples b's level and counters. Call it from the producer
// goroutine, the same one that calls AddPushed.
func (m *Metrics) Observe(b *buffer.SampleBuffer) {
	available := uint64(b.Available())
	m.buffered.Set(float64(available))

	if pulled := m.totalPushed - available; pulled > m.lastPulled {
		m.pulled.Add(float64(pulled - m.lastPulled))
		m.lastPulled = pulled
	}
	if d := b.Dropped(); d > m.lastDropped {
		m.dropped.Add(float64(d - m.lastDropped))
		m.lastDropped = d
	}
	if u := b.Underrun(); u > m.lastUnderrun {
		m.underrun.Add(float64(u - m.lastUnderrun))
		m.lastUnderrun = u
	}
}
