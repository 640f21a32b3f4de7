// Command bufplay streams a test tone or seeded noise through a SampleBuffer to an audio
// sink. A producer renders blocks at its own cadence while the sink pulls
// blocks in real time, which makes buffer levels, drops, and underruns
// observable.
//
// Usage:
//
//	bufplay [flags]
//
// Examples:
//
//	bufplay
//	bufplay -config bufplay.yaml -log-level debug
//	BUFPLAY_SINK=null BUFPLAY_METRICSADDR=:9090 bufplay
//
// Configuration keys (YAML, or environment with prefix BUFPLAY_):
//
//	audio.sampleRate, audio.channels, audio.blockFrames, audio.bufferSamples
//	tone.kind (sine | noise), tone.seed, tone.frequency, tone.gainDb,
//	tone.fade, tone.duration
//	sink (oto | null), metricsAddr
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-samplebuf/internal/playback"
)

func main() {
	configFile := flag.String("config", os.Getenv("BUFPLAY_CONFIG"), "path to YAML configuration file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := initLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bufplay: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(*configFile, logger); err != nil {
		logger.Error("bufplay failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(configFile string, logger *zap.Logger) error {
	cfg, err := playback.LoadConfig(configFile)
	if err != nil {
		return err
	}
	logger.Info("Configuration loaded",
		zap.String("configFile", configFile),
		zap.String("sink", cfg.Sink),
		zap.String("toneKind", cfg.Tone.Kind),
		zap.Float64("toneHz", cfg.Tone.Frequency),
		zap.Duration("duration", cfg.Tone.Duration),
	)

	reg := prometheus.NewRegistry()
	metrics := playback.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr, reg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	sink, err := playback.NewSink(cfg)
	if err != nil {
		return err
	}
	pipeline, err := playback.NewPipeline(cfg, sink, metrics, logger)
	if err != nil {
		_ = sink.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return pipeline.Run(ctx)
}

func startMetricsServer(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("Starting metrics server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func initLogger(level string) (*zap.Logger, error) {
	var config zap.Config

	switch level {
	case "debug":
		config = zap.NewDevelopmentConfig()
	case "info", "warn", "error":
		config = zap.NewProductionConfig()
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = lvl
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	return config.Build()
}
