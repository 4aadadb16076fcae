package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tetragramaton/smh-sensors/internal/client/mqtt"
	"github.com/tetragramaton/smh-sensors/internal/config"
	"github.com/tetragramaton/smh-sensors/internal/logging"
	"github.com/tetragramaton/smh-sensors/internal/metrics"
	"github.com/tetragramaton/smh-sensors/internal/probe"
)

func main() {
	envErr := godotenv.Load()
	logger := logging.FromEnv()
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env loaded")
	}

	if len(os.Args) < 2 {
		logger.Fatal().Msg("usage: sensor-bridge <sensors.yaml>")
	}
	cfg, err := config.Load(os.Args[1])
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	handler, err := InitMainHandler(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init failed")
	}
	handler.Handle(cfg)
}

func (h *MainHandler) Handle(cfg *config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer h.MQQTClient.Close(250)
	defer func() {
		if err := h.ModbusClient.Close(); err != nil {
			h.Logger.Warn().Err(err).Msg("modbus client close")
		}
	}()

	m := metrics.New()
	if addr := cfg.Bridge.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				h.Logger.Error().Err(err).Str("addr", addr).Msg("metrics server")
			}
		}()
		defer srv.Close()
	}

	probes := make([]probe.Probe, 0, len(cfg.Bridge.Sensors))
	for _, sc := range cfg.Bridge.Sensors {
		p, err := probe.New(sc, h.ModbusClient, h.Logger)
		if err != nil {
			h.Logger.Fatal().Err(err).Msg("probe build failed")
		}
		probes = append(probes, p)
	}

	mcfg, _ := mqtt.LoadConfigFromEnv()
	runner := NewRunner(probes, h.MQQTClient, m, mcfg.WillTopic, h.Logger)
	runner.Begin()

	interval := time.Duration(cfg.Bridge.IntervalMs) * time.Millisecond
	h.Logger.Info().Int("sensors", len(probes)).Dur("interval", interval).Msg("sensor-bridge up")
	runner.Run(ctx, interval)

	h.Logger.Info().Msg("shutting down")
	runner.Stop()
}
