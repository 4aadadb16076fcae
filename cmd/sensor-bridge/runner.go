package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/ha"
	mqttIface "github.com/tetragramaton/smh-sensors/internal/interface/mqtt"
	"github.com/tetragramaton/smh-sensors/internal/probe"
)

// observer records poll outcomes; *metrics.Metrics satisfies it.
type observer interface {
	Observe(sensor string, values map[string]float64, status byte, took time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) Observe(string, map[string]float64, byte, time.Duration, error) {}

// Runner polls every probe in turn on the shared bus and publishes the results.
type Runner struct {
	probes       []probe.Probe
	started      map[string]bool
	mqtt         mqttIface.Publisher
	obs          observer
	availability string
	logger       zerolog.Logger
	now          func() time.Time
}

func NewRunner(probes []probe.Probe, mc mqttIface.Publisher, obs observer, availability string, logger zerolog.Logger) *Runner {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Runner{
		probes:       probes,
		started:      make(map[string]bool, len(probes)),
		mqtt:         mc,
		obs:          obs,
		availability: availability,
		logger:       logger,
		now:          time.Now,
	}
}

// Begin starts every probe and announces the ones that came up. Probes that
// fail are retried on each poll.
func (r *Runner) Begin() {
	for _, p := range r.probes {
		r.begin(p)
	}
}

func (r *Runner) begin(p probe.Probe) bool {
	if err := p.Begin(); err != nil {
		r.logger.Error().Err(err).Str("sensor", p.ID()).Msg("sensor begin failed")
		return false
	}
	r.started[p.ID()] = true

	meta := ha.Meta{
		DeviceID:     p.ID(),
		Model:        p.Model(),
		Area:         p.Area(),
		Caps:         p.Caps(),
		Availability: r.availability,
	}
	if err := r.publishEvent(ha.MetaTopic(p.ID()), meta, true); err != nil {
		r.logger.Error().Err(err).Str("sensor", p.ID()).Msg("meta publish failed")
	}
	return true
}

// PollOnce reads each started probe once and publishes its state.
func (r *Runner) PollOnce() {
	for _, p := range r.probes {
		if !r.started[p.ID()] && !r.begin(p) {
			continue
		}

		t0 := r.now()
		reading, err := p.Read()
		r.obs.Observe(p.ID(), reading.Values, reading.Status, r.now().Sub(t0), err)
		if err != nil {
			r.logger.Warn().Err(err).Str("sensor", p.ID()).Msg("read failed")
		}
		if len(reading.Values) == 0 {
			continue
		}

		state := map[string]interface{}{
			"ts":     t0.Unix(),
			"status": reading.Status,
		}
		for c, v := range reading.Values {
			if capability, ok := ha.LookupCapability(c); ok {
				state[capability.Field] = round(v, 3)
			}
		}
		if err := r.publishEvent(ha.StateTopic(p.ID()), state, false); err != nil {
			r.logger.Error().Err(err).Str("sensor", p.ID()).Msg("state publish failed")
		}
	}
}

// Run polls on every tick until ctx is done.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.PollOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.PollOnce()
		}
	}
}

// Stop takes started probes out of measuring mode.
func (r *Runner) Stop() {
	for _, p := range r.probes {
		if !r.started[p.ID()] {
			continue
		}
		if err := p.Stop(); err != nil {
			r.logger.Warn().Err(err).Str("sensor", p.ID()).Msg("stop failed")
		}
		r.started[p.ID()] = false
	}
}

func (r *Runner) publishEvent(topic string, payload any, retain bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return r.mqtt.PublishEvent(mqttIface.Message{
		Topic:   topic,
		Payload: data,
		QoS:     1,
		Retain:  retain,
	})
}

func round(v float64, prec int) float64 {
	p := math.Pow(10, float64(prec))
	return math.Round(v*p) / p
}
