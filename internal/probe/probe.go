// Package probe puts Keller and Yosemitech sensors behind one polling
// interface that speaks in water capabilities.
package probe

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/config"
	"github.com/tetragramaton/smh-sensors/internal/interface/modbus"
)

const (
	StatusOK     byte = 0x00
	StatusFailed byte = 0xFF
)

// Reading holds only the capabilities that were actually read.
type Reading struct {
	Values map[string]float64
	Status byte
}

type Probe interface {
	ID() string
	Model() string
	Area() string
	// Caps is only final after Begin, which may infer the model.
	Caps() []string
	Begin() error
	Read() (Reading, error)
	Stop() error
}

// New builds the probe for one configured sensor. cfg must be normalized.
func New(cfg config.SensorConfig, client modbus.Client, logger zerolog.Logger) (Probe, error) {
	logger = logger.With().Str("sensor", cfg.ID).Logger()
	switch cfg.Family {
	case config.FamilyKeller:
		return newKeller(cfg, client, logger), nil
	case config.FamilyYosemitech:
		return newYosemitech(cfg, client, logger), nil
	default:
		return nil, fmt.Errorf("probe %q: unknown family %q", cfg.ID, cfg.Family)
	}
}

type base struct {
	cfg    config.SensorConfig
	logger zerolog.Logger
	sleep  func(time.Duration)
}

func (b *base) ID() string   { return b.cfg.ID }
func (b *base) Area() string { return b.cfg.Area }
