// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tetragramaton/smh-sensors/internal/sensor/keller"
	"github.com/tetragramaton/smh-sensors/internal/sensor/yosemitech"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	b := cfg.Bridge

	if b.IntervalMs < 0 {
		return fmt.Errorf("bridge: interval_ms must not be negative, got %d", b.IntervalMs)
	}
	if len(b.Sensors) == 0 {
		return errors.New("bridge: no sensors configured")
	}

	ids := make(map[string]bool)
	slaves := make(map[uint8]string)

	for i, s := range b.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensor #%d: id is required", i)
		}
		if ids[s.ID] {
			return fmt.Errorf("sensor %q: duplicate id", s.ID)
		}
		ids[s.ID] = true

		if s.SlaveID < 1 || s.SlaveID > 247 {
			return fmt.Errorf("sensor %q: slave_id %d outside 1-247", s.ID, s.SlaveID)
		}
		if prev, ok := slaves[s.SlaveID]; ok {
			return fmt.Errorf("sensor %q: slave_id %d already used by %q", s.ID, s.SlaveID, prev)
		}
		slaves[s.SlaveID] = s.ID

		if err := validateModel(s); err != nil {
			return fmt.Errorf("sensor %q: %w", s.ID, err)
		}

		if s.Salinity < 0 || s.Salinity > 45 {
			return fmt.Errorf("sensor %q: salinity %.1f outside 0-45 ppt", s.ID, s.Salinity)
		}
		if s.PressureMmHg < 0 {
			return fmt.Errorf("sensor %q: pressure_mmhg must not be negative", s.ID)
		}
		if s.WarmupMs < 0 {
			return fmt.Errorf("sensor %q: warmup_ms must not be negative", s.ID)
		}
	}
	return nil
}

func validateModel(s SensorConfig) error {
	model := strings.ToLower(s.Model)

	switch strings.ToLower(s.Family) {
	case FamilyKeller:
		if model == "" {
			return nil
		}
		if keller.ParseModel(model).String() != model {
			return fmt.Errorf("unknown keller model %q", s.Model)
		}
	case FamilyYosemitech:
		// empty or "unknown" means infer from the serial number
		if model == "" || model == "unknown" {
			return nil
		}
		if yosemitech.ParseModel(model) == yosemitech.Unknown {
			return fmt.Errorf("unknown yosemitech model %q", s.Model)
		}
	default:
		return fmt.Errorf("family must be %q or %q, got %q", FamilyKeller, FamilyYosemitech, s.Family)
	}
	return nil
}
