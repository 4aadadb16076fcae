// internal/config/normalize.go
package config

import (
	"strings"

	"github.com/tetragramaton/smh-sensors/internal/sensor/keller"
	"github.com/tetragramaton/smh-sensors/internal/sensor/yosemitech"
	"github.com/tetragramaton/smh-sensors/internal/water"
)

const (
	DefaultIntervalMs = 10000
	DefaultWarmupMs   = 2000
)

// Normalize fills defaults and canonicalises names.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Bridge.IntervalMs == 0 {
		cfg.Bridge.IntervalMs = DefaultIntervalMs
	}

	for i := range cfg.Bridge.Sensors {
		s := &cfg.Bridge.Sensors[i]

		s.Family = strings.ToLower(s.Family)
		switch s.Family {
		case FamilyKeller:
			s.Model = keller.ParseModel(s.Model).String()
		case FamilyYosemitech:
			s.Model = yosemitech.ParseModel(s.Model).String()
			if s.WarmupMs == 0 {
				s.WarmupMs = DefaultWarmupMs
			}
		}

		if s.PressureMmHg == 0 {
			s.PressureMmHg = water.SeaLevelMmHg
		}
	}
}
