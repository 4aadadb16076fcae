package probe

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/config"
	"github.com/tetragramaton/smh-sensors/internal/ha"
	"github.com/tetragramaton/smh-sensors/internal/interface/modbus"
	"github.com/tetragramaton/smh-sensors/internal/sensor/keller"
)

type kellerProbe struct {
	base
	sensor *keller.Sensor
}

func newKeller(cfg config.SensorConfig, client modbus.Client, logger zerolog.Logger) *kellerProbe {
	return &kellerProbe{
		base:   base{cfg: cfg, logger: logger, sleep: time.Sleep},
		sensor: keller.New(client, keller.WithLogger(logger)),
	}
}

func (p *kellerProbe) Model() string { return p.sensor.Model().String() }

func (p *kellerProbe) Caps() []string {
	return []string{ha.CapDepth, ha.CapPressure, ha.CapTemperature}
}

func (p *kellerProbe) Begin() error {
	return p.sensor.Begin(keller.ParseModel(p.cfg.Model), p.cfg.SlaveID)
}

func (p *kellerProbe) Read() (Reading, error) {
	r, err := p.sensor.GetValues()
	if err != nil {
		return Reading{Status: StatusFailed}, err
	}
	return Reading{
		Values: map[string]float64{
			ha.CapPressure:    r.PressureBar,
			ha.CapTemperature: r.TemperatureC,
			ha.CapDepth:       p.sensor.CalcWaterDepthM(r.PressureBar, r.TemperatureC),
		},
		Status: StatusOK,
	}, nil
}

func (p *kellerProbe) Stop() error { return nil }
