package probe

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/config"
	"github.com/tetragramaton/smh-sensors/internal/ha"
	"github.com/tetragramaton/smh-sensors/internal/interface/modbus"
	"github.com/tetragramaton/smh-sensors/internal/sensor/yosemitech"
)

type channelCap struct {
	ch  yosemitech.Channel
	cap string
}

var (
	tempCap = channelCap{yosemitech.Temperature, ha.CapTemperature}

	yosemitechCaps = map[yosemitech.Model][]channelCap{
		yosemitech.Y502: {{yosemitech.Parameter, ha.CapDOPercent}, {yosemitech.DOmgL, ha.CapDOmgL}, tempCap},
		yosemitech.Y504: {{yosemitech.Parameter, ha.CapDOPercent}, {yosemitech.DOmgL, ha.CapDOmgL}, tempCap},
		yosemitech.Y510: {{yosemitech.Parameter, ha.CapTurbidity}, tempCap},
		yosemitech.Y511: {{yosemitech.Parameter, ha.CapTurbidity}, tempCap},
		yosemitech.Y514: {{yosemitech.Parameter, ha.CapChlorophyll}, tempCap},
		yosemitech.Y520: {{yosemitech.Parameter, ha.CapConductivity}, tempCap},
		yosemitech.Y532: {{yosemitech.Parameter, ha.CapPH}, {yosemitech.Potential, ha.CapPotential}, tempCap},
		yosemitech.Y533: {{yosemitech.Parameter, ha.CapORP}, {yosemitech.Potential, ha.CapPotential}, tempCap},
		yosemitech.Y550: {{yosemitech.Parameter, ha.CapCOD}, {yosemitech.CODTurb, ha.CapTurbidity}, tempCap},
		yosemitech.Y4000: {
			{yosemitech.SondeDOmgL, ha.CapDOmgL},
			{yosemitech.SondeTurbidity, ha.CapTurbidity},
			{yosemitech.SondeConductivity, ha.CapConductivity},
			{yosemitech.SondePH, ha.CapPH},
			{yosemitech.SondeTemperature, ha.CapTemperature},
			{yosemitech.SondeORP, ha.CapORP},
			{yosemitech.SondeChlorophyll, ha.CapChlorophyll},
			{yosemitech.SondeBGA, ha.CapBGA},
		},
	}
)

type yosemitechProbe struct {
	base
	sensor *yosemitech.Sensor
}

func newYosemitech(cfg config.SensorConfig, client modbus.Client, logger zerolog.Logger) *yosemitechProbe {
	s := yosemitech.New(client, yosemitech.ParseModel(cfg.Model), cfg.SlaveID,
		yosemitech.WithLogger(logger),
		yosemitech.WithDOConditions(cfg.Salinity, cfg.PressureMmHg),
	)
	return &yosemitechProbe{
		base:   base{cfg: cfg, logger: logger, sleep: time.Sleep},
		sensor: s,
	}
}

func (p *yosemitechProbe) Model() string { return p.sensor.Model().String() }

func (p *yosemitechProbe) channels() []channelCap {
	if c, ok := yosemitechCaps[p.sensor.Model()]; ok {
		return c
	}
	return []channelCap{tempCap}
}

func (p *yosemitechProbe) Caps() []string {
	chs := p.channels()
	caps := make([]string, len(chs))
	for i, c := range chs {
		caps[i] = c.cap
	}
	return caps
}

// Begin connects, identifies the sensor and starts measuring. A sensor
// configured without a model gets it from its serial number.
func (p *yosemitechProbe) Begin() error {
	if err := p.sensor.Begin(); err != nil {
		return err
	}

	sn, err := p.sensor.GetSerialNumber()
	if err != nil {
		if p.sensor.Model() == yosemitech.Unknown {
			return err
		}
		p.logger.Warn().Err(err).Msg("serial number unavailable")
	} else {
		p.logger.Info().Str("serial", sn).Stringer("model", p.sensor.Model()).Msg("sensor identified")
	}

	if err := p.sensor.StartMeasurement(); err != nil {
		return err
	}
	if p.cfg.WarmupMs > 0 {
		p.sleep(time.Duration(p.cfg.WarmupMs) * time.Millisecond)
	}
	return nil
}

func (p *yosemitechProbe) Read() (Reading, error) {
	v, err := p.sensor.GetValues()
	r := Reading{Values: map[string]float64{}, Status: v.Status}
	for _, c := range p.channels() {
		if v.Available(c.ch) {
			r.Values[c.cap] = v.Value(c.ch)
		}
	}
	return r, err
}

func (p *yosemitechProbe) Stop() error {
	return p.sensor.StopMeasurement()
}
