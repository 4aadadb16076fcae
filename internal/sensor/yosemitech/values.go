package yosemitech

import (
	"fmt"

	"github.com/tetragramaton/smh-sensors/internal/regs"
	"github.com/tetragramaton/smh-sensors/internal/water"
)

// Channel indexes Values.Channels.
type Channel int

const (
	Parameter Channel = iota
	Second
	Third
	Fourth
	Temperature
	Sixth
	Seventh
	Eighth

	NumChannels
)

// Third channel meaning for single-parameter sensors.
const (
	DOmgL     = Third // Y502, Y504
	Potential = Third // Y532, Y533
	CODTurb   = Third // Y550
)

// Y4000 channel order.
const (
	SondeDOmgL        = Parameter
	SondeTurbidity    = Second
	SondeConductivity = Third
	SondePH           = Fourth
	SondeTemperature  = Temperature
	SondeORP          = Sixth
	SondeChlorophyll  = Seventh
	SondeBGA          = Eighth
)

var channelNames = [NumChannels]string{"parameter", "second", "third", "fourth", "temperature", "sixth", "seventh", "eighth"}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

const (
	StatusOK     byte = 0x00
	StatusFailed byte = 0xFF
)

// Values is one GetValues result. Channels that were not read hold Sentinel.
type Values struct {
	Channels [NumChannels]float64
	Status   byte
}

func emptyValues() Values {
	v := Values{Status: StatusFailed}
	for i := range v.Channels {
		v.Channels[i] = Sentinel
	}
	return v
}

func (v Values) Value(c Channel) float64 { return v.Channels[c] }

func (v Values) Available(c Channel) bool { return v.Channels[c] != Sentinel }

// GetValues reads every channel the model provides in as few transactions as
// the layout allows. An error is returned only when the primary block read
// fails; secondary reads leave their channel at Sentinel.
func (s *Sensor) GetValues() (Values, error) {
	v := emptyValues()
	l := layoutOf(s.model)

	res, err := s.read(valueBlocks[l])
	if err != nil {
		return v, err
	}
	f := floatReader{buf: res}

	switch l {
	case layoutSonde:
		for ch := Parameter; ch < NumChannels; ch++ {
			v.Channels[ch] = f.at(4 * int(ch))
		}
		v.Status = StatusOK

	case layoutCOD:
		v.Channels[Temperature] = f.at(0)
		v.Channels[Parameter] = f.at(4)
		v.Status = f.status(8)
		v.Channels[CODTurb] = s.secondary(thirdValueBlock, "turbidity")

	case layoutPHORP:
		v.Channels[Parameter] = f.at(0)
		v.Channels[Temperature] = s.secondary(temperatureBlock, "temperature")
		v.Channels[Potential] = s.secondary(thirdValueBlock, "potential")
		v.Status = StatusOK

	case layoutDO:
		temp, frac := f.at(0), f.at(4)
		v.Channels[Temperature] = temp
		if frac != Sentinel {
			v.Channels[Parameter] = frac * 100
			if temp != Sentinel {
				v.Channels[DOmgL] = water.DOMgL(temp, frac, s.salinity, s.pressureMmHg)
			}
		}
		v.Status = StatusOK

	default:
		v.Channels[Temperature] = f.at(0)
		v.Channels[Parameter] = f.at(4)
		v.Status = f.status(8)
	}

	if f.err != nil {
		return v, fmt.Errorf("yosemitech: values: %w", f.err)
	}
	return v, nil
}

func (s *Sensor) secondary(b regBlock, name string) float64 {
	v, err := s.readFloat(b)
	if err != nil {
		s.logger.Warn().Err(err).Str("channel", name).Msg("secondary read failed")
		return Sentinel
	}
	return v
}

// floatReader decodes from a reply buffer and remembers the first error.
// Offsets past the end decode to Sentinel.
type floatReader struct {
	buf []byte
	err error
}

func (r *floatReader) at(off int) float64 {
	v, err := regs.Float32(r.buf, off, wireOrder)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return Sentinel
	}
	return float64(v)
}

func (r *floatReader) status(off int) byte {
	b, err := regs.Byte(r.buf, off)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return StatusFailed
	}
	return b
}

// GetValue returns the primary parameter.
func (s *Sensor) GetValue() (float64, error) {
	v, err := s.GetValues()
	return v.Channels[Parameter], err
}

func (s *Sensor) GetTemperatureValue() (float64, error) {
	v, err := s.GetValues()
	return v.Channels[Temperature], err
}

// GetPotentialValue returns the electrode potential of pH and ORP sensors.
func (s *Sensor) GetPotentialValue() (float64, error) {
	v, err := s.GetValues()
	return v.Channels[Potential], err
}

// GetDOmgLValue returns dissolved oxygen in mg/L for the Y502 and Y504.
func (s *Sensor) GetDOmgLValue() (float64, error) {
	v, err := s.GetValues()
	return v.Channels[DOmgL], err
}
