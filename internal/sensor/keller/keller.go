// Package keller reads Keller Series 30 (Acculevel, Nanolevel) pressure and
// temperature transmitters over Modbus RTU.
package keller

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/interface/modbus"
	"github.com/tetragramaton/smh-sensors/internal/regs"
	"github.com/tetragramaton/smh-sensors/internal/water"
)

// Sentinel marks a value that could not be read.
const Sentinel = -9999.0

type Model int

const (
	Acculevel Model = iota
	Nanolevel
	Other
)

func (m Model) String() string {
	switch m {
	case Acculevel:
		return "acculevel"
	case Nanolevel:
		return "nanolevel"
	default:
		return "other"
	}
}

// ParseModel is case-insensitive; unrecognised names map to Other.
func ParseModel(s string) Model {
	switch strings.ToLower(s) {
	case "acculevel":
		return Acculevel
	case "nanolevel":
		return Nanolevel
	default:
		return Other
	}
}

// Register map. Every Keller model shares it.
const (
	regProcessValues uint16 = 0x0100 // P1 float, TOB1 float
	qtyProcessValues uint16 = 4
	regSerialNumber  uint16 = 0x0202
	qtySerialNumber  uint16 = 4
	regSlaveID       uint16 = 0x020D
)

const processValuesOrder = regs.LittleEndian

// Reading is one pressure/temperature pair from the process value block.
type Reading struct {
	PressureBar  float64
	TemperatureC float64
}

// Sensor is a handle on one Keller transmitter. It borrows the bus client.
type Sensor struct {
	client  modbus.Client
	model   Model
	slaveID byte
	logger  zerolog.Logger

	lastTempC float64
	haveTemp  bool
}

type Option func(*Sensor)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Sensor) { s.logger = l }
}

func New(client modbus.Client, opts ...Option) *Sensor {
	s := &Sensor{
		client:    client,
		model:     Other,
		logger:    zerolog.Nop(),
		lastTempC: Sentinel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin binds the model and slave address and connects the bus client.
func (s *Sensor) Begin(model Model, slaveID byte) error {
	s.model = model
	s.slaveID = slaveID
	s.logger = s.logger.With().Str("family", "keller").Stringer("model", model).Uint8("slave_id", slaveID).Logger()
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("keller: connect: %w", err)
	}
	return nil
}

func (s *Sensor) Model() Model  { return s.model }
func (s *Sensor) SlaveID() byte { return s.slaveID }

func (s *Sensor) read(address, quantity uint16) ([]byte, error) {
	s.logger.Debug().Uint16("address", address).Uint16("quantity", quantity).Msg("read holding registers")
	res, err := s.client.ReadHoldingRegisters(s.slaveID, address, quantity)
	if err != nil {
		return nil, fmt.Errorf("keller: read 0x%04X x%d: %w", address, quantity, err)
	}
	return res, nil
}

// GetSerialNumber returns the factory serial number.
func (s *Sensor) GetSerialNumber() (uint32, error) {
	res, err := s.read(regSerialNumber, qtySerialNumber)
	if err != nil {
		return 0, err
	}
	return regs.Uint32(res, 0, regs.BigEndian)
}

// GetSlaveID reads the configured bus address. Not every firmware answers it.
func (s *Sensor) GetSlaveID() (byte, error) {
	res, err := s.read(regSlaveID, 1)
	if err != nil {
		return 0, err
	}
	v, err := regs.Uint16(res, 0, regs.BigEndian)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// GetValues reads pressure and temperature in one transaction. On failure
// both fields hold Sentinel and the cached temperature is left alone.
func (s *Sensor) GetValues() (Reading, error) {
	r := Reading{PressureBar: Sentinel, TemperatureC: Sentinel}

	res, err := s.read(regProcessValues, qtyProcessValues)
	if err != nil {
		return r, err
	}
	p, err := regs.Float32(res, 0, processValuesOrder)
	if err != nil {
		return r, fmt.Errorf("keller: pressure: %w", err)
	}
	t, err := regs.Float32(res, 4, processValuesOrder)
	if err != nil {
		return r, fmt.Errorf("keller: temperature: %w", err)
	}

	r.PressureBar = float64(p)
	r.TemperatureC = float64(t)
	s.lastTempC = r.TemperatureC
	s.haveTemp = true
	return r, nil
}

// GetValueLastTempC returns the temperature of the last successful GetValues
// without touching the bus. ok is false until one has succeeded.
func (s *Sensor) GetValueLastTempC() (tempC float64, ok bool) {
	return s.lastTempC, s.haveTemp
}

// CalcWaterDepthM converts a pressure reading to metres of water.
func (s *Sensor) CalcWaterDepthM(pressureBar, tempC float64) float64 {
	return water.DepthM(pressureBar, tempC)
}
