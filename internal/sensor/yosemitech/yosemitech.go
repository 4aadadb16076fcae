// Package yosemitech drives the Yosemitech Y5xx water quality sensors and
// the Y4000 sonde over Modbus RTU. Register addresses differ per model and
// are resolved from the tables in regmap.go.
package yosemitech

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-sensors/internal/interface/modbus"
	"github.com/tetragramaton/smh-sensors/internal/regs"
	"github.com/tetragramaton/smh-sensors/internal/water"
)

const (
	// Sentinel marks a channel that was not read.
	Sentinel = -9999.0
	// DefaultSlaveID is reported when the slave id probe gets no usable reply.
	DefaultSlaveID byte = 0x01
)

var (
	ErrUnexpectedResponse = errors.New("yosemitech: unexpected response")
	ErrCoefficientCount   = errors.New("yosemitech: wrong number of calibration coefficients")
)

// Values and settings are byte-reversed on the wire.
const wireOrder = regs.LittleEndian

type Sensor struct {
	client  modbus.Client
	model   Model
	slaveID byte
	logger  zerolog.Logger

	salinity     float64
	pressureMmHg float64
}

type Option func(*Sensor)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Sensor) { s.logger = l }
}

// WithDOConditions sets salinity (ppt) and barometric pressure (mmHg) used
// to convert dissolved oxygen saturation to mg/L.
func WithDOConditions(salinity, pressureMmHg float64) Option {
	return func(s *Sensor) {
		s.salinity = salinity
		s.pressureMmHg = pressureMmHg
	}
}

func New(client modbus.Client, model Model, slaveID byte, opts ...Option) *Sensor {
	s := &Sensor{
		client:       client,
		model:        model,
		slaveID:      slaveID,
		logger:       zerolog.Nop(),
		salinity:     water.FreshWater,
		pressureMmHg: water.SeaLevelMmHg,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("family", "yosemitech").Logger()
	return s
}

// Begin connects the bus client. Sensors may need a couple of seconds after
// power-up before they answer; waiting is up to the caller.
func (s *Sensor) Begin() error {
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("yosemitech: connect: %w", err)
	}
	s.logger.Debug().Stringer("model", s.model).Uint8("slave_id", s.slaveID).Msg("sensor ready")
	return nil
}

func (s *Sensor) Model() Model  { return s.model }
func (s *Sensor) SlaveID() byte { return s.slaveID }

func (s *Sensor) read(b regBlock) ([]byte, error) {
	s.logger.Debug().Uint8("slave_id", s.slaveID).Uint16("address", b.Address).Uint16("quantity", b.Quantity).Msg("read holding registers")
	res, err := s.client.ReadHoldingRegisters(s.slaveID, b.Address, b.Quantity)
	if err != nil {
		return nil, fmt.Errorf("yosemitech: read 0x%04X x%d: %w", b.Address, b.Quantity, err)
	}
	return res, nil
}

func (s *Sensor) write(b regBlock, value []byte) error {
	s.logger.Debug().Uint8("slave_id", s.slaveID).Uint16("address", b.Address).Uint16("quantity", b.Quantity).Msg("write multiple registers")
	if _, err := s.client.WriteMultipleRegisters(s.slaveID, b.Address, b.Quantity, value); err != nil {
		return fmt.Errorf("yosemitech: write 0x%04X x%d: %w", b.Address, b.Quantity, err)
	}
	return nil
}

func (s *Sensor) readFloat(b regBlock) (float64, error) {
	res, err := s.read(b)
	if err != nil {
		return Sentinel, err
	}
	v, err := regs.Float32(res, 0, wireOrder)
	if err != nil {
		return Sentinel, fmt.Errorf("yosemitech: 0x%04X: %w", b.Address, err)
	}
	return float64(v), nil
}

// exchange sends a raw command to the sensor's own address and checks the
// reply length and address echo.
func (s *Sensor) exchange(c command) error {
	frame := c.frame(s.slaveID)
	s.logger.Debug().Uint8("slave_id", s.slaveID).Hex("frame", frame).Msg("send command")
	resp, err := s.client.SendCommand(frame)
	if err != nil {
		return fmt.Errorf("yosemitech: command 0x%02X@0x%04X: %w", c.function, c.register, err)
	}
	if len(resp) != c.replyLen() || resp[0] != s.slaveID {
		return fmt.Errorf("%w: command 0x%02X@0x%04X: got %d bytes % X", ErrUnexpectedResponse, c.function, c.register, len(resp), resp)
	}
	return nil
}

// GetSlaveID asks whoever is on the bus for its address. Any failure is
// reported as DefaultSlaveID.
func (s *Sensor) GetSlaveID() byte {
	resp, err := s.client.SendCommand(getSlaveIDCmd.frame(probeAddress))
	if err != nil || len(resp) != getSlaveIDCmd.replyLen() {
		s.logger.Debug().Err(err).Int("len", len(resp)).Msg("slave id probe failed, assuming default")
		return DefaultSlaveID
	}
	return resp[3]
}

// SetSlaveID changes the sensor's bus address. The handle follows it.
func (s *Sensor) SetSlaveID(id byte) error {
	if err := s.write(slaveIDBlock, []byte{id, 0x00}); err != nil {
		return err
	}
	s.logger.Info().Uint8("old", s.slaveID).Uint8("new", id).Msg("slave id changed")
	s.slaveID = id
	return nil
}

// GetSerialNumber reads the 14 character serial. When the model is Unknown
// it is inferred from the code at serial[2:4].
func (s *Sensor) GetSerialNumber() (string, error) {
	b := serialNumberMap.lookup(s.model)
	res, err := s.read(b)
	if err != nil {
		return "", err
	}
	sn, err := regs.String(res, 0, 2*int(b.Quantity))
	if err != nil {
		return "", fmt.Errorf("yosemitech: serial number: %w", err)
	}
	sn = strings.TrimPrefix(sn, ")")

	if s.model == Unknown {
		if m, ok := serialModelCodes[modelCode(sn)]; ok {
			s.model = m
			s.logger.Info().Str("serial", sn).Stringer("model", m).Msg("model inferred from serial number")
		}
	}
	return sn, nil
}

type Version struct {
	Hardware float64
	Software float64
}

func (s *Sensor) GetVersion() (Version, error) {
	res, err := s.read(versionBlock)
	if err != nil {
		return Version{}, err
	}
	if len(res) < 4 {
		return Version{}, fmt.Errorf("yosemitech: version: %w", regs.ErrShortFrame)
	}
	return Version{
		Hardware: float64(res[0]) + float64(res[1])/100,
		Software: float64(res[2]) + float64(res[3])/100,
	}, nil
}

// StartMeasurement switches the sensor into measuring mode. The Y4000 has
// no such command and always succeeds.
func (s *Sensor) StartMeasurement() error {
	c := startMeasurementMap.lookup(s.model)
	if c.none {
		return nil
	}
	return s.exchange(c)
}

func (s *Sensor) StopMeasurement() error {
	return s.exchange(stopMeasurementCmd)
}

// ActivateBrush runs one wipe cycle on self-cleaning models.
func (s *Sensor) ActivateBrush() error {
	return s.exchange(activateBrushMap.lookup(s.model))
}

// SetBrushInterval sets the automatic wipe interval in minutes.
func (s *Sensor) SetBrushInterval(minutes uint16) error {
	buf := make([]byte, 2)
	regs.PutUint16(buf, 0, minutes, wireOrder)
	return s.write(brushIntervalMap.lookup(s.model), buf)
}

func (s *Sensor) GetBrushInterval() (uint16, error) {
	res, err := s.read(brushIntervalMap.lookup(s.model))
	if err != nil {
		return 0, err
	}
	return regs.Uint16(res, 0, wireOrder)
}
