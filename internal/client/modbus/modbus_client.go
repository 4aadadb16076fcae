package modbus

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"

	modbusIface "github.com/tetragramaton/smh-sensors/internal/interface/modbus"
)

type EnvCfg struct {
	Mode string // "rtu" or "tcp"

	// RTU
	Port      string
	Baud      int
	DataBits  int
	Parity    string // "N","E","O"
	StopBits  int
	TimeoutMs int

	// TCP
	TCPAddr string // "192.168.1.10:502"

	// Trace logs every frame goburrow sends and receives.
	Trace bool
}

// transport is what both goburrow handlers provide.
type transport interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// handler serialises transactions on one bus. goburrow keeps the slave id
// on the handler, so it is set and used under the same lock.
type handler struct {
	mu       sync.Mutex
	conn     transport
	client   modbus.Client
	setSlave func(byte)
	raw      bool
	logger   zerolog.Logger
}

// NewHandler builds a Master from MODBUS_* environment variables. The bus is
// opened lazily by the first Connect.
func NewHandler(logger zerolog.Logger) (modbusIface.Client, error) {
	cfg, err := LoadEnvCfg()
	if err != nil {
		return nil, err
	}
	return New(cfg, logger), nil
}

func New(cfg EnvCfg, logger zerolog.Logger) modbusIface.Client {
	logger = logger.With().Str("component", "modbus").Str("mode", cfg.Mode).Logger()
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond

	var trace *log.Logger
	if cfg.Trace {
		trace = log.New(logger.With().Str("source", "goburrow").Logger(), "", 0)
	}

	if cfg.Mode == "tcp" {
		th := modbus.NewTCPClientHandler(cfg.TCPAddr)
		th.Timeout = timeout
		th.Logger = trace
		return &handler{
			conn:     th,
			client:   modbus.NewClient(th),
			setSlave: func(id byte) { th.SlaveId = id },
			logger:   logger.With().Str("addr", cfg.TCPAddr).Logger(),
		}
	}

	rh := modbus.NewRTUClientHandler(cfg.Port)
	rh.BaudRate = cfg.Baud
	rh.DataBits = cfg.DataBits
	rh.Parity = cfg.Parity
	rh.StopBits = cfg.StopBits
	rh.Timeout = timeout
	rh.Logger = trace
	return &handler{
		conn:     rh,
		client:   modbus.NewClient(rh),
		setSlave: func(id byte) { rh.SlaveId = id },
		raw:      true,
		logger:   logger.With().Str("port", cfg.Port).Logger(),
	}
}

// Connect opens the port. Repeated calls are harmless, so every adapter
// sharing the bus may call it.
func (h *handler) Connect() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.conn.Connect(); err != nil {
		return fmt.Errorf("modbus: connect: %w", err)
	}
	return nil
}

func (h *handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn.Close()
}

func (h *handler) ReadHoldingRegisters(slaveID byte, address, quantity uint16) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setSlave(slaveID)
	res, err := h.client.ReadHoldingRegisters(address, quantity)
	if err != nil {
		h.logger.Debug().Err(err).Uint8("slave_id", slaveID).Uint16("address", address).Msg("read failed")
	}
	return res, err
}

func (h *handler) WriteMultipleRegisters(slaveID byte, address, quantity uint16, value []byte) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setSlave(slaveID)
	res, err := h.client.WriteMultipleRegisters(address, quantity, value)
	if err != nil {
		h.logger.Debug().Err(err).Uint8("slave_id", slaveID).Uint16("address", address).Msg("write failed")
	}
	return res, err
}

// SendCommand frames address|function|data with goburrow's RTU packager and
// returns the raw reply. TCP has no RTU framing, so it is refused there.
func (h *handler) SendCommand(frame []byte) ([]byte, error) {
	if !h.raw {
		return nil, modbusIface.ErrRawUnsupported
	}
	if len(frame) < 2 {
		return nil, fmt.Errorf("modbus: command frame of %d bytes", len(frame))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.setSlave(frame[0])
	adu, err := h.conn.Encode(&modbus.ProtocolDataUnit{FunctionCode: frame[1], Data: frame[2:]})
	if err != nil {
		return nil, fmt.Errorf("modbus: encode command: %w", err)
	}
	resp, err := h.conn.Send(adu)
	if err != nil {
		h.logger.Debug().Err(err).Hex("adu", adu).Msg("command failed")
		return resp, err
	}
	return resp, nil
}

func LoadEnvCfg() (EnvCfg, error) {
	var c EnvCfg

	c.Mode = strings.ToLower(getEnvDefault("MODBUS_MODE", "rtu"))
	if c.Mode != "rtu" && c.Mode != "tcp" {
		return c, errors.New("MODBUS_MODE must be 'rtu' or 'tcp'")
	}

	var err error
	if c.TimeoutMs, err = atoiEnv("MODBUS_TIMEOUT_MS", "1000"); err != nil {
		return c, err
	}
	c.Trace, _ = strconv.ParseBool(os.Getenv("MODBUS_TRACE"))

	if c.Mode == "tcp" {
		c.TCPAddr = os.Getenv("MODBUS_TCP_ADDR")
		if c.TCPAddr == "" {
			return c, errors.New("missing MODBUS_TCP_ADDR for tcp mode")
		}
		return c, nil
	}

	c.Port = os.Getenv("MODBUS_PORT")
	if c.Port == "" {
		return c, errors.New("missing MODBUS_PORT for rtu mode")
	}
	if c.Baud, err = atoiEnv("MODBUS_BAUD", "9600"); err != nil {
		return c, err
	}
	if c.DataBits, err = atoiEnv("MODBUS_DATABITS", "8"); err != nil {
		return c, err
	}
	if c.StopBits, err = atoiEnv("MODBUS_STOPBITS", "1"); err != nil {
		return c, err
	}
	c.Parity = strings.ToUpper(getEnvDefault("MODBUS_PARITY", "N"))
	switch c.Parity {
	case "N", "E", "O":
	default:
		return c, fmt.Errorf("invalid MODBUS_PARITY %q", c.Parity)
	}
	return c, nil
}

func atoiEnv(key, def string) (int, error) {
	v := getEnvDefault(key, def)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
