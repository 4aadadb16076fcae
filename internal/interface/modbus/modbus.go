package modbus

//go:generate mockgen -destination=mock_modbus/modbus_mock.go -package=mock_modbus . Client

import "errors"

const (
	FuncCodeReadHoldingRegisters   byte = 0x03
	FuncCodeWriteMultipleRegisters byte = 0x10
)

// ErrRawUnsupported is returned by transports that cannot send raw RTU frames.
var ErrRawUnsupported = errors.New("modbus: raw commands not supported by transport")

// API is the register level surface the sensor adapters talk to.
// Payloads are returned exactly as on the wire: no byte swapping, no header.
type API interface {
	ReadHoldingRegisters(slaveID byte, address, quantity uint16) (results []byte, err error)
	// WriteMultipleRegisters always uses function code 0x10, even for one register.
	WriteMultipleRegisters(slaveID byte, address, quantity uint16, value []byte) (results []byte, err error)
	// SendCommand frames address|function|data with a CRC and returns the
	// complete RTU reply, CRC included.
	SendCommand(frame []byte) (response []byte, err error)
}

// Client is a borrowed handle on a configured bus. Adapters call Connect but
// never Close; the owner of the bus does that.
type Client interface {
	API
	Connect() error
	Close() error
}
