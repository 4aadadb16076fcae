package yosemitech

import (
	"encoding/binary"

	"github.com/tetragramaton/smh-sensors/internal/interface/modbus"
)

// regBlock is a contiguous run of holding registers.
type regBlock struct {
	Address  uint16
	Quantity uint16
}

// registerMap resolves a block per model. Unlisted models get fallback.
type registerMap struct {
	byModel  map[Model]regBlock
	fallback regBlock
}

func (r registerMap) lookup(m Model) regBlock {
	if b, ok := r.byModel[m]; ok {
		return b
	}
	return r.fallback
}

var (
	serialNumberMap = registerMap{
		byModel:  map[Model]regBlock{Y4000: {0x1400, 7}},
		fallback: regBlock{0x0900, 7},
	}

	// Coefficient count is Quantity/2.
	calibrationMap = registerMap{
		byModel: map[Model]regBlock{
			Y532: {0x2900, 12},
			Y533: {0x3400, 4},
		},
		fallback: regBlock{0x1100, 4},
	}

	brushIntervalMap = registerMap{
		byModel:  map[Model]regBlock{Y4000: {0x0E00, 1}},
		fallback: regBlock{0x3200, 1},
	}
)

var (
	slaveIDBlock     = regBlock{0x3000, 1}
	versionBlock     = regBlock{0x0700, 2}
	temperatureBlock = regBlock{0x2400, 2}
	thirdValueBlock  = regBlock{0x1200, 2}
	phCalPointBlock  = regBlock{0x2300, 2}
	phCalStatusBlock = regBlock{0x0E00, 1}
	capCoeffBlock    = regBlock{0x2700, 16}
)

// layout is one of the five response shapes of GetValues.
type layout int

const (
	layoutOptical layout = iota // temperature, parameter, status byte
	layoutSonde                 // eight floats
	layoutCOD                   // as optical plus a second read for turbidity
	layoutPHORP                 // parameter, then temperature and potential reads
	layoutDO                    // temperature, saturation fraction
)

var valueLayouts = map[Model]layout{
	Y4000: layoutSonde,
	Y550:  layoutCOD,
	Y532:  layoutPHORP,
	Y533:  layoutPHORP,
	Y502:  layoutDO,
	Y504:  layoutDO,
}

func layoutOf(m Model) layout {
	if l, ok := valueLayouts[m]; ok {
		return l
	}
	return layoutOptical
}

var valueBlocks = map[layout]regBlock{
	layoutOptical: {0x2600, 5},
	layoutSonde:   {0x2601, 0x10},
	layoutCOD:     {0x2600, 5},
	layoutPHORP:   {0x2800, 2},
	layoutDO:      {0x2600, 4},
}

// command is a raw request whose reply is judged only by length and echo.
type command struct {
	function byte
	register uint16
	quantity uint16
	none     bool // model needs no command; report success without I/O
}

func (c command) frame(slaveID byte) []byte {
	f := make([]byte, 6, 7)
	f[0] = slaveID
	f[1] = c.function
	binary.BigEndian.PutUint16(f[2:], c.register)
	binary.BigEndian.PutUint16(f[4:], c.quantity)
	if c.function == modbus.FuncCodeWriteMultipleRegisters {
		f = append(f, byte(2*c.quantity))
	}
	return f
}

// replyLen is the full RTU reply length, CRC included.
func (c command) replyLen() int {
	if c.function == modbus.FuncCodeWriteMultipleRegisters {
		return 8
	}
	return 5 + 2*int(c.quantity)
}

type commandMap struct {
	byModel  map[Model]command
	fallback command
}

func (c commandMap) lookup(m Model) command {
	if cmd, ok := c.byModel[m]; ok {
		return cmd
	}
	return c.fallback
}

var (
	startMeasurementMap = commandMap{
		byModel: map[Model]command{
			Y520:  {function: modbus.FuncCodeWriteMultipleRegisters, register: 0x1C00},
			Y4000: {none: true},
		},
		fallback: command{function: modbus.FuncCodeReadHoldingRegisters, register: 0x2500},
	}

	activateBrushMap = commandMap{
		byModel: map[Model]command{
			Y4000: {function: modbus.FuncCodeWriteMultipleRegisters, register: 0x2F00},
		},
		fallback: command{function: modbus.FuncCodeWriteMultipleRegisters, register: 0x3100},
	}

	stopMeasurementCmd = command{function: modbus.FuncCodeReadHoldingRegisters, register: 0x2E00, quantity: 1}
	getSlaveIDCmd      = command{function: modbus.FuncCodeReadHoldingRegisters, register: slaveIDBlock.Address, quantity: slaveIDBlock.Quantity}
)

// probeAddress reaches a sensor whose slave id is not known.
const probeAddress byte = 0xFF
