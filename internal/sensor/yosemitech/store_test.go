package yosemitech

import (
	"fmt"

	"github.com/tetragramaton/smh-sensors/internal/interface/modbus"
)

// regStore is an in-memory holding register bank for round-trip tests.
type regStore struct {
	regs   map[uint16][2]byte
	writes int
}

func newRegStore() *regStore {
	return &regStore{regs: map[uint16][2]byte{}}
}

func (r *regStore) set(address uint16, data []byte) {
	for i := 0; i+1 < len(data); i += 2 {
		r.regs[address+uint16(i/2)] = [2]byte{data[i], data[i+1]}
	}
}

func (r *regStore) Connect() error { return nil }
func (r *regStore) Close() error   { return nil }

func (r *regStore) ReadHoldingRegisters(_ byte, address, quantity uint16) ([]byte, error) {
	out := make([]byte, 0, 2*quantity)
	for i := uint16(0); i < quantity; i++ {
		reg, ok := r.regs[address+i]
		if !ok {
			return nil, fmt.Errorf("illegal data address 0x%04X", address+i)
		}
		out = append(out, reg[:]...)
	}
	return out, nil
}

func (r *regStore) WriteMultipleRegisters(_ byte, address, quantity uint16, value []byte) ([]byte, error) {
	if len(value) != 2*int(quantity) {
		return nil, fmt.Errorf("byte count %d for %d registers", len(value), quantity)
	}
	r.set(address, value)
	r.writes++
	return []byte{byte(address >> 8), byte(address), byte(quantity >> 8), byte(quantity)}, nil
}

func (r *regStore) SendCommand([]byte) ([]byte, error) {
	return nil, modbus.ErrRawUnsupported
}
