// Package regs decodes and encodes values held in Modbus register payloads.
//
// Offsets are byte offsets into the payload returned by a read, i.e. after the
// slave address, function code and byte count have been stripped.
package regs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ByteOrder selects how a multi-byte value is laid out across its registers.
type ByteOrder int

const (
	// BigEndian is plain Modbus order: most significant byte first.
	BigEndian ByteOrder = iota
	// LittleEndian reverses the whole value, least significant byte first.
	// Yosemitech floats and Keller process values use it.
	LittleEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little_endian"
	}
	return "big_endian"
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ErrShortFrame is returned when a payload is too short for the requested value.
var ErrShortFrame = errors.New("regs: frame too short")

func need(buf []byte, off, n int) error {
	if off < 0 || off+n > len(buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortFrame, n, off, len(buf))
	}
	return nil
}

// Byte returns the single byte at off.
func Byte(buf []byte, off int) (byte, error) {
	if err := need(buf, off, 1); err != nil {
		return 0, err
	}
	return buf[off], nil
}

func Uint16(buf []byte, off int, order ByteOrder) (uint16, error) {
	if err := need(buf, off, 2); err != nil {
		return 0, err
	}
	return order.binary().Uint16(buf[off:]), nil
}

func Uint32(buf []byte, off int, order ByteOrder) (uint32, error) {
	if err := need(buf, off, 4); err != nil {
		return 0, err
	}
	return order.binary().Uint32(buf[off:]), nil
}

func Float32(buf []byte, off int, order ByteOrder) (float32, error) {
	bits, err := Uint32(buf, off, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// String returns n characters starting at off with trailing NULs removed.
func String(buf []byte, off, n int) (string, error) {
	if err := need(buf, off, n); err != nil {
		return "", err
	}
	return strings.TrimRight(string(buf[off:off+n]), "\x00"), nil
}

func PutUint16(dst []byte, off int, v uint16, order ByteOrder) {
	order.binary().PutUint16(dst[off:], v)
}

func PutFloat32(dst []byte, off int, v float32, order ByteOrder) {
	order.binary().PutUint32(dst[off:], math.Float32bits(v))
}

// Float32s packs values back to back, four bytes each.
func Float32s(order ByteOrder, values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		PutFloat32(out, 4*i, v, order)
	}
	return out
}
