package regs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32ByteOrder(t *testing.T) {
	// 1.5 is 0x3FC00000
	big := []byte{0x3F, 0xC0, 0x00, 0x00}
	little := []byte{0x00, 0x00, 0xC0, 0x3F}

	v, err := Float32(big, 0, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v)

	v, err = Float32(little, 0, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v)
}

func TestUint16AndUint32(t *testing.T) {
	buf := []byte{0x00, 0x12, 0xD6, 0x87}

	u16, err := Uint16(buf, 0, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0012), u16)

	u16, err = Uint16(buf, 2, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x87D6), u16)

	u32, err := Uint32(buf, 0, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(1234567), u32)
}

func TestShortFrame(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}

	_, err := Float32(buf, 0, LittleEndian)
	assert.True(t, errors.Is(err, ErrShortFrame))

	_, err = Byte(buf, 3)
	assert.True(t, errors.Is(err, ErrShortFrame))

	_, err = Uint16(buf, -1, BigEndian)
	assert.True(t, errors.Is(err, ErrShortFrame))
}

func TestStringTrimsNUL(t *testing.T) {
	buf := []byte("AB12\x00\x00")
	s, err := String(buf, 0, len(buf))
	require.NoError(t, err)
	assert.Equal(t, "AB12", s)
}

func TestFloat32sLayout(t *testing.T) {
	out := Float32s(LittleEndian, 1.5, -2)
	assert.Equal(t, []byte{0x00, 0x00, 0xC0, 0x3F, 0x00, 0x00, 0x00, 0xC0}, out)

	out = make([]byte, 2)
	PutUint16(out, 0, 0x1E, LittleEndian)
	assert.Equal(t, []byte{0x1E, 0x00}, out)
}
