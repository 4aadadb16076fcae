package yosemitech

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetragramaton/smh-sensors/internal/regs"
	"github.com/tetragramaton/smh-sensors/internal/water"
)

func withStatus(payload []byte, status byte) []byte {
	return append(payload, status, 0x00)
}

func TestGetValuesReadFailure(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2601), uint16(16)).Return(nil, errors.New("timeout"))

	v, err := New(m, Y4000, 1).GetValues()
	require.Error(t, err)
	assert.Equal(t, StatusFailed, v.Status)
	for ch := Parameter; ch < NumChannels; ch++ {
		assert.Equal(t, Sentinel, v.Value(ch), ch.String())
		assert.False(t, v.Available(ch))
	}
}

func TestGetValuesSonde(t *testing.T) {
	want := []float32{8.5, 12.25, 350, 7.5, 18.75, 210, 3.5, 0.75}
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(2), uint16(0x2601), uint16(16)).Return(regs.Float32s(regs.LittleEndian, want...), nil)

	v, err := New(m, Y4000, 2).GetValues()
	require.NoError(t, err)
	assert.Equal(t, StatusOK, v.Status)
	assert.Equal(t, 8.5, v.Value(SondeDOmgL))
	assert.Equal(t, 12.25, v.Value(SondeTurbidity))
	assert.Equal(t, 350.0, v.Value(SondeConductivity))
	assert.Equal(t, 7.5, v.Value(SondePH))
	assert.Equal(t, 18.75, v.Value(SondeTemperature))
	assert.Equal(t, 210.0, v.Value(SondeORP))
	assert.Equal(t, 3.5, v.Value(SondeChlorophyll))
	assert.Equal(t, 0.75, v.Value(SondeBGA))
}

func TestGetValuesOptical(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2600), uint16(5)).
		Return(withStatus(regs.Float32s(regs.LittleEndian, 21.5, 3.25), 0x00), nil)

	v, err := New(m, Y510, 1).GetValues()
	require.NoError(t, err)
	assert.Equal(t, 21.5, v.Value(Temperature))
	assert.Equal(t, 3.25, v.Value(Parameter))
	assert.Equal(t, StatusOK, v.Status)
	assert.False(t, v.Available(Third))
}

func TestGetValuesOpticalShortFrame(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2600), uint16(5)).
		Return(regs.Float32s(regs.LittleEndian, 21.5), nil)

	v, err := New(m, Y514, 1).GetValues()
	require.ErrorIs(t, err, regs.ErrShortFrame)
	assert.Equal(t, 21.5, v.Value(Temperature))
	assert.Equal(t, Sentinel, v.Value(Parameter))
	assert.Equal(t, StatusFailed, v.Status)
}

func TestGetValuesCOD(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2600), uint16(5)).
		Return(withStatus(regs.Float32s(regs.LittleEndian, 19, 42.5), 0x01), nil)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x1200), uint16(2)).
		Return(regs.Float32s(regs.LittleEndian, 6.5), nil)

	v, err := New(m, Y550, 1).GetValues()
	require.NoError(t, err)
	assert.Equal(t, 19.0, v.Value(Temperature))
	assert.Equal(t, 42.5, v.Value(Parameter))
	assert.Equal(t, 6.5, v.Value(CODTurb))
	assert.Equal(t, byte(0x01), v.Status)
}

func TestGetValuesPHSecondaryFailure(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2800), uint16(2)).
		Return(regs.Float32s(regs.LittleEndian, 7.25), nil)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2400), uint16(2)).
		Return(regs.Float32s(regs.LittleEndian, 15.5), nil)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x1200), uint16(2)).
		Return(nil, errors.New("crc mismatch"))

	v, err := New(m, Y532, 1).GetValues()
	require.NoError(t, err)
	assert.Equal(t, 7.25, v.Value(Parameter))
	assert.Equal(t, 15.5, v.Value(Temperature))
	assert.False(t, v.Available(Potential))
	assert.Equal(t, StatusOK, v.Status)
}

func TestGetValuesDO(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2600), uint16(4)).
		Return(regs.Float32s(regs.LittleEndian, 25, 0.5), nil).Times(2)

	v, err := New(m, Y504, 1).GetValues()
	require.NoError(t, err)
	assert.Equal(t, 25.0, v.Value(Temperature))
	assert.InDelta(t, 50.0, v.Value(Parameter), 1e-9)
	assert.InDelta(t, water.DOMgL(25, 0.5, 0, 760), v.Value(DOmgL), 1e-9)
	assert.Equal(t, StatusOK, v.Status)

	do, err := New(m, Y504, 1, WithDOConditions(35, 700)).GetDOmgLValue()
	require.NoError(t, err)
	assert.InDelta(t, water.DOMgL(25, 0.5, 35, 700), do, 1e-9)
	assert.Less(t, do, v.Value(DOmgL))
}

func TestProjections(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x2600), uint16(5)).
		Return(withStatus(regs.Float32s(regs.LittleEndian, 11, 2.5), 0x00), nil).Times(2)

	s := New(m, Y511, 1)
	p, err := s.GetValue()
	require.NoError(t, err)
	assert.Equal(t, 2.5, p)

	temp, err := s.GetTemperatureValue()
	require.NoError(t, err)
	assert.Equal(t, 11.0, temp)
}

func TestGetPotentialValue(t *testing.T) {
	store := newRegStore()
	store.set(0x2800, regs.Float32s(regs.LittleEndian, 250))
	store.set(0x2400, regs.Float32s(regs.LittleEndian, 20))
	store.set(0x1200, regs.Float32s(regs.LittleEndian, -112.5))

	mv, err := New(store, Y533, 1).GetPotentialValue()
	require.NoError(t, err)
	assert.Equal(t, -112.5, mv)
}
