package yosemitech

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetragramaton/smh-sensors/internal/regs"
)

func TestCalibrationRoundTrip(t *testing.T) {
	tests := []struct {
		model  Model
		coeffs []float64
	}{
		{Y510, []float64{1.5, -0.25}},
		{Y533, []float64{0.75, 12}},
		{Y532, []float64{1, 2, 3, 4.5, -5, 0.125}},
	}
	for _, tt := range tests {
		t.Run(tt.model.String(), func(t *testing.T) {
			store := newRegStore()
			s := New(store, tt.model, 1)
			assert.Equal(t, len(tt.coeffs), s.CalibrationCoefficients())

			require.NoError(t, s.SetCalibration(tt.coeffs...))
			assert.Equal(t, 1, store.writes)

			got, err := s.GetCalibration()
			require.NoError(t, err)
			assert.Equal(t, tt.coeffs, got)
		})
	}
}

func TestSetCalibrationWrongCount(t *testing.T) {
	store := newRegStore()
	err := New(store, Y532, 1).SetCalibration(1, 2)
	require.ErrorIs(t, err, ErrCoefficientCount)
	assert.Zero(t, store.writes)
}

func TestPHCalibrationPoint(t *testing.T) {
	store := newRegStore()
	require.NoError(t, New(store, Y532, 1).PHCalibrationPoint(7.0))

	raw, err := store.ReadHoldingRegisters(1, 0x2300, 2)
	require.NoError(t, err)
	assert.Equal(t, regs.Float32s(regs.LittleEndian, 7), raw)
}

func TestPHCalibrationStatus(t *testing.T) {
	for _, code := range []CalStatus{CalSuccess, CalNonMatching, CalTooFewPoints, CalOutOfRange} {
		t.Run(code.String(), func(t *testing.T) {
			m := newMock(t)
			m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x0E00), uint16(1)).Return([]byte{byte(code), 0x00}, nil)

			got, err := New(m, Y532, 1).PHCalibrationStatus()
			require.NoError(t, err)
			assert.Equal(t, code, got)
		})
	}

	t.Run("comm error", func(t *testing.T) {
		m := newMock(t)
		m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x0E00), uint16(1)).Return(nil, errors.New("timeout"))

		got, err := New(m, Y532, 1).PHCalibrationStatus()
		require.Error(t, err)
		assert.Equal(t, CalCommError, got)
	})
}

func TestSetCapCoefficients(t *testing.T) {
	store := newRegStore()
	k := [8]float64{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, New(store, Y504, 1).SetCapCoefficients(k))

	raw, err := store.ReadHoldingRegisters(1, 0x2700, 16)
	require.NoError(t, err)
	assert.Equal(t, regs.Float32s(regs.LittleEndian, 1, 2, 3, 4, 5, 6, 7, 8), raw)
}
