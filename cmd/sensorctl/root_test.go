package main

import (
	"bytes"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetragramaton/smh-sensors/internal/interface/modbus/mock_modbus"
	"github.com/tetragramaton/smh-sensors/internal/regs"
)

func run(t *testing.T, m *mock_modbus.MockClient, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{client: m, out: &out, logger: zerolog.Nop()}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func newMock(t *testing.T) *mock_modbus.MockClient {
	t.Helper()
	m := mock_modbus.NewMockClient(gomock.NewController(t))
	m.EXPECT().Connect().Return(nil).AnyTimes()
	m.EXPECT().Close().Return(nil).AnyTimes()
	return m
}

func TestInfoYosemitech(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x0900), uint16(7)).Return([]byte("YS1018000007\x00\x00"), nil)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x0700), uint16(2)).Return([]byte{1, 5, 2, 10}, nil)
	m.EXPECT().SendCommand([]byte{0xFF, 0x03, 0x30, 0x00, 0x00, 0x01}).Return([]byte{0x01, 0x03, 0x02, 0x01, 0x00, 0xAA, 0xBB}, nil)

	out, err := run(t, m, "info", "--model", "Y510")
	require.NoError(t, err)
	assert.Contains(t, out, "YS1018000007")
	assert.Contains(t, out, "1.05")
	assert.Contains(t, out, "2.10")
	assert.Contains(t, out, "Y510")
}

func TestReadKeller(t *testing.T) {
	m := newMock(t)
	m.EXPECT().ReadHoldingRegisters(byte(7), uint16(0x0100), uint16(4)).Return(regs.Float32s(regs.LittleEndian, 0.25, 9.5), nil)

	out, err := run(t, m, "read", "-f", "keller", "-m", "acculevel", "-s", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "water.pressure")
	assert.Contains(t, out, "0.250")
	assert.Contains(t, out, "9.500")
	assert.Contains(t, out, "water.depth")
}

func TestCalibrationSet(t *testing.T) {
	m := newMock(t)
	m.EXPECT().WriteMultipleRegisters(byte(1), uint16(0x1100), uint16(4), regs.Float32s(regs.LittleEndian, 1.5, -2)).Return(nil, nil)

	_, err := run(t, m, "calibration", "set", "-m", "Y511", "--", "1.5", "-2")
	require.NoError(t, err)
}

func TestCalibrationSetWrongCount(t *testing.T) {
	m := newMock(t)

	_, err := run(t, m, "calibration", "set", "1", "2", "-m", "Y532")
	require.Error(t, err)
}

func TestBrushInterval(t *testing.T) {
	m := newMock(t)
	m.EXPECT().WriteMultipleRegisters(byte(1), uint16(0x3200), uint16(1), []byte{0x3C, 0x00}).Return(nil, nil)
	m.EXPECT().ReadHoldingRegisters(byte(1), uint16(0x3200), uint16(1)).Return([]byte{0x3C, 0x00}, nil)

	_, err := run(t, m, "brush", "interval", "60", "-m", "Y511")
	require.NoError(t, err)

	out, err := run(t, m, "brush", "interval", "-m", "Y511")
	require.NoError(t, err)
	assert.Contains(t, out, "60 min")
}

func TestKellerRejectsYosemitechCommands(t *testing.T) {
	m := newMock(t)

	_, err := run(t, m, "brush", "activate", "-f", "keller")
	require.Error(t, err)
}

func TestBadFamily(t *testing.T) {
	_, err := run(t, newMock(t), "info", "-f", "hach")
	require.Error(t, err)
}
