package yosemitech

import (
	"fmt"

	"github.com/tetragramaton/smh-sensors/internal/regs"
)

// CalStatus is the result of the last pH calibration step.
type CalStatus byte

const (
	CalSuccess      CalStatus = 0x00
	CalNonMatching  CalStatus = 0x01 // point does not match any buffer
	CalTooFewPoints CalStatus = 0x02
	CalOutOfRange   CalStatus = 0x04 // slope out of range
	CalCommError    CalStatus = 0x05
)

func (c CalStatus) String() string {
	switch c {
	case CalSuccess:
		return "success"
	case CalNonMatching:
		return "non-matching calibration point"
	case CalTooFewPoints:
		return "too few calibration points"
	case CalOutOfRange:
		return "slope out of range"
	case CalCommError:
		return "communication error"
	default:
		return fmt.Sprintf("status 0x%02X", byte(c))
	}
}

// CalibrationCoefficients is how many coefficients the model stores.
func (s *Sensor) CalibrationCoefficients() int {
	return int(calibrationMap.lookup(s.model).Quantity) / 2
}

// GetCalibration reads the user calibration block: K and B for most models,
// six coefficients for the Y532.
func (s *Sensor) GetCalibration() ([]float64, error) {
	b := calibrationMap.lookup(s.model)
	res, err := s.read(b)
	if err != nil {
		return nil, err
	}
	n := int(b.Quantity) / 2
	out := make([]float64, n)
	for i := range out {
		v, err := regs.Float32(res, 4*i, wireOrder)
		if err != nil {
			return nil, fmt.Errorf("yosemitech: calibration K%d: %w", i+1, err)
		}
		out[i] = float64(v)
	}
	return out, nil
}

// SetCalibration writes the whole calibration block in one transaction.
func (s *Sensor) SetCalibration(coeffs ...float64) error {
	b := calibrationMap.lookup(s.model)
	if want := int(b.Quantity) / 2; len(coeffs) != want {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrCoefficientCount, s.model, want, len(coeffs))
	}
	return s.write(b, floats(coeffs))
}

// PHCalibrationPoint submits the pH of the buffer the probe is sitting in.
func (s *Sensor) PHCalibrationPoint(pH float64) error {
	return s.write(phCalPointBlock, regs.Float32s(wireOrder, float32(pH)))
}

// PHCalibrationStatus reads the status of the last calibration step. A bus
// failure yields CalCommError alongside the error.
func (s *Sensor) PHCalibrationStatus() (CalStatus, error) {
	res, err := s.read(phCalStatusBlock)
	if err != nil {
		return CalCommError, err
	}
	b, err := regs.Byte(res, 0)
	if err != nil {
		return CalCommError, fmt.Errorf("yosemitech: calibration status: %w", err)
	}
	return CalStatus(b), nil
}

// SetCapCoefficients loads the eight coefficients printed on a replacement
// DO membrane cap.
func (s *Sensor) SetCapCoefficients(k [8]float64) error {
	return s.write(capCoeffBlock, floats(k[:]))
}

func floats(values []float64) []byte {
	f := make([]float32, len(values))
	for i, v := range values {
		f[i] = float32(v)
	}
	return regs.Float32s(wireOrder, f...)
}
