package water

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepthZeroAndMonotonic(t *testing.T) {
	for _, temp := range []float64{0, 4, 12.5, 25, 35} {
		assert.Equal(t, 0.0, DepthM(0, temp), "temp=%v", temp)

		prev := DepthM(0, temp)
		for p := 0.05; p <= 10; p += 0.05 {
			d := DepthM(p, temp)
			if d <= prev {
				t.Fatalf("depth not increasing at p=%v temp=%v: %v <= %v", p, temp, d, prev)
			}
			prev = d
		}
	}
}

func TestDepthOneBarNearMaxDensity(t *testing.T) {
	// ~999.97 kg/m³ at 4 °C
	assert.InDelta(t, 10.1975, DepthM(1, 4), 1e-3)
}

func TestWaterDensity(t *testing.T) {
	assert.InDelta(t, 999.84847, WaterDensity(0), 1e-9)
	assert.InDelta(t, 997.04, WaterDensity(25), 0.01)
}

func TestVaporPressure(t *testing.T) {
	// tabulated value at 25 °C is 23.76 mmHg
	assert.InDelta(t, 23.76, VaporPressureMmHg(25), 0.1)
}

func TestDOSaturationAt25C(t *testing.T) {
	tK := 298.15
	lnDO := -173.4292 + 249.6339*(100/tK) + 143.3483*math.Log(tK/100) - 21.8492*(tK/100)
	want := math.Exp(lnDO) * 1.4276

	got := DOSaturationMgL(25, 0, 760)
	assert.InDelta(t, want, got, 1e-9)
	assert.InDelta(t, 8.23, got, 0.02)

	assert.InDelta(t, want, DOMgL(25, 1.0, 0, 760), 1e-9)
	assert.InDelta(t, want/2, DOMgL(25, 0.5, 0, 760), 1e-9)
}

func TestDOSaturationPressureAndSalinity(t *testing.T) {
	sea := DOSaturationMgL(20, 0, SeaLevelMmHg)

	u := VaporPressureMmHg(20)
	high := DOSaturationMgL(20, 0, 700)
	assert.InDelta(t, sea*(700-u)/(760-u), high, 1e-9)
	assert.Less(t, high, sea)

	salty := DOSaturationMgL(20, 35, SeaLevelMmHg)
	assert.Less(t, salty, sea)
}
