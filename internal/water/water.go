// Package water holds the physical conversions used by the sensor adapters.
package water

import "math"

const (
	// SeaLevelMmHg is standard barometric pressure.
	SeaLevelMmHg = 760.0
	// FreshWater is zero salinity, g/kg.
	FreshWater = 0.0

	// StandardGravity in m/s².
	StandardGravity = 9.80665

	pascalPerBar = 1e5
	kelvinOffset = 273.15
	mlToMg       = 1.4276
)

// Weiss (1970) oxygen solubility coefficients.
const (
	weissA1 = -173.4292
	weissA2 = 249.6339
	weissA3 = 143.3483
	weissA4 = -21.8492
	weissB1 = -0.033096
	weissB2 = 0.014259
	weissB3 = -0.001700
)

// WaterDensity returns the density of air-free water in kg/m³ at tempC,
// equation 6 of Jones & Harris (1992).
func WaterDensity(tempC float64) float64 {
	return 999.84847 +
		6.337563e-2*tempC -
		8.523829e-3*math.Pow(tempC, 2) +
		6.943248e-5*math.Pow(tempC, 3) -
		3.821216e-7*math.Pow(tempC, 4)
}

// DepthM converts a gauge pressure in bar to a water column height in metres
// using P = ρ·g·h.
func DepthM(pressureBar, tempC float64) float64 {
	return pressureBar * pascalPerBar / (WaterDensity(tempC) * StandardGravity)
}

// VaporPressureMmHg is the vapour pressure of water at tempC from the
// Handbook of Chemistry and Physics fit: log10 u = 8.10765 - 1750.286/(235+t).
func VaporPressureMmHg(tempC float64) float64 {
	logU := 8.10765 - (1750.286 / (235 + tempC))
	return math.Pow(10, logU)
}

// DOSaturationMgL is the dissolved oxygen concentration of air-saturated
// water, corrected from sea level to pressureMmHg.
func DOSaturationMgL(tempC, salinity, pressureMmHg float64) float64 {
	tK := kelvinOffset + tempC
	lnDO := weissA1 + weissA2*(100/tK) + weissA3*math.Log(tK/100) + weissA4*(tK/100) +
		salinity*(weissB1+weissB2*(tK/100)+weissB3*(tK/100)*(tK/100))
	satSeaLevelMgL := math.Exp(lnDO) * mlToMg

	u := VaporPressureMmHg(tempC)
	return satSeaLevelMgL * ((pressureMmHg - u) / (SeaLevelMmHg - u))
}

// DOMgL scales the saturation concentration by a measured saturation
// fraction (1.0 == 100 %).
func DOMgL(tempC, fraction, salinity, pressureMmHg float64) float64 {
	return DOSaturationMgL(tempC, salinity, pressureMmHg) * fraction
}
