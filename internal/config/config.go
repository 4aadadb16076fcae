// internal/config/config.go
package config

const (
	FamilyKeller     = "keller"
	FamilyYosemitech = "yosemitech"
)

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	IntervalMs  int            `yaml:"interval_ms"`
	MetricsAddr string         `yaml:"metrics_addr"` // empty disables /metrics
	Sensors     []SensorConfig `yaml:"sensors"`
}

// ---- SENSOR ----

type SensorConfig struct {
	ID      string `yaml:"id"`
	Family  string `yaml:"family"` // keller | yosemitech
	Model   string `yaml:"model"`
	SlaveID uint8  `yaml:"slave_id"`
	Area    string `yaml:"area"`

	// Dissolved oxygen conversion (Y502/Y504)
	Salinity     float64 `yaml:"salinity"`
	PressureMmHg float64 `yaml:"pressure_mmhg"`

	// Settle time after StartMeasurement before the first read
	WarmupMs int `yaml:"warmup_ms"`
}
