package ha

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Meta is what a bridge announces on smh/<device_id>/meta.
type Meta struct {
	DeviceID string   `json:"device_id"`
	Model    string   `json:"model,omitempty"`
	Area     string   `json:"area,omitempty"`
	Caps     []string `json:"caps"`

	// Availability is the bridge's online/offline topic, if it has one.
	Availability string `json:"availability,omitempty"`
}

type Device struct {
	Identifiers   []string `json:"identifiers,omitempty"`
	Manufacturer  string   `json:"manufacturer,omitempty"`
	Model         string   `json:"model,omitempty"`
	Name          string   `json:"name,omitempty"`
	SuggestedArea string   `json:"suggested_area,omitempty"`
}

type SensorConfig struct {
	Name         string                 `json:"name"`
	UniqueID     string                 `json:"unique_id"`
	StateTopic   string                 `json:"state_topic"`
	ValueTpl     string                 `json:"value_template,omitempty"`
	DeviceClass  string                 `json:"device_class,omitempty"`
	StateClass   string                 `json:"state_class,omitempty"`
	UnitOfMeas   string                 `json:"unit_of_measurement,omitempty"`
	Icon         string                 `json:"icon,omitempty"`
	Device       *Device                `json:"device,omitempty"`
	QoS          int                    `json:"qos,omitempty"`
	Availability []map[string]string    `json:"availability,omitempty"`
	Extra        map[string]interface{} `json:"-"`
}

func (c *SensorConfig) Marshal() ([]byte, error) {
	type alias SensorConfig
	a := alias(*c)
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	if c.Extra != nil {
		var base map[string]interface{}
		if err := json.Unmarshal(b, &base); err != nil {
			return nil, err
		}
		for k, v := range c.Extra {
			base[k] = v
		}
		return json.Marshal(base)
	}
	return b, nil
}

// Capability is one measured quantity and the state field that carries it.
type Capability struct {
	Key         string
	Name        string
	Field       string
	Unit        string
	DeviceClass string
	Icon        string
}

const (
	CapDepth        = "water.depth"
	CapTemperature  = "water.temperature"
	CapPressure     = "water.pressure"
	CapDOPercent    = "water.do_percent"
	CapDOmgL        = "water.do_mgl"
	CapTurbidity    = "water.turbidity"
	CapConductivity = "water.conductivity"
	CapPH           = "water.ph"
	CapORP          = "water.orp"
	CapChlorophyll  = "water.chlorophyll"
	CapBGA          = "water.bga"
	CapCOD          = "water.cod"
	CapPotential    = "water.potential"
)

var capabilities = map[string]Capability{
	CapDepth:        {CapDepth, "depth", "depth_m", "m", "distance", ""},
	CapTemperature:  {CapTemperature, "water temperature", "temperature_c", "°C", "temperature", ""},
	CapPressure:     {CapPressure, "pressure", "pressure_bar", "bar", "pressure", ""},
	CapDOPercent:    {CapDOPercent, "dissolved oxygen saturation", "do_percent", "%", "", "mdi:water-percent"},
	CapDOmgL:        {CapDOmgL, "dissolved oxygen", "do_mgl", "mg/L", "", "mdi:water-opacity"},
	CapTurbidity:    {CapTurbidity, "turbidity", "turbidity_ntu", "NTU", "", "mdi:blur"},
	CapConductivity: {CapConductivity, "conductivity", "conductivity_us_cm", "µS/cm", "", "mdi:flash-outline"},
	CapPH:           {CapPH, "pH", "ph", "", "ph", ""},
	CapORP:          {CapORP, "ORP", "orp_mv", "mV", "voltage", ""},
	CapChlorophyll:  {CapChlorophyll, "chlorophyll", "chlorophyll_ug_l", "µg/L", "", "mdi:leaf"},
	CapBGA:          {CapBGA, "blue-green algae", "bga_ug_l", "µg/L", "", "mdi:bacteria-outline"},
	CapCOD:          {CapCOD, "COD", "cod_mg_l", "mg/L", "", "mdi:flask-outline"},
	CapPotential:    {CapPotential, "electrode potential", "potential_mv", "mV", "voltage", ""},
}

func LookupCapability(key string) (Capability, bool) {
	c, ok := capabilities[key]
	return c, ok
}

// CapabilityKeys lists every known capability in sorted order.
func CapabilityKeys() []string {
	keys := make([]string, 0, len(capabilities))
	for k := range capabilities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TopicSensorConfig(cap, unique string) string {
	return fmt.Sprintf("homeassistant/sensor/%s/%s/config", unique, cap)
}

func StateTopic(deviceID string) string { return "smh/" + deviceID + "/state" }

func MetaTopic(deviceID string) string { return "smh/" + deviceID + "/meta" }

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Sanitize makes an id usable in discovery topics and unique ids.
func Sanitize(s string) string {
	return strings.ToLower(unsafeChars.ReplaceAllString(s, "_"))
}

// Discovery is one retained config message.
type Discovery struct {
	Topic  string
	Config *SensorConfig
}

// Discover builds discovery configs for every capability in meta that is
// known. Unknown capabilities are returned separately.
func Discover(meta Meta) (out []Discovery, unknown []string) {
	unique := Sanitize(meta.DeviceID)
	device := &Device{
		Identifiers:   []string{meta.DeviceID},
		Manufacturer:  "SMH",
		Model:         meta.Model,
		Name:          meta.DeviceID,
		SuggestedArea: meta.Area,
	}

	for _, key := range meta.Caps {
		c, ok := capabilities[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		cfg := &SensorConfig{
			Name:        fmt.Sprintf("%s %s", meta.DeviceID, c.Name),
			UniqueID:    unique + "_" + c.Field,
			StateTopic:  StateTopic(meta.DeviceID),
			ValueTpl:    fmt.Sprintf("{{ value_json.%s }}", c.Field),
			DeviceClass: c.DeviceClass,
			StateClass:  "measurement",
			UnitOfMeas:  c.Unit,
			Icon:        c.Icon,
			Device:      device,
			QoS:         1,
		}
		if meta.Availability != "" {
			cfg.Availability = []map[string]string{{"topic": meta.Availability}}
		}
		out = append(out, Discovery{Topic: TopicSensorConfig(c.Field, unique), Config: cfg})
	}
	return out, unknown
}
