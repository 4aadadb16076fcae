package yosemitech

import "strings"

// Model selects the register layout used for a sensor.
type Model int

const (
	Unknown Model = iota
	Y502          // dissolved oxygen
	Y504          // dissolved oxygen
	Y510          // turbidity
	Y511          // turbidity, self-cleaning
	Y514          // chlorophyll, self-cleaning
	Y520          // conductivity
	Y532          // pH
	Y533          // ORP
	Y550          // COD with turbidity
	Y4000         // multiparameter sonde
)

var modelNames = map[Model]string{
	Unknown: "unknown",
	Y502:    "Y502",
	Y504:    "Y504",
	Y510:    "Y510",
	Y511:    "Y511",
	Y514:    "Y514",
	Y520:    "Y520",
	Y532:    "Y532",
	Y533:    "Y533",
	Y550:    "Y550",
	Y4000:   "Y4000",
}

func (m Model) String() string {
	if s, ok := modelNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseModel accepts names such as "Y504" or "y504"; anything else is Unknown.
func ParseModel(s string) Model {
	for m, name := range modelNames {
		if strings.EqualFold(name, s) {
			return m
		}
	}
	return Unknown
}

// serialModelCodes maps the two digits at serial[2:4] to a model.
var serialModelCodes = map[int]Model{
	1:  Y504,
	9:  Y520,
	10: Y510,
	29: Y511,
	48: Y514,
	43: Y532,
	38: Y4000,
}

// modelCode parses the leading digits of serial[2:4]; 0 when there are none.
func modelCode(serial string) int {
	if len(serial) < 4 {
		return 0
	}
	n := 0
	for _, c := range serial[2:4] {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
