package device

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"fireplace_bridge/internal/models"

	"golang.org/x/net/html/charset"
)

// Param names used by the fireplace firmware in state.xml.
const (
	paramFlame  = "flame"
	paramFuel   = "fuel"
	paramStatus = "tryb"
)

// Device units: flame is reported as 2,4,..,12.
const (
	MinFlameLevel = 1
	MaxFlameLevel = 6
	MinFuelLevel  = 0
	MaxFuelLevel  = 4

	flameUnitsPerLevel = 2
)

// statusDocument matches any root element holding a flat list of <param>.
// Firmware writes name/value as child elements; attributes are accepted too.
type statusDocument struct {
	Params []statusParam `xml:"param"`
}

type statusParam struct {
	Name      string `xml:"name"`
	Value     string `xml:"value"`
	NameAttr  string `xml:"name,attr"`
	ValueAttr string `xml:"value,attr"`
}

func (p statusParam) name() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return strings.TrimSpace(p.NameAttr)
}

func (p statusParam) value() string {
	if v := strings.TrimSpace(p.Value); v != "" {
		return v
	}
	return strings.TrimSpace(p.ValueAttr)
}

// Decode parses a state.xml document into a snapshot. It only translates the
// wire format: IsOn/IsCharging are left for Classify, ObservedAt for the caller.
func Decode(raw []byte) (models.DeviceSnapshot, error) {
	var doc statusDocument
	dec := xml.NewDecoder(bytes.NewReader(raw))
	// some firmware revisions declare ISO-8859-1
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return models.DeviceSnapshot{}, &CodecError{Reason: "malformed xml", Err: err}
	}

	// first occurrence wins
	values := make(map[string]string, len(doc.Params))
	for _, p := range doc.Params {
		n := p.name()
		if n == "" {
			continue
		}
		if _, seen := values[n]; !seen {
			values[n] = p.value()
		}
	}

	flame, err := intParam(values, paramFlame)
	if err != nil {
		return models.DeviceSnapshot{}, err
	}
	fuel, err := intParam(values, paramFuel)
	if err != nil {
		return models.DeviceSnapshot{}, err
	}
	status, err := intParam(values, paramStatus)
	if err != nil {
		return models.DeviceSnapshot{}, err
	}

	if flame%flameUnitsPerLevel != 0 ||
		flame < MinFlameLevel*flameUnitsPerLevel || flame > MaxFlameLevel*flameUnitsPerLevel {
		return models.DeviceSnapshot{}, &CodecError{
			Param:  paramFlame,
			Reason: "expected even value in 2..12, got " + strconv.Itoa(flame),
		}
	}
	if fuel < MinFuelLevel || fuel > MaxFuelLevel {
		return models.DeviceSnapshot{}, &CodecError{
			Param:  paramFuel,
			Reason: "expected value in 0..4, got " + strconv.Itoa(fuel),
		}
	}

	return models.DeviceSnapshot{
		FlameLevel: flame / flameUnitsPerLevel,
		FuelLevel:  fuel,
		StatusCode: status,
	}, nil
}

func intParam(values map[string]string, name string) (int, error) {
	raw, ok := values[name]
	if !ok {
		return 0, &CodecError{Param: name, Reason: "missing"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &CodecError{Param: name, Reason: "not an integer", Err: err}
	}
	return n, nil
}
