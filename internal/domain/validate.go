package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EmptyBodyError reports a submission with no usable body: no JSON object
// and no form fields. ContentType and Raw carry the original request pieces
// so device firmware can be debugged from the error response alone.
type EmptyBodyError struct {
	ContentType string
	Raw         string
}

func (e *EmptyBodyError) Error() string {
	return fmt.Sprintf("empty or invalid body (content type %q)", e.ContentType)
}

// NonNumericFieldError reports a field that was supplied but could not be
// parsed as a number. Raw carries the original payload for diagnostics.
type NonNumericFieldError struct {
	Field string
	Raw   string
}

func (e *NonNumericFieldError) Error() string {
	return fmt.Sprintf("non-numeric value for field %q", e.Field)
}

// ValidateReading normalizes a raw payload into a typed Reading.
//
// flow_rate, water_level, and rain_level default to 0 when absent but reject
// the payload when present and unparseable (see the package doc for why the
// asymmetry is intentional). river_distance never rejects: absent or
// unparseable values become -1 and anything negative is clamped to 0.
func ValidateReading(p Payload) (Reading, error) {
	if p == nil {
		return Reading{}, &EmptyBodyError{}
	}
	if p.Empty() {
		ct, raw := p.Source()
		return Reading{}, &EmptyBodyError{ContentType: ct, Raw: raw}
	}

	flow, err := numericField(p, "flow_rate")
	if err != nil {
		return Reading{}, err
	}
	level, err := numericField(p, "water_level")
	if err != nil {
		return Reading{}, err
	}
	rain, err := numericField(p, "rain_level")
	if err != nil {
		return Reading{}, err
	}

	distance := parseFloatOr(p, "river_distance", -1)
	if distance < 0 {
		distance = 0
	}

	return Reading{
		FlowRate:      flow,
		WaterLevel:    level,
		RainLevel:     rain,
		RiverDistance: distance,
	}, nil
}

// numericField parses a required-if-present numeric field, defaulting to 0
// when the field is absent.
func numericField(p Payload, field string) (float64, error) {
	s, ok := p.Get(field)
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		_, raw := p.Source()
		return 0, &NonNumericFieldError{Field: field, Raw: raw}
	}
	return v, nil
}

// parseFloatOr parses an optional field, returning fallback when absent or
// unparseable.
func parseFloatOr(p Payload, field string, fallback float64) float64 {
	s, ok := p.Get(field)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}
