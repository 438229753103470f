package domain

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Payload provides uniform access to the raw fields of a device submission,
// regardless of how it arrived on the wire. The transport layer picks the
// adapter (JSON body or form encoding) before the core ever sees it.
type Payload interface {
	// Get returns the raw value for a field and whether it was supplied.
	Get(field string) (string, bool)
	// Empty reports whether the payload carried no fields at all.
	Empty() bool
	// Source returns the original content type and body for diagnostics.
	Source() (contentType, raw string)
}

// JSONPayload adapts a JSON object body.
type JSONPayload struct {
	fields      map[string]any
	contentType string
	raw         []byte
}

// NewJSONPayload decodes a JSON object body into a payload. It returns an
// error if the body is not a JSON object; the transport falls back to form
// decoding in that case.
func NewJSONPayload(raw []byte, contentType string) (*JSONPayload, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return &JSONPayload{fields: fields, contentType: contentType, raw: raw}, nil
}

func (p *JSONPayload) Get(field string) (string, bool) {
	v, ok := p.fields[field]
	if !ok || v == nil {
		// JSON null behaves like an absent field, as station firmware sends
		// null for sensors that are still warming up.
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		// Arrays and objects stringify to something unparseable and are
		// rejected by validation as non-numeric.
		b, _ := json.Marshal(t)
		return string(b), true
	}
}

func (p *JSONPayload) Empty() bool { return len(p.fields) == 0 }

func (p *JSONPayload) Source() (string, string) { return p.contentType, string(p.raw) }

// FormPayload adapts a form-encoded body.
type FormPayload struct {
	values      url.Values
	contentType string
	raw         string
}

// NewFormPayload wraps parsed form values. raw is the original body, kept
// for diagnostics.
func NewFormPayload(values url.Values, contentType, raw string) *FormPayload {
	return &FormPayload{values: values, contentType: contentType, raw: raw}
}

func (p *FormPayload) Get(field string) (string, bool) {
	vs, ok := p.values[field]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (p *FormPayload) Empty() bool { return len(p.values) == 0 }

func (p *FormPayload) Source() (string, string) { return p.contentType, p.raw }
