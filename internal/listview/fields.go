package listview

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type FieldType string

const (
	FieldText    FieldType = "text"
	FieldEmail   FieldType = "email"
	FieldNumber  FieldType = "number"
	FieldInteger FieldType = "integer"
	FieldDate    FieldType = "date"
	FieldTime    FieldType = "time"
	FieldSelect  FieldType = "select"
)

type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// FieldSpec describes one editable field of a resource record. Name is the
// JSON key on the record and in the PATCH body.
type FieldSpec struct {
	Name     string    `yaml:"name" json:"name"`
	Label    string    `yaml:"label" json:"label"`
	Type     FieldType `yaml:"type" json:"type"`
	Required bool      `yaml:"required" json:"required"`
	Options  []Option  `yaml:"options,omitempty" json:"options,omitempty"`
	// Numeric select values are sent as integers.
	Numeric bool `yaml:"numeric,omitempty" json:"numeric,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Convert turns a raw draft string into the typed value sent to the backend.
// Empty strings convert to nil for optional fields.
func (f FieldSpec) Convert(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if f.Type == FieldText || f.Type == FieldEmail {
			return "", nil
		}
		return nil, nil
	}

	switch f.Type {
	case FieldNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("not a number")
		}
		return v, nil
	case FieldInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("not an integer")
		}
		return v, nil
	case FieldDate:
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return nil, errors.New("expected YYYY-MM-DD")
		}
		return raw, nil
	case FieldTime:
		if _, err := time.Parse("15:04:05", raw); err == nil {
			return raw, nil
		}
		if _, err := time.Parse("15:04", raw); err != nil {
			return nil, errors.New("expected HH:MM")
		}
		return raw + ":00", nil
	case FieldEmail:
		if !emailPattern.MatchString(raw) {
			return nil, errors.New("not an email address")
		}
		return raw, nil
	case FieldSelect:
		if len(f.Options) > 0 && !f.hasOption(raw) {
			return nil, errors.New("not a valid option")
		}
		if f.Numeric {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.New("not an integer")
			}
			return v, nil
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func (f FieldSpec) hasOption(v string) bool {
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Patch is a partial update keyed by record JSON field name.
type Patch map[string]any

// ApplyPatch returns a copy of rec with the patch keys overlaid. Records are
// round-tripped through their JSON form so patch keys match wire names.
func ApplyPatch[T any](rec T, patch Patch) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("encode record: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, fmt.Errorf("record is not an object: %w", err)
	}
	for k, v := range patch {
		b, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("encode patch field %s: %w", k, err)
		}
		fields[k] = b
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, fmt.Errorf("apply patch: %w", err)
	}
	return out, nil
}

// FieldValue renders the named JSON field of rec as a form string.
func FieldValue[T any](rec T, name string) string {
	raw, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	switch v := fields[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
