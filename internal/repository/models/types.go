package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

const tagDelimiter = ","

// TagSet stores a multi-valued tag column as a comma-joined string.
type TagSet []string

// Value implements the driver.Valuer interface
func (s TagSet) Value() (driver.Value, error) {
	clean := make([]string, 0, len(s))
	for _, t := range s {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, tagDelimiter), nil
}

// Scan implements the sql.Scanner interface
func (s *TagSet) Scan(value interface{}) error {
	raw, err := asString(value)
	if err != nil {
		return fmt.Errorf("TagSet Scan: %w", err)
	}
	out := TagSet{}
	for _, t := range strings.Split(raw, tagDelimiter) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	*s = out
	return nil
}

// LabelMap stores an option label -> text mapping as JSON.
type LabelMap map[string]string

func (m LabelMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *LabelMap) Scan(value interface{}) error {
	raw, err := asString(value)
	if err != nil {
		return fmt.Errorf("LabelMap Scan: %w", err)
	}
	out := LabelMap{}
	if raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("LabelMap Scan: %w", err)
		}
	}
	*m = out
	return nil
}

// Vector stores an embedding as a JSON array. An empty vector is stored as NULL.
type Vector []float32

func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]float32(v))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (v *Vector) Scan(value interface{}) error {
	raw, err := asString(value)
	if err != nil {
		return fmt.Errorf("Vector Scan: %w", err)
	}
	if raw == "" || raw == "null" {
		*v = nil
		return nil
	}
	var out []float32
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fmt.Errorf("Vector Scan: %w", err)
	}
	*v = out
	return nil
}

func asString(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("unsupported type %T", value)
	}
}
