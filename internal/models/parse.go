package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ID tolerates the backend returning identifiers as JSON strings or numbers.
// Spreadsheet rows are loosely typed, so both shapes occur in the wild.
type ID string

// UnmarshalJSON decodes a string, number or null into the identifier.
func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*i = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = ID(n.String())
	return nil
}

// ImageList is an ordered list of image references. The backend sometimes
// stores it as a native array and sometimes as a JSON-encoded string;
// malformed input degrades to an empty list instead of failing the decode.
type ImageList []string

// UnmarshalJSON accepts either representation.
func (l *ImageList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*l = ImageList{}
			return nil
		}
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			*l = arr
			return nil
		}
	}

	*l = ImageList{}
	return nil
}

// PlotList decodes garden plots from a native array or a JSON-encoded string.
type PlotList []Plot

// UnmarshalJSON accepts either representation, defaulting to empty.
func (l *PlotList) UnmarshalJSON(data []byte) error {
	var arr []Plot
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil && strings.TrimSpace(s) != "" {
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			*l = arr
			return nil
		}
	}

	*l = PlotList{}
	return nil
}

// SeedCounts maps plant type to owned seed count, decoded from a native
// object or a JSON-encoded string.
type SeedCounts map[string]int

// UnmarshalJSON accepts either representation, defaulting to empty.
func (c *SeedCounts) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err == nil {
		*c = m
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil && strings.TrimSpace(s) != "" {
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			*c = m
			return nil
		}
	}

	*c = SeedCounts{}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the loose timestamp strings the backend produces.
// The boolean is false when no known layout matches.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

// FormatTimestamp renders a timestamp in the canonical wire format.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
