package jsonutil

import (
	"encoding/json"
	"fmt"
)

// DecodeScalar decodes a JSON fragment into its natural Go scalar: string,
// float64, bool, or nil for JSON null. Objects and arrays are rejected —
// payload shapes are handled a level up, this only decodes leaves.
func DecodeScalar(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode scalar: %w", err)
	}

	switch v.(type) {
	case string, float64, bool:
		return v, nil
	}
	return nil, fmt.Errorf("expected JSON scalar, got %s", previewJSON(raw))
}

// FlexibleString converts a JSON fragment to a string, tolerating numbers
// and booleans where a string was expected. Returns "" for null/empty.
func FlexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

func previewJSON(raw json.RawMessage) string {
	const max = 40
	s := string(raw)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
