package models

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/xoshbin/customfields/pkg/apperrors"
)

// FieldType identifies the kind of a custom field. The set is closed:
// new kinds require code changes, not configuration.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
)

// AllFieldTypes lists every supported field type in display order.
var AllFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeTextarea,
	FieldTypeNumber,
	FieldTypeBoolean,
	FieldTypeDate,
	FieldTypeSelect,
}

// ParseFieldType resolves a type tag to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(s) {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeBoolean, FieldTypeDate, FieldTypeSelect:
		return FieldType(s), nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownFieldType, s)
}

// IsValid reports whether t is one of the supported field types.
func (t FieldType) IsValid() bool {
	_, err := ParseFieldType(string(t))
	return err == nil
}

// Label returns the human-readable name of the field type.
func (t FieldType) Label() string {
	switch t {
	case FieldTypeText:
		return "Text"
	case FieldTypeTextarea:
		return "Textarea"
	case FieldTypeNumber:
		return "Number"
	case FieldTypeBoolean:
		return "Boolean"
	case FieldTypeDate:
		return "Date"
	case FieldTypeSelect:
		return "Select"
	}
	return string(t)
}

// DefaultValidationRules returns the rule strings applied to every field of
// this type, before any per-field custom rules.
func (t FieldType) DefaultValidationRules() []string {
	switch t {
	case FieldTypeText:
		return []string{"string", "max:255"}
	case FieldTypeTextarea:
		return []string{"string", "max:65535"}
	case FieldTypeNumber:
		return []string{"numeric"}
	case FieldTypeBoolean:
		return []string{"boolean"}
	case FieldTypeDate:
		return []string{"date"}
	case FieldTypeSelect:
		return []string{"string"}
	}
	return nil
}

// SupportsOptions reports whether fields of this type carry an option list.
func (t FieldType) SupportsOptions() bool {
	return t == FieldTypeSelect
}

// DefaultValue returns the zero value for fields of this type.
func (t FieldType) DefaultValue() any {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect:
		return ""
	case FieldTypeNumber:
		return float64(0)
	case FieldTypeBoolean:
		return false
	case FieldTypeDate:
		return nil
	}
	return nil
}

// CastValue coerces a raw scalar into the canonical Go type for this field:
// string for text/textarea/select, float64 for number, bool for boolean and
// time.Time for date. Number casting is deliberately soft: unparsable input
// yields 0 rather than an error, because numeric form widgets routinely
// submit transient garbage. Date casting is strict apart from nil, which
// passes through unchanged.
func (t FieldType) CastValue(raw any) (any, error) {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect:
		return cast.ToString(raw), nil
	case FieldTypeNumber:
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return float64(0), nil
		}
		return n, nil
	case FieldTypeBoolean:
		if s, ok := raw.(string); ok {
			return TruthyString(s), nil
		}
		return cast.ToBool(raw), nil
	case FieldTypeDate:
		if raw == nil {
			return nil, nil
		}
		if ts, ok := raw.(time.Time); ok {
			return ts, nil
		}
		ts, err := cast.ToTimeE(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot cast %v to date: %w", raw, err)
		}
		return ts, nil
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownFieldType, string(t))
}

// TruthyString reports whether s spells a true value. Used for boolean field
// casting and for the permissive show_in_table coercion applied to values
// coming out of admin form submissions.
func TruthyString(s string) bool {
	switch normalizeToken(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
