package models

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// keyPattern constrains field keys to lowercase alphanumerics and underscores.
var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// SelectOption is one entry of a select field's option list.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TruthyBool is a bool that tolerates the loose representations admin form
// builders submit for checkbox state: JSON booleans, numbers, and strings
// like "1", "true", "yes" or "on" (case-insensitive). Anything else decodes
// to false. It marshals back as a plain JSON boolean.
type TruthyBool bool

func (b *TruthyBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = TruthyBool(v)
	case string:
		*b = TruthyBool(TruthyString(v))
	case float64:
		*b = TruthyBool(v != 0)
	default:
		*b = false
	}
	return nil
}

func (b TruthyBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// Bool returns the plain boolean value.
func (b TruthyBool) Bool() bool {
	return bool(b)
}

// FieldSpec describes one custom field inside a definition's ordered list.
// Stored as an element of the field_definitions JSONB array.
type FieldSpec struct {
	Key             string         `json:"key"`
	Label           string         `json:"label"`
	Type            FieldType      `json:"type"`
	Required        bool           `json:"required,omitempty"`
	ShowInTable     TruthyBool     `json:"show_in_table"`
	Order           int            `json:"order"`
	Options         []SelectOption `json:"options,omitempty"`
	ValidationRules []string       `json:"validation_rules,omitempty"`
	HelpText        string         `json:"help_text,omitempty"`
}

// OptionLabel resolves a stored option value to its display label.
// Falls back to the raw value when no option matches.
func (s *FieldSpec) OptionLabel(value string) string {
	for _, opt := range s.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// HasOption reports whether value matches one of the spec's option values.
func (s *FieldSpec) HasOption(value string) bool {
	for _, opt := range s.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// AppliedValidationRules concatenates the required prefix, the type's default
// rules and the spec's custom rules, in that order. Duplicates are preserved.
func (s *FieldSpec) AppliedValidationRules() []string {
	var rules []string
	if s.Required {
		rules = append(rules, "required")
	}
	if s.Type.IsValid() {
		rules = append(rules, s.Type.DefaultValidationRules()...)
	}
	rules = append(rules, s.ValidationRules...)
	return rules
}

// NormalizeFieldSpecs sanitizes a whole field list before it is written:
// keys are trimmed and lowercased. Explicit order values are preserved —
// only RemoveField re-indexes. Runs on every assignment of the list, not
// just on initial creation. ShowInTable coercion happens earlier, at JSON
// decode time, via TruthyBool.
func NormalizeFieldSpecs(specs []FieldSpec) []FieldSpec {
	out := make([]FieldSpec, len(specs))
	for i, spec := range specs {
		spec.Key = normalizeToken(spec.Key)
		out[i] = spec
	}
	return out
}

// ValidateFieldSpec checks the structural requirements of a single spec:
// key, label and type present, type known, key well-formed, and a non-empty
// option list with value and label on every entry for select fields.
// Returns the list of problems, empty when the spec is valid.
func ValidateFieldSpec(spec *FieldSpec) []string {
	var errs []string

	key := normalizeToken(spec.Key)
	switch {
	case key == "":
		errs = append(errs, "key is required")
	case !keyPattern.MatchString(key):
		errs = append(errs, "key must contain only lowercase letters, digits and underscores")
	}

	if strings.TrimSpace(spec.Label) == "" {
		errs = append(errs, "label is required")
	}

	switch {
	case spec.Type == "":
		errs = append(errs, "type is required")
	case !spec.Type.IsValid():
		errs = append(errs, "invalid field type")
	}

	if spec.Type == FieldTypeSelect {
		if len(spec.Options) == 0 {
			errs = append(errs, "select fields must have options")
		}
		for _, opt := range spec.Options {
			if opt.Value == "" || opt.Label == "" {
				errs = append(errs, "select options must have both value and label")
				break
			}
		}
	}

	return errs
}

// IsEmptyInput reports whether an input counts as empty for required-field
// checks and for hasValue semantics: nil, blank strings, false, and numeric
// zero are all empty. Maps are empty only when every entry is empty.
func IsEmptyInput(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case map[string]any:
		for _, entry := range val {
			if !IsEmptyInput(entry) {
				return false
			}
		}
		return true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(val) == 0
	}
	return false
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
