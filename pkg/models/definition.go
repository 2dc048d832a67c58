package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xoshbin/customfields/pkg/apperrors"
	"github.com/xoshbin/customfields/pkg/jsonutil"
)

// LocalizedText is a locale-keyed display string, e.g. {"en": "Partners"}.
// A bare JSON string decodes as the "en" entry so callers can supply
// unlocalized text. Map entries tolerate non-string scalars the way admin
// form builders emit them (numbers, booleans).
type LocalizedText map[string]string

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err == nil {
		out := make(LocalizedText, len(m))
		for locale, raw := range m {
			out[locale] = jsonutil.FlexibleString(raw)
		}
		*t = out
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = LocalizedText{"en": s}
	return nil
}

// Get returns the text for locale, falling back to "en" and then to any
// available entry.
func (t LocalizedText) Get(locale string) string {
	if v, ok := t[locale]; ok {
		return v
	}
	if v, ok := t["en"]; ok {
		return v
	}
	for _, v := range t {
		return v
	}
	return ""
}

// Definition owns the ordered custom-field specifications for one model
// type. Stored in custom_field_definitions; model_type is unique at the
// storage layer, so at most one definition governs a given entity type.
type Definition struct {
	ID          uuid.UUID     `json:"id"`
	ModelType   string        `json:"model_type"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description,omitempty"`
	IsActive    bool          `json:"is_active"`
	Fields      []FieldSpec   `json:"field_definitions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// FieldSpec returns the spec whose key exactly matches key, or nil.
// Stored keys are already lowercased, so the match is case-sensitive.
func (d *Definition) FieldSpec(key string) *FieldSpec {
	for i := range d.Fields {
		if d.Fields[i].Key == key {
			return &d.Fields[i]
		}
	}
	return nil
}

// FieldKeys returns every declared field key in list order.
func (d *Definition) FieldKeys() []string {
	keys := make([]string, len(d.Fields))
	for i := range d.Fields {
		keys[i] = d.Fields[i].Key
	}
	return keys
}

// SetFields replaces the whole field list, applying normalization.
func (d *Definition) SetFields(specs []FieldSpec) {
	d.Fields = NormalizeFieldSpecs(specs)
}

// AddField validates spec and appends it to the field list. The key must not
// collide with an existing spec; the full uniqueness check runs on every
// incremental mutation, not only on whole-definition validation.
func (d *Definition) AddField(spec FieldSpec) error {
	if err := d.checkFieldSpec(&spec, ""); err != nil {
		return err
	}
	d.SetFields(append(d.Fields, spec))
	return nil
}

// UpdateField validates newSpec and replaces the first spec whose key equals
// key. Returns false when no spec matches.
func (d *Definition) UpdateField(key string, newSpec FieldSpec) (bool, error) {
	if err := d.checkFieldSpec(&newSpec, key); err != nil {
		return false, err
	}
	for i := range d.Fields {
		if d.Fields[i].Key == key {
			fields := make([]FieldSpec, len(d.Fields))
			copy(fields, d.Fields)
			fields[i] = newSpec
			d.SetFields(fields)
			return true, nil
		}
	}
	return false, nil
}

// RemoveField deletes every spec with a matching key and renumbers the
// remainder so order stays contiguous. This is the only mutation that
// rewrites explicit order values. Returns whether anything was removed.
func (d *Definition) RemoveField(key string) bool {
	kept := d.Fields[:0:0]
	for _, spec := range d.Fields {
		if spec.Key != key {
			spec.Order = len(kept)
			kept = append(kept, spec)
		}
	}
	if len(kept) == len(d.Fields) {
		return false
	}
	d.SetFields(kept)
	return true
}

// Validate runs the full structural check over the field list: per-spec
// requirements plus key uniqueness across the definition. The result maps
// the list index of each offending spec to its error messages; an empty map
// means the definition is valid. Second and later occurrences of a
// duplicated key are the ones flagged.
func (d *Definition) Validate() map[int][]string {
	errs := make(map[int][]string)
	seen := make(map[string]bool)

	for i := range d.Fields {
		spec := &d.Fields[i]
		fieldErrs := ValidateFieldSpec(spec)

		key := normalizeToken(spec.Key)
		if key != "" {
			if seen[key] {
				fieldErrs = append(fieldErrs, "key must be unique")
			}
			seen[key] = true
		}

		if len(fieldErrs) > 0 {
			errs[i] = fieldErrs
		}
	}

	return errs
}

// ModelLabel returns the model type without any package or namespace
// qualifier, for compact display in admin listings.
func (d *Definition) ModelLabel() string {
	t := d.ModelType
	for _, sep := range []string{"\\", "/", "."} {
		if idx := strings.LastIndex(t, sep); idx >= 0 {
			t = t[idx+len(sep):]
		}
	}
	return t
}

func (d *Definition) checkFieldSpec(spec *FieldSpec, replacing string) error {
	if errs := ValidateFieldSpec(spec); len(errs) > 0 {
		return &apperrors.InvalidFieldSpecError{Reason: strings.Join(errs, "; ")}
	}
	key := normalizeToken(spec.Key)
	for i := range d.Fields {
		if d.Fields[i].Key == key && d.Fields[i].Key != replacing {
			return &apperrors.InvalidFieldSpecError{Reason: "key " + key + " already exists"}
		}
	}
	return nil
}
