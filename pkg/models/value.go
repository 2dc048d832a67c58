package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// EntityRef is the polymorphic reference to an entity instance that owns
// custom field values: a type discriminator plus the instance id.
type EntityRef struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Value is one stored custom field value, keyed by (entity type, entity id,
// field key). Stored in custom_field_values; the triple is unique so an
// entity holds at most one value per field.
type Value struct {
	ID           uuid.UUID `json:"id"`
	DefinitionID uuid.UUID `json:"definition_id"`
	Entity       EntityRef `json:"entity"`
	FieldKey     string    `json:"field_key"`
	Payload      Payload   `json:"field_value"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Spec resolves this value's field specification through the owning
// definition. Returns nil when the key is no longer declared (orphaned
// value after a definition edit).
func (v *Value) Spec(def *Definition) *FieldSpec {
	if def == nil {
		return nil
	}
	return def.FieldSpec(v.FieldKey)
}

// Type returns the resolved field type, or "" when unresolvable.
func (v *Value) Type(def *Definition) FieldType {
	spec := v.Spec(def)
	if spec == nil || !spec.Type.IsValid() {
		return ""
	}
	return spec.Type
}

// RawValue unwraps the stored payload without casting.
func (v *Value) RawValue() any {
	return v.Payload.Raw()
}

// CastValue applies the field type's cast to the raw value. When the type
// is unresolvable or the raw value is nil the raw value passes through
// unchanged; locale maps also bypass casting, since casts are defined on
// scalars only.
func (v *Value) CastValue(def *Definition) (any, error) {
	raw := v.RawValue()
	t := v.Type(def)
	if t == "" || raw == nil {
		return raw, nil
	}
	if _, ok := raw.(map[string]any); ok {
		return raw, nil
	}
	return t.CastValue(raw)
}

// SetValue stores input in the {"value": ...} shape, casting through the
// resolved field type when there is one. Writes through this path can never
// produce a bare locale map.
func (v *Value) SetValue(def *Definition, input any) error {
	t := v.Type(def)
	if t == "" {
		v.Payload = ScalarPayload(input)
		return nil
	}
	typed, err := t.CastValue(input)
	if err != nil {
		return err
	}
	v.Payload = ScalarPayload(typed)
	return nil
}

// IsRequired reports whether the resolved spec marks this field required.
func (v *Value) IsRequired(def *Definition) bool {
	spec := v.Spec(def)
	return spec != nil && spec.Required
}

// HasValue reports whether the stored payload holds anything non-empty.
// Scalars follow IsEmptyInput; a locale map counts only when at least one
// entry is non-empty.
func (v *Value) HasValue() bool {
	return !IsEmptyInput(v.RawValue())
}

// ValidationRules returns the full rule list for this value's field:
// required prefix, type defaults, then the spec's custom rules.
func (v *Value) ValidationRules(def *Definition) []string {
	spec := v.Spec(def)
	if spec == nil {
		return nil
	}
	return spec.AppliedValidationRules()
}

// DisplayValue formats the cast value for user-facing rendering. Booleans
// become Yes/No, dates format as YYYY-MM-DD, select values resolve to their
// option label, everything else converts to a string. Non-scalar values (the locale-map fallback) degrade to "" rather
// than failing: rendering never hard-fails on data shape.
func (v *Value) DisplayValue(def *Definition) string {
	typed, err := v.CastValue(def)
	if err != nil || typed == nil {
		return ""
	}
	if _, ok := typed.(map[string]any); ok {
		return ""
	}

	switch v.Type(def) {
	case FieldTypeBoolean:
		if cast.ToBool(typed) {
			return "Yes"
		}
		return "No"
	case FieldTypeDate:
		if ts, ok := typed.(time.Time); ok {
			return ts.Format("2006-01-02")
		}
		return ""
	case FieldTypeSelect:
		return v.Spec(def).OptionLabel(cast.ToString(typed))
	default:
		return cast.ToString(typed)
	}
}
