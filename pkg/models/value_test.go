package models

import (
	"testing"
	"time"
)

func valueFor(key string, payload Payload) *Value {
	return &Value{
		Entity:   EntityRef{Type: "partner", ID: 1},
		FieldKey: key,
		Payload:  payload,
	}
}

func TestValue_SpecResolution(t *testing.T) {
	def := partnerDefinition()

	v := valueFor("industry", ScalarPayload("Tech"))
	if v.Spec(def) == nil {
		t.Fatal("Spec() = nil for declared key")
	}
	if v.Type(def) != FieldTypeText {
		t.Errorf("Type() = %v, want text", v.Type(def))
	}

	orphan := valueFor("removed_field", ScalarPayload("x"))
	if orphan.Spec(def) != nil {
		t.Error("Spec() must be nil for orphaned key")
	}
	if orphan.Type(def) != "" {
		t.Error("Type() must be empty for orphaned key")
	}
	if v.Spec(nil) != nil {
		t.Error("Spec(nil definition) must be nil")
	}
}

func TestValue_CastValue(t *testing.T) {
	def := &Definition{
		ModelType: "partner",
		Fields: []FieldSpec{
			{Key: "annual_revenue", Label: "Annual Revenue", Type: FieldTypeNumber},
			{Key: "established", Label: "Established", Type: FieldTypeDate},
		},
	}

	v := valueFor("annual_revenue", ScalarPayload("5000000"))
	got, err := v.CastValue(def)
	if err != nil {
		t.Fatalf("CastValue() error = %v", err)
	}
	if got != float64(5000000) {
		t.Errorf("CastValue() = %v (%T), want 5000000.0", got, got)
	}

	// unresolvable type passes raw through unchanged
	orphan := valueFor("gone", ScalarPayload("as-is"))
	got, err = orphan.CastValue(def)
	if err != nil || got != "as-is" {
		t.Errorf("CastValue(orphan) = (%v, %v), want raw pass-through", got, err)
	}

	// nil raw passes through without casting
	empty := valueFor("established", Payload{})
	got, err = empty.CastValue(def)
	if err != nil || got != nil {
		t.Errorf("CastValue(empty) = (%v, %v), want (nil, nil)", got, err)
	}

	// locale maps bypass casting
	localized := valueFor("annual_revenue", LocalePayload(map[string]any{"en": "x"}))
	got, err = localized.CastValue(def)
	if err != nil {
		t.Fatalf("CastValue(locale map) error = %v", err)
	}
	if _, ok := got.(map[string]any); !ok {
		t.Errorf("CastValue(locale map) = %T, want map", got)
	}
}

func TestValue_SetValue(t *testing.T) {
	def := partnerDefinition()

	v := valueFor("industry", Payload{})
	if err := v.SetValue(def, 42); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if v.Payload.Kind != PayloadScalar || v.Payload.Scalar != "42" {
		t.Errorf("Payload = %+v, want cast string scalar", v.Payload)
	}

	// no resolvable type stores the input uncast
	orphan := valueFor("gone", Payload{})
	if err := orphan.SetValue(def, 42); err != nil {
		t.Fatalf("SetValue(orphan) error = %v", err)
	}
	if orphan.Payload.Scalar != 42 {
		t.Errorf("orphan payload = %v, want raw 42", orphan.Payload.Scalar)
	}
}

func TestValue_HasValue(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    bool
	}{
		{"string", ScalarPayload("Tech"), true},
		{"empty string", ScalarPayload(""), false},
		{"nil scalar", ScalarPayload(nil), false},
		{"zero number", ScalarPayload(float64(0)), false},
		{"false boolean", ScalarPayload(false), false},
		{"empty payload", Payload{}, false},
		{"locale map with content", LocalePayload(map[string]any{"en": "Hi", "ckb": ""}), true},
		{"locale map all empty", LocalePayload(map[string]any{"en": "", "ckb": ""}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valueFor("industry", tt.payload)
			if got := v.HasValue(); got != tt.want {
				t.Errorf("HasValue() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestValue_ValidationRules(t *testing.T) {
	def := &Definition{
		ModelType: "partner",
		Fields: []FieldSpec{
			{Key: "industry", Label: "Industry", Type: FieldTypeText,
				Required: true, ValidationRules: []string{"min:2"}},
		},
	}

	v := valueFor("industry", ScalarPayload("Tech"))
	got := v.ValidationRules(def)
	want := []string{"required", "string", "max:255", "min:2"}
	if len(got) != len(want) {
		t.Fatalf("ValidationRules() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ValidationRules() = %v, want %v", got, want)
		}
	}

	orphan := valueFor("gone", ScalarPayload("x"))
	if rules := orphan.ValidationRules(def); rules != nil {
		t.Errorf("ValidationRules(orphan) = %v, want nil", rules)
	}
}

func TestValue_DisplayValue(t *testing.T) {
	def := &Definition{
		ModelType: "partner",
		Fields: []FieldSpec{
			{Key: "industry", Label: "Industry", Type: FieldTypeText},
			{Key: "is_preferred", Label: "Preferred", Type: FieldTypeBoolean},
			{Key: "established", Label: "Established", Type: FieldTypeDate},
			{Key: "priority", Label: "Priority", Type: FieldTypeSelect,
				Options: []SelectOption{{Value: "high", Label: "High"}}},
		},
	}

	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"text", valueFor("industry", ScalarPayload("Tech")), "Tech"},
		{"boolean true", valueFor("is_preferred", ScalarPayload(true)), "Yes"},
		{"boolean false", valueFor("is_preferred", ScalarPayload(false)), "No"},
		{"date", valueFor("established", ScalarPayload("2020-01-15T00:00:00Z")), "2020-01-15"},
		{"null date", valueFor("established", ScalarPayload(nil)), ""},
		{"empty payload", valueFor("industry", Payload{}), ""},
		{"locale map degrades to empty", valueFor("industry", LocalePayload(map[string]any{"en": "Hi"})), ""},
		{"select resolves option label", valueFor("priority", ScalarPayload("high")), "High"},
		{"select unknown value falls back raw", valueFor("priority", ScalarPayload("urgent")), "urgent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.DisplayValue(def); got != tt.want {
				t.Errorf("DisplayValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_DateRoundTrip(t *testing.T) {
	def := &Definition{
		ModelType: "partner",
		Fields: []FieldSpec{
			{Key: "established", Label: "Established", Type: FieldTypeDate},
		},
	}

	v := valueFor("established", Payload{})
	if err := v.SetValue(def, "2024-01-15"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	got, err := v.CastValue(def)
	if err != nil {
		t.Fatalf("CastValue() error = %v", err)
	}
	ts, ok := got.(time.Time)
	if !ok {
		t.Fatalf("CastValue() = %T, want time.Time", got)
	}
	if ts.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("round trip = %s, want 2024-01-15", ts.Format("2006-01-02"))
	}
}
