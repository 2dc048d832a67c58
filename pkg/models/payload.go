package models

import (
	"encoding/json"
	"fmt"

	"github.com/xoshbin/customfields/pkg/jsonutil"
)

// PayloadKind tags the two wire shapes a stored field_value document can
// take.
type PayloadKind int

const (
	// PayloadEmpty is a payload with no content ({} or null on the wire).
	PayloadEmpty PayloadKind = iota
	// PayloadScalar is the normal single-value shape {"value": <scalar>}.
	PayloadScalar
	// PayloadLocales is a bare locale map {"en": ..., "ckb": ...} used for
	// translated content.
	PayloadLocales
)

// Payload is the strict in-memory form of the field_value JSONB document.
// The untyped wire document is parsed into this variant on load and never
// carried past the value store as a raw map. The two shapes are told apart
// by the presence of a top-level "value" key.
type Payload struct {
	Kind    PayloadKind
	Scalar  any            // string, float64, bool, time.Time or nil
	Locales map[string]any // scalar per locale
}

// ScalarPayload wraps a single scalar in the {"value": ...} shape.
func ScalarPayload(v any) Payload {
	return Payload{Kind: PayloadScalar, Scalar: v}
}

// LocalePayload wraps a locale map in the bare-map shape.
func LocalePayload(locales map[string]any) Payload {
	return Payload{Kind: PayloadLocales, Locales: locales}
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*p = Payload{Kind: PayloadEmpty}
		return nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("field value must be a JSON object: %w", err)
	}

	if raw, ok := doc["value"]; ok {
		scalar, err := jsonutil.DecodeScalar(raw)
		if err != nil {
			return fmt.Errorf("failed to decode field value: %w", err)
		}
		*p = Payload{Kind: PayloadScalar, Scalar: scalar}
		return nil
	}

	if len(doc) == 0 {
		*p = Payload{Kind: PayloadEmpty}
		return nil
	}

	locales := make(map[string]any, len(doc))
	for locale, raw := range doc {
		scalar, err := jsonutil.DecodeScalar(raw)
		if err != nil {
			return fmt.Errorf("failed to decode locale %q: %w", locale, err)
		}
		locales[locale] = scalar
	}
	*p = Payload{Kind: PayloadLocales, Locales: locales}
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadScalar:
		return json.Marshal(map[string]any{"value": p.Scalar})
	case PayloadLocales:
		return json.Marshal(p.Locales)
	default:
		return json.Marshal(map[string]any{"value": nil})
	}
}

// Raw unwraps the payload: the scalar for the {"value": x} shape, the locale
// map when non-empty for the bare-map shape, nil otherwise.
func (p Payload) Raw() any {
	switch p.Kind {
	case PayloadScalar:
		return p.Scalar
	case PayloadLocales:
		if len(p.Locales) > 0 {
			return p.Locales
		}
	}
	return nil
}
