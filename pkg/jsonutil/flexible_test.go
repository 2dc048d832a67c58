package jsonutil

import (
	"encoding/json"
	"testing"
)

func TestDecodeScalar(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    any
		wantErr bool
	}{
		{"string", `"hello"`, "hello", false},
		{"number", `42.5`, 42.5, false},
		{"bool", `true`, true, false},
		{"null", `null`, nil, false},
		{"empty", ``, nil, false},
		{"object rejected", `{"a":1}`, nil, true},
		{"array rejected", `[1,2]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeScalar(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeScalar(%s) error = %v, wantErr %t", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("DecodeScalar(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"hello"`, "hello"},
		{"integer", `42`, "42"},
		{"float", `42.5`, "42.5"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlexibleString(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("FlexibleString(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
