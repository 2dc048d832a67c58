// Package validation evaluates the rule-string grammar attached to custom
// field specs. Rules are short directives such as "required", "numeric" or
// parameterized forms like "max:255" and "in:high,medium,low". Unknown
// rules are skipped so definitions written by newer tooling stay loadable.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/xoshbin/customfields/pkg/models"
)

// Evaluate runs value against rules and returns one message per violated
// rule. An empty result means the value passes. Empty values short-circuit:
// a missing value only ever fails the "required" rule — content rules apply
// to present values only.
func Evaluate(value any, rules []string) []string {
	required := false
	numeric := false
	for _, rule := range rules {
		switch rule {
		case "required":
			required = true
		case "numeric":
			numeric = true
		}
	}

	if models.IsEmptyInput(value) {
		if required {
			return []string{"value is required"}
		}
		return nil
	}

	var errs []string
	for _, rule := range rules {
		name, arg, _ := strings.Cut(rule, ":")
		if msg := applyRule(value, name, arg, numeric); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

func applyRule(value any, name, arg string, numeric bool) string {
	switch name {
	case "required":
		return "" // handled by the empty short-circuit
	case "string":
		if !isScalar(value) {
			return "value must be a string"
		}
	case "numeric":
		if _, err := cast.ToFloat64E(value); err != nil {
			return "value must be numeric"
		}
	case "boolean":
		if !isBooleanLike(value) {
			return "value must be a boolean"
		}
	case "date":
		if _, err := cast.ToTimeE(value); err != nil {
			return "value must be a valid date"
		}
	case "max":
		limit, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return ""
		}
		if size, ok := sizeOf(value, numeric); ok && size > limit {
			return fmt.Sprintf("value may not be greater than %s", arg)
		}
	case "min":
		limit, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return ""
		}
		if size, ok := sizeOf(value, numeric); ok && size < limit {
			return fmt.Sprintf("value must be at least %s", arg)
		}
	case "in":
		allowed := strings.Split(arg, ",")
		s := cast.ToString(value)
		for _, a := range allowed {
			if s == a {
				return ""
			}
		}
		return "value is not one of the allowed options"
	}
	return ""
}

// sizeOf returns the magnitude the min/max rules compare against. When the
// rule set declares the value numeric, anything that parses as a number
// compares by value — "300" under max:255 fails rather than passing as a
// three-character string. Otherwise numbers compare by value and everything
// stringable by character count.
func sizeOf(value any, numeric bool) (float64, bool) {
	if numeric {
		if n, err := cast.ToFloat64E(value); err == nil {
			return n, true
		}
	}
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(value), true
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return 0, false
	}
	return float64(len([]rune(s))), true
}

func isScalar(value any) bool {
	_, err := cast.ToStringE(value)
	return err == nil
}

func isBooleanLike(value any) bool {
	switch v := value.(type) {
	case bool:
		return true
	case string:
		switch strings.ToLower(v) {
		case "0", "1", "true", "false":
			return true
		}
		return false
	}
	n, err := cast.ToFloat64E(value)
	if err != nil {
		return false
	}
	return n == 0 || n == 1
}
