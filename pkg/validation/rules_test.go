package validation

import "testing"

func TestEvaluate_Required(t *testing.T) {
	if errs := Evaluate("", []string{"required", "string"}); len(errs) != 1 {
		t.Errorf("empty required value errors = %v, want exactly the required message", errs)
	}
	if errs := Evaluate(nil, []string{"required"}); len(errs) != 1 {
		t.Errorf("nil required value errors = %v, want one", errs)
	}
	if errs := Evaluate("", []string{"string", "max:255"}); len(errs) != 0 {
		t.Errorf("empty optional value errors = %v, want none", errs)
	}
	if errs := Evaluate("hello", []string{"required", "string"}); len(errs) != 0 {
		t.Errorf("present required value errors = %v, want none", errs)
	}
}

func TestEvaluate_Numeric(t *testing.T) {
	if errs := Evaluate("123.45", []string{"numeric"}); len(errs) != 0 {
		t.Errorf("numeric string errors = %v", errs)
	}
	if errs := Evaluate(42, []string{"numeric"}); len(errs) != 0 {
		t.Errorf("int errors = %v", errs)
	}
	if errs := Evaluate("abc", []string{"numeric"}); len(errs) != 1 {
		t.Errorf("non-numeric errors = %v, want one", errs)
	}
}

func TestEvaluate_Boolean(t *testing.T) {
	for _, ok := range []any{true, false, 1, 0, "1", "0", "true", "false"} {
		if errs := Evaluate(ok, []string{"boolean"}); len(errs) != 0 {
			t.Errorf("Evaluate(%v, boolean) = %v, want pass", ok, errs)
		}
	}
	for _, bad := range []any{"maybe", 2, 3.5} {
		if errs := Evaluate(bad, []string{"boolean"}); len(errs) != 1 {
			t.Errorf("Evaluate(%v, boolean) = %v, want one error", bad, errs)
		}
	}
}

func TestEvaluate_Date(t *testing.T) {
	if errs := Evaluate("2024-01-15", []string{"date"}); len(errs) != 0 {
		t.Errorf("valid date errors = %v", errs)
	}
	if errs := Evaluate("not-a-date", []string{"date"}); len(errs) != 1 {
		t.Errorf("invalid date errors = %v, want one", errs)
	}
}

func TestEvaluate_MaxMin(t *testing.T) {
	if errs := Evaluate("abcdef", []string{"string", "max:5"}); len(errs) != 1 {
		t.Errorf("over-length string errors = %v, want one", errs)
	}
	if errs := Evaluate("abc", []string{"string", "max:5"}); len(errs) != 0 {
		t.Errorf("in-bounds string errors = %v", errs)
	}
	// numbers compare by magnitude, not digit count
	if errs := Evaluate(500, []string{"numeric", "max:255"}); len(errs) != 1 {
		t.Errorf("over-limit number errors = %v, want one", errs)
	}
	if errs := Evaluate(3, []string{"numeric", "min:10"}); len(errs) != 1 {
		t.Errorf("under-limit number errors = %v, want one", errs)
	}
	if errs := Evaluate("ab", []string{"min:3"}); len(errs) != 1 {
		t.Errorf("short string errors = %v, want one", errs)
	}
	// numeric strings compare by value under a numeric rule, by character
	// count otherwise
	if errs := Evaluate("300", []string{"numeric", "max:255"}); len(errs) != 1 {
		t.Errorf("over-limit numeric string errors = %v, want one", errs)
	}
	if errs := Evaluate("300", []string{"string", "max:255"}); len(errs) != 0 {
		t.Errorf("short plain string errors = %v, want none", errs)
	}
	if errs := Evaluate("5", []string{"numeric", "min:10"}); len(errs) != 1 {
		t.Errorf("under-limit numeric string errors = %v, want one", errs)
	}
}

func TestEvaluate_In(t *testing.T) {
	rules := []string{"in:high,medium,low"}
	if errs := Evaluate("high", rules); len(errs) != 0 {
		t.Errorf("member value errors = %v", errs)
	}
	if errs := Evaluate("critical", rules); len(errs) != 1 {
		t.Errorf("non-member value errors = %v, want one", errs)
	}
}

func TestEvaluate_UnknownRuleSkipped(t *testing.T) {
	if errs := Evaluate("anything", []string{"string", "exotic_rule:42"}); len(errs) != 0 {
		t.Errorf("unknown rule produced errors = %v, want none", errs)
	}
}

func TestEvaluate_MultipleViolations(t *testing.T) {
	errs := Evaluate("definitely-not-numeric", []string{"numeric", "max:5"})
	if len(errs) != 2 {
		t.Errorf("errors = %v, want both numeric and max violations", errs)
	}
}
