package pattern

import "testing"

func TestMatchPlainEquality(t *testing.T) {
	res := Match(map[string]any{"ok": true}, map[string]any{"ok": true}, "")
	if !res.Passed {
		t.Fatalf("expected pass, got errors: %+v", res.Errors)
	}
}

func TestMatchExtraFieldFails(t *testing.T) {
	res := Match(map[string]any{"ok": true}, map[string]any{"ok": true, "extra": 1}, "")
	if res.Passed {
		t.Fatal("expected extra field to fail strict matching")
	}
	if res.Errors[0].Type != ExtraField {
		t.Fatalf("expected extra_field error, got %s", res.Errors[0].Type)
	}
}

func TestMatchPartialAllowsExtraFields(t *testing.T) {
	expected := map[string]any{
		"match:partial": map[string]any{"ok": true},
	}
	actual := map[string]any{"ok": true, "extra": 1}
	res := Match(expected, actual, "")
	if !res.Passed {
		t.Fatalf("expected partial match to pass, got: %+v", res.Errors)
	}
}

func TestMatchPartialNotTransitive(t *testing.T) {
	expected := map[string]any{
		"match:partial": map[string]any{
			"nested": map[string]any{"a": 1},
		},
	}
	actual := map[string]any{
		"nested": map[string]any{"a": 1, "b": 2},
	}
	res := Match(expected, actual, "")
	if res.Passed {
		t.Fatal("partial should not propagate into nested objects")
	}
}

func TestExistsPassesAgainstExplicitNull(t *testing.T) {
	expected := map[string]any{"deletedAt": "match:exists"}
	actual := map[string]any{"deletedAt": nil}
	res := Match(expected, actual, "")
	if !res.Passed {
		t.Fatalf("expected match:exists to pass against an explicit null value, got %+v", res.Errors)
	}
}

func TestExistsFailsWhenFieldIsMissing(t *testing.T) {
	expected := map[string]any{"deletedAt": "match:exists"}
	actual := map[string]any{}
	res := Match(expected, actual, "")
	if res.Passed {
		t.Fatal("expected match:exists to fail when the field is absent entirely")
	}
	if res.Errors[0].Type != MissingField {
		t.Fatalf("expected missing_field, got %s", res.Errors[0].Type)
	}
}

func TestNotArrayLengthZero(t *testing.T) {
	res := Match("match:not:arrayLength:0", []any{"x"}, "")
	if !res.Passed {
		t.Fatalf("expected non-empty array to satisfy not:arrayLength:0, got %+v", res.Errors)
	}

	res = Match("match:not:arrayLength:0", []any{}, "")
	if res.Passed {
		t.Fatal("expected empty array to fail not:arrayLength:0")
	}
}

func TestContains(t *testing.T) {
	res := Match("match:contains:Hello", "Hello, world", "")
	if !res.Passed {
		t.Fatalf("expected contains to pass, got %+v", res.Errors)
	}
}

func TestBetweenAndNotGreaterThan(t *testing.T) {
	if !Match("match:between:90:100", 95.0, "").Passed {
		t.Fatal("expected 95 to be between 90 and 100")
	}
	if !Match("match:not:greaterThan:10", 5.0, "").Passed {
		t.Fatal("expected 5 to satisfy not:greaterThan:10")
	}
	if Match("match:not:greaterThan:10", 15.0, "").Passed {
		t.Fatal("expected 15 to fail not:greaterThan:10")
	}
}

func TestDateFormatAndNotDateValid(t *testing.T) {
	if !Match("match:dateFormat:iso", "2024-01-15T10:30:00Z", "").Passed {
		t.Fatal("expected ISO timestamp to satisfy dateFormat:iso")
	}
	if !Match("match:not:dateValid", "not-a-date", "").Passed {
		t.Fatal("expected garbage string to satisfy not:dateValid")
	}
	if Match("match:not:dateValid", "2024-01-15T10:30:00Z", "").Passed {
		t.Fatal("expected valid date to fail not:dateValid")
	}
}

func TestDateBetweenWithColonBearingBounds(t *testing.T) {
	res := Match("match:dateBetween:2024-01-01T00:00:00Z:2024-12-31T23:59:59Z", "2024-06-15T12:00:00Z", "")
	if !res.Passed {
		t.Fatalf("expected mid-year date to fall within range, got %+v", res.Errors)
	}
}

func TestDateAge(t *testing.T) {
	p, err := ParsePattern("match:dateAge:1d")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if p.Params[0] != "1d" {
		t.Fatalf("expected raw duration param preserved, got %q", p.Params[0])
	}
}

func TestArrayElementsUniversalQuantification(t *testing.T) {
	res := Match("match:arrayElements:match:type:number", []any{1.0, 2.0, 3.0}, "")
	if !res.Passed {
		t.Fatalf("expected all-number array to pass, got %+v", res.Errors)
	}

	res = Match("match:arrayElements:match:type:number", []any{1.0, "two", 3.0}, "")
	if res.Passed {
		t.Fatal("expected mixed-type array to fail arrayElements:type:number")
	}
}

func TestArrayElementsRequiresArray(t *testing.T) {
	res := Match("match:arrayElements:match:type:number", map[string]any{}, "")
	if res.Passed {
		t.Fatal("expected non-array actual to fail arrayElements")
	}
	if res.Errors[0].Type != TypeMismatch {
		t.Fatalf("expected type_mismatch, got %s", res.Errors[0].Type)
	}
}

func TestExtractFieldProjection(t *testing.T) {
	actual := map[string]any{
		"user": map[string]any{"name": "Ada"},
	}
	if !Match("match:extractField:user.name", actual, "").Passed {
		t.Fatal("expected extractField to find nested existing field")
	}

	res := Match("match:extractField:user.missing", actual, "")
	if res.Passed {
		t.Fatal("expected extractField to fail on missing path")
	}
}

func TestExtractFieldWildcard(t *testing.T) {
	actual := map[string]any{
		"items": []any{
			map[string]any{"id": 1.0},
			map[string]any{"id": 2.0},
		},
	}
	if !Match("match:extractField:items[*].id", actual, "").Passed {
		t.Fatal("expected extractField wildcard projection over array to succeed")
	}
}

// --- Algebraic-law tests ---

func TestIdempotenceOfMatch(t *testing.T) {
	expected := map[string]any{"a": 1.0, "b": []any{1.0, 2.0}}
	actual := map[string]any{"a": 1.0, "b": []any{1.0, 2.0}}
	first := Match(expected, actual, "")
	second := Match(expected, actual, "")
	if first.Passed != second.Passed {
		t.Fatal("expected Match to be idempotent across repeated calls")
	}
}

func TestNotInvertsVerdict(t *testing.T) {
	plain := Match("match:type:string", "hello", "")
	negated := Match("match:not:type:string", "hello", "")
	if plain.Passed == negated.Passed {
		t.Fatal("expected not: to invert the underlying verdict")
	}
}

func TestRoundTripEquality(t *testing.T) {
	value := map[string]any{"x": 1.0, "y": "z"}
	if !Match(value, value, "").Passed {
		t.Fatal("expected a value to match an identical copy of itself")
	}
}

func TestPartialMatchIsConservative(t *testing.T) {
	// Anything a strict match accepts, the partial form must also accept.
	expected := map[string]any{"a": 1.0}
	actual := map[string]any{"a": 1.0}
	strict := Match(expected, actual, "")
	partial := Match(map[string]any{"match:partial": expected}, actual, "")
	if !strict.Passed || !partial.Passed {
		t.Fatal("expected both strict and partial match to accept an exact match")
	}
}
