package pattern

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported pattern directives.
type Kind string

const (
	KindType           Kind = "type"
	KindExists         Kind = "exists"
	KindLength         Kind = "length"
	KindCount          Kind = "count"
	KindContains       Kind = "contains"
	KindContainsIgnore Kind = "containsIgnoreCase"
	KindStartsWith     Kind = "startsWith"
	KindEndsWith       Kind = "endsWith"
	KindEqualsIgnore   Kind = "equalsIgnoreCase"
	KindRegex          Kind = "regex"
	KindArrayLength    Kind = "arrayLength"
	KindArrayContains  Kind = "arrayContains"
	KindArrayElements  Kind = "arrayElements"
	KindEquals         Kind = "equals"
	KindNotEquals      Kind = "notEquals"
	KindGreaterThan    Kind = "greaterThan"
	KindGreaterOrEqual Kind = "greaterThanOrEqual"
	KindLessThan       Kind = "lessThan"
	KindLessOrEqual    Kind = "lessThanOrEqual"
	KindBetween        Kind = "between"
	KindRange          Kind = "range"
	KindApproximately  Kind = "approximately"
	KindMultipleOf     Kind = "multipleOf"
	KindDivisibleBy    Kind = "divisibleBy"
	KindDecimalPlaces  Kind = "decimalPlaces"
	KindDateValid      Kind = "dateValid"
	KindDateAfter      Kind = "dateAfter"
	KindDateBefore     Kind = "dateBefore"
	KindDateBetween    Kind = "dateBetween"
	KindDateAge        Kind = "dateAge"
	KindDateEquals     Kind = "dateEquals"
	KindDateFormat     Kind = "dateFormat"
	KindPartial        Kind = "partial"
	KindExtractField   Kind = "extractField"
)

// knownKinds backs IsKnownKind, which matchPattern uses to reject an
// unsupported kind with a pattern_failed error before evaluating it.
var knownKinds = map[Kind]bool{
	KindType: true, KindExists: true, KindLength: true, KindCount: true,
	KindContains: true, KindContainsIgnore: true, KindStartsWith: true,
	KindEndsWith: true, KindEqualsIgnore: true, KindRegex: true,
	KindArrayLength: true, KindArrayContains: true, KindArrayElements: true,
	KindEquals: true, KindNotEquals: true, KindGreaterThan: true,
	KindGreaterOrEqual: true, KindLessThan: true, KindLessOrEqual: true,
	KindBetween: true, KindRange: true, KindApproximately: true,
	KindMultipleOf: true, KindDivisibleBy: true, KindDecimalPlaces: true,
	KindDateValid: true, KindDateAfter: true, KindDateBefore: true,
	KindDateBetween: true, KindDateAge: true, KindDateEquals: true,
	KindDateFormat: true, KindPartial: true, KindExtractField: true,
}

// IsKnownKind reports whether name is one of the supported pattern kinds.
func IsKnownKind(name string) bool {
	return knownKinds[Kind(name)]
}

// Pattern is the parsed, tagged-variant form of a "match:..." string (spec
// §9 "pattern dispatch → tagged variants"). Parsed once, evaluated many
// times.
type Pattern struct {
	Raw     string
	Negated bool
	Kind    Kind
	Params  []string
	Inner   *Pattern // set for arrayElements's sub-pattern
}

// IsPatternString reports whether s is a pattern directive rather than a
// plain literal to compare by equality.
func IsPatternString(s string) bool {
	return strings.HasPrefix(s, "match:")
}

// ParsePattern parses a "match:[not:]<kind>[:params...]" string into a
// Pattern. It does not validate that Kind is supported; callers check
// IsKnownKind and route unknown kinds to the corrections analyzer.
func ParsePattern(raw string) (*Pattern, error) {
	if !IsPatternString(raw) {
		return nil, fmt.Errorf("pattern: %q is not a pattern string (missing match: prefix)", raw)
	}

	rest := strings.TrimPrefix(raw, "match:")
	negated := false
	if strings.HasPrefix(rest, "not:") {
		negated = true
		rest = strings.TrimPrefix(rest, "not:")
	}

	kindName, paramStr, hasParams := cutFirst(rest, ":")
	p := &Pattern{Raw: raw, Negated: negated, Kind: Kind(kindName)}

	switch p.Kind {
	case KindArrayElements:
		if !hasParams {
			return nil, fmt.Errorf("pattern: arrayElements requires a sub-pattern")
		}
		innerRaw := paramStr
		if !IsPatternString(innerRaw) {
			innerRaw = "match:" + innerRaw
		}
		inner, err := ParsePattern(innerRaw)
		if err != nil {
			return nil, fmt.Errorf("pattern: invalid arrayElements sub-pattern: %w", err)
		}
		p.Inner = inner
	case KindRegex, KindExtractField, KindDateAge, KindDateFormat:
		if hasParams {
			p.Params = []string{paramStr}
		}
	case KindArrayContains:
		if hasParams {
			p.Params = splitAtMost(paramStr, 2)
		}
	case KindBetween, KindRange:
		if hasParams {
			p.Params = splitNumericPair(paramStr)
		}
	case KindApproximately:
		if hasParams {
			p.Params = splitNumericPair(paramStr)
		}
	case KindDateBetween:
		if hasParams {
			lo, hi, ok := splitDateRangeParams(paramStr)
			if ok {
				p.Params = []string{lo, hi}
			} else {
				p.Params = splitAtMost(paramStr, 2)
			}
		}
	default:
		if hasParams {
			p.Params = []string{paramStr}
		}
	}

	return p, nil
}

// cutFirst splits s at the first occurrence of sep, reporting whether sep
// was present.
func cutFirst(s, sep string) (before, after string, found bool) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

// splitAtMost splits s by ":" into at most n parts.
func splitAtMost(s string, n int) []string {
	return strings.SplitN(s, ":", n)
}

// splitNumericPair splits a plain "lo:hi" pair with no embedded colons.
func splitNumericPair(s string) []string {
	return strings.SplitN(s, ":", 2)
}

// Match deep-compares expected against actual at path, dispatching to
// pattern evaluation whenever a leaf in expected is a "match:..." string.
func Match(expected, actual any, path string) Result {
	var errs []Error
	matchValue(expected, actual, path, &errs)
	return newResult(errs)
}

func matchValue(expected, actual any, path string, errs *[]Error) {
	if s, ok := expected.(string); ok && IsPatternString(s) {
		matchPattern(s, actual, path, errs)
		return
	}

	switch exp := expected.(type) {
	case map[string]any:
		if inner, ok := partialWrapper(exp); ok {
			matchObjectFields(inner, actual, path, errs, true)
			return
		}
		matchObject(exp, actual, path, errs)
	case []any:
		matchArray(exp, actual, path, errs)
	default:
		if !deepEqualPrimitive(expected, actual) {
			*errs = append(*errs, Error{
				Type:     ValueMismatch,
				Path:     pathOrRoot(path),
				Expected: expected,
				Actual:   actual,
				Message:  fmt.Sprintf("expected %v, got %v", expected, actual),
			})
		}
	}
}

// partialWrapper recognizes the {"match:partial": {...}} convention: an
// object whose sole key is the literal pattern string "match:partial"
// marks its value as a partial match (extra keys in actual allowed).
// Partial is contagious only to that object, not transitively (spec
// §4.6's tie-break), so nested objects need their own wrapper to opt in.
func partialWrapper(expected map[string]any) (map[string]any, bool) {
	if len(expected) != 1 {
		return nil, false
	}
	v, ok := expected["match:partial"]
	if !ok {
		return nil, false
	}
	inner, ok := v.(map[string]any)
	return inner, ok
}

func matchObject(expected map[string]any, actual any, path string, errs *[]Error) {
	matchObjectFields(expected, actual, path, errs, false)
}

func matchObjectFields(expected map[string]any, actual any, path string, errs *[]Error, partial bool) {
	actualMap, ok := actual.(map[string]any)
	if !ok {
		*errs = append(*errs, Error{
			Type:     TypeMismatch,
			Path:     pathOrRoot(path),
			Expected: "object",
			Actual:   actual,
			Message:  fmt.Sprintf("expected an object at %s, got %T", pathOrRoot(path), actual),
		})
		return
	}

	for k, expVal := range expected {
		childPath := joinPath(path, k)
		actVal, present := actualMap[k]
		if !present {
			*errs = append(*errs, Error{
				Type:     MissingField,
				Path:     childPath,
				Expected: expVal,
				Actual:   nil,
				Message:  fmt.Sprintf("missing field %s", childPath),
			})
			continue
		}
		matchValue(expVal, actVal, childPath, errs)
	}

	if !partial {
		for k, actVal := range actualMap {
			if _, present := expected[k]; !present {
				*errs = append(*errs, Error{
					Type:     ExtraField,
					Path:     joinPath(path, k),
					Expected: nil,
					Actual:   actVal,
					Message:  fmt.Sprintf("unexpected extra field %s", joinPath(path, k)),
				})
			}
		}
	}
}

func matchArray(expected []any, actual any, path string, errs *[]Error) {
	actualArr, ok := actual.([]any)
	if !ok {
		*errs = append(*errs, Error{
			Type:     TypeMismatch,
			Path:     pathOrRoot(path),
			Expected: "array",
			Actual:   actual,
			Message:  fmt.Sprintf("expected an array at %s, got %T", pathOrRoot(path), actual),
		})
		return
	}

	if len(expected) != len(actualArr) {
		*errs = append(*errs, Error{
			Type:     LengthMismatch,
			Path:     pathOrRoot(path),
			Expected: len(expected),
			Actual:   len(actualArr),
			Message:  fmt.Sprintf("expected array of length %d at %s, got %d", len(expected), pathOrRoot(path), len(actualArr)),
		})
		return
	}

	for i, expVal := range expected {
		matchValue(expVal, actualArr[i], fmt.Sprintf("%s[%d]", path, i), errs)
	}
}

func pathOrRoot(path string) string {
	if path == "" {
		return "$"
	}
	return path
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// deepEqualPrimitive compares normalized JSON primitives by strict
// equality. Distinct JSON-normalized types never match.
func deepEqualPrimitive(expected, actual any) bool {
	switch e := expected.(type) {
	case nil:
		return actual == nil
	case bool:
		a, ok := actual.(bool)
		return ok && a == e
	case string:
		a, ok := actual.(string)
		return ok && a == e
	case float64:
		a, ok := actual.(float64)
		return ok && a == e
	case int:
		a, ok := actual.(float64)
		return ok && a == float64(e)
	default:
		return expected == actual
	}
}
