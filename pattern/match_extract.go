package pattern

import (
	"fmt"
	"strings"
)

// evalExtractField implements "extractField:<dotted.path[*]>": it
// projects actual down to the value at the dotted path, optionally
// fanning out over an array with a "[*]" segment, and passes when the
// projection exists and is non-null (for a fan-out: non-empty, with no
// null element). No further pattern is applied to the projection; the
// whole parameter is taken as the field path.
func evalExtractField(p *Pattern, actual any, path string, innerErrs *[]Error) bool {
	fieldPath := param(p, 0)
	if fieldPath == "" {
		*innerErrs = append(*innerErrs, Error{
			Type:     PatternFailed,
			Path:     pathOrRoot(path),
			Expected: p.Raw,
			Actual:   actual,
			Message:  "extractField requires a field path",
		})
		return false
	}

	projection, ok := extractByPath(actual, fieldPath)
	if !ok {
		*innerErrs = append(*innerErrs, Error{
			Type:     PatternFailed,
			Path:     pathOrRoot(path),
			Expected: fieldPath,
			Actual:   actual,
			Message:  fmt.Sprintf("extractField: path %q not found at %s", fieldPath, pathOrRoot(path)),
		})
		return false
	}

	switch v := projection.(type) {
	case nil:
		return false
	case []any:
		if len(v) == 0 {
			return false
		}
		for _, el := range v {
			if el == nil {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// extractByPath walks a dotted field path over nested maps/slices. A
// "[*]" suffix on a segment fans the remainder of the path out across
// every element of the array found at that segment, collecting results.
func extractByPath(actual any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	return extractSegments(actual, segments)
}

func extractSegments(actual any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return actual, true
	}

	seg := segments[0]
	rest := segments[1:]

	wildcard := strings.HasSuffix(seg, "[*]")
	name := strings.TrimSuffix(seg, "[*]")

	var current any = actual
	if name != "" {
		obj, ok := actual.(map[string]any)
		if !ok {
			return nil, false
		}
		v, present := obj[name]
		if !present {
			return nil, false
		}
		current = v
	}

	if !wildcard {
		return extractSegments(current, rest)
	}

	arr, ok := current.([]any)
	if !ok {
		return nil, false
	}

	results := make([]any, 0, len(arr))
	for _, el := range arr {
		v, ok := extractSegments(el, rest)
		if !ok {
			return nil, false
		}
		results = append(results, v)
	}
	return results, true
}
