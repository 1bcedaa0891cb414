package pattern

import "fmt"

func evalArrayLength(p *Pattern, actual any) bool {
	arr, ok := actual.([]any)
	if !ok {
		return false
	}
	n, ok := parseInt(param(p, 0))
	if !ok {
		return false
	}
	return len(arr) == n
}

// evalArrayContains supports both "arrayContains:<value>" (scalar
// membership) and "arrayContains:<field>:<value>" (object-array
// membership).
func evalArrayContains(p *Pattern, actual any) bool {
	arr, ok := actual.([]any)
	if !ok {
		return false
	}

	if len(p.Params) >= 2 {
		field, want := p.Params[0], p.Params[1]
		for _, el := range arr {
			obj, ok := el.(map[string]any)
			if !ok {
				continue
			}
			if fmt.Sprintf("%v", obj[field]) == want {
				return true
			}
		}
		return false
	}

	want := param(p, 0)
	for _, el := range arr {
		if fmt.Sprintf("%v", el) == want {
			return true
		}
		if s, ok := el.(string); ok && s == want {
			return true
		}
	}
	return false
}

// evalArrayElements applies p.Inner to every element of actual. A
// non-array actual yields a type_mismatch.
func evalArrayElements(p *Pattern, actual any, path string, innerErrs *[]Error) bool {
	arr, ok := actual.([]any)
	if !ok {
		*innerErrs = append(*innerErrs, Error{
			Type:     TypeMismatch,
			Path:     pathOrRoot(path),
			Expected: "array",
			Actual:   actual,
			Message:  fmt.Sprintf("arrayElements requires an array at %s, got %T", pathOrRoot(path), actual),
		})
		return false
	}

	if p.Inner == nil {
		return false
	}

	allOK := true
	for i, el := range arr {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		var elemErrs []Error
		ok := evaluate(p.Inner, el, elemPath, &elemErrs)
		if p.Inner.Negated {
			ok = !ok
		}
		if !ok {
			allOK = false
			if len(elemErrs) > 0 {
				*innerErrs = append(*innerErrs, elemErrs...)
			} else {
				*innerErrs = append(*innerErrs, Error{
					Type:     PatternFailed,
					Path:     elemPath,
					Expected: p.Inner.Raw,
					Actual:   el,
					Message:  fmt.Sprintf("element at %s did not match %s", elemPath, p.Inner.Kind),
				})
			}
		}
	}
	return allOK
}
