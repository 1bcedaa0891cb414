package pattern

import "fmt"

// matchPattern parses and evaluates a "match:..." string against actual,
// appending any resulting errors. Negation wraps the inner evaluation
// and inverts its verdict; a negated pattern's own errors are suppressed
// and replaced with a single message that reads correctly for the
// inverted case.
func matchPattern(raw string, actual any, path string, errs *[]Error) {
	p, err := ParsePattern(raw)
	if err != nil {
		*errs = append(*errs, Error{
			Type:        PatternFailed,
			Path:        pathOrRoot(path),
			Expected:    raw,
			Actual:      actual,
			Message:     err.Error(),
			PatternType: "unknown",
		})
		return
	}

	if !IsKnownKind(string(p.Kind)) {
		*errs = append(*errs, Error{
			Type:        PatternFailed,
			Path:        pathOrRoot(path),
			Expected:    raw,
			Actual:      actual,
			Message:     fmt.Sprintf("unsupported pattern kind %q", p.Kind),
			PatternType: string(p.Kind),
		})
		return
	}

	var innerErrs []Error
	ok := evaluate(p, actual, path, &innerErrs)

	if p.Negated {
		if ok {
			*errs = append(*errs, Error{
				Type:        PatternFailed,
				Path:        pathOrRoot(path),
				Expected:    raw,
				Actual:      actual,
				Message:     fmt.Sprintf("expected NOT %s, but it matched", describePattern(p)),
				PatternType: string(p.Kind),
			})
		}
		return
	}

	if !ok {
		if len(innerErrs) > 0 {
			*errs = append(*errs, innerErrs...)
			return
		}
		*errs = append(*errs, Error{
			Type:        PatternFailed,
			Path:        pathOrRoot(path),
			Expected:    raw,
			Actual:      actual,
			Message:     fmt.Sprintf("value did not match %s", describePattern(p)),
			PatternType: string(p.Kind),
		})
	}
}

func describePattern(p *Pattern) string {
	return string(p.Kind)
}

// evaluate dispatches a parsed Pattern against actual, returning the
// Boolean verdict. innerErrs collects detailed ValidationErrors for the
// non-negated failure path; negation discards them (see matchPattern).
func evaluate(p *Pattern, actual any, path string, innerErrs *[]Error) bool {
	switch p.Kind {
	case KindType:
		return evalType(p, actual)
	case KindExists:
		// Presence is already guaranteed by the caller (matchObjectFields
		// filters out genuinely missing keys before evaluate ever runs),
		// so the only way actual is nil here is an explicit JSON null,
		// which counts as present.
		return true
	case KindLength, KindCount:
		return evalLength(p, actual)
	case KindContains:
		return evalContains(p, actual, false)
	case KindContainsIgnore:
		return evalContains(p, actual, true)
	case KindStartsWith:
		return evalStartsWith(p, actual)
	case KindEndsWith:
		return evalEndsWith(p, actual)
	case KindEqualsIgnore:
		return evalEqualsIgnoreCase(p, actual)
	case KindRegex:
		return evalRegex(p, actual)
	case KindArrayLength:
		return evalArrayLength(p, actual)
	case KindArrayContains:
		return evalArrayContains(p, actual)
	case KindArrayElements:
		return evalArrayElements(p, actual, path, innerErrs)
	case KindEquals:
		return evalNumericCompare(p, actual, cmpEquals)
	case KindNotEquals:
		return evalNumericCompare(p, actual, cmpNotEquals)
	case KindGreaterThan:
		return evalNumericCompare(p, actual, cmpGreaterThan)
	case KindGreaterOrEqual:
		return evalNumericCompare(p, actual, cmpGreaterOrEqual)
	case KindLessThan:
		return evalNumericCompare(p, actual, cmpLessThan)
	case KindLessOrEqual:
		return evalNumericCompare(p, actual, cmpLessOrEqual)
	case KindBetween, KindRange:
		return evalBetween(p, actual)
	case KindApproximately:
		return evalApproximately(p, actual)
	case KindMultipleOf, KindDivisibleBy:
		return evalMultipleOf(p, actual)
	case KindDecimalPlaces:
		return evalDecimalPlaces(p, actual)
	case KindDateValid:
		return evalDateValid(actual)
	case KindDateAfter:
		return evalDateAfter(p, actual)
	case KindDateBefore:
		return evalDateBefore(p, actual)
	case KindDateBetween:
		return evalDateBetween(p, actual)
	case KindDateAge:
		return evalDateAge(p, actual)
	case KindDateEquals:
		return evalDateEquals(p, actual)
	case KindDateFormat:
		return evalDateFormat(p, actual)
	case KindExtractField:
		return evalExtractField(p, actual, path, innerErrs)
	case KindPartial:
		// Bare "match:partial" with no object context always holds; real
		// partial semantics are driven by the {"match:partial": {...}}
		// object wrapper (see partialWrapper), not this leaf form.
		return true
	default:
		return false
	}
}

func param(p *Pattern, i int) string {
	if i < len(p.Params) {
		return p.Params[i]
	}
	return ""
}
