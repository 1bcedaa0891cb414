package pattern

import "math"

type numericCmp int

const (
	cmpEquals numericCmp = iota
	cmpNotEquals
	cmpGreaterThan
	cmpGreaterOrEqual
	cmpLessThan
	cmpLessOrEqual
)

func evalNumericCompare(p *Pattern, actual any, cmp numericCmp) bool {
	a, ok := actualAsFloat(actual)
	if !ok {
		return false
	}
	want, ok := parseFloat(param(p, 0))
	if !ok {
		return false
	}

	switch cmp {
	case cmpEquals:
		return a == want
	case cmpNotEquals:
		return a != want
	case cmpGreaterThan:
		return a > want
	case cmpGreaterOrEqual:
		return a >= want
	case cmpLessThan:
		return a < want
	case cmpLessOrEqual:
		return a <= want
	default:
		return false
	}
}

func evalBetween(p *Pattern, actual any) bool {
	a, ok := actualAsFloat(actual)
	if !ok {
		return false
	}
	lo, ok := parseFloat(param(p, 0))
	if !ok {
		return false
	}
	hi, ok := parseFloat(param(p, 1))
	if !ok {
		return false
	}
	return a >= lo && a <= hi
}

func evalApproximately(p *Pattern, actual any) bool {
	a, ok := actualAsFloat(actual)
	if !ok {
		return false
	}
	want, ok := parseFloat(param(p, 0))
	if !ok {
		return false
	}
	tolerance, ok := parseFloat(param(p, 1))
	if !ok {
		return false
	}
	return math.Abs(a-want) <= tolerance
}

func evalMultipleOf(p *Pattern, actual any) bool {
	a, ok := actualAsFloat(actual)
	if !ok {
		return false
	}
	divisor, ok := parseFloat(param(p, 0))
	if !ok || divisor == 0 {
		return false
	}
	quotient := a / divisor
	return math.Abs(quotient-math.Round(quotient)) < 1e-9
}

func evalDecimalPlaces(p *Pattern, actual any) bool {
	a, ok := actualAsFloat(actual)
	if !ok {
		return false
	}
	want, ok := parseInt(param(p, 0))
	if !ok {
		return false
	}
	scale := math.Pow(10, float64(want))
	scaled := a * scale
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}
