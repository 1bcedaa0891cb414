package pattern

import (
	"regexp"
	"strconv"
	"strings"
)

func evalContains(p *Pattern, actual any, ignoreCase bool) bool {
	s, ok := actual.(string)
	if !ok {
		return false
	}
	want := param(p, 0)
	if ignoreCase {
		return strings.Contains(strings.ToLower(s), strings.ToLower(want))
	}
	return strings.Contains(s, want)
}

func evalStartsWith(p *Pattern, actual any) bool {
	s, ok := actual.(string)
	if !ok {
		return false
	}
	return strings.HasPrefix(s, param(p, 0))
}

func evalEndsWith(p *Pattern, actual any) bool {
	s, ok := actual.(string)
	if !ok {
		return false
	}
	return strings.HasSuffix(s, param(p, 0))
}

func evalEqualsIgnoreCase(p *Pattern, actual any) bool {
	s, ok := actual.(string)
	if !ok {
		return false
	}
	return strings.EqualFold(s, param(p, 0))
}

func evalRegex(p *Pattern, actual any) bool {
	s, ok := actual.(string)
	if !ok {
		return false
	}
	re, err := regexp.Compile(param(p, 0))
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// actualAsFloat extracts a float64 from actual, accepting both JSON
// numbers and numeric strings.
func actualAsFloat(actual any) (float64, bool) {
	switch v := actual.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		return parseFloat(v)
	default:
		return 0, false
	}
}
