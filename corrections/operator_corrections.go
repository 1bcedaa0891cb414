package corrections

import (
	"regexp"
	"strings"
)

// operatorAliases maps common comparison-operator aliases onto the
// supported numeric kind names.
var operatorAliases = map[string]string{
	"eq":  "equals",
	"ne":  "notEquals",
	"gt":  "greaterThan",
	"lt":  "lessThan",
	"gte": "greaterThanOrEqual",
	"lte": "lessThanOrEqual",
	"==":  "equals",
	"!=":  "notEquals",
	">":   "greaterThan",
	"<":   "lessThan",
	">=":  "greaterThanOrEqual",
	"<=":  "lessThanOrEqual",
}

var commaRangeRe = regexp.MustCompile(`^(between|range):(-?[\d.]+),(-?[\d.]+)$`)

func analyzeOperator(raw string) []Suggestion {
	var out []Suggestion
	body := strings.TrimPrefix(raw, "match:")
	body = strings.TrimPrefix(body, "not:")

	kindPart, _, _ := cutColon(body)
	if right, ok := operatorAliases[kindPart]; ok {
		out = append(out, Suggestion{
			Message:    "\"" + kindPart + "\" is not a recognized operator name",
			Confidence: High,
			Example:    &Example{Incorrect: raw, Correct: strings.Replace(raw, kindPart, right, 1)},
		})
	}

	if m := commaRangeRe.FindStringSubmatch(body); m != nil {
		corrected := "match:" + m[1] + ":" + m[2] + ":" + m[3]
		out = append(out, Suggestion{
			Message:    "range bounds are separated by \":\", not \",\"",
			Confidence: High,
			Example:    &Example{Incorrect: raw, Correct: corrected},
		})
	}

	return out
}

func cutColon(s string) (before, after string, found bool) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+1:], true
}
