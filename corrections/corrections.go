// Package corrections analyzes a pattern string that failed to match or
// looks pattern-shaped and produces ranked "did you mean" suggestions.
// It never raises; an unrecognized input simply yields no suggestions.
package corrections

import "sort"

// Confidence ranks how sure an analyzer is about a suggestion.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
)

// Example pairs an incorrect pattern with its corrected form.
type Example struct {
	Incorrect string
	Correct   string
}

// Suggestion is one correction candidate.
type Suggestion struct {
	Message     string
	Confidence  Confidence
	Alternatives []string
	Example     *Example
}

// weight orders suggestions high-confidence first when sorting.
func weight(c Confidence) int {
	if c == High {
		return 2
	}
	return 1
}

// Analyze runs every sub-analyzer against raw and returns at most max
// suggestions, high-confidence first. The sort is stable, so equal
// confidences keep analyzer order (type, operator, regex, unsupported);
// within one analyzer, suggestions drawn from map tables come in no
// defined order.
func Analyze(raw string, max int) []Suggestion {
	var out []Suggestion
	out = append(out, analyzeType(raw)...)
	out = append(out, analyzeOperator(raw)...)
	out = append(out, analyzeRegex(raw)...)
	out = append(out, analyzeUnsupported(raw)...)

	sort.SliceStable(out, func(i, j int) bool {
		return weight(out[i].Confidence) > weight(out[j].Confidence)
	})

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
