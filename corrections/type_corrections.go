package corrections

import (
	"regexp"
	"strings"
)

// capitalizedJSTypes maps capitalized/boxed JS type names to the lowercase
// primitive names the pattern engine expects.
var capitalizedJSTypes = map[string]string{
	"String":  "string",
	"Number":  "number",
	"Boolean": "boolean",
	"Object":  "object",
	"Array":   "array",
	"Function": "function",
	"Undefined": "undefined",
	"Null":    "null",
}

// otherLanguageTypeNames maps type vocabulary from other ecosystems
// (Java, SQL, ...) onto the supported type kind.
var otherLanguageTypeNames = map[string]string{
	"List":      "array",
	"ArrayList": "array",
	"Map":       "object",
	"Dict":      "object",
	"varchar":   "string",
	"text":      "string",
	"int":       "number",
	"integer":   "number",
	"float":     "number",
	"double":    "number",
	"bool":      "boolean",
}

// tsTypeNames maps TypeScript-ism types to the nearest pattern kind.
var tsTypeNames = map[string]string{
	"any":   "exists",
	"void":  "type:undefined",
	"never": "not:exists",
}

// commonMisspellings catches frequent typos of real kind names.
var commonMisspellings = map[string]string{
	"arrayLenght":  "arrayLength",
	"lenght":       "length",
	"aproximately": "approximately",
	"startWith":    "startsWith",
	"endWith":      "endsWith",
	"contain":      "contains",
	"regexp":       "regex",
}

var quotedValueRe = regexp.MustCompile(`^"(.+)"$`)

func analyzeType(raw string) []Suggestion {
	var out []Suggestion
	body := strings.TrimPrefix(raw, "match:")
	hasPrefix := strings.HasPrefix(raw, "match:")

	if !hasPrefix && looksLikeBareKindName(raw) {
		out = append(out, Suggestion{
			Message:    "pattern strings must start with \"match:\"",
			Confidence: High,
			Example:    &Example{Incorrect: raw, Correct: "match:" + raw},
		})
	}

	// Only the kind name, and the type name after "type:", are compared,
	// and only as whole tokens, so "contains" never trips on "contain".
	kind, rest, _ := cutColon(strings.TrimPrefix(body, "not:"))
	tokens := []string{kind}
	if kind == "type" {
		typeName, _, _ := cutColon(rest)
		tokens = append(tokens, typeName)
	}

	for _, m := range []map[string]string{capitalizedJSTypes, otherLanguageTypeNames, tsTypeNames, commonMisspellings} {
		for wrong, right := range m {
			if tokens[0] == wrong || (len(tokens) > 1 && tokens[1] == wrong) {
				corrected := strings.Replace(raw, wrong, right, 1)
				out = append(out, Suggestion{
					Message:    "\"" + wrong + "\" is not a recognized type name",
					Confidence: High,
					Example:    &Example{Incorrect: raw, Correct: corrected},
				})
			}
		}
	}

	if strings.Contains(body, "typeof:") || strings.Contains(body, "instanceof:") {
		out = append(out, Suggestion{
			Message:    "use \"type:<name>\", not typeof:/instanceof: checks",
			Confidence: Medium,
			Example:    &Example{Incorrect: raw, Correct: "match:type:string"},
		})
	}

	if strings.Contains(body, "isArray") {
		out = append(out, Suggestion{
			Message:    "use \"type:array\" instead of isArray",
			Confidence: High,
			Example:    &Example{Incorrect: raw, Correct: "match:type:array"},
		})
	}

	if m := quotedValueRe.FindStringSubmatch(body); m != nil {
		out = append(out, Suggestion{
			Message:    "type names are not quoted",
			Confidence: Medium,
			Example:    &Example{Incorrect: raw, Correct: "match:" + m[1]},
		})
	}

	return out
}

func looksLikeBareKindName(raw string) bool {
	for _, kind := range []string{"type:", "contains:", "arrayLength:", "between:", "regex:"} {
		if strings.HasPrefix(raw, kind) {
			return true
		}
	}
	return false
}
