package corrections

import "strings"

// unsupportedFeature describes a pattern kind that looks plausible but
// was never implemented.
type unsupportedFeature struct {
	name         string
	alternatives []string
	example      Example
}

var unsupportedFeatures = []unsupportedFeature{
	{
		name:         "email",
		alternatives: []string{"match:regex:<email-pattern>", "match:contains:@"},
		example:      Example{Incorrect: "match:email:", Correct: `match:regex:^[^\s@]+@[^\s@]+\.[^\s@]+$`},
	},
	{
		name:         "uuid",
		alternatives: []string{"match:regex:<uuid-pattern>"},
		example:      Example{Incorrect: "match:uuid:", Correct: `match:regex:^[0-9a-f-]{36}$`},
	},
	{
		name:         "jwt",
		alternatives: []string{"match:regex:<jwt-pattern>"},
		example:      Example{Incorrect: "match:jwt:", Correct: `match:regex:^[\w-]+\.[\w-]+\.[\w-]+$`},
	},
	{
		name:         "httpStatus",
		alternatives: []string{"match:between:200:299", "match:equals:<code>"},
		example:      Example{Incorrect: "match:httpStatus:ok", Correct: "match:between:200:299"},
	},
	{
		name:         "positive",
		alternatives: []string{"match:greaterThan:0"},
		example:      Example{Incorrect: "match:positive:", Correct: "match:greaterThan:0"},
	},
	{
		name:         "negative",
		alternatives: []string{"match:lessThan:0"},
		example:      Example{Incorrect: "match:negative:", Correct: "match:lessThan:0"},
	},
	{
		name:         "even",
		alternatives: []string{"match:multipleOf:2"},
		example:      Example{Incorrect: "match:even:", Correct: "match:multipleOf:2"},
	},
	{
		name:         "odd",
		alternatives: []string{"match:not:multipleOf:2"},
		example:      Example{Incorrect: "match:odd:", Correct: "match:not:multipleOf:2"},
	},
	{
		name:         "prime",
		alternatives: []string{"a custom length/regex check; primality is not modeled"},
		example:      Example{Incorrect: "match:prime:", Correct: "match:type:number"},
	},
	{
		name:         "empty",
		alternatives: []string{"match:length:0", "match:arrayLength:0"},
		example:      Example{Incorrect: "match:empty:", Correct: "match:length:0"},
	},
}

func analyzeUnsupported(raw string) []Suggestion {
	var out []Suggestion
	body := strings.TrimPrefix(raw, "match:")
	body = strings.TrimPrefix(body, "not:")
	kind, _, _ := cutColon(body)

	for _, f := range unsupportedFeatures {
		if kind == f.name {
			out = append(out, Suggestion{
				Message:      "\"" + f.name + "\" is not a supported pattern kind",
				Confidence:   High,
				Alternatives: f.alternatives,
				Example:      &f.example,
			})
		}
	}
	return out
}
