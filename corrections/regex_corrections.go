package corrections

import (
	"regexp"
	"strings"
)

var doubleEscapedDigitRe = regexp.MustCompile(`\\\\[dDwWsS]`)

var posixClasses = map[string]string{
	"[[:digit:]]": "[0-9]",
	"[[:alpha:]]": "[a-zA-Z]",
	"[[:alnum:]]": "[a-zA-Z0-9]",
	"[[:space:]]": "\\s",
	"[[:upper:]]": "[A-Z]",
	"[[:lower:]]": "[a-z]",
}

var redundantQuantifierRe = regexp.MustCompile(`\{1,\}`)
var flagSuffixRe = regexp.MustCompile(`^/(.*)/([a-z]*)$`)
var regexAliasRe = regexp.MustCompile(`^(regexp|re|pattern):(.+)$`)

var templateSuggestions = map[string]string{
	"email":     `match:regex:^[^\s@]+@[^\s@]+\.[^\s@]+$`,
	"uuid":      `match:regex:^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`,
	"version":   `match:regex:^\d+\.\d+\.\d+$`,
	"timestamp": `match:dateFormat:iso`,
}

func analyzeRegex(raw string) []Suggestion {
	var out []Suggestion
	if !strings.Contains(raw, "regex:") && !regexAliasRe.MatchString(strings.TrimPrefix(raw, "match:")) {
		return out
	}

	body := strings.TrimPrefix(raw, "match:")

	if m := regexAliasRe.FindStringSubmatch(body); m != nil {
		out = append(out, Suggestion{
			Message:    "\"" + m[1] + "\" is not a recognized pattern kind, use \"regex\"",
			Confidence: High,
			Example:    &Example{Incorrect: raw, Correct: "match:regex:" + m[2]},
		})
	}

	idx := strings.Index(body, "regex:")
	if idx >= 0 {
		expr := body[idx+len("regex:"):]

		if doubleEscapedDigitRe.MatchString(expr) {
			fixed := strings.ReplaceAll(expr, `\\`, `\`)
			out = append(out, Suggestion{
				Message:    "regex is double-escaped",
				Confidence: High,
				Example:    &Example{Incorrect: raw, Correct: "match:regex:" + fixed},
			})
		}

		if strings.HasPrefix(expr, `"`) && strings.HasSuffix(expr, `"`) && len(expr) >= 2 {
			out = append(out, Suggestion{
				Message:    "regex parameters are not quoted",
				Confidence: Medium,
				Example:    &Example{Incorrect: raw, Correct: "match:regex:" + expr[1:len(expr)-1]},
			})
		}

		for wrong, right := range posixClasses {
			if strings.Contains(expr, wrong) {
				out = append(out, Suggestion{
					Message:    "POSIX class " + wrong + " is not supported by the regex engine",
					Confidence: Medium,
					Example:    &Example{Incorrect: raw, Correct: "match:regex:" + strings.Replace(expr, wrong, right, 1)},
				})
			}
		}

		if redundantQuantifierRe.MatchString(expr) {
			fixed := redundantQuantifierRe.ReplaceAllString(expr, "+")
			out = append(out, Suggestion{
				Message:    "{1,} is equivalent to +",
				Confidence: Medium,
				Example:    &Example{Incorrect: raw, Correct: "match:regex:" + fixed},
			})
		}

		if m := flagSuffixRe.FindStringSubmatch(expr); m != nil {
			inline := expr
			if strings.Contains(m[2], "i") {
				inline = "(?i)" + m[1]
			} else {
				inline = m[1]
			}
			out = append(out, Suggestion{
				Message:    "/pattern/flags syntax is not supported; use inline flag groups",
				Confidence: Medium,
				Example:    &Example{Incorrect: raw, Correct: "match:regex:" + inline},
			})
		}

		if !strings.HasPrefix(expr, "^") && !strings.Contains(expr, "|") {
			out = append(out, Suggestion{
				Message:    "pattern is unanchored; add ^ and $ if a literal match is intended",
				Confidence: Medium,
			})
		}

		if openCloseMismatch(expr) {
			out = append(out, Suggestion{
				Message:    "regex has unbalanced brackets or parentheses",
				Confidence: High,
			})
		}
	}

	for name, suggestion := range templateSuggestions {
		if strings.Contains(strings.ToLower(raw), name+":") {
			out = append(out, Suggestion{
				Message:     "use a dedicated regex for " + name + " validation",
				Confidence:  Medium,
				Alternatives: []string{suggestion},
				Example:     &Example{Incorrect: raw, Correct: suggestion},
			})
		}
	}

	return out
}

func openCloseMismatch(expr string) bool {
	depthParen, depthBracket := 0, 0
	for _, r := range expr {
		switch r {
		case '(':
			depthParen++
		case ')':
			depthParen--
		case '[':
			depthBracket++
		case ']':
			depthBracket--
		}
		if depthParen < 0 || depthBracket < 0 {
			return true
		}
	}
	return depthParen != 0 || depthBracket != 0
}
