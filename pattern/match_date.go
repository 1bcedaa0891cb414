package pattern

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// parseDateValue accepts either an ISO-8601 string or an epoch-millis
// number, returning UTC time.
func parseDateValue(actual any) (time.Time, bool) {
	switch v := actual.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	default:
		return time.Time{}, false
	}
}

func evalDateValid(actual any) bool {
	_, ok := parseDateValue(actual)
	return ok
}

func evalDateAfter(p *Pattern, actual any) bool {
	a, ok := parseDateValue(actual)
	if !ok {
		return false
	}
	ref, ok := parseDateValue(param(p, 0))
	if !ok {
		return false
	}
	return a.After(ref)
}

func evalDateBefore(p *Pattern, actual any) bool {
	a, ok := parseDateValue(actual)
	if !ok {
		return false
	}
	ref, ok := parseDateValue(param(p, 0))
	if !ok {
		return false
	}
	return a.Before(ref)
}

func evalDateBetween(p *Pattern, actual any) bool {
	a, ok := parseDateValue(actual)
	if !ok {
		return false
	}
	lo, ok := parseDateValue(param(p, 0))
	if !ok {
		return false
	}
	hi, ok := parseDateValue(param(p, 1))
	if !ok {
		return false
	}
	return !a.Before(lo) && !a.After(hi)
}

func evalDateEquals(p *Pattern, actual any) bool {
	a, ok := parseDateValue(actual)
	if !ok {
		return false
	}
	ref, ok := parseDateValue(param(p, 0))
	if !ok {
		return false
	}
	return a.Equal(ref)
}

// durationPattern parses "<n>d|h|m|s" shorthand durations, e.g. "1d".
var durationPattern = regexp.MustCompile(`^(\d+)(d|h|m|s)$`)

func evalDateAge(p *Pattern, actual any) bool {
	a, ok := parseDateValue(actual)
	if !ok {
		return false
	}
	d, ok := parseAgeDuration(param(p, 0))
	if !ok {
		return false
	}
	age := time.Since(a)
	return age >= 0 && age <= d
}

func parseAgeDuration(s string) (time.Duration, bool) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "d":
		return time.Duration(n) * 24 * time.Hour, true
	case "h":
		return time.Duration(n) * time.Hour, true
	case "m":
		return time.Duration(n) * time.Minute, true
	case "s":
		return time.Duration(n) * time.Second, true
	default:
		return 0, false
	}
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?)?`)

// splitDateRangeParams splits a "dateBetween:<lo>:<hi>" param string into
// its two ISO-8601 halves. A naive strings.Split breaks because ISO
// timestamps embed ":" themselves (spec's parameter grammar does not
// resolve this); this anchors the first ISO-shaped token, consumes the
// single separating colon, and takes the remainder as the second token.
func splitDateRangeParams(s string) (lo, hi string, ok bool) {
	loc := isoDateRe.FindString(s)
	if loc == "" {
		return "", "", false
	}
	rest := strings.TrimPrefix(s, loc)
	if !strings.HasPrefix(rest, ":") {
		return "", "", false
	}
	hiCandidate := strings.TrimPrefix(rest, ":")
	if hiCandidate == "" {
		return "", "", false
	}
	return loc, hiCandidate, true
}

func evalDateFormat(p *Pattern, actual any) bool {
	s, ok := actual.(string)
	if !ok {
		return false
	}
	switch strings.ToLower(param(p, 0)) {
	case "iso", "iso8601":
		_, err := time.Parse(time.RFC3339Nano, s)
		if err == nil {
			return true
		}
		_, err = time.Parse(time.RFC3339, s)
		return err == nil
	case "us":
		_, err := time.Parse("01/02/2006", s)
		return err == nil
	case "eu":
		_, err := time.Parse("02/01/2006", s)
		return err == nil
	case "date":
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	default:
		return false
	}
}
