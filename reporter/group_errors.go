package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/taurgis/mcp-aegis/pattern"
)

// errorWeight orders "top recommendations" by severity: syntax >
// structural removal > type/missing-field > pattern-syntax generic >
// length/string > partial-match > other.
func errorWeight(e pattern.Error) int {
	switch {
	case e.Suggestion != "" && e.PatternType != "":
		return 10
	case e.Type == pattern.ExtraField:
		return 8
	case e.Type == pattern.TypeMismatch || e.Type == pattern.MissingField:
		return 7
	case e.Type == pattern.PatternFailed:
		return 6
	case e.Type == pattern.LengthMismatch:
		return 5
	case e.PatternType == "partial":
		return 3
	default:
		return 1
	}
}

type groupKey struct {
	errType  pattern.ErrorType
	expected string
}

type errorGroup struct {
	key            groupKey
	occurrences    int
	affectedTests  map[string]bool
	samplePaths    []string
	structuralName string
	weight         int
}

// writeGroupedErrors aggregates identical (type, expected) errors across
// every test in every suite, with special roll-up for
// missing_field/extra_field by field name, and truncates to
// opts.MaxErrors when positive.
func writeGroupedErrors(w io.Writer, suites []SuiteResult, opts Options) {
	tagged := collectErrors(suites)
	if len(tagged) == 0 {
		return
	}

	groups := map[groupKey]*errorGroup{}
	var order []groupKey

	for _, te := range tagged {
		key := groupKey{errType: te.Type, expected: fmt.Sprintf("%v", te.Expected)}
		g, ok := groups[key]
		if !ok {
			g = &errorGroup{key: key, affectedTests: map[string]bool{}, weight: errorWeight(te.Error)}
			groups[key] = g
			order = append(order, key)
		}
		g.occurrences++
		g.affectedTests[te.TestDescription] = true
		if len(g.samplePaths) < 5 {
			g.samplePaths = append(g.samplePaths, te.Path)
		}
		if te.Type == pattern.MissingField || te.Type == pattern.ExtraField {
			g.structuralName = te.Path
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].weight > groups[order[j]].weight
	})

	if opts.MaxErrors > 0 && len(order) > opts.MaxErrors {
		order = order[:opts.MaxErrors]
	}

	fmt.Fprintf(w, "\n%s\n", text.Bold.Sprint("Grouped errors"))
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"TYPE", "EXPECTED", "OCCURRENCES", "TESTS AFFECTED", "SAMPLE PATHS"})

	for _, key := range order {
		g := groups[key]
		label := key.expected
		if g.structuralName != "" {
			label = fmt.Sprintf("field roll-up: %s (%d extra/missing fields)", g.structuralName, g.occurrences)
		}
		t.AppendRow(table.Row{key.errType, label, g.occurrences, len(g.affectedTests), sampleList(g.samplePaths)})
	}
	t.Render()
}

func sampleList(paths []string) string {
	out := ""
	for i, p := range paths {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
