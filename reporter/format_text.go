package reporter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/taurgis/mcp-aegis/corrections"
	"github.com/taurgis/mcp-aegis/pattern"
)

// WriteText renders the human-readable modes: normal, verbose, quiet,
// errorsOnly, groupErrors, syntaxOnly and noAnalysis, all composing over
// the same suite/test walk.
func WriteText(w io.Writer, suites []SuiteResult, opts Options) {
	summary := Summarize(suites)

	if opts.Quiet {
		writeSummary(w, summary)
		return
	}

	for _, suite := range suites {
		writeSuite(w, suite, opts)
	}

	if opts.GroupErrors {
		writeGroupedErrors(w, suites, opts)
	}

	fmt.Fprintln(w)
	writeSummary(w, summary)
}

// writeSuite renders one suite's header and per-test table row. In
// errorsOnly mode, passing tests are suppressed entirely; otherwise
// every test gets a row (verbose additionally expands passed rows with
// no extra detail, since there is none to show).
func writeSuite(w io.Writer, suite SuiteResult, opts Options) {
	fmt.Fprintf(w, "%s %s\n", text.Bold.Sprint("▶"), text.FgHiBlue.Sprint(suite.Description))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"", "TEST", "MS"})

	anyRows := false
	for _, test := range suite.Tests {
		if opts.ErrorsOnly && test.Passed {
			continue
		}

		glyph := text.FgHiGreen.Sprint("✓")
		if !test.Passed {
			glyph = text.FgHiRed.Sprint("✗")
		}
		t.AppendRow(table.Row{glyph, test.Description, test.Duration.Milliseconds()})
		anyRows = true

		if !test.Passed {
			writeFailureDetail(w, test, opts)
		}
	}
	if anyRows {
		t.Render()
	}
}

func writeFailureDetail(w io.Writer, test TestResult, opts Options) {
	if test.ErrorMessage != "" && test.Validation == nil && test.StderrCheck == nil {
		fmt.Fprintf(w, "    %s\n", test.ErrorMessage)
		return
	}
	if test.Validation != nil {
		writeValidationErrors(w, test.Validation.Errors, opts)
	}
	if test.StderrCheck != nil {
		writeValidationErrors(w, test.StderrCheck.Errors, opts)
	}
}

// writeValidationErrors prints each ValidationError's path/message and,
// unless noAnalysis suppresses it, up to three CorrectionsAnalyzer
// suggestions. syntaxOnly restricts the block to errors the analyzer
// actually recognizes.
func writeValidationErrors(w io.Writer, errs []pattern.Error, opts Options) {
	for _, e := range errs {
		sugs := corrections.Analyze(fmt.Sprintf("%v", e.Expected), 3)

		if opts.SyntaxOnly && (e.Type != pattern.PatternFailed || len(sugs) == 0) {
			continue
		}

		fmt.Fprintf(w, "    %s %s: %s\n", text.FgHiYellow.Sprint(e.Type), e.Path, e.Message)
		fmt.Fprintf(w, "      expected: %v\n", e.Expected)
		fmt.Fprintf(w, "      actual:   %v\n", e.Actual)

		if opts.NoAnalysis {
			continue
		}
		for _, s := range sugs {
			fmt.Fprintf(w, "      suggestion: %s\n", s.Message)
			if s.Example != nil {
				fmt.Fprintf(w, "        %s -> %s\n", s.Example.Incorrect, s.Example.Correct)
			}
		}
	}
}

func writeSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "%s %d total, %s %d passed, %s %d failed\n",
		text.Bold.Sprint("Summary:"), s.Total,
		text.FgHiGreen.Sprint("✓"), s.Passed,
		text.FgHiRed.Sprint("✗"), s.Failed)
}
