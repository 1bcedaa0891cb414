package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/taurgis/mcp-aegis/pattern"
)

func sampleSuites() []SuiteResult {
	failing := pattern.Result{
		Passed: false,
		Errors: []pattern.Error{
			{Type: pattern.PatternFailed, Path: "result.tools", Expected: "match:arrayLenght:3", Actual: []any{1.0}, Message: "value did not match arrayLenght"},
		},
	}
	return []SuiteResult{
		{
			Description: "tools",
			FilePath:    "tools.test.json",
			Tests: []TestResult{
				{Description: "lists tools", Passed: true, Duration: 5 * time.Millisecond},
				{Description: "typo'd pattern", Passed: false, Duration: 3 * time.Millisecond, Validation: &failing},
			},
		},
	}
}

func TestWriteTextNormalShowsBothTests(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleSuites(), Options{})
	out := buf.String()
	if !strings.Contains(out, "lists tools") || !strings.Contains(out, "typo'd pattern") {
		t.Fatalf("expected both tests listed, got:\n%s", out)
	}
}

func TestWriteTextQuietOnlyShowsSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleSuites(), Options{Quiet: true})
	out := buf.String()
	if strings.Contains(out, "lists tools") {
		t.Fatalf("expected quiet mode to suppress test detail, got:\n%s", out)
	}
	if !strings.Contains(out, "Summary") {
		t.Fatal("expected quiet mode to still print the summary")
	}
}

func TestWriteTextErrorsOnlyHidesPassingTests(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleSuites(), Options{ErrorsOnly: true})
	out := buf.String()
	if strings.Contains(out, "lists tools") {
		t.Fatalf("expected errorsOnly to hide the passing test, got:\n%s", out)
	}
	if !strings.Contains(out, "typo'd pattern") {
		t.Fatal("expected the failing test to still be shown")
	}
}

func TestWriteTextNoAnalysisSuppressesSuggestions(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleSuites(), Options{NoAnalysis: true})
	out := buf.String()
	if strings.Contains(out, "suggestion:") {
		t.Fatalf("expected noAnalysis to suppress suggestions, got:\n%s", out)
	}
}

func TestWriteTextIncludesCorrectionSuggestion(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleSuites(), Options{})
	out := buf.String()
	if !strings.Contains(out, "arrayLength") {
		t.Fatalf("expected a correction suggestion for the arrayLenght typo, got:\n%s", out)
	}
}

func TestWriteJSONProducesValidDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSuites(), Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var report jsonReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("expected valid JSON, got error: %v, body: %s", err, buf.String())
	}
	if report.Summary.Total != 2 || report.Summary.Passed != 1 || report.Summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
}

func TestWriteJSONQuietOmitsSuites(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSuites(), Options{Quiet: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var report jsonReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}
	if len(report.Suites) != 0 {
		t.Fatalf("expected quiet JSON to omit suites, got %+v", report.Suites)
	}
}

func TestSummarizeTalliesAcrossSuites(t *testing.T) {
	s := Summarize(sampleSuites())
	if s.Total != 2 || s.Passed != 1 || s.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestWriteGroupedErrorsAggregatesOccurrences(t *testing.T) {
	suites := sampleSuites()
	suites[0].Tests = append(suites[0].Tests, TestResult{
		Description: "second typo",
		Passed:      false,
		Validation: &pattern.Result{
			Passed: false,
			Errors: []pattern.Error{
				{Type: pattern.PatternFailed, Path: "result.tools", Expected: "match:arrayLenght:3", Actual: []any{1.0}, Message: "value did not match arrayLenght"},
			},
		},
	})

	var buf bytes.Buffer
	WriteText(&buf, suites, Options{GroupErrors: true})
	out := buf.String()
	if !strings.Contains(out, "Grouped errors") {
		t.Fatalf("expected a grouped errors section, got:\n%s", out)
	}
	grouped := out[strings.Index(out, "Grouped errors"):]
	if strings.Count(grouped, "match:arrayLenght:3") != 1 {
		t.Fatalf("expected both identical errors rolled into one grouped row, got:\n%s", grouped)
	}
}
