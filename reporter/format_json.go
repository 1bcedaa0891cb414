package reporter

import (
	"encoding/json"
	"io"
	"time"

	"github.com/taurgis/mcp-aegis/pattern"
)

type jsonTestResult struct {
	Description  string          `json:"description"`
	Passed       bool            `json:"passed"`
	DurationMs   int64           `json:"durationMs"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	Validation   *jsonValidation `json:"validation,omitempty"`
}

type jsonValidation struct {
	Passed bool            `json:"passed"`
	Errors []pattern.Error `json:"errors,omitempty"`
}

type jsonSuiteResult struct {
	Description string           `json:"description"`
	FilePath    string           `json:"filePath"`
	Tests       []jsonTestResult `json:"tests"`
}

type jsonSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

type jsonPerformance struct {
	TotalDurationMs int64 `json:"totalDurationMs"`
}

type jsonReport struct {
	Summary     jsonSummary       `json:"summary"`
	Performance jsonPerformance   `json:"performance"`
	Suites      []jsonSuiteResult `json:"suites,omitempty"`
}

// WriteJSON renders the §4.9 "JSON" mode: {summary, performance, suites[]}.
// In Quiet mode, suites are omitted and only the summary/performance are
// emitted.
func WriteJSON(w io.Writer, suites []SuiteResult, opts Options) error {
	summary := Summarize(suites)
	report := jsonReport{
		Summary:     jsonSummary{Total: summary.Total, Passed: summary.Passed, Failed: summary.Failed},
		Performance: jsonPerformance{TotalDurationMs: totalDuration(suites).Milliseconds()},
	}

	if !opts.Quiet {
		for _, suite := range suites {
			js := jsonSuiteResult{Description: suite.Description, FilePath: suite.FilePath}
			for _, test := range suite.Tests {
				if opts.ErrorsOnly && test.Passed {
					continue
				}
				jt := jsonTestResult{
					Description:  test.Description,
					Passed:       test.Passed,
					DurationMs:   test.Duration.Milliseconds(),
					ErrorMessage: test.ErrorMessage,
				}
				if test.Validation != nil && !opts.NoAnalysis {
					jt.Validation = &jsonValidation{Passed: test.Validation.Passed, Errors: test.Validation.Errors}
				}
				js.Tests = append(js.Tests, jt)
			}
			report.Suites = append(report.Suites, js)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func totalDuration(suites []SuiteResult) time.Duration {
	var total time.Duration
	for _, suite := range suites {
		for _, test := range suite.Tests {
			total += test.Duration
		}
	}
	return total
}
