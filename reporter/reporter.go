// Package reporter formats executor outcomes for human and machine
// consumption, using jedib0t/go-pretty/v6/table for the tabular
// human-readable modes.
package reporter

import (
	"time"

	"github.com/taurgis/mcp-aegis/executor"
	"github.com/taurgis/mcp-aegis/pattern"
)

// TestResult is one test's recorded outcome.
type TestResult struct {
	Description string
	Passed      bool
	Duration    time.Duration
	ErrorMessage string
	Validation  *pattern.Result
	StderrCheck *pattern.Result
}

// SuiteResult groups the TestResults produced from one suite file.
type SuiteResult struct {
	Description string
	FilePath    string
	Tests       []TestResult
}

// Summary is the run-level pass/fail tally.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// FromOutcome adapts an executor.Outcome into a reporter.TestResult.
func FromOutcome(o executor.Outcome) TestResult {
	return TestResult{
		Description:  o.Description,
		Passed:       o.Passed,
		Duration:     o.Duration,
		ErrorMessage: o.ErrorMessage,
		Validation:   o.Validation,
		StderrCheck:  o.StderrCheck,
	}
}

// Summarize tallies every test across every suite.
func Summarize(suites []SuiteResult) Summary {
	var s Summary
	for _, suite := range suites {
		for _, test := range suite.Tests {
			s.Total++
			if test.Passed {
				s.Passed++
			} else {
				s.Failed++
			}
		}
	}
	return s
}

// Options selects the reporter's output mode and filtering behavior.
type Options struct {
	Verbose     bool
	Quiet       bool
	JSON        bool
	ErrorsOnly  bool
	SyntaxOnly  bool
	NoAnalysis  bool
	GroupErrors bool
	MaxErrors   int
}

// allErrors flattens every ValidationError across every suite/test,
// tagging each with the owning test's description for grouping.
type taggedError struct {
	pattern.Error
	TestDescription string
	SuitePath       string
}

func collectErrors(suites []SuiteResult) []taggedError {
	var out []taggedError
	for _, suite := range suites {
		for _, test := range suite.Tests {
			if test.Validation != nil {
				for _, e := range test.Validation.Errors {
					out = append(out, taggedError{Error: e, TestDescription: test.Description, SuitePath: suite.FilePath})
				}
			}
			if test.StderrCheck != nil {
				for _, e := range test.StderrCheck.Errors {
					out = append(out, taggedError{Error: e, TestDescription: test.Description, SuitePath: suite.FilePath})
				}
			}
		}
	}
	return out
}
