// Package testspec decodes test suite files into Tests and Suites.
package testspec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expect is the assertion half of a Test.
type Expect struct {
	Response any    `json:"response,omitempty" yaml:"response,omitempty"`
	Stderr   string `json:"stderr,omitempty" yaml:"stderr,omitempty"`
}

// Test is one request/expectation pair. Request is kept as a raw map so
// arbitrary JSON-RPC params round-trip untouched.
type Test struct {
	Description string         `json:"description" yaml:"description"`
	It          string         `json:"it,omitempty" yaml:"it,omitempty"`
	Request     map[string]any `json:"request" yaml:"request"`
	Expect      Expect         `json:"expect" yaml:"expect"`
}

// Name resolves the test's display name: "description" is canonical,
// "it" is accepted as an alias.
func (t Test) Name() string {
	if t.Description != "" {
		return t.Description
	}
	return t.It
}

// Suite is a named collection of Tests loaded from one file.
type Suite struct {
	Description string `json:"description" yaml:"description"`
	FilePath    string `json:"-" yaml:"-"`
	Tests       []Test `json:"tests" yaml:"tests"`
}

// Load reads and decodes one suite file, dispatching on extension.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testspec: reading %s: %w", path, err)
	}

	var suite Suite
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("testspec: parsing YAML %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("testspec: parsing JSON %s: %w", path, err)
		}
	}

	suite.FilePath = path
	if err := Validate(&suite); err != nil {
		return nil, err
	}
	return &suite, nil
}

// LoadAll resolves each glob pattern in patterns (via filepath.Glob) and
// loads every matching file as a Suite, in matched order.
func LoadAll(patterns []string) ([]*Suite, error) {
	var suites []*Suite
	seen := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("testspec: invalid glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("testspec: glob %q matched no files", pattern)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true
			suite, err := Load(path)
			if err != nil {
				return nil, err
			}
			suites = append(suites, suite)
		}
	}
	return suites, nil
}

// Validate rejects structurally invalid suites before a run starts.
func Validate(s *Suite) error {
	if len(s.Tests) == 0 {
		return fmt.Errorf("testspec: %s declares no tests", s.FilePath)
	}
	for i, test := range s.Tests {
		if test.Name() == "" {
			return fmt.Errorf("testspec: %s: test %d has no description", s.FilePath, i)
		}
		if test.Request == nil {
			return fmt.Errorf("testspec: %s: test %q has no request", s.FilePath, test.Name())
		}
	}
	return nil
}
