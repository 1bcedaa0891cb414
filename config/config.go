// Package config decodes and validates ServerConfig documents. Supported
// on disk as either JSON or YAML, with constructor-style validation and
// gopkg.in/yaml.v3 for the YAML form.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultStartupTimeoutMs = 5000

// ServerConfig describes how to spawn and talk to one MCP server under
// test.
type ServerConfig struct {
	Name    string            `json:"name" yaml:"name"`
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args" yaml:"args"`
	Cwd     string            `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// StartupTimeoutMs is nil when the document omits "startupTimeout"
	// entirely, distinct from an explicit 0. Use EffectiveStartupTimeoutMs
	// to resolve the nil case to the default; an explicit 0 is left as-is,
	// so a ReadyPattern paired with startupTimeout=0 correctly times out
	// immediately instead of silently falling back to the 5s default.
	StartupTimeoutMs *int   `json:"startupTimeout,omitempty" yaml:"startupTimeout,omitempty"`
	ReadyPattern     string `json:"readyPattern,omitempty" yaml:"readyPattern,omitempty"`
}

// EffectiveStartupTimeoutMs returns the configured startup timeout, or the
// default if the document never set one. Callers that need "is this
// genuinely zero" should read StartupTimeoutMs directly instead.
func (cfg *ServerConfig) EffectiveStartupTimeoutMs() int {
	if cfg.StartupTimeoutMs == nil {
		return defaultStartupTimeoutMs
	}
	return *cfg.StartupTimeoutMs
}

// Load reads and validates a ServerConfig from path, dispatching on
// extension (.yaml/.yml → YAML, anything else → JSON).
func Load(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg ServerConfig
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing YAML %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing JSON %s: %w", path, err)
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects missing required fields, wrong types surfaced as
// zero-values, and negative timeouts. Configuration errors abort before
// the server is ever spawned.
func Validate(cfg *ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config: \"name\" is required")
	}
	if strings.TrimSpace(cfg.Command) == "" {
		return fmt.Errorf("config: \"command\" is required")
	}
	if cfg.Args == nil {
		return fmt.Errorf("config: \"args\" is required (use an empty array for no arguments)")
	}
	if cfg.StartupTimeoutMs != nil && *cfg.StartupTimeoutMs < 0 {
		return fmt.Errorf("config: \"startupTimeout\" must not be negative, got %d", *cfg.StartupTimeoutMs)
	}
	if cfg.ReadyPattern != "" {
		if _, err := regexp.Compile(cfg.ReadyPattern); err != nil {
			return fmt.Errorf("config: \"readyPattern\" is not a valid regex: %w", err)
		}
	}
	return nil
}
