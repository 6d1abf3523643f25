// Package config loads the pipeline descriptor from a YAML file with
// environment variable overrides for values supplied by the CI system.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
)

// DefaultPath is the pipeline descriptor location when SLOWGATE_CONFIG is unset.
const DefaultPath = ".slowgate.yml"

// Config holds the fully resolved pipeline configuration.
type Config struct {
	GitHubToken   string
	Repo          string
	PRNumber      *int // nil for trunk builds
	Threshold     int
	LookupTimeout time.Duration
	DBPath        string

	TestCommand string
	TestArgs    []string
	TestDir     string
	SlowFlag    string
	RequireSlow bool
}

// fileConfig mirrors the YAML pipeline descriptor.
type fileConfig struct {
	Repo      string `yaml:"repo"`
	Approvals struct {
		Threshold     int    `yaml:"threshold"`
		LookupTimeout string `yaml:"lookup_timeout"`
	} `yaml:"approvals"`
	Tests struct {
		Command     string   `yaml:"command"`
		Args        []string `yaml:"args"`
		Dir         string   `yaml:"dir"`
		SlowFlag    string   `yaml:"slow_flag"`
		RequireSlow bool     `yaml:"require_slow"`
	} `yaml:"tests"`
	Audit struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"audit"`
}

// ChangeRequest returns the change under test as a domain value.
func (c *Config) ChangeRequest() model.ChangeRequest {
	return model.ChangeRequest{Repo: c.Repo, Number: c.PRNumber}
}

// RunSpec returns the test invocation described by the configuration.
func (c *Config) RunSpec() model.RunSpec {
	return model.RunSpec{
		Command:  c.TestCommand,
		Args:     c.TestArgs,
		SlowFlag: c.SlowFlag,
		Dir:      c.TestDir,
	}
}

// Load reads the YAML descriptor at path (or DefaultPath when path is empty)
// and applies environment overrides. The CI system supplies the change
// request number via SLOWGATE_CHANGE_REQUEST; when that variable is absent
// or empty the run is treated as a trunk build. Other overrides:
// SLOWGATE_GITHUB_TOKEN, SLOWGATE_REPO, SLOWGATE_APPROVAL_THRESHOLD,
// SLOWGATE_LOOKUP_TIMEOUT, SLOWGATE_DB_PATH, SLOWGATE_REQUIRE_SLOW.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
		if v, ok := os.LookupEnv("SLOWGATE_CONFIG"); ok && v != "" {
			path = v
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline descriptor %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse pipeline descriptor %s: %w", path, err)
	}

	cfg := &Config{
		GitHubToken:   os.Getenv("SLOWGATE_GITHUB_TOKEN"),
		Repo:          fc.Repo,
		Threshold:     fc.Approvals.Threshold,
		LookupTimeout: 30 * time.Second,
		DBPath:        fc.Audit.DBPath,
		TestCommand:   fc.Tests.Command,
		TestArgs:      fc.Tests.Args,
		TestDir:       fc.Tests.Dir,
		SlowFlag:      fc.Tests.SlowFlag,
		RequireSlow:   fc.Tests.RequireSlow,
	}

	if cfg.Threshold == 0 {
		cfg.Threshold = 2
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "slowgate.db"
	}

	if fc.Approvals.LookupTimeout != "" {
		parsed, err := time.ParseDuration(fc.Approvals.LookupTimeout)
		if err != nil {
			return nil, fmt.Errorf("approvals.lookup_timeout has invalid duration %q: %w", fc.Approvals.LookupTimeout, err)
		}
		cfg.LookupTimeout = parsed
	}

	if v, ok := os.LookupEnv("SLOWGATE_REPO"); ok && v != "" {
		cfg.Repo = v
	}

	if v, ok := os.LookupEnv("SLOWGATE_CHANGE_REQUEST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SLOWGATE_CHANGE_REQUEST has invalid change request number %q", v)
		}
		cfg.PRNumber = &n
	}

	if v, ok := os.LookupEnv("SLOWGATE_APPROVAL_THRESHOLD"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("SLOWGATE_APPROVAL_THRESHOLD has invalid value %q", v)
		}
		cfg.Threshold = n
	}

	if v, ok := os.LookupEnv("SLOWGATE_LOOKUP_TIMEOUT"); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SLOWGATE_LOOKUP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		cfg.LookupTimeout = parsed
	}

	if v, ok := os.LookupEnv("SLOWGATE_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("SLOWGATE_REQUIRE_SLOW"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SLOWGATE_REQUIRE_SLOW has invalid value %q", v)
		}
		cfg.RequireSlow = parsed
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateTests checks the parts of the configuration only the test-running
// path needs. decide and audit work without a test command.
func (cfg *Config) ValidateTests() error {
	if cfg.TestCommand == "" {
		return fmt.Errorf("tests.command is required")
	}
	return nil
}

func (cfg *Config) validate() error {
	if cfg.PRNumber != nil && cfg.Repo == "" {
		return fmt.Errorf("repo is required when SLOWGATE_CHANGE_REQUEST is set")
	}
	if cfg.PRNumber != nil && cfg.GitHubToken == "" {
		return fmt.Errorf("SLOWGATE_GITHUB_TOKEN is required when SLOWGATE_CHANGE_REQUEST is set")
	}
	return nil
}
