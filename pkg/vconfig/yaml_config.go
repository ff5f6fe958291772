// Copyright 2026 Chainborn
//
// Optional YAML override file for static deployment-time settings.
// Mirrors the ${VAR:-default} substitution the rest of this codebase's
// ancestry used for its own YAML configuration.

package vconfig

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// FileOverrides is the subset of Config that may be supplied by a static
// YAML file instead of (or in addition to) environment variables. Fields
// left unset in the file do not override the environment-derived value.
type FileOverrides struct {
	PolicyDir        string        `yaml:"policyDir"`
	CacheDir         string        `yaml:"cacheDir"`
	CacheMaxEntries  int           `yaml:"cacheMaxEntries"`
	MetricsAddr      string        `yaml:"metricsAddr"`
	MetricsEnabled   *bool         `yaml:"metricsEnabled"`
	FirestoreEnabled *bool         `yaml:"firestoreEnabled"`
	VerifierTimeout  Duration      `yaml:"verifierTimeout"`
}

// Duration wraps time.Duration for YAML unmarshaling of "5m"-style values.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// LoadFileOverrides reads an optional YAML overrides file. A missing file
// is not an error: it means the deployment relies on environment variables
// and built-in defaults only.
func LoadFileOverrides(path string) (*FileOverrides, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &FileOverrides{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var overrides FileOverrides
	if err := yaml.Unmarshal([]byte(expanded), &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &overrides, nil
}

// Apply merges non-zero override fields into cfg.
func (o *FileOverrides) Apply(cfg *Config) {
	if o == nil {
		return
	}
	if o.PolicyDir != "" {
		cfg.PolicyDir = o.PolicyDir
	}
	if o.CacheDir != "" {
		cfg.CacheDir = o.CacheDir
	}
	if o.CacheMaxEntries > 0 {
		cfg.CacheMaxEntries = o.CacheMaxEntries
	}
	if o.MetricsAddr != "" {
		cfg.MetricsAddr = o.MetricsAddr
	}
	if o.MetricsEnabled != nil {
		cfg.MetricsEnabled = *o.MetricsEnabled
	}
	if o.FirestoreEnabled != nil {
		cfg.FirestoreEnabled = *o.FirestoreEnabled
	}
	if o.VerifierTimeout.Duration() > 0 {
		cfg.VerifierTimeout = o.VerifierTimeout.Duration()
	}
}

// ConfigFilePath returns the YAML overrides path from the environment, or
// "" if none was set.
func ConfigFilePath() string {
	return os.Getenv("CHAINBORN_CONFIG_FILE")
}
