// Copyright 2026 Chainborn
//
// Process configuration for the license validator core.
// Environment variables supply the baseline; an optional YAML file
// (see yaml_config.go) can override static deployment-time knobs.

package vconfig

import (
	"os"
	"strconv"
	"time"
)

// Config holds the process-level settings the validator core needs to
// wire its components. It has no opinion on how the embedding application
// configures itself otherwise.
type Config struct {
	// Policy Store
	PolicyDir string

	// Proof Envelope Loader
	DefaultProofPath string

	// Validation Cache
	CacheDir        string
	CacheMaxEntries int

	// Audit Trail Store (optional; empty DSN disables it)
	AuditDatabaseURL string

	// Validation Metrics
	MetricsEnabled bool
	MetricsAddr    string

	// Result Mirror (optional; disabled unless FirestoreEnabled)
	FirestoreEnabled        bool
	FirebaseProjectID       string
	FirebaseCredentialsFile string

	// Binding Collector
	BindingEnvPrefix string

	// Verifier Gateway (sidecar backend only)
	VerifierTimeout time.Duration

	LogLevel string
}

// Load reads configuration from environment variables. It performs no
// validation; the core tolerates zero values by falling back to degraded
// modes (see pkg/cache, pkg/audit).
func Load() *Config {
	return &Config{
		PolicyDir:        getEnv("CHAINBORN_POLICY_DIR", "/etc/chainborn/policies"),
		DefaultProofPath: getEnv("CHAINBORN_PROOF_PATH", "/etc/chainborn/proof.json"),

		CacheDir:        getEnv("CHAINBORN_CACHE_DIR", "/var/lib/chainborn/cache"),
		CacheMaxEntries: getEnvInt("CHAINBORN_CACHE_MAX_ENTRIES", 100),

		AuditDatabaseURL: getEnv("CHAINBORN_AUDIT_DATABASE_URL", ""),

		MetricsEnabled: getEnvBool("CHAINBORN_METRICS_ENABLED", false),
		MetricsAddr:    getEnv("CHAINBORN_METRICS_ADDR", ":9090"),

		FirestoreEnabled:        getEnvBool("CHAINBORN_FIRESTORE_ENABLED", false),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		BindingEnvPrefix: getEnv("CHAINBORN_BINDING_PREFIX", "CHAINBORN_BINDING_"),

		VerifierTimeout: getEnvDuration("CHAINBORN_VERIFIER_TIMEOUT", 5*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
