// Package config provides configuration management for the geometry proof
// grading server.
//
// Configuration can be loaded from multiple sources (in order of precedence):
// 1. Environment variables (highest priority)
// 2. Configuration file (JSON or YAML)
// 3. Default values (lowest priority)
//
// Feature flags gate how tolerant the grading core is of imperfect student
// input, and the grading section pins the deduction-confidence floor the
// grader applies to every deduction.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete server configuration.
type Config struct {
	// Server settings
	Server ServerConfig `json:"server" yaml:"server"`

	// Grading settings
	Grading GradingConfig `json:"grading" yaml:"grading"`

	// Feature flags
	Features FeatureFlags `json:"features" yaml:"features"`

	// Logging settings
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ServerConfig contains server-level configuration.
type ServerConfig struct {
	// Name of the server (for logging/identification)
	Name string `json:"name" yaml:"name"`

	// Version of the server
	Version string `json:"version" yaml:"version"`

	// Environment (development, staging, production)
	Environment string `json:"environment" yaml:"environment"`
}

// GradingConfig contains grading-run tuning options.
type GradingConfig struct {
	// ConfidenceFloor is the minimum per-deduction confidence the grader
	// will act on; anything lower is dropped before the total_points
	// computation.
	ConfidenceFloor float64 `json:"confidence_floor" yaml:"confidence_floor"`

	// MaxStepsPerSolution bounds how many steps a single Grade call will
	// accept (0 = unlimited).
	MaxStepsPerSolution int `json:"max_steps_per_solution" yaml:"max_steps_per_solution"`

	// SimilarityThreshold is the minimum Ratcliff-Obershelp ratio the
	// theorem name matcher's similarity tier requires before accepting a
	// match.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
}

// FeatureFlags controls which grading behaviors are enabled.
type FeatureFlags struct {
	// StrictTheoremMatching disables the keyword-overlap and similarity
	// tiers of the theorem name matcher, accepting only exact and
	// substring resolutions.
	StrictTheoremMatching bool `json:"strict_theorem_matching" yaml:"strict_theorem_matching"`

	// AllowAssumptionFallback is loaded, validated and reported by
	// IsFeatureEnabled, but the step verifier does not read it: the S4/S7
	// assumption paths run whatever its value.
	AllowAssumptionFallback bool `json:"allow_assumption_fallback" yaml:"allow_assumption_fallback"`

	// EnableGoalStringInference turns on the string-level goal match
	// fallback (original_source's _infer_goal_equal_from_claims) when the
	// equation-system lookup alone does not resolve a Value goal.
	EnableGoalStringInference bool `json:"enable_goal_string_inference" yaml:"enable_goal_string_inference"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level sets the logging level (debug, info, warn, error)
	Level string `json:"level" yaml:"level"`

	// Format sets the log format (text, json)
	Format string `json:"format" yaml:"format"`

	// EnableTimestamps adds timestamps to log entries
	EnableTimestamps bool `json:"enable_timestamps" yaml:"enable_timestamps"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:        "geoproof-grader",
			Version:     "1.0.0",
			Environment: "development",
		},
		Grading: GradingConfig{
			ConfidenceFloor:     0.5,
			MaxStepsPerSolution: 0, // unlimited
			SimilarityThreshold: 0.6,
		},
		Features: FeatureFlags{
			StrictTheoremMatching:     false,
			AllowAssumptionFallback:   true,
			EnableGoalStringInference: true,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			EnableTimestamps: true,
		},
	}
}

// Load loads configuration from environment variables and applies defaults.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a JSON or YAML file, chosen by the
// path's extension (.yaml/.yml vs. everything else treated as JSON), then
// applies environment overrides on top.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
// Environment variables follow the pattern: GEOPROOF_<SECTION>_<KEY>
// Example: GEOPROOF_SERVER_NAME, GEOPROOF_GRADING_CONFIDENCE_FLOOR
func (c *Config) loadFromEnv() error {
	// Server settings
	if v := os.Getenv("GEOPROOF_SERVER_NAME"); v != "" {
		c.Server.Name = v
	}
	if v := os.Getenv("GEOPROOF_SERVER_VERSION"); v != "" {
		c.Server.Version = v
	}
	if v := os.Getenv("GEOPROOF_SERVER_ENVIRONMENT"); v != "" {
		c.Server.Environment = v
	}

	// Grading settings
	if v := os.Getenv("GEOPROOF_GRADING_CONFIDENCE_FLOOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Grading.ConfidenceFloor = f
		}
	}
	if v := os.Getenv("GEOPROOF_GRADING_MAX_STEPS_PER_SOLUTION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Grading.MaxStepsPerSolution = n
		}
	}
	if v := os.Getenv("GEOPROOF_GRADING_SIMILARITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Grading.SimilarityThreshold = f
		}
	}

	// Feature flags
	if v := os.Getenv("GEOPROOF_FEATURES_STRICT_THEOREM_MATCHING"); v != "" {
		c.Features.StrictTheoremMatching = parseBool(v)
	}
	if v := os.Getenv("GEOPROOF_FEATURES_ALLOW_ASSUMPTION_FALLBACK"); v != "" {
		c.Features.AllowAssumptionFallback = parseBool(v)
	}
	if v := os.Getenv("GEOPROOF_FEATURES_ENABLE_GOAL_STRING_INFERENCE"); v != "" {
		c.Features.EnableGoalStringInference = parseBool(v)
	}

	// Logging settings
	if v := os.Getenv("GEOPROOF_LOGGING_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GEOPROOF_LOGGING_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("GEOPROOF_LOGGING_ENABLE_TIMESTAMPS"); v != "" {
		c.Logging.EnableTimestamps = parseBool(v)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server.name cannot be empty")
	}
	if c.Server.Environment != "development" && c.Server.Environment != "staging" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be one of: development, staging, production")
	}

	if c.Grading.ConfidenceFloor < 0 || c.Grading.ConfidenceFloor > 1 {
		return fmt.Errorf("grading.confidence_floor must be between 0 and 1")
	}
	if c.Grading.MaxStepsPerSolution < 0 {
		return fmt.Errorf("grading.max_steps_per_solution cannot be negative")
	}
	if c.Grading.SimilarityThreshold < 0 || c.Grading.SimilarityThreshold > 1 {
		return fmt.Errorf("grading.similarity_threshold must be between 0 and 1")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}

	return nil
}

// IsFeatureEnabled checks if a specific feature is enabled.
func (c *Config) IsFeatureEnabled(feature string) bool {
	switch strings.ToLower(feature) {
	case "strict_theorem_matching", "strict":
		return c.Features.StrictTheoremMatching
	case "allow_assumption_fallback", "assumption_fallback":
		return c.Features.AllowAssumptionFallback
	case "enable_goal_string_inference", "goal_string_inference":
		return c.Features.EnableGoalStringInference
	default:
		return false
	}
}

// parseBool parses a boolean from string (handles various formats).
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on" || s == "enabled"
}

// ToJSON serializes the configuration to JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
