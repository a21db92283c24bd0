package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"GEOPROOF_SERVER_NAME",
		"GEOPROOF_SERVER_VERSION",
		"GEOPROOF_SERVER_ENVIRONMENT",
		"GEOPROOF_GRADING_CONFIDENCE_FLOOR",
		"GEOPROOF_GRADING_MAX_STEPS_PER_SOLUTION",
		"GEOPROOF_GRADING_SIMILARITY_THRESHOLD",
		"GEOPROOF_FEATURES_STRICT_THEOREM_MATCHING",
		"GEOPROOF_FEATURES_ALLOW_ASSUMPTION_FALLBACK",
		"GEOPROOF_FEATURES_ENABLE_GOAL_STRING_INFERENCE",
		"GEOPROOF_LOGGING_LEVEL",
		"GEOPROOF_LOGGING_FORMAT",
		"GEOPROOF_LOGGING_ENABLE_TIMESTAMPS",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "geoproof-grader", cfg.Server.Name)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 0.5, cfg.Grading.ConfidenceFloor)
	assert.Equal(t, 0.6, cfg.Grading.SimilarityThreshold)
	assert.True(t, cfg.Features.AllowAssumptionFallback)
	assert.True(t, cfg.Features.EnableGoalStringInference)
	assert.False(t, cfg.Features.StrictTheoremMatching)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "geoproof-grader", cfg.Server.Name)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	defer clearEnv(t)

	os.Setenv("GEOPROOF_SERVER_NAME", "test-server")
	os.Setenv("GEOPROOF_SERVER_ENVIRONMENT", "production")
	os.Setenv("GEOPROOF_GRADING_CONFIDENCE_FLOOR", "0.75")
	os.Setenv("GEOPROOF_FEATURES_STRICT_THEOREM_MATCHING", "true")
	os.Setenv("GEOPROOF_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-server", cfg.Server.Name)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, 0.75, cfg.Grading.ConfidenceFloor)
	assert.True(t, cfg.Features.StrictTheoremMatching)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_JSON(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"server": {"name": "file-server", "version": "2.0.0", "environment": "staging"},
		"grading": {"confidence_floor": 0.6, "max_steps_per_solution": 50, "similarity_threshold": 0.7},
		"features": {"strict_theorem_matching": true, "allow_assumption_fallback": false, "enable_goal_string_inference": false},
		"logging": {"level": "warn", "format": "json", "enable_timestamps": false}
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(configJSON), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "file-server", cfg.Server.Name)
	assert.Equal(t, "2.0.0", cfg.Server.Version)
	assert.Equal(t, "staging", cfg.Server.Environment)
	assert.Equal(t, 0.6, cfg.Grading.ConfidenceFloor)
	assert.Equal(t, 50, cfg.Grading.MaxStepsPerSolution)
	assert.True(t, cfg.Features.StrictTheoremMatching)
	assert.False(t, cfg.Features.AllowAssumptionFallback)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_YAML(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configYAML := `
server:
  name: yaml-server
  environment: staging
grading:
  confidence_floor: 0.4
features:
  strict_theorem_matching: true
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "yaml-server", cfg.Server.Name)
	assert.Equal(t, "staging", cfg.Server.Environment)
	assert.Equal(t, 0.4, cfg.Grading.ConfidenceFloor)
	assert.True(t, cfg.Features.StrictTheoremMatching)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"server": {"name": "file-server", "environment": "staging"},
		"features": {"allow_assumption_fallback": false}
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(configJSON), 0644))

	clearEnv(t)
	defer clearEnv(t)
	os.Setenv("GEOPROOF_SERVER_NAME", "env-server")
	os.Setenv("GEOPROOF_FEATURES_ALLOW_ASSUMPTION_FALLBACK", "true")

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "env-server", cfg.Server.Name)
	assert.True(t, cfg.Features.AllowAssumptionFallback)
	assert.Equal(t, "staging", cfg.Server.Environment)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{"valid default config", Default(), ""},
		{
			"empty server name",
			&Config{
				Server:  ServerConfig{Name: "", Environment: "development"},
				Grading: GradingConfig{ConfidenceFloor: 0.5, SimilarityThreshold: 0.6},
				Logging: LoggingConfig{Level: "info", Format: "text"},
			},
			"server.name cannot be empty",
		},
		{
			"invalid environment",
			&Config{
				Server:  ServerConfig{Name: "test", Environment: "invalid"},
				Grading: GradingConfig{ConfidenceFloor: 0.5, SimilarityThreshold: 0.6},
				Logging: LoggingConfig{Level: "info", Format: "text"},
			},
			"server.environment must be one of",
		},
		{
			"confidence floor out of range",
			&Config{
				Server:  ServerConfig{Name: "test", Environment: "development"},
				Grading: GradingConfig{ConfidenceFloor: 1.5, SimilarityThreshold: 0.6},
				Logging: LoggingConfig{Level: "info", Format: "text"},
			},
			"grading.confidence_floor must be between 0 and 1",
		},
		{
			"negative max steps",
			&Config{
				Server:  ServerConfig{Name: "test", Environment: "development"},
				Grading: GradingConfig{ConfidenceFloor: 0.5, SimilarityThreshold: 0.6, MaxStepsPerSolution: -1},
				Logging: LoggingConfig{Level: "info", Format: "text"},
			},
			"grading.max_steps_per_solution cannot be negative",
		},
		{
			"similarity threshold out of range",
			&Config{
				Server:  ServerConfig{Name: "test", Environment: "development"},
				Grading: GradingConfig{ConfidenceFloor: 0.5, SimilarityThreshold: -0.1},
				Logging: LoggingConfig{Level: "info", Format: "text"},
			},
			"grading.similarity_threshold must be between 0 and 1",
		},
		{
			"invalid log level",
			&Config{
				Server:  ServerConfig{Name: "test", Environment: "development"},
				Grading: GradingConfig{ConfidenceFloor: 0.5, SimilarityThreshold: 0.6},
				Logging: LoggingConfig{Level: "verbose", Format: "text"},
			},
			"logging.level must be one of",
		},
		{
			"invalid log format",
			&Config{
				Server:  ServerConfig{Name: "test", Environment: "development"},
				Grading: GradingConfig{ConfidenceFloor: 0.5, SimilarityThreshold: 0.6},
				Logging: LoggingConfig{Level: "info", Format: "xml"},
			},
			"logging.format must be 'text' or 'json'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsFeatureEnabled(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsFeatureEnabled("allow_assumption_fallback"))
	assert.True(t, cfg.IsFeatureEnabled("goal_string_inference"))
	assert.False(t, cfg.IsFeatureEnabled("strict"))
	assert.False(t, cfg.IsFeatureEnabled("unknown"))

	cfg.Features.StrictTheoremMatching = true
	assert.True(t, cfg.IsFeatureEnabled("strict_theorem_matching"))
}

func TestParseBool(t *testing.T) {
	tests := map[string]bool{
		"true": true, "TRUE": true, "1": true, "yes": true, "on": true, "enabled": true,
		"false": false, "0": false, "no": false, "off": false, "disabled": false, "": false, "invalid": false,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseBool(input), "parseBool(%q)", input)
	}
}

func TestToJSON(t *testing.T) {
	cfg := Default()
	data, err := cfg.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, string(data), "server")
	assert.Contains(t, string(data), "grading")
}

func TestSaveToFile(t *testing.T) {
	cfg := Default()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saved-config.json")

	require.NoError(t, cfg.SaveToFile(configPath))

	loaded, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.Name, loaded.Server.Name)
}
