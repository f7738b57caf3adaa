package config

import (
	"os"
	"strconv"

	"pathcore/internal/errors"
)

// Config represents the complete application configuration taken from
// the environment. Per-run analysis settings live in the run profile
// (see runfile.go); the environment only carries machine-level knobs.
type Config struct {
	Analysis AnalysisConfig
	Paths    PathConfig
}

// AnalysisConfig holds machine-level analysis defaults
type AnalysisConfig struct {
	NCores        int
	NPermutations int
	Seed          int64
}

// PathConfig holds file system paths
type PathConfig struct {
	OutputDir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Analysis: AnalysisConfig{
			NCores:        getEnvIntOrDefault("PATHCORE_N_CORES", 1),
			NPermutations: getEnvIntOrDefault("PATHCORE_N_PERMUTATIONS", 10000),
			Seed:          int64(getEnvIntOrDefault("PATHCORE_SEED", 42)),
		},
		Paths: PathConfig{
			OutputDir: getEnvOrDefault("PATHCORE_OUTPUT_DIR", "./output"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Analysis.NCores < 1 {
		return errors.ConfigInvalid("PATHCORE_N_CORES must be at least 1")
	}
	if config.Analysis.NPermutations < 0 {
		return errors.ConfigInvalid("PATHCORE_N_PERMUTATIONS cannot be negative")
	}
	if config.Paths.OutputDir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
