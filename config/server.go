package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the settings for the HTTP server process.
type ServerConfig struct {
	Port          string `yaml:"port"`
	DataDir       string `yaml:"dataDir"`
	AnalyticsFile string `yaml:"analyticsFile"`
}

// LoadServerConfig reads a YAML config file (if provided) and applies
// environment-variable overrides. Missing values fall back to defaults.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := defaultServerConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's own flag
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          "8080",
		DataDir:       "./retrieval_data",
		AnalyticsFile: "analytics_data.json",
	}
}

// applyEnvOverrides reads RE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *ServerConfig) {
	if v := os.Getenv("RE_PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.Port = v
		}
	}
	if v := os.Getenv("RE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("RE_ANALYTICS_FILE"); v != "" {
		cfg.AnalyticsFile = v
	}
}
