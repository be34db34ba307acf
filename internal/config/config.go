// Package config loads the runtime configuration for the documentation
// generator: the service credential from the environment (with optional
// .env support) and tool settings from an optional docgen.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the optional per-directory settings file.
	ConfigFileName = "docgen.yaml"
	// APIKeyEnvVar names the environment variable carrying the credential.
	APIKeyEnvVar = "OPENAI_API_KEY"

	defaultModel       = "gpt-4"
	defaultTemperature = 0.7
	defaultOutputDir   = "generated_docs"
	defaultHistoryDir  = "documentation_history"
)

// Config holds everything the generator needs at runtime. The credential is
// carried here as an explicit value and handed to the model client at
// construction; nothing global is mutated.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	OutputDir   string
	HistoryDir  string
}

// fileConfig models docgen.yaml. All fields are optional overlays.
type fileConfig struct {
	Model       string   `yaml:"model"`
	BaseURL     string   `yaml:"base_url"`
	Temperature *float64 `yaml:"temperature"`
	OutputDir   string   `yaml:"output_dir"`
	HistoryDir  string   `yaml:"history_dir"`
}

// Load builds the configuration for the given working directory. A missing
// credential is a fatal configuration error; a missing docgen.yaml is not.
func Load(workingDir string) (*Config, error) {
	loadDotEnv(workingDir)

	apiKey := strings.TrimSpace(os.Getenv(APIKeyEnvVar))
	if apiKey == "" {
		return nil, fmt.Errorf("config: %s not found in environment variables", APIKeyEnvVar)
	}

	cfg := &Config{
		APIKey:      apiKey,
		Model:       defaultModel,
		Temperature: defaultTemperature,
		OutputDir:   defaultOutputDir,
		HistoryDir:  defaultHistoryDir,
	}

	overlay, err := readFileConfig(filepath.Join(workingDir, ConfigFileName))
	if err != nil {
		return nil, err
	}
	cfg.apply(overlay)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.resolvePaths(workingDir)
	return cfg, nil
}

// loadDotEnv mirrors dotenv behavior: values from an adjacent .env file fill
// in missing environment variables but never override ones already set.
func loadDotEnv(workingDir string) {
	path := filepath.Join(workingDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func readFileConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed fileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fileConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return parsed, nil
}

func (c *Config) apply(overlay fileConfig) {
	if value := strings.TrimSpace(overlay.Model); value != "" {
		c.Model = value
	}
	if value := strings.TrimSpace(overlay.BaseURL); value != "" {
		c.BaseURL = value
	}
	if overlay.Temperature != nil {
		c.Temperature = *overlay.Temperature
	}
	if value := strings.TrimSpace(overlay.OutputDir); value != "" {
		c.OutputDir = value
	}
	if value := strings.TrimSpace(overlay.HistoryDir); value != "" {
		c.HistoryDir = value
	}
}

func (c *Config) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature %v out of range [0, 2]", c.Temperature)
	}
	return nil
}

func (c *Config) resolvePaths(base string) {
	c.OutputDir = resolvePath(base, c.OutputDir)
	c.HistoryDir = resolvePath(base, c.HistoryDir)
}

func resolvePath(base, candidate string) string {
	if filepath.IsAbs(candidate) {
		return filepath.Clean(candidate)
	}
	return filepath.Clean(filepath.Join(base, candidate))
}
