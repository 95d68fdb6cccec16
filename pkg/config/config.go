package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HomeEnv overrides the configuration directory
const HomeEnv = "AISEC_DASH_HOME"

// ViewDefaults is the query a view opens with
type ViewDefaults struct {
	SortKey   string            `yaml:"sort_key,omitempty"`
	Ascending bool              `yaml:"ascending,omitempty"`
	Filters   map[string]string `yaml:"filters,omitempty"`
}

type Config struct {
	DataPath string                  `yaml:"data_path,omitempty"` // empty means the embedded demo data
	Output   string                  `yaml:"output"`
	LogLevel string                  `yaml:"log_level"`
	Views    map[string]ViewDefaults `yaml:"views,omitempty"`
}

// Default is the configuration used when no file exists
func Default() *Config {
	return &Config{
		Output:   "table",
		LogLevel: "info",
		Views:    make(map[string]ViewDefaults),
	}
}

func GetConfigDir() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".aisec-dash")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Views == nil {
		cfg.Views = make(map[string]ViewDefaults)
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// SetViewDefaults replaces the stored defaults of a view
func (c *Config) SetViewDefaults(view string, d ViewDefaults) {
	if c.Views == nil {
		c.Views = make(map[string]ViewDefaults)
	}
	c.Views[view] = d
}

// GetViewDefaults returns the stored defaults of a view, zero when unset
func (c *Config) GetViewDefaults(view string) ViewDefaults {
	return c.Views[view]
}
