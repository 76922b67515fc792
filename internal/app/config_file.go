package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional on-disk configuration. It supplies defaults
// for values the user did not pass as flags.
type FileConfig struct {
	BaseURL  string `yaml:"baseURL" json:"baseURL"`
	Model    string `yaml:"model" json:"model"`
	Settings string `yaml:"settings" json:"settings"`
	LogDir   string `yaml:"logDir" json:"logDir"`

	// Durations are strings like "2s" or "10m" so YAML and JSON share
	// one representation.
	Poll struct {
		Interval string `yaml:"interval" json:"interval"`
		Timeout  string `yaml:"timeout" json:"timeout"`
	} `yaml:"poll" json:"poll"`
}

// LoadConfigFile reads YAML or JSON into FileConfig, keyed by extension
// with a YAML-then-JSON fallback for anything else.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for fields still unset.
// Flags have already been parsed, so anything non-zero stays as-is.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.BaseURL == "" && fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if cfg.Model == "" && fc.Model != "" {
		cfg.Model = fc.Model
	}
	if cfg.SettingsPath == "" && fc.Settings != "" {
		cfg.SettingsPath = fc.Settings
	}
	if cfg.LogDir == "" && fc.LogDir != "" {
		cfg.LogDir = fc.LogDir
	}
	if cfg.PollInterval == 0 && fc.Poll.Interval != "" {
		if d, err := time.ParseDuration(fc.Poll.Interval); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if (cfg.PollTimeout == 0 || cfg.PollTimeout == DefaultPollTimeout) && fc.Poll.Timeout != "" {
		if d, err := time.ParseDuration(fc.Poll.Timeout); err == nil && d > 0 {
			cfg.PollTimeout = d
		}
	}
}
