package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/minigrep/internal/report"
)

// FileConfig is the schema of the optional YAML or JSON config file. It only
// covers presentation; the case mode always comes from IGNORE_CASE.
type FileConfig struct {
	Format  string `yaml:"format" json:"format"`
	Color   string `yaml:"color" json:"color"`
	Verbose bool   `yaml:"verbose" json:"verbose"`

	Output struct {
		PDF string `yaml:"pdf" json:"pdf"`
	} `yaml:"output" json:"output"`

	EnvFiles []string `yaml:"envFiles" json:"envFiles"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills fields of cfg that are still unset from fc.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Format == "" && fc.Format != "" {
		cfg.Format = fc.Format
	}
	if cfg.Color == "" && fc.Color != "" {
		cfg.Color = fc.Color
	}
	if cfg.OutputPDFPath == "" && fc.Output.PDF != "" {
		cfg.OutputPDFPath = fc.Output.PDF
	}
	if len(cfg.EnvFiles) == 0 && len(fc.EnvFiles) > 0 {
		// Relative dotenv paths are taken relative to the config file.
		base := filepath.Dir(cfg.ConfigPath)
		for _, p := range fc.EnvFiles {
			if !filepath.IsAbs(p) && cfg.ConfigPath != "" {
				p = filepath.Join(base, p)
			}
			cfg.EnvFiles = append(cfg.EnvFiles, p)
		}
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig rejects presentation settings minigrep does not know.
func ValidateConfig(cfg Config) error {
	if _, err := report.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := report.ParseColorMode(cfg.Color); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
