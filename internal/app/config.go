package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/zpdev/internal/config"
)

// DefaultConfigFile is the project file looked up in the project directory.
const DefaultConfigFile = "zenith.hcl"

// Config holds the invocation settings that come from outside the project
// file. Empty values leave the project file and built-in defaults alone.
type Config struct {
	ProjectDir string
	ConfigFile string

	RunDir           string
	MCVersion        string
	NoTemplates      bool
	NoAutoDependency bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in the project directory and file.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	dir, err := filepath.Abs(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	cfg.ProjectDir = dir

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = DefaultConfigFile
	}
	if !filepath.IsAbs(cfg.ConfigFile) {
		cfg.ConfigFile = filepath.Join(cfg.ProjectDir, cfg.ConfigFile)
	}
	return &cfg, nil
}

// apply layers the command-line overrides onto ext.
func (c *Config) apply(ext *config.Extension) error {
	if c.RunDir != "" {
		if err := ext.SetRunDirectory(c.RunDir); err != nil {
			return err
		}
	}
	if c.MCVersion != "" {
		if err := ext.SetMCVersion(c.MCVersion); err != nil {
			return err
		}
	}
	if c.NoTemplates {
		if err := ext.SetGenerateTemplates(false); err != nil {
			return err
		}
	}
	if c.NoAutoDependency {
		if err := ext.SetAutoAddDependency(false); err != nil {
			return err
		}
	}
	return nil
}
