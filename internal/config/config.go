package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/jeanpaul/cgpa/internal/logging"
)

const (
	ModeCatalog = "catalog"
	ModeFree    = "free"

	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type Config struct {
	Mode        string       `yaml:"mode" mapstructure:"mode"`
	Theme       string       `yaml:"theme" mapstructure:"theme"`
	CatalogFile string       `yaml:"catalog_file" mapstructure:"catalog_file"`
	Export      ExportConfig `yaml:"export" mapstructure:"export"`
	Log         LogConfig    `yaml:"log" mapstructure:"log"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

type LogConfig struct {
	File  string `yaml:"file" mapstructure:"file"`
	Level string `yaml:"level" mapstructure:"level"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Dir returns the per-user configuration directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cgpa")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cgpa")
}

func DefaultConfig() *Config {
	return &Config{
		Mode:  ModeCatalog,
		Theme: "green",
		Export: ExportConfig{
			Dir:    ".",
			Format: FormatCSV,
		},
		Log: LogConfig{
			File:  filepath.Join(Dir(), "cgpa.log"),
			Level: string(logging.InfoLevel),
		},
	}
}

// Load reads configuration from file (when non-empty) or the standard search
// paths, then applies CGPA_* environment overrides.
func Load(file string) (*Config, error) {
	def := DefaultConfig()
	v := viper.New()

	v.SetDefault("mode", def.Mode)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("catalog_file", def.CatalogFile)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("export.format", def.Export.Format)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.level", def.Log.Level)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix("CGPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("config: %w", err)
		}
		// No config file; defaults and environment apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.CatalogFile = expandEnv(cfg.CatalogFile)
	cfg.Export.Dir = expandEnv(cfg.Export.Dir)
	cfg.Log.File = expandEnv(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeCatalog, ModeFree:
	default:
		return fmt.Errorf("config: mode %q is invalid (must be catalog or free)", c.Mode)
	}
	switch c.Export.Format {
	case FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("config: export.format %q is invalid (must be csv or xlsx)", c.Export.Format)
	}
	if c.Log.Level == "" {
		c.Log.Level = string(logging.InfoLevel)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("config: log.level %q is invalid", c.Log.Level)
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
	return nil
}

func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  logging.LogLevel(strings.ToLower(c.Log.Level)),
		File:   c.Log.File,
		Pretty: false,
	}
}
