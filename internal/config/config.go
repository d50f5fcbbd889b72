// Package config loads jotbox settings from a YAML file and JOTBOX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up when no explicit path is given.
const FileName = "jotbox.yaml"

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Backup  DirConfig     `mapstructure:"backup"`
	Export  ExportConfig  `mapstructure:"export"`
	IDs     IDsConfig     `mapstructure:"ids"`
	Log     LogConfig     `mapstructure:"log"`
}

type StorageConfig struct {
	Adapter  string `mapstructure:"adapter"`
	Path     string `mapstructure:"path"`
	ReadOnly bool   `mapstructure:"read_only"`
}

type DirConfig struct {
	Dir string `mapstructure:"dir"`
}

type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
	// ShareDir receives shared files. Empty means sharing is unavailable.
	ShareDir string `mapstructure:"share_dir"`
}

type IDsConfig struct {
	Strategy string `mapstructure:"strategy"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var (
	adapters   = []string{"fs", "sqlite", "memory"}
	formats    = []string{"text", "markdown", "json"}
	strategies = []string{"timestamp", "uuid"}
	levels     = []string{"debug", "info", "warn", "error"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.adapter", "fs")
	v.SetDefault("storage.path", ".jotbox")
	v.SetDefault("storage.read_only", false)
	v.SetDefault("backup.dir", ".")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "text")
	v.SetDefault("export.share_dir", "")
	v.SetDefault("ids.strategy", "timestamp")
	v.SetDefault("log.level", "info")
}

// Load reads the config file at path and applies environment overrides
// (JOTBOX_STORAGE_PATH overrides storage.path, and so on). An empty path
// uses defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("jotbox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values outside the known enumerations.
func (c *Config) Validate() error {
	var errs []error
	check := func(key, value string, allowed []string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: %q must be one of %s", key, value, strings.Join(allowed, ", ")))
	}

	c.Log.Level = strings.ToLower(c.Log.Level)
	check("storage.adapter", c.Storage.Adapter, adapters)
	check("export.format", c.Export.Format, formats)
	check("ids.strategy", c.IDs.Strategy, strategies)
	check("log.level", c.Log.Level, levels)
	if c.Storage.Adapter != "memory" && c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path is required"))
	}
	return errors.Join(errs...)
}
