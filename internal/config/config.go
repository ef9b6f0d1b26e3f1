// Package config loads fontpreview settings from (in increasing precedence)
// defaults, an optional config.toml, FONTPREVIEW_* environment variables,
// and command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys shared between viper, the config file, and flag bindings.
const (
	KeyAddr         = "addr"
	KeyOpenBrowser  = "open_browser"
	KeyGracePeriod  = "grace_period"
	KeyHistoryPath  = "history_path"
	KeyHistoryLimit = "history_limit"
	KeyLogLevel     = "log_level"
)

const envPrefix = "FONTPREVIEW"

// Config is the effective configuration.
type Config struct {
	Addr         string        `mapstructure:"addr"`
	OpenBrowser  bool          `mapstructure:"open_browser"`
	GracePeriod  time.Duration `mapstructure:"grace_period"`
	HistoryPath  string        `mapstructure:"history_path"`
	HistoryLimit int           `mapstructure:"history_limit"`
	LogLevel     string        `mapstructure:"log_level"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// DefaultConfig returns the built-in defaults. The port is left to the OS.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:0",
		OpenBrowser:  true,
		GracePeriod:  2 * time.Second,
		HistoryPath:  defaultHistoryPath(),
		HistoryLimit: 20,
		LogLevel:     "warn",
	}
}

func defaultHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fontpreview", "history.db")
}

// DefaultDir is where config.toml is looked up when no file is given.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fontpreview")
}

// NewViper returns a viper instance carrying defaults and environment lookup.
// Callers bind their flags onto it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault(KeyAddr, d.Addr)
	v.SetDefault(KeyOpenBrowser, d.OpenBrowser)
	v.SetDefault(KeyGracePeriod, d.GracePeriod)
	v.SetDefault(KeyHistoryPath, d.HistoryPath)
	v.SetDefault(KeyHistoryLimit, d.HistoryLimit)
	v.SetDefault(KeyLogLevel, d.LogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile (or config.toml from searchDir when configFile is
// empty) into v and returns the merged result. A missing config.toml in
// searchDir is not an error; a missing explicit configFile is.
func Load(v *viper.Viper, configFile, searchDir string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if searchDir != "" {
			v.AddConfigPath(searchDir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if cfg.File != "" {
		if _, err := os.Stat(cfg.File); err != nil {
			cfg.File = ""
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyAddr, c.Addr, err)
	}
	if c.GracePeriod < 0 {
		return fmt.Errorf("invalid %s %s: must not be negative", KeyGracePeriod, c.GracePeriod)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", KeyHistoryLimit, c.HistoryLimit)
	}
	return nil
}
