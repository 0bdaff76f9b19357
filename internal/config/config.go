// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads Scribe's settings from defaults, an optional
// scribe.yaml file, SCRIBE_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the effective configuration of a Scribe process.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Language string         `mapstructure:"language" yaml:"language"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DatabaseConfig selects the storage engine. Type is one of "sqlite",
// "postgres" or "mysql".
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// ServerConfig configures `scribe serve`.
type ServerConfig struct {
	Addr               string        `mapstructure:"addr" yaml:"addr"`
	SessionSecret      string        `mapstructure:"session_secret" yaml:"session_secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	LoginRatePerMinute float64       `mapstructure:"login_rate_per_minute" yaml:"login_rate_per_minute"`
	LoginBurst         int           `mapstructure:"login_burst" yaml:"login_burst"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level     string `mapstructure:"level" yaml:"level"`
	File      string `mapstructure:"file" yaml:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files" yaml:"max_files"`
	JSON      bool   `mapstructure:"json" yaml:"json"`
}

// Defaults returns the built-in defaults keyed by their dotted viper path.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":                "sqlite",
		"database.dsn":                 "./scribe.db",
		"language":                     "en",
		"server.addr":                  ":8080",
		"server.session_secret":        "",
		"server.session_ttl":           24 * time.Hour,
		"server.login_rate_per_minute": 10.0,
		"server.login_burst":           5,
		"log.level":                    "info",
		"log.file":                     "",
		"log.max_size_mb":              10,
		"log.max_files":                5,
		"log.json":                     false,
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Scribe")
		default:
			configDir = "/etc/scribe"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "scribe")
	}

	return filepath.Join(configDir, "scribe.yaml"), nil
}

// UserConfigPath returns the per-user scribe.yaml location.
func UserConfigPath() (string, error) {
	return getConfigPath(false)
}

// LoadConfig builds a T from defaults, the first scribe.yaml found (or
// configFile when non-nil), SCRIBE_* environment variables and the flags of
// cmd. bindings maps dotted config keys to flag names whose names differ from
// the key (e.g. "database.type" -> "db-type").
//
// When no config file is found the populated value is still returned together
// with a viper.ConfigFileNotFoundError so callers can write a default file.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string, bindings map[string]string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("scribe")
	v.SetConfigType("yaml")

	explicit := configFile != nil && *configFile != ""
	if explicit {
		v.SetConfigFile(*configFile)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if explicit && os.IsNotExist(err) {
				return c, fmt.Errorf("config file %s: %w", *configFile, err)
			}
			return c, err
		}
		notFound = err
	} else if fi, statErr := os.Stat(v.ConfigFileUsed()); statErr == nil && fi.Size() == 0 {
		// An empty candidate carries no settings; report it like a missing file.
		notFound = viper.ConfigFileNotFoundError{}
	}

	v.SetEnvPrefix("scribe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
		for key, flagName := range bindings {
			if f := cmd.Flags().Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// WriteConfigFile writes c as YAML to the user (or system) config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := getConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating parent directories.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file carries the session secret.
	return os.WriteFile(path, data, 0o600)
}
