package main

import (
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the CLI settings. Values come from an optional YAML config
// file; command-line flags override whatever the file provides.
type Config struct {
	Jobs      int     `mapstructure:"jobs"`
	Suffix    string  `mapstructure:"suffix"`
	Force     bool    `mapstructure:"force"`
	Threshold float64 `mapstructure:"threshold"`
	LogLevel  string  `mapstructure:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Jobs:     runtime.NumCPU(),
		Suffix:   "_clean",
		LogLevel: "info",
	}
}

// loadConfig reads the config file at path into the defaults. An empty
// path returns the defaults untouched.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return cfg, nil
}
