package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"stampmove/internal/relocator"

	"github.com/spf13/viper"
)

type Config struct {
	DateFormat           string   `mapstructure:"date_format"`
	DestinationSubfolder string   `mapstructure:"destination_subfolder"`
	OutputExtension      string   `mapstructure:"output_extension"`
	BufferSize           int      `mapstructure:"buffer_size"`
	IgnoreList           []string `mapstructure:"ignore_list"`
	HistoryDB            string   `mapstructure:"history_db"`
}

var Default = Config{
	DateFormat:           relocator.DefaultDateFormat,
	DestinationSubfolder: relocator.DefaultDestinationSubfolder,
	OutputExtension:      relocator.DefaultOutputExtension,
	BufferSize:           100,
	IgnoreList:           []string{".git", ".DS_Store", "*.swp"},
	HistoryDB:            "",
}

// Load reads ~/.stampmove/config.yaml when present. STAMPMOVE_* environment
// variables override file values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home dir: %w", err)
	}

	return LoadFrom(filepath.Join(home, ".stampmove"))
}

func LoadFrom(configDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("date_format", Default.DateFormat)
	v.SetDefault("destination_subfolder", Default.DestinationSubfolder)
	v.SetDefault("output_extension", Default.OutputExtension)
	v.SetDefault("buffer_size", Default.BufferSize)
	v.SetDefault("ignore_list", Default.IgnoreList)
	v.SetDefault("history_db", Default.HistoryDB)

	v.SetEnvPrefix("STAMPMOVE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := errors.AsType[viper.ConfigFileNotFoundError](err); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = Default.BufferSize
	}

	return &cfg, nil
}

func (c *Config) RelocatorOptions() relocator.Options {
	return relocator.Options{
		DateFormat:           c.DateFormat,
		DestinationSubfolder: c.DestinationSubfolder,
		OutputExtension:      c.OutputExtension,
	}
}
