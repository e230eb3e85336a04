package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	UI      UIConfig      `mapstructure:"ui"`
	Grid    GridConfig    `mapstructure:"grid"`
	History HistoryConfig `mapstructure:"history"`
}

type GeneralConfig struct {
	ConfirmApply bool `mapstructure:"confirm_apply"`
	QueryTimeout int  `mapstructure:"query_timeout"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

type GridConfig struct {
	PageSize             int `mapstructure:"page_size"`
	MaxCellDisplayLength int `mapstructure:"max_cell_display_length"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			ConfirmApply: true,
			QueryTimeout: 30000,
		},
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
		},
		Grid: GridConfig{
			PageSize:             50,
			MaxCellDisplayLength: 100,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 1. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "pgedit"))
	}

	// 2. Current directory
	v.AddConfigPath(".")

	v.SetDefault("general.confirm_apply", true)
	v.SetDefault("general.query_timeout", 30000)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("grid.page_size", 50)
	v.SetDefault("grid.max_cell_display_length", 100)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pgedit"), nil
}
