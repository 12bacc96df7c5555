package config

import (
	"errors"
	"fmt"

	"github.com/buzunser/otagen/internal/models"
	"github.com/buzunser/otagen/internal/parser"
	"github.com/spf13/viper"
)

// Config holds the record template and process settings
type Config struct {
	OSName      string              `mapstructure:"os_name"`
	Version     string              `mapstructure:"version"`
	Maintainers []models.Maintainer `mapstructure:"maintainers"`
	DonateURL   string              `mapstructure:"donate_url"`
	WebsiteURL  string              `mapstructure:"website_url"`
	NewsURL     string              `mapstructure:"news_url"`
	OutputDir   string              `mapstructure:"output_dir"`
	Log         LogConfig           `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Load reads configuration from path, or from otagen.yaml in the working
// directory or $HOME/.otagen when path is empty. Only an explicit path has
// to exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("otagen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.otagen")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, models.NewError(models.ErrInvalidConfig, path, fmt.Errorf("failed to read config: %w", err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, path, fmt.Errorf("failed to decode config: %w", err))
	}

	if err := cfg.validate(); err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, path, err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("os_name", d.OSName)
	v.SetDefault("version", d.Version)
	v.SetDefault("maintainers", []map[string]interface{}{
		{"name": "buzunser", "github_username": "buzunser", "main_maintainer": true},
		{"name": "buzunser", "github_username": "buzunser", "main_maintainer": true},
	})
	v.SetDefault("donate_url", d.DonateURL)
	v.SetDefault("website_url", d.WebsiteURL)
	v.SetDefault("news_url", d.NewsURL)
	v.SetDefault("output_dir", d.OutputDir)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		OSName:  parser.DefaultOSName,
		Version: "twelve",
		Maintainers: []models.Maintainer{
			{MainMaintainer: true, GithubUsername: "buzunser", Name: "buzunser"},
			{MainMaintainer: true, GithubUsername: "buzunser", Name: "buzunser"},
		},
		WebsiteURL: "https://github.com/buzunser/",
		OutputDir:  ".",
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    10,
			MaxBackups: 3,
		},
	}
}

func (c *Config) validate() error {
	if c.OSName == "" {
		return fmt.Errorf("os_name must not be empty")
	}
	if c.Version == "" {
		return fmt.Errorf("version must not be empty")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Template returns a record with the per-device fields filled from the
// config. Build fields are left for the caller.
func (c *Config) Template() models.DeviceRecord {
	maintainers := make([]models.Maintainer, len(c.Maintainers))
	copy(maintainers, c.Maintainers)

	return models.DeviceRecord{
		Error:       false,
		Version:     c.Version,
		Maintainers: maintainers,
		DonateURL:   c.DonateURL,
		WebsiteURL:  c.WebsiteURL,
		NewsURL:     c.NewsURL,
	}
}
