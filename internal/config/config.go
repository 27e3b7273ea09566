package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// Config holds all application configuration
type Config struct {
	Database  models.ConnectionConfig `mapstructure:"database"`
	Query     QueryConfig             `mapstructure:"query"`
	History   HistoryConfig           `mapstructure:"history"`
	Favorites FavoritesConfig         `mapstructure:"favorites"`
	UI        UIConfig                `mapstructure:"ui"`
	Entities  []models.Entity         `mapstructure:"entities"`
}

type QueryConfig struct {
	DefaultPerPage int    `mapstructure:"default_per_page"`
	DefaultLimit   int    `mapstructure:"default_limit"`
	Strict         bool   `mapstructure:"strict"`
	OwnerField     string `mapstructure:"owner_field"`
	TimeoutMS      int    `mapstructure:"timeout_ms"`
}

type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

type FavoritesConfig struct {
	Path string `mapstructure:"path"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Database: models.ConnectionConfig{
			SSLMode:  "prefer",
			MaxConns: 5,
			MinConns: 1,
		},
		Query: QueryConfig{
			DefaultPerPage: 25,
			DefaultLimit:   1000,
			TimeoutMS:      30000,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		UI: UIConfig{
			Theme: "default",
		},
	}
}

// Load loads configuration from file and LAZYCMS_* environment variables.
// An empty path searches the user config directory and the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("LAZYCMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := GetDefaults()
	v.SetDefault("database.name", d.Database.Name)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.database", d.Database.Database)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.ssl_mode", d.Database.SSLMode)
	v.SetDefault("database.max_conns", d.Database.MaxConns)
	v.SetDefault("database.min_conns", d.Database.MinConns)
	v.SetDefault("query.default_per_page", d.Query.DefaultPerPage)
	v.SetDefault("query.default_limit", d.Query.DefaultLimit)
	v.SetDefault("query.strict", d.Query.Strict)
	v.SetDefault("query.owner_field", d.Query.OwnerField)
	v.SetDefault("query.timeout_ms", d.Query.TimeoutMS)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("favorites.path", d.Favorites.Path)
	v.SetDefault("ui.theme", d.UI.Theme)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if len(cfg.Entities) == 0 {
		cfg.Entities = models.DefaultEntities()
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazycms"), nil
}

// DataPath resolves name inside the user config directory unless configured explicitly
func DataPath(configured, name string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}
