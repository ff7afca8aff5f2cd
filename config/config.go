package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultDatabasePath = "ebookstore.db"
	EnvPrefix           = "BOOKSHELF"
)

type (
	Config struct {
		Database
		Matching
		Prompt
		Log
	}

	Database struct {
		Path string
		// SeedDemo loads the demo catalogue when the database file is new.
		SeedDemo bool
	}
	Matching struct {
		TitleThreshold  int // 1-100, default 90
		AuthorThreshold int // 1-100, default 75
		Limit           int // candidates considered per query, default 5
	}
	Prompt struct {
		MaxAttempts int // 0 = ask until valid
	}
	Log struct {
		Level string
	}
)

// New returns a viper instance with defaults and BOOKSHELF_* environment
// binding. Callers may bind flags or set a config file before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("seed_demo", true)
	v.SetDefault("title_threshold", 90)
	v.SetDefault("author_threshold", 75)
	v.SetDefault("match_limit", 5)
	v.SetDefault("prompt_max_attempts", 10)
	v.SetDefault("log_level", "warn")
	return v
}

// Load reads the optional config file set on v and builds a Config.
func Load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Database: Database{
			Path:     v.GetString("database_path"),
			SeedDemo: v.GetBool("seed_demo"),
		},
		Matching: Matching{
			TitleThreshold:  v.GetInt("title_threshold"),
			AuthorThreshold: v.GetInt("author_threshold"),
			Limit:           v.GetInt("match_limit"),
		},
		Prompt: Prompt{
			MaxAttempts: v.GetInt("prompt_max_attempts"),
		},
		Log: Log{
			Level: v.GetString("log_level"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database_path is required")
	}
	for name, t := range map[string]int{
		"title_threshold":  c.Matching.TitleThreshold,
		"author_threshold": c.Matching.AuthorThreshold,
	} {
		if t < 1 || t > 100 {
			return fmt.Errorf("%s must be between 1 and 100, got %d", name, t)
		}
	}
	if c.Matching.Limit < 1 {
		return fmt.Errorf("match_limit must be at least 1, got %d", c.Matching.Limit)
	}
	if c.Prompt.MaxAttempts < 0 {
		return fmt.Errorf("prompt_max_attempts must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level into a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
