package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	// embedded zone database, so timezone works on hosts without one
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// ErrConfiguration wraps every error returned while loading configuration
var ErrConfiguration = errors.New("configuration error")

const (
	DefaultMaxTitleLength = 80
	DefaultWordLimit      = 50
	DefaultStopwordsFile  = "common_words.txt"
	DefaultAutofillKey    = "FULL_NAME"
	DefaultTimezone       = "Local"
	DefaultDatabaseDir    = "databases"
	DefaultChartAddr      = "127.0.0.1:8050"
	DefaultWorkers        = 4
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"

	envPrefix = "MSTATS"
)

// Config holds settings shared by every command
type Config struct {
	ExportRoot     string    `mapstructure:"export_root"`
	MaxTitleLength int       `mapstructure:"max_title_length"`
	WordLimit      int       `mapstructure:"word_limit"`
	StopwordsFile  string    `mapstructure:"stopwords_file"`
	AutofillKey    string    `mapstructure:"autofill_key"`
	Timezone       string    `mapstructure:"timezone"`
	DatabaseDir    string    `mapstructure:"database_dir"`
	ChartAddr      string    `mapstructure:"chart_addr"`
	Workers        int       `mapstructure:"workers"`
	Log            LogConfig `mapstructure:"log"`
}

// LogConfig selects the zap logger level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when no file or environment is set
func Default() *Config {
	return &Config{
		ExportRoot:     ".",
		MaxTitleLength: DefaultMaxTitleLength,
		WordLimit:      DefaultWordLimit,
		StopwordsFile:  DefaultStopwordsFile,
		AutofillKey:    DefaultAutofillKey,
		Timezone:       DefaultTimezone,
		DatabaseDir:    DefaultDatabaseDir,
		ChartAddr:      DefaultChartAddr,
		Workers:        DefaultWorkers,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load merges defaults, an optional YAML file and MSTATS_* environment
// variables. An empty path looks for messenger-stats.yaml in the working
// directory; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("messenger-stats")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("export_root", d.ExportRoot)
	v.SetDefault("max_title_length", d.MaxTitleLength)
	v.SetDefault("word_limit", d.WordLimit)
	v.SetDefault("stopwords_file", d.StopwordsFile)
	v.SetDefault("autofill_key", d.AutofillKey)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("database_dir", d.DatabaseDir)
	v.SetDefault("chart_addr", d.ChartAddr)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate checks value ranges and that the timezone can be loaded
func (c *Config) Validate() error {
	if c.ExportRoot == "" {
		return errors.New("export_root must not be empty")
	}
	if c.MaxTitleLength <= 0 {
		return fmt.Errorf("max_title_length must be positive, got %d", c.MaxTitleLength)
	}
	if c.WordLimit <= 0 {
		return fmt.Errorf("word_limit must be positive, got %d", c.WordLimit)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Location resolves Timezone. "Local" and "" both mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// InboxDir is the folder holding one sub-folder per conversation
func (c *Config) InboxDir() string {
	return filepath.Join(c.ExportRoot, "messages", "inbox")
}

// AutofillPath is the identity file stored next to the inbox
func (c *Config) AutofillPath() string {
	return filepath.Join(c.ExportRoot, "messages", "autofill_information.json")
}
