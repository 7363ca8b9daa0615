// Package config loads estate settings from defaults, an optional YAML
// file, an optional .env file and ESTATE_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ESTATE_LOG_LEVEL.
const EnvPrefix = "ESTATE"

// Config is the resolved configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Log     LogConfig     `mapstructure:"log"`
	Search  SearchConfig  `mapstructure:"search"`
	Display DisplayConfig `mapstructure:"display"`
}

// CatalogConfig locates the property catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SearchConfig tunes the search result cache.
type SearchConfig struct {
	CacheSize int64         `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// DisplayConfig controls formatting.
type DisplayConfig struct {
	Currency string `mapstructure:"currency"`
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile, when set, must exist. Otherwise estate.yaml is searched
	// for in SearchPaths and a missing file is fine.
	ConfigFile  string
	SearchPaths []string

	// EnvFile defaults to ".env". A missing file is ignored.
	EnvFile string
}

// DefaultSearchPaths are tried in order for estate.yaml.
var DefaultSearchPaths = []string{".", "./configs", "$HOME/.estate"}

// Error reports an invalid configuration value.
type Error struct {
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := "config"
	if e.Key != "" {
		msg += " " + e.Key
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{Path: "testdata/catalog/properties.json"},
		Log:     LogConfig{Level: "info", Format: "console"},
		Search:  SearchConfig{CacheSize: 256, CacheTTL: 5 * time.Minute},
		Display: DisplayConfig{Currency: "LKR"},
	}
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Message: "read " + opts.ConfigFile, Err: err}
		}
	} else {
		v.SetConfigName("estate")
		paths := opts.SearchPaths
		if paths == nil {
			paths = DefaultSearchPaths
		}
		for _, p := range paths {
			v.AddConfigPath(os.ExpandEnv(p))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, &Error{Message: "read config", Err: err}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Message: "decode", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Search.CacheSize <= 0 {
		return &Error{Key: "search.cache_size", Message: fmt.Sprintf("must be positive, got %d", c.Search.CacheSize)}
	}
	if c.Search.CacheTTL <= 0 {
		return &Error{Key: "search.cache_ttl", Message: fmt.Sprintf("must be positive, got %s", c.Search.CacheTTL)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return &Error{Key: "log.format", Message: fmt.Sprintf("must be console or json, got %q", c.Log.Format)}
	}
	if len(c.Display.Currency) != 3 {
		return &Error{Key: "display.currency", Message: fmt.Sprintf("must be an ISO 4217 code, got %q", c.Display.Currency)}
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("search.cache_size", d.Search.CacheSize)
	v.SetDefault("search.cache_ttl", d.Search.CacheTTL)
	v.SetDefault("display.currency", d.Display.Currency)
}

// loadEnvFile exports variables from path without overriding ones
// already set in the environment.
func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Error{Message: "stat " + path, Err: err}
	}
	if err := godotenv.Load(path); err != nil {
		return &Error{Message: "load " + path, Err: err}
	}
	return nil
}
