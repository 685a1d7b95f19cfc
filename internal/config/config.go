package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/atikulmunna/loglens/internal/parser"
)

// EnvPrefix prefixes environment overrides, e.g. LOGLENS_THRESHOLD=5.
const EnvPrefix = "LOGLENS"

// Config is the full set of named options for a run.
type Config struct {
	Inputs    []string     `mapstructure:"input"`
	Output    string       `mapstructure:"output"`
	Format    string       `mapstructure:"format"`
	Marker    string       `mapstructure:"marker"`
	Threshold int          `mapstructure:"threshold"`
	Parser    string       `mapstructure:"parser"`
	Pattern   string       `mapstructure:"pattern"`
	Pipeline  bool         `mapstructure:"pipeline"`
	Buffer    int          `mapstructure:"buffer"`
	Log       LoggerConfig `mapstructure:"log"`
	Serve     ServeConfig  `mapstructure:"serve"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// ServeConfig configures the HTTP report server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers the default value of every option on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", []string{"sample.log"})
	v.SetDefault("output", "log_analysis_results.csv")
	v.SetDefault("format", "text")
	v.SetDefault("marker", "401")
	v.SetDefault("threshold", 0)
	v.SetDefault("parser", parser.NameFields)
	v.SetDefault("pattern", "")
	v.SetDefault("pipeline", false)
	v.SetDefault("buffer", 512)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("serve.addr", ":8080")
}

// Configure points v at a config file (or the default search path) and enables env overrides.
func Configure(v *viper.Viper, file string, searchPaths ...string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
		v.SetConfigName(".loglens")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the config file if present and decodes v into a validated Config.
// A missing file in the search path is not an error; an explicit file that
// cannot be read is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects option values no run can use.
func (c Config) Validate() error {
	var errs []error

	if len(c.Inputs) == 0 {
		errs = append(errs, errors.New("at least one input is required"))
	}
	if strings.TrimSpace(c.Marker) == "" {
		errs = append(errs, errors.New("marker must not be empty"))
	}
	if c.Threshold < 0 {
		errs = append(errs, fmt.Errorf("threshold must be >= 0, got %d", c.Threshold))
	}
	switch c.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("format must be text or json, got %q", c.Format))
	}
	if _, err := parser.New(c.Parser, c.Pattern); err != nil {
		errs = append(errs, err)
	}
	if c.Buffer < 0 {
		errs = append(errs, fmt.Errorf("buffer must be >= 0, got %d", c.Buffer))
	}

	return errors.Join(errs...)
}
