// Package config loads solarboard settings from defaults, a YAML file, a
// .env file, SOLARBOARD_* environment variables and key=value overrides,
// applied in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/just-scribblig/solar-challenge-week0/engine"
	"github.com/just-scribblig/solar-challenge-week0/loader"
	"github.com/just-scribblig/solar-challenge-week0/logger"
	"github.com/just-scribblig/solar-challenge-week0/schema"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOLARBOARD_"

// Config is the full set of solarboard settings.
type Config struct {
	LogLevel    string          `yaml:"log_level"`
	DataDir     string          `yaml:"data_dir"`
	Pattern     string          `yaml:"pattern"`
	Countries   []string        `yaml:"countries"`
	Sources     []loader.Source `yaml:"sources,omitempty"` // overrides data_dir/pattern/countries
	Metric      string          `yaml:"metric"`
	RankMetric  string          `yaml:"rank_metric"`
	Precision   int             `yaml:"precision"`
	MetricsFile string          `yaml:"metrics_file,omitempty"`
	Schema      *schema.Config  `yaml:"schema,omitempty"` // nil = solar schema
}

// overridable are the keys settable from the environment.
var overridable = []string{
	"log_level", "data_dir", "pattern", "countries",
	"metric", "rank_metric", "precision", "metrics_file",
}

// Default returns the settings of the stock dashboard.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		DataDir:    "data",
		Pattern:    loader.DefaultPattern,
		Countries:  []string{"benin", "sierraleone", "togo"},
		Metric:     "GHI",
		RankMetric: "GHI",
		Precision:  engine.DefaultPrecision,
	}
}

// Load builds the configuration. path and envFile may be empty; an empty
// envFile means an optional ./.env.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logger.Warnf(".env file (%s) not found or could not be loaded: %v", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Debugf(".env file could not be loaded: %v", err)
	}

	if err := cfg.ApplyOverrides(fromEnv()); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() map[string]string {
	out := make(map[string]string)
	for _, key := range overridable {
		if v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(key)); ok {
			out[key] = v
		}
	}
	return out
}

// ApplyOverrides binds key=value strings onto the config by yaml key.
// Numbers are parsed from strings and lists are comma separated.
func (c *Config) ApplyOverrides(overrides map[string]string) error {
	if len(overrides) == 0 {
		return nil
	}
	input := make(map[string]interface{}, len(overrides))
	for k, v := range overrides {
		input[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to apply overrides: %w", err)
	}
	return nil
}

// ParseOverrides turns ["precision=3", "metric=DNI"] into a map.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, engine.NewConfigError("set", p, fmt.Errorf("want key=value: %w", engine.ErrInvalidSelection))
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// Validate checks the settings after all sources are applied.
func (c *Config) Validate() error {
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return engine.NewConfigError("log_level", c.LogLevel, engine.ErrInvalidSelection)
	}
	if c.Precision < 0 || c.Precision > 10 {
		return engine.NewConfigError("precision", fmt.Sprint(c.Precision), engine.ErrInvalidSelection)
	}
	sch := c.SchemaConfig()
	if err := sch.Check(); err != nil {
		return engine.NewConfigError("schema", sch.Name, fmt.Errorf("%v: %w", err, engine.ErrInvalidSelection))
	}
	if _, ok := sch.Metric(c.Metric); !ok {
		return engine.NewConfigError("metric", c.Metric, engine.ErrUnknownColumn)
	}
	// Empty rank_metric ranks by the selected metric.
	if _, ok := sch.Metric(c.RankMetric); !ok && c.RankMetric != "" {
		return engine.NewConfigError("rank_metric", c.RankMetric, engine.ErrUnknownColumn)
	}
	return loader.ValidateSources(c.LoaderSources())
}

// SchemaConfig returns the configured schema or the solar default.
func (c *Config) SchemaConfig() schema.Config {
	if c.Schema == nil {
		return schema.Solar()
	}
	return *c.Schema
}

// LoaderSources returns the explicit sources, or one per country following
// the file pattern.
func (c *Config) LoaderSources() []loader.Source {
	if len(c.Sources) > 0 {
		return c.Sources
	}
	return loader.SourcesFromPattern(c.DataDir, c.Pattern, c.Countries)
}

// EngineOptions maps the settings onto engine options.
func (c *Config) EngineOptions() []engine.Option {
	sch := c.SchemaConfig()
	return []engine.Option{
		engine.WithPrecision(c.Precision),
		engine.WithMetrics(sch.MetricKeys()...),
		engine.WithRankMetric(c.RankMetric),
		engine.WithUnit(sch.Unit()),
	}
}
