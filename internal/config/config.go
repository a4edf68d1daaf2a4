// Package config holds the application configuration: explicit typed structs
// per concern, loaded from YAML, with a typed partial-update method instead
// of dynamic attribute patching.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration is a time.Duration that unmarshals from YAML strings like "50ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// EngineConfig configures the schedule engine.
type EngineConfig struct {
	TickInterval Duration `yaml:"tick_interval"`
	PrepareLead  Duration `yaml:"prepare_lead"`
	TermStart    string   `yaml:"term_start"` // YYYY-MM-DD, anchors week parity
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
	File  string `yaml:"file"`  // empty means stderr
}

// Config is the root application configuration.
type Config struct {
	ProfilePath string       `yaml:"profile_path"`
	Engine      EngineConfig `yaml:"engine"`
	Log         LogConfig    `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ProfilePath: "timenest-profile.json",
		Engine: EngineConfig{
			TickInterval: Duration(50 * time.Millisecond),
			PrepareLead:  Duration(time.Minute),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML config at path layered over the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TermStart parses the configured term start date, defaulting to the current
// year's September 1st when unset.
func (c *Config) TermStart() (time.Time, error) {
	if c.Engine.TermStart == "" {
		now := time.Now()
		return time.Date(now.Year(), time.September, 1, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", c.Engine.TermStart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid term_start %q", c.Engine.TermStart)
	}
	return t, nil
}

// Partial is a set of optional config overrides. Nil fields are left alone.
type Partial struct {
	ProfilePath  *string
	TickInterval *time.Duration
	PrepareLead  *time.Duration
	TermStart    *string
	LogLevel     *string
	LogFile      *string
}

// Update applies a partial override, validating each supplied field. Unknown
// or invalid values reject the whole update and leave the config unchanged.
func (c *Config) Update(p Partial) error {
	next := *c
	if p.ProfilePath != nil {
		if *p.ProfilePath == "" {
			return fmt.Errorf("profile_path must not be empty")
		}
		next.ProfilePath = *p.ProfilePath
	}
	if p.TickInterval != nil {
		if *p.TickInterval <= 0 {
			return fmt.Errorf("tick_interval must be positive, got %v", *p.TickInterval)
		}
		next.Engine.TickInterval = Duration(*p.TickInterval)
	}
	if p.PrepareLead != nil {
		if *p.PrepareLead < 0 {
			return fmt.Errorf("prepare_lead must not be negative, got %v", *p.PrepareLead)
		}
		next.Engine.PrepareLead = Duration(*p.PrepareLead)
	}
	if p.TermStart != nil {
		if _, err := time.ParseInLocation("2006-01-02", *p.TermStart, time.Local); err != nil {
			return fmt.Errorf("invalid term_start %q", *p.TermStart)
		}
		next.Engine.TermStart = *p.TermStart
	}
	if p.LogLevel != nil {
		if !validLevel(*p.LogLevel) {
			return fmt.Errorf("invalid log level %q", *p.LogLevel)
		}
		next.Log.Level = *p.LogLevel
	}
	if p.LogFile != nil {
		next.Log.File = *p.LogFile
	}

	*c = next
	return nil
}

func (c *Config) validate() error {
	if c.ProfilePath == "" {
		return fmt.Errorf("profile_path must not be empty")
	}
	if c.Engine.TickInterval <= 0 {
		return fmt.Errorf("engine.tick_interval must be positive")
	}
	if c.Engine.PrepareLead < 0 {
		return fmt.Errorf("engine.prepare_lead must not be negative")
	}
	if !validLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Engine.TermStart != "" {
		if _, err := time.ParseInLocation("2006-01-02", c.Engine.TermStart, time.Local); err != nil {
			return fmt.Errorf("invalid engine.term_start %q", c.Engine.TermStart)
		}
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
