//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

// Package config loads and validates merge-index process configuration from
// YAML. The buffer thresholds configured here are handed to buffer.New as
// an explicit value; nothing is read from ambient global state at open
// time.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ThoughtWire/merge-index/buffer"
)

// Config is the top-level process configuration.
type Config struct {
	Buffer  BufferConfig  `yaml:"buffer"`
	Logging LoggingConfig `yaml:"logging"`
}

// BufferConfig controls the write-coalescing policy of every posting log
// this process opens. Each buffer jitters both thresholds independently at
// open time.
type BufferConfig struct {
	FlushAfterBytes int      `yaml:"flushAfterBytes"`
	FlushAfterDelay Duration `yaml:"flushAfterDelay"`
}

// Value converts to the explicit config the buffer constructor takes.
func (b BufferConfig) Value() buffer.Config {
	return buffer.Config{
		FlushAfterBytes: b.FlushAfterBytes,
		FlushAfterDelay: time.Duration(b.FlushAfterDelay),
	}
}

// LoggingConfig holds log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewLogger builds a logrus logger per the logging section. Unknown levels
// fall back to info.
func (l LoggingConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()

	if l.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if level, err := logrus.ParseLevel(l.Level); err == nil {
		logger.SetLevel(level)
	}

	return logger
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "250ms" as well as plain integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return errors.Wrapf(err, "parse duration %q", s)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}

	return errors.Errorf("cannot parse %q as duration", value.Value)
}

// Default returns the configuration used when a field (or the whole file)
// is absent.
func Default() Config {
	return Config{
		Buffer: BufferConfig{
			FlushAfterBytes: buffer.DefaultFlushAfterBytes,
			FlushAfterDelay: Duration(buffer.DefaultFlushAfterDelay),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates the
// result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Buffer.FlushAfterBytes <= 0 {
		return errors.New("buffer.flushAfterBytes must be positive")
	}

	if c.Buffer.FlushAfterDelay <= 0 {
		return errors.New("buffer.flushAfterDelay must be positive")
	}

	return nil
}
