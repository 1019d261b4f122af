// Package config loads settings for the parsekit command and server from a
// YAML file, optional .env files and PARSEKIT_* environment variables, in
// increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/logging"
)

// Environment variables overriding file settings.
const (
	EnvModelDir        = "PARSEKIT_MODEL_DIR"
	EnvModels          = "PARSEKIT_MODELS"
	EnvAddr            = "PARSEKIT_ADDR"
	EnvLogLevel        = "PARSEKIT_LOG_LEVEL"
	EnvLogFormat       = "PARSEKIT_LOG_FORMAT"
	EnvLengthPolicy    = "PARSEKIT_LENGTH_POLICY"
	EnvMaxSentenceSize = "PARSEKIT_MAX_SENTENCE_SIZE"
)

// DefaultAddr is the server listen address.
const DefaultAddr = "localhost:8859"

// Config holds command and server settings.
type Config struct {
	ModelDir        string   `yaml:"model_dir"`
	Models          []string `yaml:"models"` // tagger, parser, depparser
	Addr            string   `yaml:"addr"`
	LogLevel        string   `yaml:"log_level"`
	LogFormat       string   `yaml:"log_format"` // json, text or zap
	LengthPolicy    string   `yaml:"length_policy"`
	MaxSentenceSize int      `yaml:"max_sentence_size"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Models:       []string{"tagger", "parser", "depparser"},
		Addr:         DefaultAddr,
		LogLevel:     "info",
		LogFormat:    "text",
		LengthPolicy: core.LengthPolicySkip.String(),
	}
}

// Load reads path (when non-empty) over the defaults, loads envFiles into the
// process environment without overriding variables already set, and applies
// PARSEKIT_* overrides. Without envFiles a ".env" in the working directory is
// loaded when present.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return cfg, fmt.Errorf("load env: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		EnvModelDir:     &c.ModelDir,
		EnvAddr:         &c.Addr,
		EnvLogLevel:     &c.LogLevel,
		EnvLogFormat:    &c.LogFormat,
		EnvLengthPolicy: &c.LengthPolicy,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(EnvModels); ok && v != "" {
		c.Models = splitList(v)
	}
	if v, ok := lookup(EnvMaxSentenceSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxSentenceSize, err)
		}
		c.MaxSentenceSize = n
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, f)
	}
	return out
}

// Validate checks every enumerated setting.
func (c Config) Validate() error {
	if _, err := c.Kinds(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" && c.LogFormat != "zap" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.MaxSentenceSize < 0 {
		return fmt.Errorf("max_sentence_size must not be negative")
	}
	return nil
}

// Kinds maps the model names to model kinds. "parser" and "conparser" both
// name the constituency parser.
func (c Config) Kinds() ([]core.ModelKind, error) {
	kinds := make([]core.ModelKind, 0, len(c.Models))
	for _, m := range c.Models {
		k, err := ParseKind(m)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// ParseKind maps a model name to its kind.
func ParseKind(name string) (core.ModelKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tagger":
		return core.KindTagger, nil
	case "parser", "conparser":
		return core.KindConParser, nil
	case "depparser":
		return core.KindDepParser, nil
	default:
		return "", fmt.Errorf("invalid model %q: choices are tagger, parser and depparser", name)
	}
}

// Policy returns the configured length policy.
func (c Config) Policy() (core.LengthPolicy, error) { return core.ParseLengthPolicy(c.LengthPolicy) }

// Level returns the configured log level.
func (c Config) Level() (logging.LogLevel, error) { return logging.ParseLogLevel(c.LogLevel) }

// Logger builds a logger writing to w. The json and text formats use slog;
// zap selects a zap production logger.
func (c Config) Logger(w io.Writer) (logging.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	if c.LogFormat == "zap" {
		return logging.NewZapProductionLogger(level, w)
	}
	cfg := logging.DefaultLoggerConfig()
	cfg.Level = level
	cfg.Format = c.LogFormat
	cfg.Output = w
	return logging.NewLogger(cfg), nil
}
