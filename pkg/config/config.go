// Package config loads the Normalizer configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mcpchecker/envelope/pkg/codec"
	"github.com/mcpchecker/envelope/pkg/util"
	"sigs.k8s.io/yaml"
)

const (
	KindNormalizer = "Normalizer"

	DefaultConcurrency = 4
)

type Config struct {
	util.TypeMeta `json:",inline"`
	Input         codec.Format `json:"input,omitempty"`
	Output        codec.Format `json:"output,omitempty"`
	// Concurrency bounds batch workers. Zero, whether omitted or written
	// out, means DefaultConcurrency; negative values are rejected.
	Concurrency   int          `json:"concurrency,omitempty"`
}

func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	return util.UnmarshalWithKind(data, (*plain)(c), KindNormalizer)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		TypeMeta: util.NewTypeMeta(KindNormalizer),
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = util.CurrentAPIVersion
	}
	if c.Input == "" {
		c.Input = codec.FormatAuto
	} else if f, err := codec.ParseFormat(string(c.Input)); err == nil {
		c.Input = f
	}
	if c.Output == "" {
		c.Output = codec.FormatJSON
	} else if f, err := codec.ParseFormat(string(c.Output)); err == nil {
		c.Output = f
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
}

// Validate reports every problem found in the configuration.
func (c *Config) Validate() error {
	err := c.TypeMeta.Validate(KindNormalizer)

	if _, ferr := codec.ParseFormat(string(c.Input)); ferr != nil {
		err = errors.Join(err, fmt.Errorf("invalid input format: %w", ferr))
	}

	switch out, ferr := codec.ParseFormat(string(c.Output)); {
	case ferr != nil:
		err = errors.Join(err, fmt.Errorf("invalid output format: %w", ferr))
	case out == codec.FormatAuto:
		err = errors.Join(err, errors.New("invalid output format: auto is only valid for input"))
	}

	if c.Concurrency < 1 {
		err = errors.Join(err, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}

	return err
}

// Read parses a YAML or JSON config document, applies defaults and
// validates the result.
func Read(data []byte) (*Config, error) {
	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s' for config: %w", path, err)
	}

	cfg, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", path, err)
	}

	return cfg, nil
}
