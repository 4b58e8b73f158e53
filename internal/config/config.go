// Package config loads service configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"

	"github.com/ironsheep/linetrace/internal/pipeline"
)

// EnvPrefix prefixes environment overrides, e.g. LINETRACE_SERVER_PORT.
const EnvPrefix = "LINETRACE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Vectorize VectorizeConfig `mapstructure:"vectorize" yaml:"vectorize"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	Mode            string        `mapstructure:"mode" yaml:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

type VectorizeConfig struct {
	DefaultPreset string `mapstructure:"default_preset" yaml:"default_preset"`

	// Presets holds the presets named in the config file, each merged onto the
	// built-in preset of the same name (or onto the default options for a new
	// name). Built-ins not mentioned in the file are not listed here.
	Presets map[string]pipeline.Options `mapstructure:"-" yaml:"presets,omitempty"`
}

// Load reads the YAML file at path, applies environment overrides and defaults,
// and validates the result. A missing file is not an error: defaults and
// environment variables still apply. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	presets, err := loadPresets(v)
	if err != nil {
		return nil, err
	}
	cfg.Vectorize.Presets = presets

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 20*1024*1024)

	v.SetDefault("vectorize.default_preset", pipeline.DefaultPreset)
}

// loadPresets decodes vectorize.presets.<name> entries onto their base options,
// so a file only needs to name the fields it changes.
func loadPresets(v *viper.Viper) (map[string]pipeline.Options, error) {
	raw := v.GetStringMap("vectorize.presets")
	if len(raw) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	builtins := pipeline.BuiltinPresets()
	presets := make(map[string]pipeline.Options, len(raw))
	for _, name := range names {
		opts, ok := builtins[name]
		if !ok {
			opts = pipeline.DefaultOptions()
		}
		if err := v.UnmarshalKey("vectorize.presets."+name, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode preset %q: %w", name, err)
		}
		presets[name] = opts
	}
	return presets, nil
}

// Validate checks server settings and that every preset, and the default preset
// name, is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port must not be empty"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}
	if _, err := c.BuildPresets(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// BuildPresets combines the built-in presets with the configured overrides.
func (c *Config) BuildPresets() (*pipeline.Presets, error) {
	return pipeline.NewPresets(c.Vectorize.DefaultPreset, c.Vectorize.Presets)
}

// Print writes the configuration as YAML, with durations in their short form.
func (c *Config) Print(w io.Writer) error {
	out, err := yaml.MarshalWithOptions(c, durationEncoderOption())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// durationEncoderOption marshals time.Duration as "30s" rather than nanoseconds.
func durationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
