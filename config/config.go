// Package config loads classgen settings from defaults, an optional
// classgen.toml, CLASSGEN_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/don7panic/classgen/diagram"
	"github.com/don7panic/classgen/errors"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = "classgen.toml"

// Config holds every setting of a run.
type Config struct {
	Diagram DiagramConfig `mapstructure:"diagram"`
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`
}

type DiagramConfig struct {
	Direction  string `mapstructure:"direction"`
	Markdown   bool   `mapstructure:"markdown"`
	Properties bool   `mapstructure:"properties"`
	Methods    bool   `mapstructure:"methods"`
	Parents    bool   `mapstructure:"parents"`
	Uses       bool   `mapstructure:"uses"`
	EdgeLabels bool   `mapstructure:"edge_labels"`
	ReadInit   bool   `mapstructure:"read_init"`
	Recursive  bool   `mapstructure:"recursive"`
}

type InputConfig struct {
	Unexported bool     `mapstructure:"unexported"`
	Classes    []string `mapstructure:"classes"`
}

type OutputConfig struct {
	// Path is appended to; empty means stdout.
	Path string `mapstructure:"path"`
	JSON bool   `mapstructure:"json"`
}

type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("diagram.direction", string(diagram.DefaultDirection))
	v.SetDefault("diagram.markdown", true)
	v.SetDefault("diagram.properties", true)
	v.SetDefault("diagram.methods", true)
	v.SetDefault("diagram.parents", true)
	v.SetDefault("diagram.uses", false)
	v.SetDefault("diagram.edge_labels", false)
	v.SetDefault("diagram.read_init", false)
	v.SetDefault("diagram.recursive", true)

	v.SetDefault("input.unexported", false)
	v.SetDefault("input.classes", []string{})

	v.SetDefault("output.path", "")
	v.SetDefault("output.json", false)

	v.SetDefault("log.json", false)
}

// New returns a viper instance with defaults and environment binding. When
// configPath is empty the nearest classgen.toml, if any, is used.
func New(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("CLASSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configPath == "" {
		configPath = findProjectConfig()
	}
	if configPath == "" {
		return v, nil
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidInput, "failed to read config file %s: %v", configPath, err),
			"fix or remove "+FileName,
		)
	}
	return v, nil
}

// BindFlags makes each changed flag override the config key it maps to.
// Flags that were not set on the command line leave file and env values in place.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return errors.Newf("unknown flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", flag)
		}
	}
	return nil
}

// BindInvertedFlags applies "hide" style boolean flags, such as --no-methods,
// to keys holding the positive setting. Only flags set on the command line
// are applied.
func BindInvertedFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return errors.Newf("unknown flag %q", flag)
		}
		if !f.Changed {
			continue
		}
		hide, err := flags.GetBool(flag)
		if err != nil {
			return errors.Wrapf(err, "flag %s", flag)
		}
		v.Set(key, !hide)
	}
	return nil
}

// Load unmarshals v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// DiagramConfig converts the settings into a validated serializer
// configuration. An invalid direction is reported here, before anything is
// rendered.
func (c *Config) DiagramConfig() (diagram.Config, error) {
	d := c.Diagram
	cfg := diagram.Config{
		ShowProperties:      d.Properties,
		ShowMethods:         d.Methods,
		ShowParents:         d.Parents,
		ShowUses:            d.Uses,
		ShowEdgeLabels:      d.EdgeLabels,
		ReadConstructor:     d.ReadInit,
		RecursiveAncestors:  d.Recursive,
		Direction:           diagram.Direction(d.Direction),
		WrapInMarkdownFence: d.Markdown,
	}
	return cfg.Validate()
}

// findProjectConfig walks up from the working directory looking for
// classgen.toml and returns its path, or "" when there is none.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
