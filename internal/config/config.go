// Package config loads hardenctl settings from defaults, an optional
// hardenctl.yaml and HARDENCTL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/joshuapare/hardenkit/pkg/hardener"
	"github.com/joshuapare/hardenkit/pkg/types"
)

// EnvPrefix prefixes every environment override, e.g. HARDENCTL_LOGGER_LEVEL.
const EnvPrefix = "HARDENCTL"

// FileName is the config file base name searched in the working directory.
const FileName = "hardenctl"

// Config is the root configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Profile ProfileConfig `mapstructure:"profile"`
	Output  OutputConfig  `mapstructure:"output"`
}

// ColorConfig names the console color of each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" json:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error string `mapstructure:"error" json:"error" yaml:"error"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// ProfileConfig is the hardening profile used by `hardenctl harden`.
// Names are matched case-insensitively, ignoring dashes and underscores.
type ProfileConfig struct {
	Fuses            map[string]bool `mapstructure:"fuses"`
	NodeFlags        []string        `mapstructure:"node_flags"`
	ElectronOptions  []string        `mapstructure:"electron_options"`
	DevToolsMessages []string        `mapstructure:"devtools_messages"`
	IgnoreMissing    bool            `mapstructure:"ignore_missing"`
}

// OutputConfig controls how patched binaries are saved.
type OutputConfig struct {
	Backup   bool `mapstructure:"backup"`
	FullSync bool `mapstructure:"full_sync"`
}

func optionNames[T types.Option](opts []T) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Name()
	}
	return out
}

// SetDefaults registers the default value of every key on v. The default
// profile matches hardener.DefaultProfile.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "hardenctl")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("profile.fuses", map[string]any{types.RunAsNode.String(): false})
	v.SetDefault("profile.node_flags", optionNames(types.AllNodeFlags()))
	v.SetDefault("profile.electron_options", optionNames(types.AllElectronOptions()))
	v.SetDefault("profile.devtools_messages", optionNames(types.AllDevToolsMessages()))
	v.SetDefault("profile.ignore_missing", false)

	v.SetDefault("output.backup", false)
	v.SetDefault("output.full_sync", false)
}

// NewViper returns a viper instance with defaults and environment overrides
// applied, reading configFile if set, or hardenctl.yaml from the working
// directory if present.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("logger.level: %w", err)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be 'console' or 'json', got %q", c.Logger.Format)
	}
	if c.Logger.MaxSize < 0 || c.Logger.MaxBackups < 0 || c.Logger.MaxAge < 0 {
		return errors.New("logger rotation limits must not be negative")
	}
	if _, err := c.Profile.Resolve(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// Resolve converts names into a hardener.Profile. Unknown names, and names
// listed under the wrong family, are errors.
func (p ProfileConfig) Resolve() (hardener.Profile, error) {
	out := hardener.Profile{
		Fuses:         make(map[types.Fuse]bool, len(p.Fuses)),
		IgnoreMissing: p.IgnoreMissing,
	}

	names := make([]string, 0, len(p.Fuses))
	for name := range p.Fuses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, err := types.ParseFuse(name)
		if err != nil {
			return hardener.Profile{}, err
		}
		out.Fuses[f] = p.Fuses[name]
	}

	for _, name := range p.NodeFlags {
		opt, err := types.ParseOptionOf(types.FamilyNodeFlag, name)
		if err != nil {
			return hardener.Profile{}, err
		}
		out.NodeFlags = append(out.NodeFlags, opt.(types.NodeFlag))
	}
	for _, name := range p.ElectronOptions {
		opt, err := types.ParseOptionOf(types.FamilyElectronOption, name)
		if err != nil {
			return hardener.Profile{}, err
		}
		out.ElectronOptions = append(out.ElectronOptions, opt.(types.ElectronOption))
	}
	for _, name := range p.DevToolsMessages {
		opt, err := types.ParseOptionOf(types.FamilyDevToolsMessage, name)
		if err != nil {
			return hardener.Profile{}, err
		}
		out.Messages = append(out.Messages, opt.(types.DevToolsMessage))
	}
	return out, nil
}
