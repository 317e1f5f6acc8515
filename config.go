package injection

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Configuration keys read by LoadConfig.
const (
	ConfigDefaultPriority = "default_priority"
	ConfigStrictTypes     = "strict_types"
	ConfigLogLevel        = "log_level"
)

// ConfigEnvPrefix prefixes environment variables read by LoadConfig,
// e.g. INJECTION_DEFAULT_PRIORITY.
const ConfigEnvPrefix = "INJECTION"

// Config holds settings of a manager and of the injectors it builds.
type Config struct {
	// DefaultPriority of injectors added without priority.
	DefaultPriority int `mapstructure:"default_priority"`

	// StrictTypes disables structural coercions in type matching.
	StrictTypes bool `mapstructure:"strict_types"`

	// LogLevel is a zerolog level name.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used without explicit settings.
func DefaultConfig() Config {
	return Config{
		DefaultPriority: DefaultPriority,
		StrictTypes:     false,
		LogLevel:        zerolog.InfoLevel.String(),
	}
}

// LoadConfig reads the configuration from viper, including environment
// variables prefixed with ConfigEnvPrefix. A nil viper reads the environment only.
func LoadConfig(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	defaults := DefaultConfig()
	v.SetDefault(ConfigDefaultPriority, defaults.DefaultPriority)
	v.SetDefault(ConfigStrictTypes, defaults.StrictTypes)
	v.SetDefault(ConfigLogLevel, defaults.LogLevel)
	v.SetEnvPrefix(ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg := Config{
		DefaultPriority: v.GetInt(ConfigDefaultPriority),
		StrictTypes:     v.GetBool(ConfigStrictTypes),
		LogLevel:        strings.ToLower(v.GetString(ConfigLogLevel)),
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("failed to parse log level: %w", err)
	}

	return cfg, nil
}

// Logger returns a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// InjectorOpts returns injector options matching the configuration.
func (c Config) InjectorOpts() []InjectorOpt {
	var opts []InjectorOpt
	if c.StrictTypes {
		opts = append(opts, WithStrictTypes())
	}
	return opts
}
