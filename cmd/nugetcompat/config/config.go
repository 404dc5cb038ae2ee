// Package config loads nugetcompat settings from a YAML file, the
// environment and command-line flags.
//
// Precedence, highest first: flags bound with BindFlags, NUGETCOMPAT_*
// environment variables, the config file, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/willibrandon/nugetcompat/observability"
	"github.com/willibrandon/nugetcompat/server"
)

const (
	// EnvPrefix prefixes every environment override (NUGETCOMPAT_LOG_LEVEL).
	EnvPrefix = "NUGETCOMPAT"

	// FileName is the config file looked up in the home and working directories.
	FileName = ".nugetcompat"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the resolved CLI configuration.
type Config struct {
	ProfilesFile string        `mapstructure:"profiles_file"`
	LogLevel     string        `mapstructure:"log_level"`
	Format       string        `mapstructure:"format"`
	Server       ServerConfig  `mapstructure:"server"`
	Tracing      TracingConfig `mapstructure:"tracing"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// ServerConfig holds the serve command settings.
type ServerConfig struct {
	Listen            string        `mapstructure:"listen"`
	TLSCertFile       string        `mapstructure:"tls_cert_file"`
	TLSKeyFile        string        `mapstructure:"tls_key_file"`
	HTTP3             bool          `mapstructure:"http3"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`

	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`

	// CacheEntries bounds the API response cache; zero disables it.
	CacheEntries int   `mapstructure:"cache_entries"`
	CacheBytes   int64 `mapstructure:"cache_bytes"`
}

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	Exporter     string  `mapstructure:"exporter"`
	Endpoint     string  `mapstructure:"endpoint"`
	Insecure     bool    `mapstructure:"insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
	Environment  string  `mapstructure:"environment"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	srv := server.DefaultConfig()
	tracing := observability.DefaultTracerConfig()
	return &Config{
		LogLevel: observability.InfoLevel.String(),
		Format:   FormatText,
		Server: ServerConfig{
			Listen:            srv.Addr,
			ReadHeaderTimeout: srv.ReadHeaderTimeout,
			ShutdownTimeout:   srv.ShutdownTimeout,
			CacheEntries:      1024,
			CacheBytes:        8 << 20,
		},
		Tracing: TracingConfig{
			Exporter:     tracing.ExporterType,
			SamplingRate: tracing.SamplingRate,
			Environment:  tracing.Environment,
		},
	}
}

// New returns a viper instance seeded with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("profiles_file", d.ProfilesFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("format", d.Format)
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.tls_cert_file", d.Server.TLSCertFile)
	v.SetDefault("server.tls_key_file", d.Server.TLSKeyFile)
	v.SetDefault("server.http3", d.Server.HTTP3)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.cache_entries", d.Server.CacheEntries)
	v.SetDefault("server.cache_bytes", d.Server.CacheBytes)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("tracing.sampling_rate", d.Tracing.SamplingRate)
	v.SetDefault("tracing.environment", d.Tracing.Environment)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds command-line flags to config keys. Flags named after a
// key with dashes (log-level, profiles-file) map onto the underscore form.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

var flagKeys = map[string]string{
	"profiles-file":    "profiles_file",
	"log-level":        "log_level",
	"format":           "format",
	"listen":           "server.listen",
	"tls-cert":         "server.tls_cert_file",
	"tls-key":          "server.tls_key_file",
	"http3":            "server.http3",
	"rate-limit":       "server.rate_limit",
	"tracing-exporter": "tracing.exporter",
	"tracing-endpoint": "tracing.endpoint",
	"tracing-insecure": "tracing.insecure",
}

// Load reads the config file and resolves the final configuration. An
// explicit file must exist; the default lookup tries the working directory,
// then the home directory, and tolerates a missing file.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		// The working directory shadows the home directory.
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := observability.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid output format %q, expected %s or %s", c.Format, FormatText, FormatJSON)
	}

	switch c.Tracing.Exporter {
	case "", observability.ExporterNone, observability.ExporterStdout, observability.ExporterOTLP:
	default:
		return fmt.Errorf("invalid tracing exporter %q", c.Tracing.Exporter)
	}

	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 || c.Server.CacheEntries < 0 || c.Server.CacheBytes < 0 {
		return errors.New("server rate limit and cache settings must not be negative")
	}

	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("tracing sampling rate must be between 0 and 1, got %v", c.Tracing.SamplingRate)
	}
	return nil
}

// Level returns the parsed log level. Validate has already rejected bad values.
func (c *Config) Level() observability.LogLevel {
	level, err := observability.ParseLogLevel(c.LogLevel)
	if err != nil {
		return observability.InfoLevel
	}
	return level
}

// ServerConfig converts the server section for server.ListenAndServe.
func (c *Config) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Addr = c.Server.Listen
	cfg.TLSCertFile = c.Server.TLSCertFile
	cfg.TLSKeyFile = c.Server.TLSKeyFile
	cfg.HTTP3 = c.Server.HTTP3
	if c.Server.ReadHeaderTimeout > 0 {
		cfg.ReadHeaderTimeout = c.Server.ReadHeaderTimeout
	}
	if c.Server.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = c.Server.ShutdownTimeout
	}
	return cfg
}

// ServerOptions converts the rate limit and cache settings for server.New.
func (c *Config) ServerOptions() []server.Option {
	return []server.Option{
		server.WithRateLimit(c.Server.RateLimit, c.Server.RateBurst),
		server.WithResponseCache(c.Server.CacheEntries, c.Server.CacheBytes),
	}
}

// TracerConfig converts the tracing section for observability.SetupTracing.
func (c *Config) TracerConfig(serviceVersion string) observability.TracerConfig {
	cfg := observability.DefaultTracerConfig()
	cfg.ServiceVersion = serviceVersion
	cfg.ExporterType = c.Tracing.Exporter
	cfg.OTLPEndpoint = c.Tracing.Endpoint
	cfg.OTLPInsecure = c.Tracing.Insecure
	cfg.SamplingRate = c.Tracing.SamplingRate
	if c.Tracing.Environment != "" {
		cfg.Environment = c.Tracing.Environment
	}
	return cfg
}
