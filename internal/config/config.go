// Package config loads server and simulator settings from an optional
// impact.yaml, IMPACT_* environment variables, and built-in defaults, in
// increasing order of precedence for the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
)

// EnvPrefix namespaces every environment override, e.g.
// IMPACT_SERVER_GRPC_ADDR or IMPACT_INTEGRATOR_TIME_STEP_S.
const EnvPrefix = "IMPACT"

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

type ServerConfig struct {
	GRPCAddr    string
	MetricsAddr string
}

type SessionConfig struct {
	MaxSessions int
	TTL         time.Duration
}

type PlaybackConfig struct {
	Tick  time.Duration
	Speed float64
}

// Config is the fully resolved configuration.
type Config struct {
	Server     ServerConfig
	Log        logging.Config
	Tracing    observability.TracingConfig
	Integrator core.IntegratorConfig
	Sessions   SessionConfig
	Playback   PlaybackConfig
	// CatalogPath names an optional JSON catalog loaded on top of the
	// built-in materials and presets.
	CatalogPath string
}

func setDefaults(v *viper.Viper) {
	integ := core.DefaultIntegratorConfig()
	tracing := observability.DefaultTracingConfig()

	v.SetDefault("server.grpc_addr", ":50061")
	v.SetDefault("server.metrics_addr", ":9091")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.add_source", false)
	v.SetDefault("tracing.enabled", tracing.Enabled)
	v.SetDefault("tracing.service_name", tracing.ServiceName)
	v.SetDefault("tracing.exporter", tracing.Exporter)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_ratio", tracing.SampleRatio)
	v.SetDefault("integrator.time_step_s", integ.TimeStepS)
	v.SetDefault("integrator.gravity", integ.Gravity)
	v.SetDefault("integrator.drag_coefficient", integ.DragCoefficient)
	v.SetDefault("integrator.ablation_multiplier", integ.AblationMultiplier)
	v.SetDefault("sessions.max", 256)
	v.SetDefault("sessions.ttl", 30*time.Minute)
	v.SetDefault("playback.tick", 100*time.Millisecond)
	v.SetDefault("playback.speed", 1.0)
	v.SetDefault("catalog.path", "")
}

// Load resolves configuration. When path is empty, impact.yaml is looked
// up in the working directory and silently skipped if absent; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("impact")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			GRPCAddr:    v.GetString("server.grpc_addr"),
			MetricsAddr: v.GetString("server.metrics_addr"),
		},
		Log: logging.Config{
			Level:     v.GetString("log.level"),
			Format:    v.GetString("log.format"),
			AddSource: v.GetBool("log.add_source"),
		},
		Tracing: observability.TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			ServiceName: v.GetString("tracing.service_name"),
			Exporter:    strings.ToLower(v.GetString("tracing.exporter")),
			Endpoint:    v.GetString("tracing.endpoint"),
			SampleRatio: v.GetFloat64("tracing.sample_ratio"),
		},
		Integrator: core.IntegratorConfig{
			TimeStepS:          v.GetFloat64("integrator.time_step_s"),
			Gravity:            v.GetFloat64("integrator.gravity"),
			DragCoefficient:    v.GetFloat64("integrator.drag_coefficient"),
			AblationMultiplier: v.GetFloat64("integrator.ablation_multiplier"),
		},
		Sessions: SessionConfig{
			MaxSessions: v.GetInt("sessions.max"),
			TTL:         v.GetDuration("sessions.ttl"),
		},
		Playback: PlaybackConfig{
			Tick:  v.GetDuration("playback.tick"),
			Speed: v.GetFloat64("playback.speed"),
		},
		CatalogPath: v.GetString("catalog.path"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the simulator cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Integrator.TimeStepS <= 0:
		return fmt.Errorf("%w: integrator.time_step_s must be > 0", ErrInvalidConfig)
	case c.Integrator.DragCoefficient < 0 || c.Integrator.AblationMultiplier < 0 || c.Integrator.Gravity < 0:
		return fmt.Errorf("%w: integrator constants must be non-negative", ErrInvalidConfig)
	case c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1:
		return fmt.Errorf("%w: tracing.sample_ratio must be within [0, 1]", ErrInvalidConfig)
	case c.Sessions.MaxSessions < 0:
		return fmt.Errorf("%w: sessions.max must be >= 0", ErrInvalidConfig)
	case c.Playback.Tick <= 0 || c.Playback.Speed <= 0:
		return fmt.Errorf("%w: playback tick and speed must be > 0", ErrInvalidConfig)
	}
	return nil
}
