package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	AppPortEnv         = "APP_PORT"
	StateHostEnv       = "DAPR_HOST"
	DaprHTTPPortEnv    = "DAPR_HTTP_PORT"
	ServiceNameEnv     = "SERVICE_NAME"
	ZipkinEndpointEnv  = "ZIPKIN_ENDPOINT"
	TracingEnabledEnv  = "TRACING_ENABLED"
	OutboundTimeoutEnv = "STATE_TIMEOUT"
	LogLevelEnv        = "LOG_LEVEL"

	DefaultPort           = 3000
	DefaultStateHost      = "localhost"
	DefaultDaprHTTPPort   = 3500
	StateStoreName        = "statestore"
	DefaultServiceName    = "nodeapp"
	DefaultZipkinEndpoint = "http://localhost:9411/api/v2/spans"
)

// LookupFunc reports the value of a configuration key and whether it was set.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	Port            int
	StateHost       string
	DaprHTTPPort    int
	StateStoreName  string
	ServiceName     string
	ZipkinEndpoint  string
	TracingEnabled  bool
	OutboundTimeout time.Duration
	LogLevel        slog.Level
}

// StateURL returns the base URL of the state store exposed by the sidecar.
func (c *Config) StateURL() string {
	return fmt.Sprintf("http://%s:%d/v1.0/state/%s", c.StateHost, c.DaprHTTPPort, c.StateStoreName)
}

// Addr returns the listen address of the gateway.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load builds a Config from lookup, falling back to defaults for unset keys.
func Load(lookup LookupFunc) (*Config, error) {
	cfg := &Config{
		Port:           DefaultPort,
		StateHost:      DefaultStateHost,
		DaprHTTPPort:   DefaultDaprHTTPPort,
		StateStoreName: StateStoreName,
		ServiceName:    DefaultServiceName,
		ZipkinEndpoint: DefaultZipkinEndpoint,
		TracingEnabled: true,
		LogLevel:       slog.LevelInfo,
	}

	var err error
	if cfg.Port, err = lookupPort(lookup, AppPortEnv, cfg.Port); err != nil {
		return nil, err
	}

	if cfg.DaprHTTPPort, err = lookupPort(lookup, DaprHTTPPortEnv, cfg.DaprHTTPPort); err != nil {
		return nil, err
	}

	cfg.StateHost = lookupString(lookup, StateHostEnv, cfg.StateHost)
	cfg.ServiceName = lookupString(lookup, ServiceNameEnv, cfg.ServiceName)
	cfg.ZipkinEndpoint = lookupString(lookup, ZipkinEndpointEnv, cfg.ZipkinEndpoint)

	if v, ok := lookupValue(lookup, TracingEnabledEnv); ok {
		if cfg.TracingEnabled, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", TracingEnabledEnv, v, err)
		}
	}

	if v, ok := lookupValue(lookup, OutboundTimeoutEnv); ok {
		timeout, parseErr := time.ParseDuration(v)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", OutboundTimeoutEnv, v, parseErr)
		}
		if timeout < 0 {
			return nil, fmt.Errorf("invalid %s %q: must not be negative", OutboundTimeoutEnv, v)
		}
		cfg.OutboundTimeout = timeout
	}

	if v, ok := lookupValue(lookup, LogLevelEnv); ok {
		if err = cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", LogLevelEnv, v, err)
		}
	}

	return cfg, nil
}

// lookupValue returns the trimmed value for key, treating blank values as unset.
func lookupValue(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)
	return v, v != ""
}

func lookupString(lookup LookupFunc, key, fallback string) string {
	if v, ok := lookupValue(lookup, key); ok {
		return v
	}

	return fallback
}

func lookupPort(lookup LookupFunc, key string, fallback int) (int, error) {
	v, ok := lookupValue(lookup, key)
	if !ok {
		return fallback, nil
	}

	port, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}

	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid %s %q: out of range", key, v)
	}

	return port, nil
}
