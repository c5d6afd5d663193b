package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors the variables understood by the server. JWT_DURATION is
// whole minutes; JWT_CLOCK_SKEW is a Go duration string.
type envConfig struct {
	EndpointAddrHTTP       string        `env:"HTTP_ADDR"`
	EndpointAddrGRPCHealth string        `env:"GRPC_HEALTH_ADDR"`
	DatabaseDSN            string        `env:"DATABASE_URL"`
	SecretKey              string        `env:"JWT_KEY"`
	TokenIssuer            string        `env:"JWT_ISSUER"`
	TokenAudience          string        `env:"JWT_AUDIENCE"`
	TokenDurationMinutes   int           `env:"JWT_DURATION"`
	TokenClockSkew         time.Duration `env:"JWT_CLOCK_SKEW"`
	AllowedOrigins         []string      `env:"CORS_ORIGINS" envSeparator:","`
	LogLevel               string        `env:"LOG_LEVEL"`
	DevMode                bool          `env:"DEV_MODE"`
}

// parseEnv overlays environment variables on config. Unset variables leave
// the current values untouched, since the struct is pre-filled from config.
func parseEnv(config *Config) error {
	minutes := int(config.TokenValidityDuration / time.Minute)
	e := envConfig{
		EndpointAddrHTTP:       config.EndpointAddrHTTP,
		EndpointAddrGRPCHealth: config.EndpointAddrGRPCHealth,
		DatabaseDSN:            config.DatabaseDSN,
		SecretKey:              config.SecretKey,
		TokenIssuer:            config.TokenIssuer,
		TokenAudience:          config.TokenAudience,
		TokenDurationMinutes:   minutes,
		TokenClockSkew:         config.TokenClockSkew,
		AllowedOrigins:         config.AllowedOrigins,
		LogLevel:               config.LogLevel,
		DevMode:                config.DevMode,
	}
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	config.EndpointAddrHTTP = e.EndpointAddrHTTP
	config.EndpointAddrGRPCHealth = e.EndpointAddrGRPCHealth
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.TokenIssuer = e.TokenIssuer
	config.TokenAudience = e.TokenAudience
	if e.TokenDurationMinutes != minutes {
		config.TokenValidityDuration = time.Duration(e.TokenDurationMinutes) * time.Minute
	}
	config.TokenClockSkew = e.TokenClockSkew
	config.AllowedOrigins = e.AllowedOrigins
	config.LogLevel = e.LogLevel
	config.DevMode = e.DevMode
	return nil
}
