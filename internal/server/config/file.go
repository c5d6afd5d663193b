package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/yeslist/internal/flagx"
	"github.com/dmitrijs2005/yeslist/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the server configuration. Durations
// accept either "90s" style strings or integer nanoseconds. Absent keys keep
// the values already present in Config.
type FileConfig struct {
	EndpointAddrHTTP       string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPCHealth *string        `json:"endpoint_addr_grpc_health" yaml:"endpoint_addr_grpc_health"`
	DatabaseDSN            string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey              string         `json:"secret_key" yaml:"secret_key"`
	TokenIssuer            string         `json:"token_issuer" yaml:"token_issuer"`
	TokenAudience          string         `json:"token_audience" yaml:"token_audience"`
	TokenValidityDuration  timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	TokenClockSkew         timex.Duration `json:"token_clock_skew" yaml:"token_clock_skew"`
	AllowedOrigins         []string       `json:"allowed_origins" yaml:"allowed_origins"`
	LogLevel               string         `json:"log_level" yaml:"log_level"`
	DevMode                *bool          `json:"dev_mode" yaml:"dev_mode"`
}

// parseFile loads the file named by -c/-config, if any. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	if fc.EndpointAddrGRPCHealth != nil {
		config.EndpointAddrGRPCHealth = *fc.EndpointAddrGRPCHealth
	}
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	setString(&config.TokenIssuer, fc.TokenIssuer)
	setString(&config.TokenAudience, fc.TokenAudience)
	if fc.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	if fc.TokenClockSkew.Duration != 0 {
		config.TokenClockSkew = fc.TokenClockSkew.Duration
	}
	if fc.AllowedOrigins != nil {
		config.AllowedOrigins = fc.AllowedOrigins
	}
	setString(&config.LogLevel, fc.LogLevel)
	if fc.DevMode != nil {
		config.DevMode = *fc.DevMode
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
