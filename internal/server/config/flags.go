package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/yeslist/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address, "" disables
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-i string   token issuer
//	-u string   token audience
//	-t int      token validity, minutes
//	-k int      token clock skew, seconds
//	-o string   comma separated CORS origins
//	-l string   log level
//	-dev        allow an ephemeral signing key
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-i", "-u", "-t", "-k", "-o", "-l", "-dev"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPCHealth, "g", config.EndpointAddrGRPCHealth, "address and port for the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	fs.StringVar(&config.TokenAudience, "u", config.TokenAudience, "token audience")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration/time.Minute), "token validity duration (in minutes)")
	clockSkew := fs.Int("k", int(config.TokenClockSkew/time.Second), "token clock skew (in seconds)")
	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed CORS origins")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.DevMode, "dev", config.DevMode, "development mode")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "k":
			config.TokenClockSkew = time.Duration(*clockSkew) * time.Second
		case "o":
			config.AllowedOrigins = flagx.SplitList(*origins)
		}
	})
	return nil
}
