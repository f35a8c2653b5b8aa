// Package config provides functionality for managing configuration
// options for the client using command-line flags and environment
// variables.
package config

import (
	"flag"
	"log"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the client.
type Options struct {
	// ServerURL is the base URL of the marketplace backend.
	ServerURL string `env:"USTAHUB_SERVER"`

	// TokenFile is the path the session token is persisted at. Empty
	// selects the default location under the user config directory.
	TokenFile string `env:"USTAHUB_TOKEN_FILE"`

	// CACert is an optional CA certificate to trust for the backend.
	CACert string `env:"USTAHUB_CA"`

	// LogLevel sets the logging verbosity.
	LogLevel string `env:"USTAHUB_LOG_LEVEL"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.ServerURL, "url", "http://localhost:8080/api", "backend base URL")
	flag.StringVar(&options.TokenFile, "token-file", "", "path to the persisted session token")
	flag.StringVar(&options.CACert, "ca", "", "path to a CA cert to trust")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level: debug|info|warn|error")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. Environment variables take precedence over
// flags. It returns a pointer to the Options struct containing the
// parsed configuration values.
func Parse() *Options {
	flag.Parse()

	if err := env.Parse(options); err != nil {
		log.Fatalf("error while parsing environment: %v", err)
	}

	return options
}
