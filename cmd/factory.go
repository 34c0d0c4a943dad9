package cmd

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/darmiel/checkin/internal/config"
	"github.com/darmiel/checkin/pkg/client"
)

type Factory struct {
	// RemoteAddr is the address of the checkin server to connect to.
	RemoteAddr string

	// AuthToken is sent as bearer token (admin or presenter session).
	AuthToken string

	// ConfigPath is the server configuration file. Empty means built-in defaults.
	ConfigPath string
}

func NewFactory() *Factory {
	return &Factory{}
}

// GetClient returns an HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(CheckinAddrKey) // prio 2: config/env
	}
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set CHECKIN_ADDR)")
	}

	token := f.AuthToken
	if token == "" {
		token = viper.GetString(CheckinTokenKey)
	}

	return client.New(server, client.WithAuthToken(token)), nil
}

// LoadServerConfig loads the configuration file, falling back to the built-in defaults.
func (f *Factory) LoadServerConfig() (*config.Config, error) {
	if f.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(f.ConfigPath)
}

func (f *Factory) bindConfigFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&f.ConfigPath, "config", "c", "", "The checkin server config file to use")
}

func (f *Factory) bindTokenFlag(flags *pflag.FlagSet) {
	flags.StringVar(&f.AuthToken, "auth-token", "", "Bearer token for the server (default is $CHECKIN_TOKEN)")
}
