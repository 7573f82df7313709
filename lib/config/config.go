package config

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/shiroyk/jsrt/api"
	"github.com/shiroyk/jsrt/js/modules"
	"github.com/shiroyk/jsrt/lib/utils"
)

const (
	// DefaultPath the default configuration file path.
	DefaultPath = "~/.config/jsrt/config.yml"
	// DefaultTimeout the default script timeout.
	DefaultTimeout = time.Minute
)

type configKey struct{}

// NewContext returns a context that contains the given Config.
func NewContext(ctx context.Context, config *Config) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

// FromContext returns the Config stored in ctx by NewContext, or the default
// Config if there is none.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if config, ok := ctx.Value(configKey{}).(*Config); ok {
			return config
		}
	}
	return DefaultConfig()
}

// Config The jsrt configuration
type Config struct {
	// Module the module system
	Module modules.Options `yaml:"module"`

	// Console enable the console object
	Console bool `yaml:"console"`

	// Timeout the script run timeout
	Timeout time.Duration `yaml:"timeout"`

	// API the api server
	API api.Options `yaml:"api"`
}

// DefaultConfig The default configuration
func DefaultConfig() *Config {
	return &Config{
		Module: modules.Options{
			Base:   ".",
			Probes: modules.DefaultProbes,
		},
		Console: true,
		Timeout: DefaultTimeout,
		API: api.Options{
			Timeout: api.DefaultTimeout,
			Address: api.DefaultAddress,
		},
	}
}

// ReadConfig read configuration from the file.
// If the configuration file is not existing then create it with default configuration.
func ReadConfig(path string) (config *Config, err error) {
	file, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(file); errors.Is(err, os.ErrNotExist) {
		config = DefaultConfig()
		if err = WriteConfig(file, config); err != nil {
			return nil, err
		}
		return config, nil
	}

	return utils.ReadYaml[Config](file)
}

// WriteConfig writes the configuration file, creating the parent directories.
func WriteConfig(file string, config *Config) error {
	return utils.WriteYaml(file, config)
}
