/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package metricsserver

import (
	"errors"

	"github.com/crpt-tools/crptapi/config"
)

// DefaultAddress is the address the metrics server listens on when none is configured.
const DefaultAddress = "127.0.0.1:9464"

const cfgDefaultKeyPrefix = "metricsServer"

const (
	cfgKeyEnabled = "enabled"
	cfgKeyAddress = "address"
)

// Config represents a set of configuration parameters for the metrics server.
type Config struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Address string `mapstructure:"address" yaml:"address" json:"address"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a Config read from the "metricsServer" key.
func NewConfig() *Config {
	return NewConfigWithKeyPrefix(cfgDefaultKeyPrefix)
}

// NewConfigWithKeyPrefix creates a new instance of the Config.
// Allows specifying key prefix which will be used for parsing configuration parameters.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for the metrics server in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyEnabled, false)
	dp.SetDefault(cfgKeyAddress, DefaultAddress)
}

// Set sets metrics server configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Enabled, err = dp.GetBool(cfgKeyEnabled); err != nil {
		return err
	}
	if c.Address, err = dp.GetString(cfgKeyAddress); err != nil {
		return err
	}
	if c.Enabled && c.Address == "" {
		return dp.WrapKeyErr(cfgKeyAddress, errors.New("cannot be empty when the server is enabled"))
	}
	return nil
}
