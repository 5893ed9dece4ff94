/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package rategate

import (
	"errors"
	"time"

	"github.com/crpt-tools/crptapi/config"
)

// Default gate parameters: 10 submissions per minute.
const (
	DefaultWindow = time.Minute
	DefaultLimit  = 10
)

const (
	cfgKeyWindow = "window"
	cfgKeyLimit  = "limit"
)

// Config represents configuration of a RateGate.
type Config struct {
	// Window is the duration of the fixed window.
	Window config.TimeDuration `mapstructure:"window" yaml:"window" json:"window"`

	// Limit is the maximum number of admissions per window.
	Limit int `mapstructure:"limit" yaml:"limit" json:"limit"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new Config read from the root of the configuration.
func NewConfig() *Config {
	return NewConfigWithKeyPrefix("")
}

// NewConfigWithKeyPrefix creates a new Config read from the given key prefix.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{Window: config.TimeDuration(DefaultWindow), Limit: DefaultLimit}
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyWindow, DefaultWindow.String())
	dp.SetDefault(cfgKeyLimit, DefaultLimit)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	window, err := dp.GetDuration(cfgKeyWindow)
	if err != nil {
		return err
	}
	if window <= 0 {
		return dp.WrapKeyErr(cfgKeyWindow, errors.New("must be positive"))
	}
	c.Window = config.TimeDuration(window)

	limit, err := dp.GetInt(cfgKeyLimit)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return dp.WrapKeyErr(cfgKeyLimit, errors.New("must be positive"))
	}
	c.Limit = limit

	return nil
}

// NewFromConfig creates a RateGate from the configuration.
func NewFromConfig(cfg *Config, opts Opts) (*RateGate, error) {
	return NewRateGateWithOpts(cfg.Window.Duration(), cfg.Limit, opts)
}
