/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package retry

import (
	"errors"
	"time"

	"github.com/crpt-tools/crptapi/config"
)

// Supported backoff strategies.
const (
	StrategyExponential = "exponential"
	StrategyConstant    = "constant"
)

// Default retry settings.
const (
	DefaultMaxAttempts                       = 3
	DefaultExponentialBackoffInitialInterval = time.Second
	DefaultExponentialBackoffMultiplier      = 2
	DefaultConstantBackoffInterval           = time.Second * 2
)

const (
	cfgKeyEnabled                          = "enabled"
	cfgKeyMaxAttempts                      = "maxAttempts"
	cfgKeyPolicyStrategy                   = "policy.strategy"
	cfgKeyPolicyExponentialInitialInterval = "policy.exponentialBackoffInitialInterval"
	cfgKeyPolicyExponentialMultiplier      = "policy.exponentialBackoffMultiplier"
	cfgKeyPolicyConstantInterval           = "policy.constantBackoffInterval"
)

// PolicyConfig represents configuration of the backoff between attempts.
type PolicyConfig struct {
	// Strategy is one of [exponential, constant].
	Strategy string `mapstructure:"strategy" yaml:"strategy" json:"strategy"`

	// ExponentialBackoffInitialInterval is the initial interval for exponential backoff.
	ExponentialBackoffInitialInterval time.Duration `mapstructure:"exponentialBackoffInitialInterval" yaml:"exponentialBackoffInitialInterval" json:"exponentialBackoffInitialInterval"` //nolint:lll

	// ExponentialBackoffMultiplier is the multiplier for exponential backoff.
	ExponentialBackoffMultiplier float64 `mapstructure:"exponentialBackoffMultiplier" yaml:"exponentialBackoffMultiplier" json:"exponentialBackoffMultiplier"` //nolint:lll

	// ConstantBackoffInterval is the interval for constant backoff.
	ConstantBackoffInterval time.Duration `mapstructure:"constantBackoffInterval" yaml:"constantBackoffInterval" json:"constantBackoffInterval"` //nolint:lll
}

// Config represents configuration of retries.
type Config struct {
	// Enabled is a flag that enables retries.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// MaxAttempts is the maximum number of retries after the first attempt.
	// It must be positive when retries are enabled.
	MaxAttempts int `mapstructure:"maxAttempts" yaml:"maxAttempts" json:"maxAttempts"`

	// Policy is the backoff between attempts.
	Policy PolicyConfig `mapstructure:"policy" yaml:"policy" json:"policy"`

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

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyEnabled, false)
	dp.SetDefault(cfgKeyMaxAttempts, DefaultMaxAttempts)
	dp.SetDefault(cfgKeyPolicyStrategy, StrategyExponential)
	dp.SetDefault(cfgKeyPolicyExponentialInitialInterval, DefaultExponentialBackoffInitialInterval.String())
	dp.SetDefault(cfgKeyPolicyExponentialMultiplier, DefaultExponentialBackoffMultiplier)
	dp.SetDefault(cfgKeyPolicyConstantInterval, DefaultConstantBackoffInterval.String())
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Enabled, err = dp.GetBool(cfgKeyEnabled); err != nil {
		return err
	}
	if !c.Enabled {
		return nil
	}

	if c.MaxAttempts, err = dp.GetInt(cfgKeyMaxAttempts); err != nil {
		return err
	}
	if c.MaxAttempts <= 0 {
		return dp.WrapKeyErr(cfgKeyMaxAttempts, errors.New("must be positive"))
	}

	if c.Policy.Strategy, err = dp.GetStringFromSet(
		cfgKeyPolicyStrategy, []string{StrategyExponential, StrategyConstant}, false); err != nil {
		return err
	}

	switch c.Policy.Strategy {
	case StrategyExponential:
		if c.Policy.ExponentialBackoffInitialInterval, err = dp.GetDuration(cfgKeyPolicyExponentialInitialInterval); err != nil {
			return err
		}
		if c.Policy.ExponentialBackoffInitialInterval <= 0 {
			return dp.WrapKeyErr(cfgKeyPolicyExponentialInitialInterval, errors.New("must be positive"))
		}
		if c.Policy.ExponentialBackoffMultiplier, err = dp.GetFloat64(cfgKeyPolicyExponentialMultiplier); err != nil {
			return err
		}
		if c.Policy.ExponentialBackoffMultiplier <= 1 {
			return dp.WrapKeyErr(cfgKeyPolicyExponentialMultiplier, errors.New("must be greater than 1"))
		}
	case StrategyConstant:
		if c.Policy.ConstantBackoffInterval, err = dp.GetDuration(cfgKeyPolicyConstantInterval); err != nil {
			return err
		}
		if c.Policy.ConstantBackoffInterval < 0 {
			return dp.WrapKeyErr(cfgKeyPolicyConstantInterval, errors.New("must not be negative"))
		}
	}

	return nil
}

// NewPolicy returns the retry policy described by the configuration or nil if retries are disabled.
func (c *Config) NewPolicy() Policy {
	if !c.Enabled {
		return nil
	}
	if c.Policy.Strategy == StrategyConstant {
		return NewConstantBackoffPolicy(c.Policy.ConstantBackoffInterval, c.MaxAttempts)
	}
	return NewExponentialBackoffPolicyWithOpts(ExponentialBackoffPolicyOpts{
		InitialInterval:  c.Policy.ExponentialBackoffInitialInterval,
		Multiplier:       c.Policy.ExponentialBackoffMultiplier,
		MaxRetryAttempts: c.MaxAttempts,
	})
}
