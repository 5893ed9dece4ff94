/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"errors"
	"net"
	"time"

	"github.com/crpt-tools/crptapi/config"
)

// DefaultClientWaitTimeout is a default timeout for a client to wait for a response.
const DefaultClientWaitTimeout = 30 * time.Second

const (
	cfgKeyTimeout                 = "timeout"
	cfgKeyUserAgent               = "userAgent"
	cfgKeyLogEnabled              = "log.enabled"
	cfgKeyLogMode                 = "log.mode"
	cfgKeyLogSlowRequestThreshold = "log.slowRequestThreshold"
	cfgKeyMetricsEnabled          = "metrics.enabled"
	cfgKeyAuthToken               = "auth.token"
	cfgKeyDNSServers              = "dns.servers"
	cfgKeyDNSTimeout              = "dns.timeout"
)

// DefaultDNSTimeout is a default timeout of a query to a custom DNS server.
const DefaultDNSTimeout = 5 * time.Second

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// LogConfig represents configuration options for HTTP client logs.
type LogConfig struct {
	// Enabled is a flag that enables logging.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// SlowRequestThreshold is a threshold for slow requests.
	SlowRequestThreshold time.Duration `mapstructure:"slowRequestThreshold" yaml:"slowRequestThreshold" json:"slowRequestThreshold"` //nolint:lll

	// Mode of logging: [none, all, failed].
	Mode LoggingMode `mapstructure:"mode" yaml:"mode" json:"mode"`
}

// Set is part of config interface implementation.
func (c *LogConfig) Set(dp config.DataProvider) error {
	enabled, err := dp.GetBool(cfgKeyLogEnabled)
	if err != nil {
		return err
	}
	c.Enabled = enabled
	if !c.Enabled {
		return nil
	}

	slowRequestThreshold, err := dp.GetDuration(cfgKeyLogSlowRequestThreshold)
	if err != nil {
		return err
	}
	if slowRequestThreshold < 0 {
		return dp.WrapKeyErr(cfgKeyLogSlowRequestThreshold, errors.New("cannot be negative"))
	}
	c.SlowRequestThreshold = slowRequestThreshold

	mode, err := dp.GetStringFromSet(cfgKeyLogMode,
		[]string{string(LoggingModeNone), string(LoggingModeAll), string(LoggingModeFailed)}, false)
	if err != nil {
		return err
	}
	c.Mode = LoggingMode(mode)

	return nil
}

// TransportOpts returns transport options.
func (c *LogConfig) TransportOpts() LoggingRoundTripperOpts {
	return LoggingRoundTripperOpts{
		Mode:                 c.Mode,
		SlowRequestThreshold: c.SlowRequestThreshold,
	}
}

// MetricsConfig represents configuration options for HTTP client metrics.
type MetricsConfig struct {
	// Enabled is a flag that enables metrics.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// Set is part of config interface implementation.
func (c *MetricsConfig) Set(dp config.DataProvider) error {
	enabled, err := dp.GetBool(cfgKeyMetricsEnabled)
	if err != nil {
		return err
	}
	c.Enabled = enabled
	return nil
}

// AuthConfig represents configuration options for bearer authorization.
type AuthConfig struct {
	// Token is the registry access token. No Authorization header is sent if empty.
	Token string `mapstructure:"token" yaml:"token" json:"token"`
}

// Set is part of config interface implementation.
func (c *AuthConfig) Set(dp config.DataProvider) error {
	token, err := dp.GetString(cfgKeyAuthToken)
	if err != nil {
		return err
	}
	c.Token = token
	return nil
}

// DNSConfig represents configuration of custom DNS servers used to resolve the registry host.
type DNSConfig struct {
	// Servers are "host:port" addresses queried in turn. The system resolver is used if empty.
	Servers []string `mapstructure:"servers" yaml:"servers" json:"servers"`

	// Timeout of a single DNS query.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// Set is part of config interface implementation.
func (c *DNSConfig) Set(dp config.DataProvider) error {
	servers, err := dp.GetStringSlice(cfgKeyDNSServers)
	if err != nil {
		return err
	}
	for _, server := range servers {
		if _, _, splitErr := net.SplitHostPort(server); splitErr != nil {
			return dp.WrapKeyErr(cfgKeyDNSServers, splitErr)
		}
	}
	c.Servers = servers

	timeout, err := dp.GetDuration(cfgKeyDNSTimeout)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return dp.WrapKeyErr(cfgKeyDNSTimeout, errors.New("must be positive"))
	}
	c.Timeout = timeout
	return nil
}

// Config represents options for HTTP client configuration.
type Config struct {
	// Timeout is the maximum time to wait for a response.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// UserAgent is sent with every request. The module name and version are used if empty.
	UserAgent string `mapstructure:"userAgent" yaml:"userAgent" json:"userAgent"`

	// Log is a configuration for HTTP client logs.
	Log LogConfig `mapstructure:"log" yaml:"log" json:"log"`

	// Metrics is a configuration for HTTP client metrics.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`

	// Auth is a configuration for bearer authorization.
	Auth AuthConfig `mapstructure:"auth" yaml:"auth" json:"auth"`

	// DNS is a configuration of custom DNS servers.
	DNS DNSConfig `mapstructure:"dns" yaml:"dns" json:"dns"`

	keyPrefix string
}

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return NewConfigWithKeyPrefix("")
}

// NewConfigWithKeyPrefix creates a new instance of the Config.
// Allows specifying key prefix which will be used for parsing configuration parameters.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Timeout: DefaultClientWaitTimeout,
		Log:     LogConfig{Enabled: true, Mode: LoggingModeAll},
		DNS:     DNSConfig{Timeout: DefaultDNSTimeout},
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults is part of config interface implementation.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyTimeout, DefaultClientWaitTimeout.String())
	dp.SetDefault(cfgKeyLogEnabled, true)
	dp.SetDefault(cfgKeyLogMode, string(LoggingModeAll))
	dp.SetDefault(cfgKeyLogSlowRequestThreshold, "0s")
	dp.SetDefault(cfgKeyMetricsEnabled, false)
	dp.SetDefault(cfgKeyDNSTimeout, DefaultDNSTimeout.String())
}

// Set is part of config interface implementation.
func (c *Config) Set(dp config.DataProvider) error {
	timeout, err := dp.GetDuration(cfgKeyTimeout)
	if err != nil {
		return err
	}
	if timeout < 0 {
		return dp.WrapKeyErr(cfgKeyTimeout, errors.New("cannot be negative"))
	}
	c.Timeout = timeout

	if c.UserAgent, err = dp.GetString(cfgKeyUserAgent); err != nil {
		return err
	}
	if err = c.Log.Set(dp); err != nil {
		return err
	}
	if err = c.Metrics.Set(dp); err != nil {
		return err
	}
	if err = c.Auth.Set(dp); err != nil {
		return err
	}
	return c.DNS.Set(dp)
}
