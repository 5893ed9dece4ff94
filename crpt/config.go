/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"fmt"
	"net/url"

	"github.com/crpt-tools/crptapi/config"
	"github.com/crpt-tools/crptapi/httpclient"
	"github.com/crpt-tools/crptapi/log"
	"github.com/crpt-tools/crptapi/rategate"
	"github.com/crpt-tools/crptapi/retry"
)

// DefaultBaseURL is the production registry.
const DefaultBaseURL = "https://ismp.crpt.ru"

// RequestTypeCreateDocument is the request type reported in HTTP client logs and metrics.
const RequestTypeCreateDocument = "create-document"

const (
	cfgKeyBaseURL   = "baseURL"
	cfgKeyRateLimit = "rateLimit"
	cfgKeyRetries   = "retries"
	cfgKeyHTTP      = "http"
)

// Config represents configuration of the registry client.
type Config struct {
	// BaseURL is the registry address.
	BaseURL string `mapstructure:"baseURL" yaml:"baseURL" json:"baseURL"`

	// RateLimit limits submissions per window.
	RateLimit rategate.Config `mapstructure:"rateLimit" yaml:"rateLimit" json:"rateLimit"`

	// Retries of failed submissions. Every retry passes the rate gate again.
	Retries retry.Config `mapstructure:"retries" yaml:"retries" json:"retries"`

	// HTTP is the transport configuration.
	HTTP httpclient.Config `mapstructure:"http" yaml:"http" json:"http"`

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
	dp.SetDefault(cfgKeyBaseURL, DefaultBaseURL)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	baseURL, err := dp.GetString(cfgKeyBaseURL)
	if err != nil {
		return err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return dp.WrapKeyErr(cfgKeyBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dp.WrapKeyErr(cfgKeyBaseURL, fmt.Errorf("must be an absolute http(s) URL, got %q", baseURL))
	}
	c.BaseURL = baseURL

	if err = config.SetNested(dp, cfgKeyRateLimit, &c.RateLimit); err != nil {
		return err
	}
	if err = config.SetNested(dp, cfgKeyRetries, &c.Retries); err != nil {
		return err
	}
	return config.SetNested(dp, cfgKeyHTTP, &c.HTTP)
}

// Deps are collaborators used by NewClientFromConfig.
type Deps struct {
	// Logger is used for submission and HTTP events. Nothing is logged by default.
	Logger log.FieldLogger

	// GateMetrics collects rate gate events.
	GateMetrics rategate.MetricsCollector

	// HTTPMetrics collects request durations. Required when HTTP metrics are enabled.
	HTTPMetrics httpclient.MetricsCollector

	// AuthProvider overrides the static token from the configuration.
	AuthProvider httpclient.AuthProvider
}

// NewClientFromConfig creates a Client with its own rate gate, HTTP client and retry policy.
func NewClientFromConfig(cfg *Config, deps Deps) (*Client, error) {
	if deps.Logger == nil {
		deps.Logger = log.NewDisabledLogger()
	}
	gate, err := rategate.NewFromConfig(&cfg.RateLimit, rategate.Opts{MetricsCollector: deps.GateMetrics})
	if err != nil {
		return nil, fmt.Errorf("create rate gate: %w", err)
	}
	httpClient, err := httpclient.NewWithOpts(&cfg.HTTP, httpclient.Opts{
		RequestType:  RequestTypeCreateDocument,
		Collector:    deps.HTTPMetrics,
		AuthProvider: deps.AuthProvider,
	})
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	submitter, err := NewHTTPSubmitter(httpClient, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return NewClientWithOpts(gate, submitter, ClientOpts{
		Logger:      deps.Logger,
		RetryPolicy: cfg.Retries.NewPolicy(),
	}), nil
}
