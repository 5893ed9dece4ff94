/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testGateConfig struct {
	Window time.Duration
	Limit  int
}

func (c *testGateConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("window", "1m")
	dp.SetDefault("limit", 10)
}

func (c *testGateConfig) Set(dp DataProvider) error {
	var err error
	if c.Window, err = dp.GetDuration("window"); err != nil {
		return err
	}
	if c.Limit, err = dp.GetInt("limit"); err != nil {
		return err
	}
	if c.Limit <= 0 {
		return dp.WrapKeyErr("limit", errors.New("must be positive"))
	}
	return nil
}

type testRegistryConfig struct {
	BaseURL string
	Gate    testGateConfig
}

func (c *testRegistryConfig) KeyPrefix() string { return "registry" }

func (c *testRegistryConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("baseURL", "https://ismp.crpt.ru")
}

func (c *testRegistryConfig) Set(dp DataProvider) error {
	var err error
	if c.BaseURL, err = dp.GetString("baseURL"); err != nil {
		return err
	}
	return SetNested(dp, "rateLimit", &c.Gate)
}

func TestLoader_LoadFromReader(t *testing.T) {
	t.Run("defaults are used", func(t *testing.T) {
		cfg := &testRegistryConfig{}
		err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(`{}`), DataTypeJSON, cfg)
		require.NoError(t, err)
		require.Equal(t, "https://ismp.crpt.ru", cfg.BaseURL)
		require.Equal(t, time.Minute, cfg.Gate.Window)
		require.Equal(t, 10, cfg.Gate.Limit)
	})

	t.Run("values from yaml", func(t *testing.T) {
		cfg := &testRegistryConfig{}
		data := `
registry:
  baseURL: http://localhost:8080
  rateLimit:
    window: 5s
    limit: 3
`
		err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(data), DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, "http://localhost:8080", cfg.BaseURL)
		require.Equal(t, 5*time.Second, cfg.Gate.Window)
		require.Equal(t, 3, cfg.Gate.Limit)
	})

	t.Run("error contains full key", func(t *testing.T) {
		cfg := &testRegistryConfig{}
		data := `{"registry":{"rateLimit":{"limit":0}}}`
		err := NewLoader(NewViperAdapter()).LoadFromReader(bytes.NewBufferString(data), DataTypeJSON, cfg)
		require.EqualError(t, err, "registry.rateLimit.limit: must be positive")
	})
}

func TestLoader_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"registry":{"rateLimit":{"window":"2s"}}}`), 0o600))

	dataType, err := DataTypeFromPath(path)
	require.NoError(t, err)
	require.Equal(t, DataTypeJSON, dataType)

	cfg := &testRegistryConfig{}
	require.NoError(t, NewLoader(NewViperAdapter()).LoadFromFile(path, dataType, cfg))
	require.Equal(t, 2*time.Second, cfg.Gate.Window)
	require.Equal(t, 10, cfg.Gate.Limit)
}

func TestLoader_EnvVars(t *testing.T) {
	t.Setenv("CRPTAPI_REGISTRY_RATELIMIT_LIMIT", "42")

	cfg := &testRegistryConfig{}
	require.NoError(t, NewDefaultLoader("crptapi").Load(cfg))
	require.Equal(t, 42, cfg.Gate.Limit)
}

func TestDataTypeFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    DataType
		wantErr bool
	}{
		{path: "config.yaml", want: DataTypeYAML},
		{path: "/etc/crptapi/config.YML", want: DataTypeYAML},
		{path: "config.json", want: DataTypeJSON},
		{path: "config.toml", wantErr: true},
		{path: "config", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DataTypeFromPath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
