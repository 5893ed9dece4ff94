/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testClientConfigYAML = `
client:
  timeout: 30s
  retries: 3
  logger:
    mode: failed
    enabled: true
  maxBodySize: 1M
  rawBodySize: 2048
  masks:
    - field: signature
      formats: [json]
  dnsServers: [10.0.0.1:53, 10.0.0.2:53]
`

func TestViperAdapter_Getters(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(testClientConfigYAML), DataTypeYAML))

	timeout, err := va.GetDuration("client.timeout")
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, timeout)

	retries, err := va.GetInt("client.retries")
	require.NoError(t, err)
	require.Equal(t, 3, retries)

	enabled, err := va.GetBool("client.logger.enabled")
	require.NoError(t, err)
	require.True(t, enabled)

	mode, err := va.GetStringFromSet("client.logger.mode", []string{"none", "all", "failed"}, false)
	require.NoError(t, err)
	require.Equal(t, "failed", mode)

	_, err = va.GetStringFromSet("client.logger.mode", []string{"none", "all"}, false)
	require.EqualError(t, err, `client.logger.mode: unknown value "failed", should be one of [none all]`)

	maxBodySize, err := va.GetByteSize("client.maxBodySize")
	require.NoError(t, err)
	require.Equal(t, ByteSize(1024*1024), maxBodySize)

	rawBodySize, err := va.GetByteSize("client.rawBodySize")
	require.NoError(t, err)
	require.Equal(t, ByteSize(2048), rawBodySize)

	missing, err := va.GetDuration("client.missing")
	require.NoError(t, err)
	require.Zero(t, missing)

	dnsServers, err := va.GetStringSlice("client.dnsServers")
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1:53", "10.0.0.2:53"}, dnsServers)

	va.Set("client.envDNSServers", "10.0.0.1:53, 10.0.0.2:53")
	dnsServers, err = va.GetStringSlice("client.envDNSServers")
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1:53", "10.0.0.2:53"}, dnsServers)

	noServers, err := va.GetStringSlice("client.missing")
	require.NoError(t, err)
	require.Nil(t, noServers)

	var masks []struct {
		Field   string   `mapstructure:"field"`
		Formats []string `mapstructure:"formats"`
	}
	require.NoError(t, va.UnmarshalKey("client.masks", &masks))
	require.Len(t, masks, 1)
	require.Equal(t, "signature", masks[0].Field)
	require.Equal(t, []string{"json"}, masks[0].Formats)
}

func TestViperAdapter_InvalidValues(t *testing.T) {
	va := NewViperAdapter()
	va.Set("retries", "many")
	va.Set("timeout", "soon")
	va.Set("size", -1)

	_, err := va.GetInt("retries")
	require.ErrorContains(t, err, "retries: ")

	_, err = va.GetDuration("timeout")
	require.ErrorContains(t, err, "timeout: ")

	_, err = va.GetByteSize("size")
	require.EqualError(t, err, "size: negative value is not allowed: -1")
}

func TestKeyPrefixedDataProvider(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(testClientConfigYAML), DataTypeYAML))

	dp := NewKeyPrefixedDataProvider(NewKeyPrefixedDataProvider(va, "client"), "logger")
	require.True(t, dp.IsSet("mode"))

	mode, err := dp.GetString("mode")
	require.NoError(t, err)
	require.Equal(t, "failed", mode)

	dp.SetDefault("slowRequestThreshold", "1s")
	threshold, err := va.GetDuration("client.logger.slowRequestThreshold")
	require.NoError(t, err)
	require.Equal(t, time.Second, threshold)

	require.EqualError(t, dp.WrapKeyErr("mode", errTest), "client.logger.mode: test error")
}
