/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var errTest = errors.New("test error")

func TestByteSize_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    ByteSize
		wantErr bool
	}{
		{name: "integer", json: `1024`, want: 1024},
		{name: "human-readable", json: `"10MB"`, want: 10 * 1024 * 1024},
		{name: "k8s suffix", json: `"2Mi"`, want: 2 * 1024 * 1024},
		{name: "invalid", json: `"lots"`, wantErr: true},
		{name: "negative", json: `-1024`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ByteSize
			err := json.Unmarshal([]byte(tt.json), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("yaml", func(t *testing.T) {
		var cfg struct {
			MaxSize ByteSize `yaml:"maxSize"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(`maxSize: 250M`), &cfg))
		require.Equal(t, ByteSize(250*1024*1024), cfg.MaxSize)
	})
}

func TestByteSize_Marshal(t *testing.T) {
	data, err := json.Marshal(ByteSize(250 * 1024 * 1024))
	require.NoError(t, err)
	require.Equal(t, `"250M"`, string(data))
}

func TestTimeDuration_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    time.Duration
		wantErr bool
	}{
		{name: "nanoseconds", json: `1000000000`, want: time.Second},
		{name: "string", json: `"1m30s"`, want: 90 * time.Second},
		{name: "invalid", json: `"a minute"`, wantErr: true},
		{name: "negative", json: `-5`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TimeDuration
			err := json.Unmarshal([]byte(tt.json), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Duration())
		})
	}

	t.Run("yaml", func(t *testing.T) {
		var cfg struct {
			Window TimeDuration `yaml:"window"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(`window: 1m`), &cfg))
		require.Equal(t, time.Minute, cfg.Window.Duration())
	})
}
