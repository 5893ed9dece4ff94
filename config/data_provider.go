/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DataType is a format of configuration data.
type DataType string

// Supported configuration formats.
const (
	DataTypeYAML DataType = "yaml"
	DataTypeJSON DataType = "json"
)

// DataTypeFromPath detects configuration format by the file extension.
func DataTypeFromPath(path string) (DataType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DataTypeYAML, nil
	case ".json":
		return DataTypeJSON, nil
	}
	return "", fmt.Errorf("unsupported configuration file extension %q", filepath.Ext(path))
}

// DataProvider provides configuration values from files, readers and environment variables.
type DataProvider interface {
	UseEnvVars(prefix string)

	Set(key string, value interface{})
	SetDefault(key string, value interface{})

	SetFromFile(path string, dataType DataType) error
	SetFromReader(reader io.Reader, dataType DataType) error

	IsSet(key string) bool
	Get(key string) interface{}

	GetBool(key string) (bool, error)
	GetInt(key string) (int, error)
	GetFloat64(key string) (float64, error)
	GetString(key string) (string, error)
	GetStringSlice(key string) ([]string, error)
	GetStringFromSet(key string, set []string, ignoreCase bool) (string, error)
	GetDuration(key string) (time.Duration, error)
	GetByteSize(key string) (ByteSize, error)

	UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error

	WrapKeyErr(key string, err error) error
}

// DecoderConfigOption tunes mapstructure decoding in UnmarshalKey.
type DecoderConfigOption func(*mapstructure.DecoderConfig)

// WrapKeyErrIfNeeded is the same as WrapKeyErr but passes nil through.
func WrapKeyErrIfNeeded(key string, err error) error {
	if err == nil {
		return nil
	}
	return WrapKeyErr(key, err)
}

// WrapKeyErr prefixes the error with the configuration key it relates to.
func WrapKeyErr(key string, err error) error {
	return fmt.Errorf("%s: %w", key, err)
}
