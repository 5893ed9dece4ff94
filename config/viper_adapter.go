/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ViperAdapter is a DataProvider backed by viper.
type ViperAdapter struct {
	viper *viper.Viper
}

var _ DataProvider = (*ViperAdapter)(nil)

// NewViperAdapter creates a new ViperAdapter with an empty viper instance.
func NewViperAdapter() *ViperAdapter {
	return &ViperAdapter{viper.New()}
}

// UseEnvVars makes viper look up environment variables named PREFIX_KEY_PATH,
// e.g. "rateLimit.window" with the "crptapi" prefix is read from CRPTAPI_RATELIMIT_WINDOW.
func (va *ViperAdapter) UseEnvVars(prefix string) {
	va.viper.AutomaticEnv()
	va.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	va.viper.SetEnvPrefix(prefix)
}

// Set overrides the value for the key.
func (va *ViperAdapter) Set(key string, value interface{}) {
	va.viper.Set(key, value)
}

// SetDefault sets the value used when nothing else provides the key.
func (va *ViperAdapter) SetDefault(key string, value interface{}) {
	va.viper.SetDefault(key, value)
}

// SetFromFile reads configuration data from the file.
func (va *ViperAdapter) SetFromFile(path string, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	va.viper.SetConfigFile(path)
	return va.viper.ReadInConfig()
}

// SetFromReader reads configuration data from the reader.
func (va *ViperAdapter) SetFromReader(reader io.Reader, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	return va.viper.ReadConfig(reader)
}

// IsSet reports whether the key has a value in any source. The key is case-insensitive.
func (va *ViperAdapter) IsSet(key string) bool {
	return va.viper.IsSet(key)
}

// Get returns the raw value for the key.
func (va *ViperAdapter) Get(key string) interface{} {
	return va.viper.Get(key)
}

// GetBool returns the value for the key as a bool.
func (va *ViperAdapter) GetBool(key string) (res bool, err error) {
	res, err = cast.ToBoolE(va.Get(key))
	return res, WrapKeyErrIfNeeded(key, err)
}

// GetInt returns the value for the key as an int.
func (va *ViperAdapter) GetInt(key string) (res int, err error) {
	res, err = cast.ToIntE(va.Get(key))
	return res, WrapKeyErrIfNeeded(key, err)
}

// GetFloat64 returns the value for the key as a float64.
func (va *ViperAdapter) GetFloat64(key string) (res float64, err error) {
	res, err = cast.ToFloat64E(va.Get(key))
	return res, WrapKeyErrIfNeeded(key, err)
}

// GetString returns the value for the key as a string.
func (va *ViperAdapter) GetString(key string) (res string, err error) {
	res, err = cast.ToStringE(va.Get(key))
	return res, WrapKeyErrIfNeeded(key, err)
}

// GetStringSlice returns the value for the key as a slice of strings. A comma-separated string
// (e.g. from an environment variable) is split into items.
func (va *ViperAdapter) GetStringSlice(key string) (res []string, err error) {
	val := va.Get(key)
	if val == nil {
		return nil, nil
	}
	if str, ok := val.(string); ok {
		val = strings.FieldsFunc(str, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	}
	res, err = cast.ToStringSliceE(val)
	return res, WrapKeyErrIfNeeded(key, err)
}

// GetStringFromSet returns the value for the key and checks that it belongs to the set.
func (va *ViperAdapter) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	str, err := va.GetString(key)
	if err != nil {
		return "", err
	}
	for _, s := range set {
		if str == s || (ignoreCase && strings.EqualFold(str, s)) {
			return str, nil
		}
	}
	return "", WrapKeyErr(key, fmt.Errorf("unknown value %q, should be one of %v", str, set))
}

// GetDuration returns the value for the key as a time.Duration.
// Both Go duration strings ("1m30s") and integers (nanoseconds) are accepted.
func (va *ViperAdapter) GetDuration(key string) (time.Duration, error) {
	val := va.Get(key)
	if val == nil {
		return 0, nil
	}
	res, err := cast.ToDurationE(val)
	return res, WrapKeyErrIfNeeded(key, err)
}

// GetByteSize returns the value for the key as a ByteSize.
// Both human-readable strings ("250M", "1Gi") and non-negative integers are accepted.
func (va *ViperAdapter) GetByteSize(key string) (ByteSize, error) {
	val := va.Get(key)
	if val == nil {
		return 0, nil
	}
	switch v := val.(type) {
	case ByteSize:
		return v, nil
	case string:
		bs, err := parseByteSize(v)
		return bs, WrapKeyErrIfNeeded(key, err)
	case float32, float64:
		f := cast.ToFloat64(v)
		if f < 0 {
			return 0, WrapKeyErr(key, fmt.Errorf("negative value is not allowed: %v", f))
		}
		return ByteSize(uint64(f)), nil
	}
	num, err := cast.ToInt64E(val)
	if err != nil {
		return 0, WrapKeyErr(key, fmt.Errorf("unsupported type for byte size: %T", val))
	}
	if num < 0 {
		return 0, WrapKeyErr(key, fmt.Errorf("negative value is not allowed: %d", num))
	}
	return ByteSize(num), nil
}

// UnmarshalKey decodes the value for the key into rawVal.
func (va *ViperAdapter) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	viperOpts := make([]viper.DecoderConfigOption, 0, len(opts))
	for _, opt := range opts {
		viperOpts = append(viperOpts, viper.DecoderConfigOption(opt))
	}
	return WrapKeyErrIfNeeded(key, va.viper.UnmarshalKey(key, rawVal, viperOpts...))
}

// WrapKeyErr prefixes the error with the key.
func (va *ViperAdapter) WrapKeyErr(key string, err error) error {
	return WrapKeyErr(key, err)
}
