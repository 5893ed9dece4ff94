/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v3"
)

// ByteSize is a size in bytes that decodes from integers and human-readable strings ("250MB", "1Gi").
type ByteSize uint64

// UnmarshalJSON implements json.Unmarshaler.
func (b *ByteSize) UnmarshalJSON(data []byte) error {
	bs, err := parseByteSize(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*b = bs
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid byte size format: %w", err)
	}
	bs, err := parseByteSize(s)
	if err != nil {
		return err
	}
	*b = bs
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by mapstructure.TextUnmarshallerHookFunc).
func (b *ByteSize) UnmarshalText(text []byte) error {
	return b.UnmarshalJSON(text)
}

// String returns the human-readable representation.
func (b ByteSize) String() string {
	return bytefmt.ByteSize(uint64(b))
}

// MarshalJSON implements json.Marshaler.
func (b ByteSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// MarshalYAML implements yaml.Marshaler.
func (b ByteSize) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

func parseByteSize(s string) (ByteSize, error) {
	v := strings.TrimSpace(s)
	if num, err := strconv.ParseInt(v, 10, 64); err == nil {
		if num < 0 {
			return 0, fmt.Errorf("negative value is not allowed: %d", num)
		}
		return ByteSize(num), nil
	}
	// k8s style power-of-two suffixes ("Ki", "Mi", ...) are understood by bytefmt without the "i".
	for _, suffix := range [...]string{"Ki", "Mi", "Gi", "Ti", "Pi", "Ei"} {
		if strings.HasSuffix(v, suffix) {
			v = v[:len(v)-1]
			break
		}
	}
	num, err := bytefmt.ToBytes(v)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size format (%s): %w", s, err)
	}
	return ByteSize(num), nil
}

// TimeDuration is a time.Duration that decodes from integers (nanoseconds) and strings ("1m", "1h30m").
type TimeDuration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *TimeDuration) UnmarshalJSON(data []byte) error {
	dur, err := parseTimeDuration(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = dur
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *TimeDuration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid time duration format: %w", err)
	}
	dur, err := parseTimeDuration(s)
	if err != nil {
		return err
	}
	*d = dur
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *TimeDuration) UnmarshalText(text []byte) error {
	return d.UnmarshalJSON(text)
}

// Duration returns the value as a time.Duration.
func (d TimeDuration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the human-readable representation.
func (d TimeDuration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON implements json.Marshaler.
func (d TimeDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// MarshalYAML implements yaml.Marshaler.
func (d TimeDuration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func parseTimeDuration(s string) (TimeDuration, error) {
	v := strings.TrimSpace(s)
	if num, err := strconv.ParseInt(v, 10, 64); err == nil {
		if num < 0 {
			return 0, fmt.Errorf("negative value is not allowed: %d", num)
		}
		return TimeDuration(num), nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid time duration format (%s): %w", s, err)
	}
	return TimeDuration(dur), nil
}
