/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"fmt"
	"strings"

	"github.com/crpt-tools/crptapi/config"
)

const cfgDefaultKeyPrefix = "log"

const (
	cfgKeyLevel                        = "level"
	cfgKeyFormat                       = "format"
	cfgKeyOutput                       = "output"
	cfgKeyNoColor                      = "nocolor"
	cfgKeyAddCaller                    = "addCaller"
	cfgKeyFilePath                     = "file.path"
	cfgKeyFileRotationCompress         = "file.rotation.compress"
	cfgKeyFileRotationMaxSize          = "file.rotation.maxSize"
	cfgKeyFileRotationMaxBackups       = "file.rotation.maxBackups"
	cfgKeyFileRotationMaxAgeDays       = "file.rotation.maxAgeDays"
	cfgKeyFileRotationLocalTimeInNames = "file.rotation.localTimeInNames"
	cfgKeyErrorNoVerbose               = "error.noVerbose"
	cfgKeyErrorVerboseSuffix           = "error.verboseSuffix"
	cfgKeyMaskingEnabled               = "masking.enabled"
	cfgKeyMaskingUseDefaultRules       = "masking.useDefaultRules"
	cfgKeyMaskingRules                 = "masking.rules"
)

// Defaults and limits for the file output.
const (
	DefaultFileRotationMaxSize = config.ByteSize(250 * 1024 * 1024)
	MinFileRotationMaxSize     = config.ByteSize(1024 * 1024)

	DefaultFileRotationMaxBackups = 10
	MinFileRotationMaxBackups     = 1

	defaultErrorVerboseSuffix = "_verbose"
)

// Level is a logging level.
type Level string

// Logging levels.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Format is a format of log entries.
type Format string

// Logging formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Output is a destination of log entries.
type Output string

// Logging outputs.
const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"
	OutputFile   Output = "file"
)

var (
	availableLevels  = []string{string(LevelError), string(LevelWarn), string(LevelInfo), string(LevelDebug)}
	availableFormats = []string{string(FormatJSON), string(FormatText)}
	availableOutputs = []string{string(OutputStdout), string(OutputStderr), string(OutputFile)}
)

// Config is a logging configuration.
type Config struct {
	Level     Level            `mapstructure:"level" yaml:"level" json:"level"`
	Format    Format           `mapstructure:"format" yaml:"format" json:"format"`
	Output    Output           `mapstructure:"output" yaml:"output" json:"output"`
	NoColor   bool             `mapstructure:"nocolor" yaml:"nocolor" json:"nocolor"`
	AddCaller bool             `mapstructure:"addCaller" yaml:"addCaller" json:"addCaller"`
	File      FileOutputConfig `mapstructure:"file" yaml:"file" json:"file"`

	// ErrorNoVerbose disables the extra "error<suffix>" field with the %+v representation of logged errors.
	ErrorNoVerbose     bool   `mapstructure:"errorNoVerbose" yaml:"errorNoVerbose" json:"errorNoVerbose"`
	ErrorVerboseSuffix string `mapstructure:"errorVerboseSuffix" yaml:"errorVerboseSuffix" json:"errorVerboseSuffix"`

	Masking MaskingConfig `mapstructure:"masking" yaml:"masking" json:"masking"`

	keyPrefix string
}

// FileOutputConfig configures the file output.
// The path may contain {{pid}} and {{starttime}} placeholders.
type FileOutputConfig struct {
	Path     string             `mapstructure:"path" yaml:"path" json:"path"`
	Rotation FileRotationConfig `mapstructure:"rotation" yaml:"rotation" json:"rotation"`
}

// FileRotationConfig configures rotation of the log file.
type FileRotationConfig struct {
	Compress         bool            `mapstructure:"compress" yaml:"compress" json:"compress"`
	MaxSize          config.ByteSize `mapstructure:"maxSize" yaml:"maxSize" json:"maxSize"`
	MaxBackups       int             `mapstructure:"maxBackups" yaml:"maxBackups" json:"maxBackups"`
	MaxAgeDays       int             `mapstructure:"maxAgeDays" yaml:"maxAgeDays" json:"maxAgeDays"`
	LocalTimeInNames bool            `mapstructure:"localTimeInNames" yaml:"localTimeInNames" json:"localTimeInNames"`
}

// MaskingConfig configures masking of secrets (tokens, signatures) in log entries.
type MaskingConfig struct {
	Enabled         bool                `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	UseDefaultRules bool                `mapstructure:"useDefaultRules" yaml:"useDefaultRules" json:"useDefaultRules"`
	Rules           []MaskingRuleConfig `mapstructure:"rules" yaml:"rules" json:"rules"`
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a Config read from the "log" key.
func NewConfig() *Config {
	return &Config{keyPrefix: cfgDefaultKeyPrefix}
}

// NewDefaultConfig creates a Config with default values, usable without loading.
func NewDefaultConfig() *Config {
	return &Config{
		keyPrefix:          cfgDefaultKeyPrefix,
		Level:              LevelInfo,
		Format:             FormatJSON,
		Output:             OutputStdout,
		ErrorVerboseSuffix: defaultErrorVerboseSuffix,
		File: FileOutputConfig{Rotation: FileRotationConfig{
			MaxSize:    DefaultFileRotationMaxSize,
			MaxBackups: DefaultFileRotationMaxBackups,
		}},
		Masking: MaskingConfig{UseDefaultRules: true},
	}
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyLevel, string(LevelInfo))
	dp.SetDefault(cfgKeyFormat, string(FormatJSON))
	dp.SetDefault(cfgKeyOutput, string(OutputStdout))
	dp.SetDefault(cfgKeyErrorVerboseSuffix, defaultErrorVerboseSuffix)
	dp.SetDefault(cfgKeyFileRotationMaxSize, DefaultFileRotationMaxSize.String())
	dp.SetDefault(cfgKeyFileRotationMaxBackups, DefaultFileRotationMaxBackups)
	dp.SetDefault(cfgKeyMaskingUseDefaultRules, true)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	var level, format, output string
	if level, err = dp.GetStringFromSet(cfgKeyLevel, availableLevels, true); err != nil {
		return err
	}
	c.Level = Level(strings.ToLower(level))
	if format, err = dp.GetStringFromSet(cfgKeyFormat, availableFormats, true); err != nil {
		return err
	}
	c.Format = Format(strings.ToLower(format))
	if output, err = dp.GetStringFromSet(cfgKeyOutput, availableOutputs, true); err != nil {
		return err
	}
	c.Output = Output(strings.ToLower(output))

	if c.NoColor, err = dp.GetBool(cfgKeyNoColor); err != nil {
		return err
	}
	if c.AddCaller, err = dp.GetBool(cfgKeyAddCaller); err != nil {
		return err
	}
	if c.ErrorNoVerbose, err = dp.GetBool(cfgKeyErrorNoVerbose); err != nil {
		return err
	}
	if c.ErrorVerboseSuffix, err = dp.GetString(cfgKeyErrorVerboseSuffix); err != nil {
		return err
	}

	if err = c.setFileOutput(dp); err != nil {
		return err
	}
	return c.setMasking(dp)
}

func (c *Config) setFileOutput(dp config.DataProvider) error {
	var err error
	if c.File.Path, err = dp.GetString(cfgKeyFilePath); err != nil {
		return err
	}
	if c.File.Path == "" && c.Output == OutputFile {
		return dp.WrapKeyErr(cfgKeyFilePath, fmt.Errorf("cannot be empty when %q output is used", OutputFile))
	}

	rotation := &c.File.Rotation
	if rotation.Compress, err = dp.GetBool(cfgKeyFileRotationCompress); err != nil {
		return err
	}
	if rotation.MaxSize, err = dp.GetByteSize(cfgKeyFileRotationMaxSize); err != nil {
		return err
	}
	if rotation.MaxSize < MinFileRotationMaxSize {
		return dp.WrapKeyErr(cfgKeyFileRotationMaxSize, fmt.Errorf("should be >= %s", MinFileRotationMaxSize))
	}
	if rotation.MaxBackups, err = dp.GetInt(cfgKeyFileRotationMaxBackups); err != nil {
		return err
	}
	if rotation.MaxBackups < MinFileRotationMaxBackups {
		return dp.WrapKeyErr(cfgKeyFileRotationMaxBackups, fmt.Errorf("should be >= %d", MinFileRotationMaxBackups))
	}
	if rotation.MaxAgeDays, err = dp.GetInt(cfgKeyFileRotationMaxAgeDays); err != nil {
		return err
	}
	if rotation.MaxAgeDays < 0 {
		return dp.WrapKeyErr(cfgKeyFileRotationMaxAgeDays, fmt.Errorf("should be >= 0"))
	}
	rotation.LocalTimeInNames, err = dp.GetBool(cfgKeyFileRotationLocalTimeInNames)
	return err
}

func (c *Config) setMasking(dp config.DataProvider) error {
	var err error
	if c.Masking.Enabled, err = dp.GetBool(cfgKeyMaskingEnabled); err != nil {
		return err
	}
	if c.Masking.UseDefaultRules, err = dp.GetBool(cfgKeyMaskingUseDefaultRules); err != nil {
		return err
	}
	return dp.UnmarshalKey(cfgKeyMaskingRules, &c.Masking.Rules)
}
