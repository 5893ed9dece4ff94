/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"io"
)

// Loader fills configuration objects from a DataProvider.
// Defaults of all objects are registered first, then every object reads its values.
type Loader struct {
	DataProvider DataProvider
}

// NewDefaultLoader creates a Loader backed by viper that also reads environment variables with the given prefix.
func NewDefaultLoader(envVarsPrefix string) *Loader {
	va := NewViperAdapter()
	va.UseEnvVars(envVarsPrefix)
	return NewLoader(va)
}

// NewLoader creates a Loader for the given DataProvider.
func NewLoader(dp DataProvider) *Loader {
	return &Loader{dp}
}

// LoadFromFile reads the file and fills configuration objects.
func (l *Loader) LoadFromFile(path string, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromFile(path, dataType); err != nil {
		return err
	}
	return l.load(append([]Config{cfg}, cfgs...))
}

// LoadFromReader reads data from the reader and fills configuration objects.
func (l *Loader) LoadFromReader(reader io.Reader, dataType DataType, cfg Config, cfgs ...Config) error {
	if err := l.DataProvider.SetFromReader(reader, dataType); err != nil {
		return err
	}
	return l.load(append([]Config{cfg}, cfgs...))
}

// Load fills configuration objects from defaults and environment variables only.
func (l *Loader) Load(cfg Config, cfgs ...Config) error {
	return l.load(append([]Config{cfg}, cfgs...))
}

func (l *Loader) load(cfgs []Config) error {
	providerFor := func(cfg Config) DataProvider {
		if kp, ok := cfg.(KeyPrefixProvider); ok && kp.KeyPrefix() != "" {
			return NewKeyPrefixedDataProvider(l.DataProvider, kp.KeyPrefix())
		}
		return l.DataProvider
	}
	for _, cfg := range cfgs {
		cfg.SetProviderDefaults(providerFor(cfg))
	}
	for _, cfg := range cfgs {
		if err := cfg.Set(providerFor(cfg)); err != nil {
			return err
		}
	}
	return nil
}
