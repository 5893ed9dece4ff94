/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package config loads configuration of the registry client from files and environment variables.
// Every configurable component implements the Config interface, and the Loader fills all of them
// from a single DataProvider (viper under the hood).
package config

// Config is implemented by every configuration object that can be filled by Loader.
type Config interface {
	SetProviderDefaults(dp DataProvider)
	Set(dp DataProvider) error
}

// KeyPrefixProvider is implemented by configuration objects that live under a key prefix.
type KeyPrefixProvider interface {
	KeyPrefix() string
}

// SetNested applies defaults and values of a nested configuration object under the given key prefix.
// It is used by composite configs (e.g. the registry client config includes the gate config).
func SetNested(dp DataProvider, keyPrefix string, cfg Config) error {
	nestedDP := DataProvider(NewKeyPrefixedDataProvider(dp, keyPrefix))
	cfg.SetProviderDefaults(nestedDP)
	return cfg.Set(nestedDP)
}
