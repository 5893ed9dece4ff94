/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"fmt"

	"github.com/crpt-tools/crptapi/config"
	"github.com/crpt-tools/crptapi/crpt"
	"github.com/crpt-tools/crptapi/internal/metricsserver"
	"github.com/crpt-tools/crptapi/log"
)

const envVarsPrefix = "CRPTAPI"

const cfgKeyRegistry = "registry"

type appConfig struct {
	Registry      *crpt.Config
	Log           *log.Config
	MetricsServer *metricsserver.Config
}

func newAppConfig() *appConfig {
	return &appConfig{
		Registry:      crpt.NewConfigWithKeyPrefix(cfgKeyRegistry),
		Log:           log.NewConfig(),
		MetricsServer: metricsserver.NewConfig(),
	}
}

// cliLogConfig sends logs to stderr by default, stdout is left for command output.
type cliLogConfig struct {
	*log.Config
}

func (c cliLogConfig) SetProviderDefaults(dp config.DataProvider) {
	c.Config.SetProviderDefaults(dp)
	dp.SetDefault("output", string(log.OutputStderr))
}

// loadAppConfig reads the configuration from the file (if any) and CRPTAPI_* environment variables.
func loadAppConfig(path string) (*appConfig, error) {
	cfg := newAppConfig()
	loader := config.NewDefaultLoader(envVarsPrefix)
	cfgs := []config.Config{cfg.Registry, cliLogConfig{cfg.Log}, cfg.MetricsServer}
	if path == "" {
		if err := loader.Load(cfgs[0], cfgs[1:]...); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	dataType, err := config.DataTypeFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err = loader.LoadFromFile(path, dataType, cfgs[0], cfgs[1:]...); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}
	return cfg, nil
}
