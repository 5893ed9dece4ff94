/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/crpt-tools/crptapi/crpt"
	"github.com/crpt-tools/crptapi/httpclient"
	"github.com/crpt-tools/crptapi/internal/libinfo"
	"github.com/crpt-tools/crptapi/internal/metricsserver"
	"github.com/crpt-tools/crptapi/log"
	"github.com/crpt-tools/crptapi/rategate"
)

const metricsNamespace = "crptapi"

// app holds everything a command needs to submit documents.
type app struct {
	cfg           *appConfig
	logger        log.FieldLogger
	closeLog      log.CloseFunc
	registry      *prometheus.Registry
	client        *crpt.Client
	metricsServer *metricsserver.MetricsServer
}

func newApp(flags *globalFlags) (*app, error) {
	cfg, err := loadAppConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.metricsAddr != "" {
		cfg.MetricsServer.Enabled = true
		cfg.MetricsServer.Address = flags.metricsAddr
	}

	logger, closeLog := log.NewLogger(cfg.Log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gateMetrics := rategate.NewPrometheusMetricsWithOpts(rategate.PrometheusMetricsOpts{
		Namespace:   metricsNamespace,
		ConstLabels: libinfo.AddPrometheusVersionLabel(nil),
	})
	gateMetrics.MustRegisterIn(registry)
	httpMetrics := httpclient.NewPrometheusMetricsCollector(metricsNamespace)
	httpMetrics.MustRegisterIn(registry)

	client, err := crpt.NewClientFromConfig(cfg.Registry, crpt.Deps{
		Logger:      logger,
		GateMetrics: gateMetrics,
		HTTPMetrics: httpMetrics,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("create registry client: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, closeLog: closeLog, registry: registry, client: client}
	if cfg.MetricsServer.Enabled {
		a.metricsServer = metricsserver.New(cfg.MetricsServer, registry, logger)
	}
	return a, nil
}

// run calls fn while the metrics server (if enabled) is serving.
func (a *app) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.metricsServer == nil {
		return fn(ctx)
	}

	fatalErr := make(chan error, 1)
	go a.metricsServer.Start(fatalErr)
	fnErr := fn(ctx)
	stopErr := a.metricsServer.Stop(false)
	select {
	case err := <-fatalErr:
		return fmt.Errorf("metrics server: %w", err)
	default:
	}
	if fnErr != nil {
		return fnErr
	}
	return stopErr
}

func (a *app) Close() {
	a.closeLog()
}
