/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package metricsserver exposes Prometheus metrics of the registry client over HTTP.
package metricsserver

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crpt-tools/crptapi/internal/service"
	"github.com/crpt-tools/crptapi/log"
)

// MetricsPath is the route that serves metrics in the Prometheus text format.
const MetricsPath = "/metrics"

// HealthPath is the route that answers 200 while the server is running.
const HealthPath = "/healthz"

// MetricsServer serves metrics gathered from a Prometheus registry.
// It implements service.Unit interface.
type MetricsServer struct {
	URL            string
	HTTPServer     *http.Server
	httpServerDone chan struct{}
	Logger         log.FieldLogger
}

var _ service.Unit = (*MetricsServer)(nil)

// New creates a new metrics server. Metrics are gathered from the passed gatherer
// (prometheus.DefaultGatherer if nil).
func New(cfg *Config, gatherer prometheus.Gatherer, logger log.FieldLogger) *MetricsServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Get(HealthPath, func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: promErrorLogger{logger},
	}))

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: time.Second * 5,
	}

	return &MetricsServer{
		URL:            "http://" + httpServer.Addr,
		HTTPServer:     httpServer,
		httpServerDone: make(chan struct{}),
		Logger:         logger,
	}
}

// Start listens and serves in a blocking way, so it's supposed to be called in a separate goroutine.
// A listen error is sent into fatalError.
func (s *MetricsServer) Start(fatalError chan<- error) {
	defer close(s.httpServerDone)

	logger := s.Logger.With(log.String("address", s.HTTPServer.Addr))

	listener, err := net.Listen("tcp", s.HTTPServer.Addr)
	if err != nil {
		logger.Error("metrics HTTP server listen error", log.Error(err))
		fatalError <- err
		return
	}

	logger.Info("starting metrics HTTP server...")
	if err = s.HTTPServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics HTTP server error", log.Error(err))
		fatalError <- err
		return
	}
	logger.Info("metrics HTTP server closed")
}

// Stop closes the server. Metrics scrapes are short, so there is no graceful mode.
func (s *MetricsServer) Stop(gracefully bool) error {
	s.Logger.Info("closing metrics HTTP server...")
	if err := s.HTTPServer.Close(); err != nil {
		s.Logger.Error("metrics HTTP server closing error", log.Error(err))
		return err
	}
	<-s.httpServerDone
	return nil
}

type promErrorLogger struct {
	logger log.FieldLogger
}

func (l promErrorLogger) Println(v ...interface{}) {
	l.logger.Error("metrics handler error", log.String("details", fmt.Sprint(v...)))
}
