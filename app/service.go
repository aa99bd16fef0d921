// Package app wires configuration, models, handlers and observability into
// a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/co2cast/api/forecast"
	"github.com/kilianp07/co2cast/config"
	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/forecastlog"
	coremetrics "github.com/kilianp07/co2cast/core/metrics"
	"github.com/kilianp07/co2cast/core/modelstore"
	coremon "github.com/kilianp07/co2cast/core/monitoring"
	"github.com/kilianp07/co2cast/core/prediction"
	"github.com/kilianp07/co2cast/infra/logger"
	"github.com/kilianp07/co2cast/infra/metrics"
	"github.com/kilianp07/co2cast/infra/monitoring"
	"github.com/kilianp07/co2cast/internal/eventbus"
)

const shutdownTimeout = 5 * time.Second

// Service serves forecasts over HTTP and fans request events out to the
// configured metrics sinks and forecast log store.
type Service struct {
	Engine  *prediction.Pipeline
	Handler http.Handler

	cfg   *config.Config
	bus   *eventbus.TypedBus[events.ForecastEvent]
	sink  coremetrics.MetricsSink
	store forecastlog.LogStore
	log   logger.Logger
	// closed when the metrics collector and log recorder have drained
	consumers []<-chan struct{}
}

// BuildEngine loads the model bundle and returns the forecast pipeline.
func BuildEngine(cfg *config.Config, log logger.Logger) (*prediction.Pipeline, error) {
	models, err := modelstore.Load(cfg.Models.Path, modelstore.Options{
		BreakYear:   cfg.Forecast.RenewablesBreakYear,
		Horizon:     cfg.Forecast.ExtrapolationHorizon,
		TopFeatures: cfg.Forecast.TopFeatures,
	})
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	return prediction.NewPipeline(models, prediction.Config{
		MinYear: cfg.Forecast.MinYear,
		MaxYear: cfg.Forecast.MaxYear,
	}, log)
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	engine, err := BuildEngine(cfg, logger.New("pipeline"))
	if err != nil {
		return nil, err
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := forecastlog.Open(forecastlog.Options{
		Backend:    cfg.Logging.Backend,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("forecast log: %w", err)
	}

	bus := eventbus.NewTypedBuffered[events.ForecastEvent](cfg.Metrics.EventBuffer)
	opts := forecast.Options{RoundDigits: cfg.Forecast.RoundDigits, Bus: bus, Log: logger.New("api")}

	mux := http.NewServeMux()
	mux.Handle("POST "+forecast.PredictPath, forecast.NewPredictHandler(engine, opts))
	mux.Handle("POST "+forecast.ExplainPath, forecast.NewExplainHandler(engine, opts))
	mux.Handle("GET "+forecast.LogsPath, forecast.NewLogHandler(store))
	mux.Handle("GET "+forecast.HealthPath, forecast.NewHealthHandler(nil))
	if cfg.Server.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	origin := cfg.Server.CORSOrigin
	if origin == "none" {
		origin = ""
	}
	// consumers stop when the bus closes so queued events are drained
	consumers := []<-chan struct{}{
		metrics.StartEventCollector(context.Background(), bus, sink, logger.New("metrics")),
		forecastlog.StartRecorder(context.Background(), bus, store, logger.New("forecastlog")),
	}

	return &Service{
		Engine:    engine,
		Handler:   forecast.CORS(origin, mux),
		cfg:       cfg,
		bus:       bus,
		sink:      sink,
		store:     store,
		log:       logg,
		consumers: consumers,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout(),
		WriteTimeout: s.cfg.Server.WriteTimeout(),
	}
	errCh := make(chan error, 1)
	go func() {
		defer coremon.Recover()
		s.log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("http shutdown: %v", err)
	}
	return runErr
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if n := s.bus.Dropped(); n > 0 {
		s.log.Warnf("%d forecast events dropped by slow consumers", n)
	}
	for _, done := range s.consumers {
		<-done
	}
	var errs []error
	if c, ok := s.sink.(coremetrics.Closer); ok {
		errs = append(errs, c.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
