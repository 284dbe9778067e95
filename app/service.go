// Package app wires the feed, store, predictors and outward surfaces into a
// running service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kfenech/ferrywatch/api"
	"github.com/kfenech/ferrywatch/api/routes"
	"github.com/kfenech/ferrywatch/config"
	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/vesselstore"
	"github.com/kfenech/ferrywatch/infra/logger"
	"github.com/kfenech/ferrywatch/infra/metrics"
	"github.com/kfenech/ferrywatch/infra/mqtt"
	"github.com/kfenech/ferrywatch/infra/push"
	"github.com/kfenech/ferrywatch/infra/schedule"
	"github.com/kfenech/ferrywatch/infra/telegram"
	"github.com/kfenech/ferrywatch/internal/eventbus"
	"github.com/kfenech/ferrywatch/jobs/crossingstats"
	"github.com/kfenech/ferrywatch/jobs/safetywatch"
)

// Service orchestrates the feed subscriber, prediction jobs and API.
type Service struct {
	store       *vesselstore.MemoryStore
	bus         *eventbus.Bus
	subscriber  *mqtt.Subscriber
	schedules   *schedule.Store
	server      *api.Server
	watcher     *safetywatch.Watcher
	crossings   *crossingstats.Tracker
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	store := vesselstore.NewMemoryStore()
	bus := eventbus.New()

	alerter := telegram.NewAlerter(cfg.Telegram)
	var alert func(string)
	if alerter.Enabled() {
		alert = alerter.Alert
	}
	fetchOpts := []schedule.Option{
		schedule.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}),
		schedule.WithCacheDir(cfg.Schedule.CacheDir),
	}
	if cfg.Schedule.BaseURL != "" {
		fetchOpts = append(fetchOpts, schedule.WithBaseURL(cfg.Schedule.BaseURL))
	}
	fetcher := schedule.NewFetcher(fetchOpts...)
	schedules := schedule.NewStore(fetcher, cfg.Schedule, alert)

	var sender push.Sender
	registry := push.NewRegistry()
	if cfg.Push.ServiceAccount != "" {
		fcm, err := push.NewFCMSender(ctx, cfg.Push)
		if err != nil {
			return nil, fmt.Errorf("fcm sender: %w", err)
		}
		sender = fcm
	}

	sub, err := mqtt.NewSubscriber(cfg.MQTT, newIngestor(store, bus, sink))
	if err != nil {
		return nil, fmt.Errorf("mqtt subscriber: %w", err)
	}

	server := api.NewServer(cfg.API, routes.Deps{
		Store:    store,
		Schedule: schedules,
		Bus:      bus,
		Registry: registry,
		Sink:     sink,
	})

	return &Service{
		store:       store,
		bus:         bus,
		subscriber:  sub,
		schedules:   schedules,
		server:      server,
		watcher:     safetywatch.New(bus, schedules, sender, registry, sink),
		crossings:   crossingstats.New(bus, sink),
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run starts all components and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.schedules.Refresh(ctx, time.Now()); err != nil {
		s.log.Warnf("initial schedule fetch: %v", err)
	}
	go s.schedules.Run(ctx)
	go s.watcher.Run(ctx)
	go s.crossings.Run(ctx)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go func() {
		if err := s.server.Run(ctx); err != nil {
			s.log.Errorf("api server: %v", err)
		}
	}()
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.subscriber.Close()
	s.bus.Close()
	return nil
}
