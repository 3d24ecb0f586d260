// Package service wires the tracker pipeline, its sinks and the HTTP surface.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"wisefido-sedentary/internal/analytics"
	"wisefido-sedentary/internal/cache"
	"wisefido-sedentary/internal/common/database"
	mqttcommon "wisefido-sedentary/internal/common/mqtt"
	rediscommon "wisefido-sedentary/internal/common/redis"
	"wisefido-sedentary/internal/config"
	"wisefido-sedentary/internal/consumer"
	httpapi "wisefido-sedentary/internal/http"
	"wisefido-sedentary/internal/hub"
	"wisefido-sedentary/internal/report"
	"wisefido-sedentary/internal/repository"
	"wisefido-sedentary/internal/source"
	"wisefido-sedentary/internal/tracker"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SedentaryService runs ingestion, the hub consumers and the HTTP server.
type SedentaryService struct {
	config     *config.Config
	logger     *zap.Logger
	db         *sql.DB
	redis      *redis.Client
	mqttClient *mqttcommon.Client

	hub         *hub.Hub
	ingestor    *consumer.Ingestor
	persistence *consumer.PersistenceSink
	alerts      *consumer.AlertNotifier
	streams     *consumer.StreamSink
	reporter    *report.DailyReporter
	server      *httpapi.Server

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New connects to the backing stores and builds every component.
func New(cfg *config.Config, logger *zap.Logger) (*SedentaryService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient := rediscommon.NewRedisClient(&cfg.Redis)
	if err := rediscommon.Ping(ctx, redisClient); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var mqttClient *mqttcommon.Client
	if cfg.Source.Kind == config.SourceMQTT {
		mqttClient, err = mqttcommon.NewClient(&cfg.MQTT, logger)
		if err != nil {
			_ = rediscommon.Close(redisClient)
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to connect to MQTT: %w", err)
		}
	}

	var subscriber source.Subscriber
	if mqttClient != nil {
		subscriber = mqttClient
	}
	src, err := NewSource(cfg, subscriber)
	if err != nil {
		_ = rediscommon.Close(redisClient)
		_ = database.Close(db)
		return nil, err
	}

	thresholds := tracker.Thresholds{
		Fidget:       cfg.Tracker.FidgetThreshold,
		Active:       cfg.Tracker.ActiveThreshold,
		AlertSeconds: cfg.Tracker.AlertSeconds,
	}

	eventHub := hub.New(cfg.Hub.QueueSize, logger)
	history := cache.NewHistoryCache(redisClient, cfg.Cache.Key, cfg.Cache.Capacity, logger)
	monitor := analytics.NewMonitor(cfg.Analytics.BufferCap, analytics.Analyzer{
		Segments:          cfg.Analytics.Segments,
		VarianceThreshold: cfg.Analytics.VarianceThreshold,
	})

	logRepo := repository.NewSedentaryLogRepository(db, logger)
	summaryRepo := repository.NewActivitySummaryRepository(db, logger)

	ingestor := consumer.NewIngestor(
		src,
		tracker.New(cfg.Tracker.SmoothingWindow, thresholds),
		monitor,
		eventHub,
		history,
		consumer.IngestorConfig{
			Reconnect: source.ReconnectConfig{
				MaxRetries:    cfg.Source.MaxRetries,
				RetryDelay:    cfg.Source.RetryDelay,
				MaxRetryDelay: cfg.Source.MaxRetryDelay,
			},
			CacheTimeout: cfg.Cache.Timeout,
		},
		logger,
	)

	var alerts *consumer.AlertNotifier
	if cfg.Alert.WebhookURL != "" {
		alerts = consumer.NewAlertNotifier(eventHub, cfg.Alert.WebhookURL, cfg.Alert.Timeout, logger)
	}

	var streams *consumer.StreamSink
	if cfg.Stream.Key != "" {
		streams = consumer.NewStreamSink(eventHub, redisClient, cfg.Stream.Key, cfg.Stream.MaxLen, logger)
	}

	handlers := &httpapi.Handlers{
		Logs:      logRepo,
		Summaries: summaryRepo,
		Features:  monitor,
		Live:      consumer.NewLiveSink(eventHub, history, logger),
		StaticDir: cfg.HTTP.StaticDir,
		Logger:    logger,
	}
	if mqttClient != nil {
		handlers.MQTT = mqttClient
	}
	router := httpapi.NewRouter(handlers)

	return &SedentaryService{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       redisClient,
		mqttClient:  mqttClient,
		hub:         eventHub,
		ingestor:    ingestor,
		persistence: consumer.NewPersistenceSink(eventHub, logRepo, logger),
		alerts:      alerts,
		streams:     streams,
		reporter:    report.NewDailyReporter(logRepo, summaryRepo, thresholds, cfg.Report.SamplesPerMinute, cfg.Report.Interval, logger),
		server:      httpapi.NewServer(cfg.HTTP.Addr, router, logger),
	}, nil
}

// NewSource builds the configured frame source. subscriber is only used by the mqtt kind.
func NewSource(cfg *config.Config, subscriber source.Subscriber) (source.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceSerial:
		return source.NewSerialSource(cfg.Source.SerialPort, cfg.Source.BaudRate), nil
	case config.SourceTCP:
		return source.NewTCPSource(cfg.Source.TCPAddr), nil
	case config.SourceFile:
		return source.NewFileSource(cfg.Source.FilePath), nil
	case config.SourceMQTT:
		if subscriber == nil {
			return nil, fmt.Errorf("mqtt source requires a connected client")
		}
		return source.NewMQTTSource(subscriber, cfg.Source.MQTTTopic, cfg.MQTT.QoS), nil
	case config.SourceSimulate:
		return source.NewSimulatedSource(cfg.Source.SimulateRate), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// Start launches every component on its own goroutine and returns.
func (s *SedentaryService) Start(ctx context.Context) error {
	s.logger.Info("Starting sedentary service components")

	if err := s.persistence.Attach(); err != nil {
		return fmt.Errorf("failed to start persistence sink: %w", err)
	}
	if s.alerts != nil {
		if err := s.alerts.Attach(); err != nil {
			return fmt.Errorf("failed to start alert notifier: %w", err)
		}
	}

	if s.streams != nil {
		if err := s.streams.Attach(); err != nil {
			return fmt.Errorf("failed to start stream sink: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.run("persistence", func() error { return s.persistence.Run(runCtx) })
	if s.alerts != nil {
		s.run("alerts", func() error { return s.alerts.Run(runCtx) })
	}
	if s.streams != nil {
		s.run("streams", func() error { return s.streams.Run(runCtx) })
	}
	s.run("reporter", func() error { return s.reporter.Run(runCtx) })
	s.run("ingestion", func() error { return s.ingestor.Run(runCtx) })
	s.run("http", s.server.Start)

	s.logger.Info("Sedentary service started successfully")
	return nil
}

func (s *SedentaryService) run(name string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(); err != nil {
			s.logger.Error("Component stopped with error", zap.String("component", name), zap.Error(err))
		}
	}()
}

// Stop shuts down HTTP, cancels the pipeline and releases connections.
// Events still queued in the hub are not drained.
func (s *SedentaryService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping sedentary service")

	if err := s.server.Stop(ctx); err != nil {
		s.logger.Error("Error stopping HTTP server", zap.Error(err))
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.hub.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for components to stop")
	}

	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
	if s.redis != nil {
		_ = rediscommon.Close(s.redis)
	}
	if s.db != nil {
		_ = database.Close(s.db)
	}

	s.logger.Info("Sedentary service stopped")
	return nil
}
