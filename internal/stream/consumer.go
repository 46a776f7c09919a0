package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/database"
	apperrors "github.com/ZanzyTHEbar/codestreak-ml/internal/errors"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/insights"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/monitoring"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/resilience"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

// Config holds the activity topic consumer settings
type Config struct {
	Brokers  []string      `yaml:"brokers"`
	Topic    string        `yaml:"topic"`
	GroupID  string        `yaml:"group_id"`
	Workers  int           `yaml:"workers"`
	MinBytes int           `yaml:"min_bytes"`
	MaxBytes int           `yaml:"max_bytes"`
	MaxWait  time.Duration `yaml:"max_wait"`
}

// DefaultConfig leaves Brokers empty, which disables the consumer
func DefaultConfig() Config {
	return Config{
		Topic:    "activity-logs",
		GroupID:  "codestreak-ml",
		Workers:  4,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	}
}

// Enabled reports whether any broker is configured
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}

// ErrMalformedMessage marks messages that can never be processed
var ErrMalformedMessage = errors.New("malformed activity message")

// ReportBuilder turns an activity log into an insights report
type ReportBuilder interface {
	Build(log types.ActivityLog) (insights.Report, error)
}

// ReportStore persists reports
type ReportStore interface {
	SaveReport(ctx context.Context, userID string, report insights.Report) (*database.InsightRecord, error)
}

// ReportCache receives every stored report
type ReportCache interface {
	Set(userID string, report insights.Report)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer refreshes stored reports from activity messages
type Consumer struct {
	reader     messageReader
	builder    ReportBuilder
	store      ReportStore
	cache      ReportCache
	breaker    *resilience.CircuitBreaker
	retry      resilience.RetryConfig
	metrics    *monitoring.Metrics
	logger     *monitoring.Logger
	numWorkers int
}

// NewConsumer creates a consumer group reader for cfg.Topic. cache may be nil.
func NewConsumer(cfg Config, builder ReportBuilder, store ReportStore, cache ReportCache,
	metrics *monitoring.Metrics, logger *monitoring.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.Brokers,
		Topic:           cfg.Topic,
		GroupID:         cfg.GroupID,
		MinBytes:        cfg.MinBytes,
		MaxBytes:        cfg.MaxBytes,
		MaxWait:         cfg.MaxWait,
		ReadLagInterval: -1,
		StartOffset:     kafka.FirstOffset,
	})

	return newConsumer(reader, cfg.Workers, builder, store, cache, metrics, logger)
}

func newConsumer(reader messageReader, workers int, builder ReportBuilder, store ReportStore, cache ReportCache,
	metrics *monitoring.Metrics, logger *monitoring.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		reader:     reader,
		builder:    builder,
		store:      store,
		cache:      cache,
		breaker:    resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{FailureThreshold: 5, RecoveryTimeout: 30 * time.Second}),
		retry:      resilience.DefaultRetryConfig(),
		metrics:    metrics,
		logger:     logger,
		numWorkers: workers,
	}
}

// Start runs the workers until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.numWorkers; i++ {
		workerID := i
		g.Go(func() error {
			c.worker(ctx, workerID)
			return nil
		})
	}
	return g.Wait()
}

func (c *Consumer) worker(ctx context.Context, workerID int) {
	c.logger.Info("Stream worker started", "worker", workerID)
	defer c.logger.Info("Stream worker stopped", "worker", workerID)

	for ctx.Err() == nil {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("Failed to fetch message", "worker", workerID, "error", err)
			sleep(ctx, time.Second)
			continue
		}

		c.HandleMessage(ctx, m)

		// every outcome is final; redelivery cannot fix a malformed payload or a
		// model that failed to fit
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Warn("Failed to commit message", "worker", workerID, "offset", m.Offset, "error", err)
		}
	}
}

// HandleMessage decodes one message, builds the report and stores it
func (c *Consumer) HandleMessage(ctx context.Context, m kafka.Message) error {
	payload, err := decode(m.Value)
	if err != nil {
		c.finish(m, "", err)
		return err
	}

	report, err := c.builder.Build(payload.Activities)
	if err != nil {
		c.finish(m, payload.UserID, err)
		return err
	}

	err = resilience.RetryWithConfig(ctx, c.retry, func(ctx context.Context) error {
		return c.breaker.Call(func() error {
			if _, err := c.store.SaveReport(ctx, payload.UserID, report); err != nil {
				return apperrors.NewStorageError("save_report", err)
			}
			return nil
		})
	})
	if c.metrics != nil {
		c.metrics.RecordReportStored(err == nil)
	}
	if err == nil && c.cache != nil {
		c.cache.Set(payload.UserID, report)
	}

	c.finish(m, payload.UserID, err)
	return err
}

func (c *Consumer) finish(m kafka.Message, userID string, err error) {
	if c.metrics != nil {
		c.metrics.RecordStreamMessage(err == nil)
	}
	c.logger.StreamLogger(m.Topic, m.Partition, m.Offset, userID, err)
}

func decode(value []byte) (types.UserPayload, error) {
	var payload types.UserPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if err := payload.Validate(); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return payload, nil
}

// Stats reports the store circuit breaker
func (c *Consumer) Stats() map[string]interface{} {
	return map[string]interface{}{
		"workers":       c.numWorkers,
		"store_breaker": c.breaker.Stats(),
	}
}

// Close closes the Kafka reader connection
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// ensure the kafka reader satisfies the consumer's needs
var _ messageReader = (*kafka.Reader)(nil)
