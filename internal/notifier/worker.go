// Package notifier consumes assignment notifications from RabbitMQ and
// delivers them to technicians. Delivery is at-least-once: messages are
// acked only after the sender succeeds, and a first-time failure is
// requeued once before being dropped.
package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Sender        Sender
	WorkerID      string
	Concurrency   int
	PrefetchCount int
	SendTimeout   time.Duration
}

// Worker represents the background notification worker
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	sender        Sender
	workerID      string
	concurrency   int
	prefetchCount int
	sendTimeout   time.Duration

	msgChan  chan amqp.Delivery
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewWorker creates a new worker instance with defaults filled in.
func NewWorker(cfg *Config) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.PrefetchCount <= 0 {
		cfg.PrefetchCount = cfg.Concurrency * 2
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.WorkerID == "" {
		cfg.WorkerID = "notifier-" + uuid.NewString()[:8]
	}
	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		sender:        cfg.Sender,
		workerID:      cfg.WorkerID,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		sendTimeout:   cfg.SendTimeout,
		msgChan:       make(chan amqp.Delivery),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming notifications. It blocks until the context is
// canceled or the broker closes the delivery channel.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting notifier worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("send_timeout", w.sendTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)
	w.dispatch(ctx, deliveries)
	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping notifier worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Notifier worker stopped")
}
