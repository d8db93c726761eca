package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

// spawnWorkerPool spawns N delivery goroutines.
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
	w.logger.Info("Worker pool spawned",
		slog.Int("worker_count", w.concurrency),
	)
}

// workerLoop is the processing loop for one delivery goroutine.
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()
	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case delivery, ok := <-w.msgChan:
			if !ok {
				return
			}
			w.handleDelivery(ctx, workerName, delivery)
		}
	}
}

// handleDelivery decodes one notification and hands it to the sender.
// Ack/nack policy: malformed messages are dropped, a failed send is
// requeued once and dropped on the second failure.
func (w *Worker) handleDelivery(ctx context.Context, workerName string, delivery amqp.Delivery) {
	var n domain.Notification
	if err := json.Unmarshal(delivery.Body, &n); err != nil {
		w.logger.Error("Failed to parse notification JSON",
			slog.String("worker_name", workerName),
			slog.String("error", err.Error()),
		)
		w.nack(delivery, false)
		return
	}

	if _, err := uuid.Parse(n.ID); err != nil {
		w.logger.Error("Invalid notification_id - not a UUID",
			slog.String("worker_name", workerName),
			slog.String("notification_id", n.ID),
		)
		w.nack(delivery, false)
		return
	}
	if n.To == "" || n.Body == "" {
		w.logger.Error("Notification missing recipient or body",
			slog.String("worker_name", workerName),
			slog.String("notification_id", n.ID),
		)
		w.nack(delivery, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	if err := w.sender.Send(sendCtx, n.To, n.Body); err != nil {
		w.logger.Error("Notification send failed",
			slog.String("worker_name", workerName),
			slog.String("notification_id", n.ID),
			slog.Bool("redelivered", delivery.Redelivered),
			slog.String("error", err.Error()),
		)
		w.nack(delivery, !delivery.Redelivered)
		return
	}

	if err := delivery.Ack(false); err != nil {
		w.logger.Error("Failed to ACK message",
			slog.String("worker_name", workerName),
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	w.logger.Info("Notification processed",
		slog.String("worker_name", workerName),
		slog.String("notification_id", n.ID),
		slog.Int64("job_id", n.JobID),
	)
}

func (w *Worker) nack(delivery amqp.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		w.logger.Error("Failed to NACK message",
			slog.String("error", err.Error()),
			slog.Bool("requeue", requeue),
		)
	}
}
