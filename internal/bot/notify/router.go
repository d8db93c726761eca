// Package notify turns successful assignments into outbound notification
// payloads. Delivery is a courtesy decoupled from the assignment itself:
// every failure here is logged and reported as a soft flag, never as an
// error that could roll the assignment back.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

// publishTimeout bounds the broker call so a slow broker cannot stall the
// webhook reply.
const publishTimeout = 5 * time.Second

// Publisher publishes an encoded notification for the notifier service to
// pick up.
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Router resolves the technician side of an assignment and emits the
// notification payload.
type Router struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewRouter creates a Router publishing through the given Publisher.
func NewRouter(publisher Publisher, logger *slog.Logger) *Router {
	return &Router{publisher: publisher, logger: logger}
}

// Dispatch builds the assignment notice for a technician and publishes it.
// Returns false when the notice could not be handed off; the caller's
// assignment stays committed either way.
func (r *Router) Dispatch(ctx context.Context, tech domain.Technician, job domain.Job) bool {
	if !tech.Active {
		r.logger.Warn("Skipping notification for inactive technician",
			slog.Int64("job_id", job.ID),
			slog.String("technician", tech.Name),
		)
		return false
	}

	notification := BuildNotification(tech, job)
	body, err := json.Marshal(notification)
	if err != nil {
		r.logger.Error("Failed to encode notification",
			slog.Int64("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.publisher.PublishWithRetry(ctx, body, "application/json"); err != nil {
		r.logger.Error("Failed to publish notification",
			slog.Int64("job_id", job.ID),
			slog.String("notification_id", notification.ID),
			slog.String("error", err.Error()),
		)
		return false
	}

	r.logger.Info("Notification published",
		slog.Int64("job_id", job.ID),
		slog.String("notification_id", notification.ID),
		slog.String("technician", tech.Name),
	)
	return true
}

// BuildNotification constructs the assignment notice payload.
func BuildNotification(tech domain.Technician, job domain.Job) domain.Notification {
	return domain.Notification{
		ID:    uuid.NewString(),
		To:    tech.Address,
		JobID: job.ID,
		Body: fmt.Sprintf(
			"🔔 New assignment #%d\nModel: %s\nQty: %d\nCustomer: %s\nNotes: %s\n\nMark done with: /status %d done",
			job.ID,
			job.Model.String,
			job.Qty,
			job.CustomerPhone,
			orDash(job.Notes.String),
			job.ID,
		),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
