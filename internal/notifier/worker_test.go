package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type ackRecorder struct {
	mu      sync.Mutex
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(_ uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (s *recordingSender) Send(_ context.Context, to, body string) error {
	if s.fail != nil {
		return s.fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+"|"+body)
	return nil
}

func newTestWorker(sender Sender) *Worker {
	return NewWorker(&Config{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sender:      sender,
		WorkerID:    "notifier-test",
		Concurrency: 2,
		SendTimeout: time.Second,
	})
}

func notificationDelivery(t *testing.T, ack amqp.Acknowledger, n domain.Notification) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(n)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func sampleNotification() domain.Notification {
	return domain.Notification{
		ID:    uuid.NewString(),
		To:    "whatsapp:+15557770000",
		Body:  "🔔 New assignment #7",
		JobID: 7,
	}
}

func TestHandleDelivery_AcksAfterSend(t *testing.T) {
	sender := &recordingSender{}
	w := newTestWorker(sender)
	ack := &ackRecorder{}

	w.handleDelivery(context.Background(), "notifier-test-0", notificationDelivery(t, ack, sampleNotification()))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "whatsapp:+15557770000")
}

func TestHandleDelivery_MalformedJSONIsDropped(t *testing.T) {
	w := newTestWorker(&recordingSender{})
	ack := &ackRecorder{}

	w.handleDelivery(context.Background(), "notifier-test-0", amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte("{not json"),
	})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDelivery_InvalidIDIsDropped(t *testing.T) {
	w := newTestWorker(&recordingSender{})
	ack := &ackRecorder{}

	n := sampleNotification()
	n.ID = "not-a-uuid"
	w.handleDelivery(context.Background(), "notifier-test-0", notificationDelivery(t, ack, n))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDelivery_MissingRecipientIsDropped(t *testing.T) {
	w := newTestWorker(&recordingSender{})
	ack := &ackRecorder{}

	n := sampleNotification()
	n.To = ""
	w.handleDelivery(context.Background(), "notifier-test-0", notificationDelivery(t, ack, n))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDelivery_SendFailureRequeuesOnce(t *testing.T) {
	sender := &recordingSender{fail: errors.New("transport down")}
	w := newTestWorker(sender)

	t.Run("first failure requeues", func(t *testing.T) {
		ack := &ackRecorder{}
		w.handleDelivery(context.Background(), "notifier-test-0", notificationDelivery(t, ack, sampleNotification()))
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("redelivered failure drops", func(t *testing.T) {
		ack := &ackRecorder{}
		d := notificationDelivery(t, ack, sampleNotification())
		d.Redelivered = true
		w.handleDelivery(context.Background(), "notifier-test-0", d)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})
}

func TestWorkerPool_ProcessesAndStops(t *testing.T) {
	sender := &recordingSender{}
	w := newTestWorker(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.spawnWorkerPool(ctx)

	acks := make([]*ackRecorder, 5)
	for i := range acks {
		acks[i] = &ackRecorder{}
		w.msgChan <- notificationDelivery(t, acks[i], sampleNotification())
	}

	// all deliveries handed off; stop drains the pool
	w.Stop()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.sent, 5)
	for _, ack := range acks {
		assert.True(t, ack.acked)
	}
}
