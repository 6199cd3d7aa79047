package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	try "gopkg.in/matryer/try.v1"

	"electoral/internal/notification/models"
	"electoral/internal/outbox"
	"electoral/internal/platform/kafka/consumer"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
)

var (
	notificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "electoral_notifications_delivered_total",
		Help: "Notifications written for consumed domain events",
	}, []string{"category"})
	notificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "electoral_notifications_dropped_total",
		Help: "Domain events whose notification could not be written",
	})
)

// Pusher delivers a notification to the user's devices after it is stored.
type Pusher interface {
	Push(ctx context.Context, userID id.UserID, title, body string, category models.Category) error
}

// LogPusher writes pushes to the log. It is the default when no push
// provider is configured.
type LogPusher struct {
	Logger *slog.Logger
}

func (p LogPusher) Push(ctx context.Context, userID id.UserID, title, _ string, category models.Category) error {
	p.Logger.InfoContext(ctx, "push notification",
		"user_id", userID,
		"title", title,
		"category", category,
	)
	return nil
}

// Dispatcher consumes outbox events and writes one notification per event
// that a user should hear about.
type Dispatcher struct {
	store       Store
	pusher      Pusher
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
}

func NewDispatcher(store Store, pusher Pusher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if pusher == nil {
		pusher = LogPusher{Logger: logger}
	}
	return &Dispatcher{store: store, pusher: pusher, logger: logger, maxAttempts: 3, backoff: 200 * time.Millisecond}
}

// Handle implements consumer.Handler.
func (d *Dispatcher) Handle(ctx context.Context, msg *consumer.Message) error {
	return d.Dispatch(ctx, msg.Value)
}

// Publish lets the dispatcher stand in for the broker when the relay runs
// without Kafka.
func (d *Dispatcher) Publish(ctx context.Context, _ string, value []byte, _ map[string]string) error {
	return d.Dispatch(ctx, value)
}

// Dispatch decodes one event body. Malformed bodies and events without a
// recipient are dropped without error so they do not block the partition.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) error {
	p, err := outbox.DecodePayload(body)
	if err != nil {
		notificationsDropped.Inc()
		d.logger.WarnContext(ctx, "dropping undecodable event", "error", err)
		return nil
	}
	note, ok := Compose(p)
	if !ok {
		return nil
	}

	var created bool
	err = try.Do(func(attempt int) (bool, error) {
		var insertErr error
		_, created, insertErr = d.store.Insert(ctx, note)
		if errors.Is(insertErr, sentinel.ErrMissingReference) {
			return false, insertErr
		}
		if insertErr != nil && attempt < d.maxAttempts {
			time.Sleep(d.backoff)
		}
		return attempt < d.maxAttempts, insertErr
	})
	if errors.Is(err, sentinel.ErrMissingReference) {
		notificationsDropped.Inc()
		d.logger.WarnContext(ctx, "dropping notification for unknown user",
			"event_id", p.EventID,
			"user_id", p.UserID,
		)
		return nil
	}
	if err != nil {
		notificationsDropped.Inc()
		return fmt.Errorf("store notification for %s: %w", p.EventID, err)
	}
	if !created {
		return nil
	}
	notificationsDelivered.WithLabelValues(string(note.Category)).Inc()

	if err := d.pusher.Push(ctx, note.UserID, note.Title, note.Message, note.Category); err != nil {
		d.logger.WarnContext(ctx, "push failed",
			"event_id", p.EventID,
			"user_id", note.UserID,
			"error", err,
		)
	}
	return nil
}

// Compose maps an event to the notification its subject receives. Events
// that carry no user-facing news return ok=false.
func Compose(p outbox.Payload) (*models.Notification, bool) {
	if p.UserID <= 0 {
		return nil, false
	}
	note := &models.Notification{
		UserID:    p.UserID,
		EventID:   p.EventID,
		CreatedAt: p.OccurredAt,
	}
	switch p.Type {
	case outbox.EventUserRegistered:
		note.Category = models.CategoryAccount
		note.Title = "Welcome"
		note.Message = "Your voter account has been created."
	case outbox.EventAgentAssigned:
		note.Category = models.CategoryAssignment
		note.Title = "Booth assignment"
		note.Message = fmt.Sprintf("You have been assigned to booth %d for election %d.", p.BoothID, p.ElectionID)
	case outbox.EventCandidateNominated:
		note.Category = models.CategoryNomination
		note.Title = "Nomination received"
		note.Message = fmt.Sprintf("Your nomination for election %d is pending review.", p.ElectionID)
	case outbox.EventNominationStatusChanged:
		note.Category = models.CategoryNomination
		note.Title = "Nomination " + p.Status
		note.Message = fmt.Sprintf("Your nomination for election %d is now %s.", p.ElectionID, p.Status)
	case outbox.EventCandidateWithdrawn:
		note.Category = models.CategoryNomination
		note.Title = "Nomination withdrawn"
		note.Message = fmt.Sprintf("Your nomination for election %d has been withdrawn.", p.ElectionID)
	default:
		return nil, false
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	return note, true
}
