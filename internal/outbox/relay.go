package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source hands out unpublished events. ClaimPending calls publish for each
// claimed event in creation order and marks it published when publish
// succeeds. It stops at the first failure so ordering per aggregate holds.
type Source interface {
	ClaimPending(ctx context.Context, limit int, publish func(context.Context, Event) error) (int, error)
}

// Publisher delivers one event to the broker.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
}

var (
	relayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "electoral_outbox_relayed_total",
		Help: "Outbox events published to the broker",
	})
	relayFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "electoral_outbox_relay_failures_total",
		Help: "Outbox relay passes that stopped on a publish or storage error",
	})
)

// Relay polls the outbox and publishes committed events.
type Relay struct {
	source    Source
	publisher Publisher
	interval  time.Duration
	batch     int
	logger    *slog.Logger
}

func NewRelay(source Source, publisher Publisher, interval time.Duration, batch int, logger *slog.Logger) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{source: source, publisher: publisher, interval: interval, batch: batch, logger: logger}
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.WarnContext(ctx, "outbox relay pass failed", "error", err)
			}
		}
	}
}

// RelayOnce drains up to one batch and returns how many events were published.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	n, err := r.source.ClaimPending(ctx, r.batch, func(ctx context.Context, ev Event) error {
		return r.publisher.Publish(ctx, ev.AggregateType+":"+ev.AggregateID, ev.Payload, map[string]string{
			"event_id":   ev.ID.String(),
			"event_type": string(ev.Type),
		})
	})
	relayedTotal.Add(float64(n))
	if err != nil {
		relayFailures.Inc()
		return n, err
	}
	if n > 0 {
		r.logger.DebugContext(ctx, "outbox events relayed", "count", n)
	}
	return n, nil
}
