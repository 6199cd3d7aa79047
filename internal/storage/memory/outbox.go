package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"electoral/internal/outbox"
)

type outboxTable struct{ st *state }

func (t outboxTable) Append(_ context.Context, ev outbox.Event) error {
	t.st.outbox = append(t.st.outbox, ev)
	return nil
}

// Outbox exposes committed events to the relay.
type Outbox struct{ db *DB }

func (db *DB) Outbox() *Outbox { return &Outbox{db: db} }

// ClaimPending publishes unpublished events in append order and stops at the
// first publish failure. Events published before the failure stay marked.
// The lock is not held while publishing so publishers may write back.
func (o *Outbox) ClaimPending(ctx context.Context, limit int, publish func(context.Context, outbox.Event) error) (int, error) {
	pending := o.Pending()
	if len(pending) > limit {
		pending = pending[:limit]
	}
	n := 0
	for _, ev := range pending {
		if err := publish(ctx, ev); err != nil {
			return n, err
		}
		o.markPublished(ev.ID, time.Now())
		n++
	}
	return n, nil
}

func (o *Outbox) markPublished(eventID uuid.UUID, at time.Time) {
	o.db.mu.Lock()
	defer o.db.mu.Unlock()
	for i := range o.db.st.outbox {
		if o.db.st.outbox[i].ID == eventID {
			o.db.st.outbox[i].PublishedAt = &at
			return
		}
	}
}

// Events returns a copy of every committed event.
func (o *Outbox) Events() []outbox.Event {
	events, _ := read(o.db, func(st *state) ([]outbox.Event, error) {
		return append([]outbox.Event(nil), st.outbox...), nil
	})
	return events
}

// Pending returns the committed events not yet published.
func (o *Outbox) Pending() []outbox.Event {
	var out []outbox.Event
	for _, ev := range o.Events() {
		if ev.PublishedAt == nil {
			out = append(out, ev)
		}
	}
	return out
}
