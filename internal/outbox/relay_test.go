package outbox

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	events    []Event
	published int
}

func (s *sliceSource) ClaimPending(ctx context.Context, limit int, publish func(context.Context, Event) error) (int, error) {
	n := 0
	for s.published < len(s.events) && n < limit {
		if err := publish(ctx, s.events[s.published]); err != nil {
			return n, err
		}
		s.published++
		n++
	}
	return n, nil
}

type recordingPublisher struct {
	keys   []string
	failAt int
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ []byte, headers map[string]string) error {
	if p.failAt > 0 && len(p.keys)+1 == p.failAt {
		return errors.New("broker unavailable")
	}
	if headers["event_type"] == "" {
		return errors.New("missing event_type header")
	}
	p.keys = append(p.keys, key)
	return nil
}

func mustEvent(t *testing.T, typ EventType, aggregateID string) Event {
	t.Helper()
	ev, err := New(typ, "candidate", aggregateID, Payload{UserID: 1}, time.Now())
	require.NoError(t, err)
	return ev
}

func TestRelayOnce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("publishes in order", func(t *testing.T) {
		src := &sliceSource{events: []Event{
			mustEvent(t, EventCandidateNominated, "7"),
			mustEvent(t, EventNominationStatusChanged, "7"),
		}}
		pub := &recordingPublisher{}
		n, err := NewRelay(src, pub, time.Second, 10, logger).RelayOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"candidate:7", "candidate:7"}, pub.keys)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		src := &sliceSource{events: []Event{
			mustEvent(t, EventCandidateNominated, "1"),
			mustEvent(t, EventCandidateNominated, "2"),
			mustEvent(t, EventCandidateNominated, "3"),
		}}
		pub := &recordingPublisher{failAt: 2}
		n, err := NewRelay(src, pub, time.Second, 10, logger).RelayOnce(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, src.published)
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	ev, err := New(EventVoterMarked, "election", "5", Payload{UserID: 10, ElectionID: 5, Status: "marked"}, time.Now())
	require.NoError(t, err)

	p, err := DecodePayload(ev.Payload)
	require.NoError(t, err)
	assert.Equal(t, ev.ID.String(), p.EventID)
	assert.Equal(t, EventVoterMarked, p.Type)
	assert.Equal(t, "marked", p.Status)
}
