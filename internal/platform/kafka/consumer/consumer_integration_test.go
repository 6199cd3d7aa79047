//go:build integration

package consumer_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electoral/internal/platform/kafka/admin"
	"electoral/internal/platform/kafka/consumer"
	"electoral/internal/platform/kafka/producer"
	"electoral/pkg/testutil/containers"
)

type channelHandler struct {
	got chan *consumer.Message
}

func (h *channelHandler) Handle(_ context.Context, msg *consumer.Message) error {
	h.got <- msg
	return nil
}

func TestProducerConsumerRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	brokers := containers.GetManager().GetRedpanda(t).Brokers
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "electoral.events.test"
	require.NoError(t, admin.EnsureTopic(ctx, brokers, topic, 1, 1))
	require.NoError(t, admin.EnsureTopic(ctx, brokers, topic, 1, 1), "topic creation is idempotent")

	p, err := producer.New(brokers, topic)
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Ping(ctx))
	require.NoError(t, p.Publish(ctx, "candidate:7", []byte(`{"type":"candidate_nominated"}`), map[string]string{
		"event_type": "candidate_nominated",
	}))

	handler := &channelHandler{got: make(chan *consumer.Message, 1)}
	c, err := consumer.New(brokers, "electoral-test", topic, handler, slog.Default())
	require.NoError(t, err)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Run(runCtx) }()

	select {
	case msg := <-handler.got:
		assert.Equal(t, topic, msg.Topic)
		assert.Equal(t, "candidate:7", string(msg.Key))
		assert.JSONEq(t, `{"type":"candidate_nominated"}`, string(msg.Value))
		assert.Equal(t, "candidate_nominated", msg.Headers["event_type"])
	case <-ctx.Done():
		t.Fatal("no message consumed before timeout")
	}

	stop()
	require.NoError(t, <-done)
}
