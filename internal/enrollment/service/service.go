// Package service runs the enrollment and nomination transactions: identity
// resolution, role grants, scope validation and assignment writes commit or
// roll back together.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"electoral/internal/enrollment/metrics"
	identitysvc "electoral/internal/identity/service"
	"electoral/internal/outbox"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/requestcontext"
)

// Service coordinates enrollment writes.
type Service struct {
	tx      StoreTx
	reader  Reader
	hasher  identitysvc.PasswordHasher
	objects ObjectStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithObjectStore enables signed URLs on reads and cleanup of uploads that
// belonged to a rolled back transaction.
func WithObjectStore(objects ObjectStore) Option {
	return func(s *Service) {
		s.objects = objects
	}
}

func New(tx StoreTx, reader Reader, hasher identitysvc.PasswordHasher, opts ...Option) *Service {
	s := &Service{
		tx:     tx,
		reader: reader,
		hasher: hasher,
		logger: slog.Default(),
		tracer: otel.Tracer("electoral/enrollment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run executes fn in a transaction under a span. Uncoded errors are treated as
// storage faults.
func (s *Service) run(ctx context.Context, operation string, fn func(ctx context.Context, stores Stores) error) error {
	start := time.Now()
	defer s.metrics.ObserveOperation(operation, start)

	ctx, span := s.tracer.Start(ctx, "enrollment."+operation)
	defer span.End()

	err := s.tx.RunInTx(ctx, func(stores Stores) error {
		return fn(ctx, stores)
	})
	if err == nil {
		return nil
	}

	s.metrics.IncRollback(operation)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		s.logger.ErrorContext(ctx, "enrollment transaction rolled back",
			"operation", operation,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		var coded *dErrors.Error
		if !errors.As(err, &coded) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
		}
	}
	return err
}

func appendEvent(ctx context.Context, stores Stores, eventType outbox.EventType, aggregateType, aggregateID string, p outbox.Payload) error {
	p.ActorID = requestcontext.UserID(ctx)
	p.RequestID = requestcontext.RequestID(ctx)
	ev, err := outbox.New(eventType, aggregateType, aggregateID, p, requestcontext.Now(ctx))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build event")
	}
	if err := stores.Outbox.Append(ctx, ev); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record event")
	}
	return nil
}

// discard removes uploads that no committed row references.
// Failures are logged and otherwise ignored.
func (s *Service) discard(ctx context.Context, keys ...string) {
	if s.objects == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.objects.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete orphaned upload",
				"key", key,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
}

func (s *Service) signedURL(ctx context.Context, key string) string {
	if key == "" || s.objects == nil {
		return ""
	}
	url, err := s.objects.SignedURL(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to sign object url",
			"key", key,
			"error", err,
		)
		return ""
	}
	return url
}
