package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	authsvc "electoral/internal/auth/service"
	"electoral/internal/auth/store/revocation"
	electionsvc "electoral/internal/election/service"
	electionstore "electoral/internal/election/store"
	enrollmentsvc "electoral/internal/enrollment/service"
	enrollmentstore "electoral/internal/enrollment/store"
	identitysvc "electoral/internal/identity/service"
	identitystore "electoral/internal/identity/store"
	notificationsvc "electoral/internal/notification/service"
	notificationstore "electoral/internal/notification/store"
	"electoral/internal/outbox"
	"electoral/internal/platform/config"
	"electoral/internal/platform/kafka/admin"
	"electoral/internal/platform/kafka/consumer"
	"electoral/internal/platform/kafka/producer"
	"electoral/internal/platform/objectstore"
	"electoral/internal/platform/postgres"
	"electoral/internal/platform/redis"
	"electoral/internal/platform/upload"
	"electoral/internal/storage/memory"
	"electoral/migrations"
)

type userStore interface {
	identitysvc.ProfileReader
	authsvc.UserStore
}

// backend is the persistence chosen at startup: Postgres when DATABASE_URL
// is set, otherwise the in-memory tables.
type backend struct {
	kind          string
	users         userStore
	roles         identitysvc.RoleLister
	elections     electionsvc.Store
	enrollment    enrollmentsvc.Reader
	notifications notificationsvc.Store
	enrollmentTx  enrollmentsvc.StoreTx
	profileTx     identitysvc.ProfileTx
	outbox        outbox.Source
	ping          healthCheck
	close         func()
}

func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*backend, error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		db := memory.New()
		return &backend{
			kind:          "memory",
			users:         db.Users(),
			roles:         db.Roles(),
			elections:     db.Elections(),
			enrollment:    db.Enrollment(),
			notifications: db.Notifications(),
			enrollmentTx:  db.EnrollmentTx(),
			profileTx:     db.ProfileTx(),
			outbox:        db.Outbox(),
			close:         func() {},
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		n, err := migrations.Apply(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied", "count", n)
	}

	users := identitystore.NewPostgres(db)
	return &backend{
		kind:          "postgres",
		users:         users,
		roles:         users,
		elections:     electionstore.NewPostgres(db),
		enrollment:    enrollmentstore.NewPostgres(db),
		notifications: notificationstore.NewPostgres(db),
		enrollmentTx:  newEnrollmentPostgresTx(db),
		profileTx:     newProfilePostgresTx(db),
		outbox:        outbox.NewPostgresSource(db),
		ping:          db.PingContext,
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("failed to close database", "error", err)
			}
		},
	}, nil
}

type objectStore interface {
	upload.Putter
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string) (string, error)
}

func openObjectStore(cfg config.StorageConfig, log *slog.Logger) (objectStore, error) {
	if cfg.Bucket == "" {
		log.Warn("S3_BUCKET not set, keeping uploads in memory")
		return objectstore.NewMemory(), nil
	}
	s3, err := objectstore.NewS3(cfg)
	if err != nil {
		return nil, err
	}
	return s3, nil
}

type revocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

func openRevocationList(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (revocationList, healthCheck, error) {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Warn("REDIS_URL not set, revoked tokens are kept in process")
		return revocation.NewMemoryTRL(), nil, nil
	}
	return revocation.NewRedisTRL(client.Client), client.Health, nil
}

// broker carries outbox events to the notifier. Without Kafka the relay
// hands events straight to the dispatcher.
type broker struct {
	kind      string
	publisher outbox.Publisher
	consume   func(ctx context.Context) error
	ping      healthCheck
	close     func()
}

const (
	topicPartitions  = 3
	topicReplication = 1
)

func openBroker(ctx context.Context, cfg config.KafkaConfig, dispatcher *notificationsvc.Dispatcher, log *slog.Logger) (*broker, error) {
	if !cfg.Enabled() {
		log.Warn("KAFKA_BROKERS not set, dispatching outbox events in process")
		return &broker{kind: "local", publisher: dispatcher, close: func() {}}, nil
	}

	if err := admin.EnsureTopic(ctx, cfg.Brokers, cfg.Topic, topicPartitions, topicReplication); err != nil {
		return nil, fmt.Errorf("ensure topic: %w", err)
	}
	p, err := producer.New(cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, err
	}
	c, err := consumer.New(cfg.Brokers, cfg.Group, cfg.Topic, dispatcher, log)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &broker{
		kind:      "kafka",
		publisher: p,
		consume:   c.Run,
		ping:      p.Ping,
		close:     p.Close,
	}, nil
}
