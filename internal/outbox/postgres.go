package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	txcontext "electoral/pkg/platform/tx"
)

// PostgresStore appends events through whatever connection it is bound to.
// Bind it to the enrollment *sql.Tx so the event commits with the write.
type PostgresStore struct {
	db txcontext.DBTX
}

func NewPostgresStore(db txcontext.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append writes one event row.
func (s *PostgresStore) Append(ctx context.Context, ev Event) error {
	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		ev.ID,
		ev.AggregateType,
		ev.AggregateID,
		string(ev.Type),
		string(ev.Payload),
		ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// PostgresSource claims unpublished rows with SKIP LOCKED so several relay
// instances can run side by side without double-publishing.
type PostgresSource struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db, clock: time.Now}
}

func (s *PostgresSource) ClaimPending(ctx context.Context, limit int, publish func(context.Context, Event) error) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox claim: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("select pending outbox: %w", err)
	}
	var pending []Event
	for rows.Next() {
		var ev Event
		var eventType string
		if err := rows.Scan(&ev.ID, &ev.AggregateType, &ev.AggregateID, &eventType, &ev.Payload, &ev.CreatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		ev.Type = EventType(eventType)
		pending = append(pending, ev)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	rows.Close()

	var published []uuid.UUID
	var publishErr error
	for _, ev := range pending {
		if err := publish(ctx, ev); err != nil {
			publishErr = fmt.Errorf("publish outbox event %s: %w", ev.ID, err)
			break
		}
		published = append(published, ev.ID)
	}

	now := s.clock()
	for _, eventID := range published {
		if _, err := tx.ExecContext(ctx, `UPDATE outbox SET published_at = $1 WHERE id = $2`, now, eventID); err != nil {
			return 0, fmt.Errorf("mark outbox published: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox claim: %w", err)
	}
	return len(published), publishErr
}

// Purge deletes published rows older than the retention cutoff.
func (s *PostgresSource) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < $1`,
		s.clock().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge outbox: %w", err)
	}
	return res.RowsAffected()
}
