package main

import (
	"context"
	"database/sql"
	"time"

	electionstore "electoral/internal/election/store"
	enrollmentsvc "electoral/internal/enrollment/service"
	enrollmentstore "electoral/internal/enrollment/store"
	identitysvc "electoral/internal/identity/service"
	identitystore "electoral/internal/identity/store"
	"electoral/internal/outbox"
	dErrors "electoral/pkg/domain-errors"
)

const defaultTxTimeout = 5 * time.Second

// postgresTx runs units of work in one database transaction. Stores built
// for fn are bound to the *sql.Tx.
type postgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func (t *postgresTx) run(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type enrollmentPostgresTx struct {
	postgresTx
}

func newEnrollmentPostgresTx(db *sql.DB) *enrollmentPostgresTx {
	return &enrollmentPostgresTx{postgresTx{db: db}}
}

func (t *enrollmentPostgresTx) RunInTx(ctx context.Context, fn func(stores enrollmentsvc.Stores) error) error {
	return t.run(ctx, func(tx *sql.Tx) error {
		users := identitystore.NewPostgres(tx)
		enrollment := enrollmentstore.NewPostgres(tx)
		return fn(enrollmentsvc.Stores{
			Users:       users,
			Roles:       users,
			Elections:   electionstore.NewPostgres(tx),
			Assignments: enrollment.Assignments(),
			Candidates:  enrollment.Candidates(),
			Marks:       enrollment.Marks(),
			Outbox:      outbox.NewPostgresStore(tx),
		})
	})
}

type profilePostgresTx struct {
	postgresTx
}

func newProfilePostgresTx(db *sql.DB) *profilePostgresTx {
	return &profilePostgresTx{postgresTx{db: db}}
}

func (t *profilePostgresTx) RunInTx(ctx context.Context, fn func(stores identitysvc.ProfileStores) error) error {
	return t.run(ctx, func(tx *sql.Tx) error {
		return fn(identitysvc.ProfileStores{
			Users:  identitystore.NewPostgres(tx),
			Locks:  enrollmentstore.NewPostgres(tx).Candidates(),
			Outbox: outbox.NewPostgresStore(tx),
		})
	})
}
