package memory

import (
	"context"

	enrollmentsvc "electoral/internal/enrollment/service"
	identitysvc "electoral/internal/identity/service"
)

// EnrollmentTx runs enrollment units of work against the in-memory tables.
type EnrollmentTx struct{ db *DB }

func (db *DB) EnrollmentTx() *EnrollmentTx { return &EnrollmentTx{db: db} }

func (t *EnrollmentTx) RunInTx(ctx context.Context, fn func(stores enrollmentsvc.Stores) error) error {
	return t.db.runInTx(ctx, func(st *state) error {
		return fn(enrollmentsvc.Stores{
			Users:       userTable{st},
			Roles:       roleTable{st},
			Elections:   electionTable{st},
			Assignments: assignmentTable{st},
			Candidates:  candidateTable{st},
			Marks:       markTable{st},
			Outbox:      outboxTable{st},
		})
	})
}

// ProfileTx runs profile edits against the in-memory tables.
type ProfileTx struct{ db *DB }

func (db *DB) ProfileTx() *ProfileTx { return &ProfileTx{db: db} }

func (t *ProfileTx) RunInTx(ctx context.Context, fn func(stores identitysvc.ProfileStores) error) error {
	return t.db.runInTx(ctx, func(st *state) error {
		return fn(identitysvc.ProfileStores{
			Users:  userTable{st},
			Locks:  candidateTable{st},
			Outbox: outboxTable{st},
		})
	})
}
