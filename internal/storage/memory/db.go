// Package memory is an in-process implementation of every store, used for
// local runs and tests. Each transaction works on a copy of the tables that
// replaces the committed copy only when the transaction succeeds.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	electionmodels "electoral/internal/election/models"
	enrollment "electoral/internal/enrollment/models"
	identity "electoral/internal/identity/models"
	notification "electoral/internal/notification/models"
	"electoral/internal/outbox"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

const defaultTxTimeout = 5 * time.Second

type assignmentKey struct {
	agent    id.UserID
	election id.ElectionID
}

type markKey struct {
	election id.ElectionID
	agent    id.UserID
	voter    id.UserID
}

type sequences struct {
	user          int64
	election      int64
	ward          int64
	booth         int64
	electionBooth int64
	candidate     int64
	notification  int64
}

// state is one consistent copy of all tables.
type state struct {
	seq sequences

	users      map[id.UserID]identity.User
	voterIndex map[string]id.UserID
	roles      map[identity.RoleName]bool
	userRoles  map[id.UserID]map[identity.RoleName]time.Time

	elections      map[id.ElectionID]electionmodels.Election
	wards          map[id.WardID]electionmodels.Ward
	booths         map[id.BoothID]electionmodels.Booth
	electionBooths map[id.ElectionBoothID]electionmodels.ElectionBooth

	assignments map[assignmentKey]enrollment.AgentAssignment
	candidates  map[id.CandidateID]enrollment.Candidate
	marks       map[markKey]enrollment.VoterMark

	outbox        []outbox.Event
	notifications map[id.NotificationID]notification.Notification
}

func newState() *state {
	st := &state{
		users:          make(map[id.UserID]identity.User),
		voterIndex:     make(map[string]id.UserID),
		roles:          make(map[identity.RoleName]bool),
		userRoles:      make(map[id.UserID]map[identity.RoleName]time.Time),
		elections:      make(map[id.ElectionID]electionmodels.Election),
		wards:          make(map[id.WardID]electionmodels.Ward),
		booths:         make(map[id.BoothID]electionmodels.Booth),
		electionBooths: make(map[id.ElectionBoothID]electionmodels.ElectionBooth),
		assignments:    make(map[assignmentKey]enrollment.AgentAssignment),
		candidates:     make(map[id.CandidateID]enrollment.Candidate),
		marks:          make(map[markKey]enrollment.VoterMark),
		notifications:  make(map[id.NotificationID]notification.Notification),
	}
	for _, r := range []identity.RoleName{
		identity.RoleVoter, identity.RoleAgent, identity.RoleCandidate, identity.RoleBLO,
		identity.RoleSuperAgent, identity.RoleMasterAgent, identity.RoleObserver,
		identity.RoleAdmin, identity.RoleSuperAdmin, identity.RoleMasterAdmin,
	} {
		st.roles[r] = true
	}
	return st
}

// clone copies every table. Values are structs, so a shallow map copy is
// enough except for the nested role sets.
func (st *state) clone() *state {
	out := &state{
		seq:            st.seq,
		users:          maps.Clone(st.users),
		voterIndex:     maps.Clone(st.voterIndex),
		roles:          maps.Clone(st.roles),
		userRoles:      make(map[id.UserID]map[identity.RoleName]time.Time, len(st.userRoles)),
		elections:      maps.Clone(st.elections),
		wards:          maps.Clone(st.wards),
		booths:         maps.Clone(st.booths),
		electionBooths: maps.Clone(st.electionBooths),
		assignments:    maps.Clone(st.assignments),
		candidates:     maps.Clone(st.candidates),
		marks:          maps.Clone(st.marks),
		outbox:         append([]outbox.Event(nil), st.outbox...),
		notifications:  maps.Clone(st.notifications),
	}
	for userID, set := range st.userRoles {
		out.userRoles[userID] = maps.Clone(set)
	}
	return out
}

// DB is the in-memory database. Transactions are serialized.
type DB struct {
	mu sync.Mutex
	st *state
}

func New() *DB {
	return &DB{st: newState()}
}

// runInTx runs fn against a private copy and publishes the copy on success.
func (db *DB) runInTx(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	working := db.st.clone()
	if err := fn(working); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted before commit")
	}
	db.st = working
	return nil
}

func read[T any](db *DB, fn func(st *state) (T, error)) (T, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.st)
}

// write runs fn as its own single-statement transaction.
func write[T any](ctx context.Context, db *DB, fn func(st *state) (T, error)) (T, error) {
	var out T
	err := db.runInTx(ctx, func(st *state) error {
		var err error
		out, err = fn(st)
		return err
	})
	return out, err
}

// DropRole removes a role from reference data. Grants of it fail afterwards.
func (db *DB) DropRole(role identity.RoleName) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.st.roles, role)
}
