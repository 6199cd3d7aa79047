package service

import (
	"context"

	electionsvc "electoral/internal/election/service"
	"electoral/internal/enrollment/models"
	identity "electoral/internal/identity/models"
	identitysvc "electoral/internal/identity/service"
	"electoral/internal/outbox"
	id "electoral/pkg/domain"
)

// UserStore extends identity resolution with the locked read used when a
// candidate edit also touches the profile.
type UserStore interface {
	identitysvc.UserStore
	FindByIDForUpdate(ctx context.Context, userID id.UserID) (*identity.User, error)
}

// AssignmentStore persists agent deployments keyed by (agent, election).
// Upsert must update booth, ward and photo in place on conflict.
type AssignmentStore interface {
	Upsert(ctx context.Context, a *models.AgentAssignment) error
	FindByAgentAndElection(ctx context.Context, agentID id.UserID, electionID id.ElectionID) (*models.AgentAssignment, error)
}

// CandidateStore persists nominations. Insert returns sentinel.ErrConflict
// when the (user, election) pair already exists.
type CandidateStore interface {
	Insert(ctx context.Context, c *models.Candidate) (id.CandidateID, error)
	FindByIDForUpdate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error)
	Update(ctx context.Context, c *models.Candidate) error
	Delete(ctx context.Context, candidateID id.CandidateID) error
	CountByUser(ctx context.Context, userID id.UserID) (int, error)
	HasApprovedByUser(ctx context.Context, userID id.UserID) (bool, error)
}

// MarkStore persists voter turnout marks. Delete reports whether a row existed.
type MarkStore interface {
	Upsert(ctx context.Context, m *models.VoterMark) error
	Delete(ctx context.Context, electionID id.ElectionID, agentID, voterID id.UserID) (bool, error)
}

type OutboxAppender interface {
	Append(ctx context.Context, ev outbox.Event) error
}

// Stores is the set of stores bound to one unit of work.
type Stores struct {
	Users       UserStore
	Roles       identitysvc.RoleStore
	Elections   electionsvc.ScopeStore
	Assignments AssignmentStore
	Candidates  CandidateStore
	Marks       MarkStore
	Outbox      OutboxAppender
}

// StoreTx runs fn inside one transaction. Any error returned by fn rolls back
// every write made through stores.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(stores Stores) error) error
}

// Reader serves the read-only candidate and mark queries outside a transaction.
type Reader interface {
	FindCandidate(ctx context.Context, candidateID id.CandidateID) (*models.CandidateView, error)
	ListCandidates(ctx context.Context, electionID id.ElectionID, status *models.NominationStatus) ([]models.CandidateView, error)
	CountCandidates(ctx context.Context, electionID id.ElectionID) (models.StatusCounts, error)
	FindMark(ctx context.Context, electionID id.ElectionID, agentID, voterID id.UserID) (*models.VoterMark, error)
}

// ObjectStore is the slice of object storage the service uses after upload.
type ObjectStore interface {
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string) (string, error)
}
