package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"electoral/internal/enrollment/models"
	"electoral/internal/platform/postgres"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
	txcontext "electoral/pkg/platform/tx"
)

// PostgresStore persists agent assignments, nominations and voter marks.
type PostgresStore struct {
	db txcontext.DBTX
}

func NewPostgres(db txcontext.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) conn(ctx context.Context) txcontext.DBTX {
	return txcontext.Conn(ctx, s.db)
}

func classify(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return sentinel.ErrNotFound
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	case postgres.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, sentinel.ErrMissingReference)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Assignments is the AssignmentStore view of the store.
func (s *PostgresStore) Assignments() *AssignmentStore { return &AssignmentStore{s} }

// Candidates is the CandidateStore view of the store.
func (s *PostgresStore) Candidates() *CandidateStore { return &CandidateStore{s} }

// Marks is the MarkStore view of the store.
func (s *PostgresStore) Marks() *MarkStore { return &MarkStore{s} }

type AssignmentStore struct{ s *PostgresStore }

// Upsert keeps one row per (agent, election); a repeat moves the agent and
// refreshes assigned_at.
func (a *AssignmentStore) Upsert(ctx context.Context, asg *models.AgentAssignment) error {
	_, err := a.s.conn(ctx).ExecContext(ctx, `
		INSERT INTO election_agents (agent_user_id, election_id, election_booth_id, ward_id, photo_key, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (agent_user_id, election_id) DO UPDATE SET
			election_booth_id = EXCLUDED.election_booth_id,
			ward_id           = EXCLUDED.ward_id,
			photo_key         = EXCLUDED.photo_key,
			assigned_at       = EXCLUDED.assigned_at
	`, asg.AgentUserID, asg.ElectionID, asg.BoothID, nullWard(asg.WardID), asg.PhotoKey, asg.AssignedAt)
	return classify(err, "upsert agent assignment")
}

func (a *AssignmentStore) FindByAgentAndElection(ctx context.Context, agentID id.UserID, electionID id.ElectionID) (*models.AgentAssignment, error) {
	var asg models.AgentAssignment
	var wardID sql.NullInt64
	err := a.s.conn(ctx).QueryRowContext(ctx, `
		SELECT agent_user_id, election_id, election_booth_id, ward_id, photo_key, assigned_at
		FROM election_agents
		WHERE agent_user_id = $1 AND election_id = $2
	`, agentID, electionID).Scan(&asg.AgentUserID, &asg.ElectionID, &asg.BoothID, &wardID, &asg.PhotoKey, &asg.AssignedAt)
	if err != nil {
		return nil, classify(err, "find agent assignment")
	}
	asg.WardID = wardPtr(wardID)
	return &asg, nil
}

// CountByElection returns how many agents an election has.
func (a *AssignmentStore) CountByElection(ctx context.Context, electionID id.ElectionID) (int, error) {
	var n int
	err := a.s.conn(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM election_agents WHERE election_id = $1`, electionID).Scan(&n)
	return n, classify(err, "count agents")
}

type CandidateStore struct{ s *PostgresStore }

const candidateColumns = `
	c.id, c.user_id, c.election_id, c.party, c.symbol_key, c.photo_key, c.ward_id,
	c.candidate_type, c.nomination_status, c.approved_by, c.approved_at,
	c.rejected_by, c.rejected_at, c.created_at, c.updated_at`

func scanCandidate(c *models.Candidate, extra ...any) []any {
	return append([]any{
		&c.ID, &c.UserID, &c.ElectionID, &c.Party, &c.SymbolKey, &c.PhotoKey, nullableWard{&c.WardID},
		&c.CandidateType, (*string)(&c.Status), nullableUser{&c.ApprovedBy}, &c.ApprovedAt,
		nullableUser{&c.RejectedBy}, &c.RejectedAt, &c.CreatedAt, &c.UpdatedAt,
	}, extra...)
}

// Insert relies on UNIQUE (user_id, election_id); a duplicate yields
// sentinel.ErrConflict.
func (cs *CandidateStore) Insert(ctx context.Context, c *models.Candidate) (id.CandidateID, error) {
	var candidateID id.CandidateID
	err := cs.s.conn(ctx).QueryRowContext(ctx, `
		INSERT INTO candidates (user_id, election_id, party, symbol_key, photo_key, ward_id,
			candidate_type, nomination_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, c.UserID, c.ElectionID, c.Party, c.SymbolKey, c.PhotoKey, nullWard(c.WardID),
		c.CandidateType, string(c.Status), c.CreatedAt, c.UpdatedAt,
	).Scan(&candidateID)
	if err != nil {
		return 0, classify(err, "insert candidate")
	}
	return candidateID, nil
}

// FindByIDForUpdate locks the nomination for the rest of the transaction.
func (cs *CandidateStore) FindByIDForUpdate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	var c models.Candidate
	err := cs.s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates c WHERE c.id = $1 FOR UPDATE`, candidateID,
	).Scan(scanCandidate(&c)...)
	if err != nil {
		return nil, classify(err, "find candidate")
	}
	return &c, nil
}

func (cs *CandidateStore) Update(ctx context.Context, c *models.Candidate) error {
	res, err := cs.s.conn(ctx).ExecContext(ctx, `
		UPDATE candidates SET
			party = $2, symbol_key = $3, photo_key = $4, ward_id = $5, candidate_type = $6,
			nomination_status = $7, approved_by = $8, approved_at = $9,
			rejected_by = $10, rejected_at = $11, updated_at = $12
		WHERE id = $1
	`, c.ID, c.Party, c.SymbolKey, c.PhotoKey, nullWard(c.WardID), c.CandidateType,
		string(c.Status), nullUser(c.ApprovedBy), c.ApprovedAt,
		nullUser(c.RejectedBy), c.RejectedAt, c.UpdatedAt,
	)
	if err != nil {
		return classify(err, "update candidate")
	}
	return affected(res)
}

func (cs *CandidateStore) Delete(ctx context.Context, candidateID id.CandidateID) error {
	res, err := cs.s.conn(ctx).ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, candidateID)
	if err != nil {
		return classify(err, "delete candidate")
	}
	return affected(res)
}

// CountByUser counts the user's remaining nominations across elections.
func (cs *CandidateStore) CountByUser(ctx context.Context, userID id.UserID) (int, error) {
	var n int
	err := cs.s.conn(ctx).QueryRowContext(ctx,
		`SELECT count(*) FROM candidates WHERE user_id = $1`, userID).Scan(&n)
	return n, classify(err, "count candidates")
}

// HasApprovedByUser reports whether any of the user's nominations is approved.
func (cs *CandidateStore) HasApprovedByUser(ctx context.Context, userID id.UserID) (bool, error) {
	var approved bool
	err := cs.s.conn(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM candidates WHERE user_id = $1 AND nomination_status = $2
		)`, userID, string(models.NominationApproved)).Scan(&approved)
	return approved, classify(err, "check approved nomination")
}

type MarkStore struct{ s *PostgresStore }

func (m *MarkStore) Upsert(ctx context.Context, mark *models.VoterMark) error {
	_, err := m.s.conn(ctx).ExecContext(ctx, `
		INSERT INTO marked_voters (election_id, agent_user_id, voter_user_id, status, marked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (election_id, agent_user_id, voter_user_id) DO UPDATE SET
			status    = EXCLUDED.status,
			marked_at = EXCLUDED.marked_at
	`, mark.ElectionID, mark.AgentUserID, mark.VoterUserID, mark.Status, mark.MarkedAt)
	return classify(err, "upsert voter mark")
}

func (m *MarkStore) Delete(ctx context.Context, electionID id.ElectionID, agentID, voterID id.UserID) (bool, error) {
	res, err := m.s.conn(ctx).ExecContext(ctx, `
		DELETE FROM marked_voters
		WHERE election_id = $1 AND agent_user_id = $2 AND voter_user_id = $3
	`, electionID, agentID, voterID)
	if err != nil {
		return false, classify(err, "delete voter mark")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete voter mark: %w", err)
	}
	return n > 0, nil
}

const candidateViewQuery = `
	SELECT ` + candidateColumns + `, u.voter_id, u.first_name, u.last_name
	FROM candidates c
	JOIN users u ON u.id = c.user_id`

func scanCandidateView(row interface{ Scan(...any) error }) (*models.CandidateView, error) {
	var v models.CandidateView
	if err := row.Scan(scanCandidate(&v.Candidate, &v.VoterID, &v.FirstName, &v.LastName)...); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *PostgresStore) FindCandidate(ctx context.Context, candidateID id.CandidateID) (*models.CandidateView, error) {
	v, err := scanCandidateView(s.conn(ctx).QueryRowContext(ctx, candidateViewQuery+` WHERE c.id = $1`, candidateID))
	if err != nil {
		return nil, classify(err, "find candidate")
	}
	return v, nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, electionID id.ElectionID, status *models.NominationStatus) ([]models.CandidateView, error) {
	var statusArg sql.NullString
	if status != nil {
		statusArg = sql.NullString{String: string(*status), Valid: true}
	}
	rows, err := s.conn(ctx).QueryContext(ctx, candidateViewQuery+`
		WHERE c.election_id = $1 AND ($2::TEXT IS NULL OR c.nomination_status = $2)
		ORDER BY c.id
	`, electionID, statusArg)
	if err != nil {
		return nil, classify(err, "list candidates")
	}
	defer rows.Close()
	out := []models.CandidateView{}
	for rows.Next() {
		v, err := scanCandidateView(rows)
		if err != nil {
			return nil, classify(err, "scan candidate")
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountCandidates(ctx context.Context, electionID id.ElectionID) (models.StatusCounts, error) {
	var c models.StatusCounts
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT
			count(*) FILTER (WHERE nomination_status = 'pending'),
			count(*) FILTER (WHERE nomination_status = 'approved'),
			count(*) FILTER (WHERE nomination_status = 'rejected'),
			count(*)
		FROM candidates WHERE election_id = $1
	`, electionID).Scan(&c.Pending, &c.Approved, &c.Rejected, &c.Total)
	if err != nil {
		return models.StatusCounts{}, classify(err, "count candidates")
	}
	return c, nil
}

func (s *PostgresStore) FindMark(ctx context.Context, electionID id.ElectionID, agentID, voterID id.UserID) (*models.VoterMark, error) {
	var m models.VoterMark
	err := s.conn(ctx).QueryRowContext(ctx, `
		SELECT election_id, agent_user_id, voter_user_id, status, marked_at
		FROM marked_voters
		WHERE election_id = $1 AND agent_user_id = $2 AND voter_user_id = $3
	`, electionID, agentID, voterID).Scan(&m.ElectionID, &m.AgentUserID, &m.VoterUserID, &m.Status, &m.MarkedAt)
	if err != nil {
		return nil, classify(err, "find voter mark")
	}
	return &m, nil
}
