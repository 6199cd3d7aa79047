package memory

import (
	"cmp"
	"context"
	"slices"

	"electoral/internal/enrollment/models"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
)

type assignmentTable struct{ st *state }

func (t assignmentTable) Upsert(_ context.Context, a *models.AgentAssignment) error {
	if _, ok := t.st.users[a.AgentUserID]; !ok {
		return sentinel.ErrMissingReference
	}
	eb, ok := t.st.electionBooths[a.BoothID]
	if !ok || eb.ElectionID != a.ElectionID {
		return sentinel.ErrMissingReference
	}
	t.st.assignments[assignmentKey{agent: a.AgentUserID, election: a.ElectionID}] = *a
	return nil
}

func (t assignmentTable) FindByAgentAndElection(_ context.Context, agentID id.UserID, electionID id.ElectionID) (*models.AgentAssignment, error) {
	a, ok := t.st.assignments[assignmentKey{agent: agentID, election: electionID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

type candidateTable struct{ st *state }

func (t candidateTable) Insert(_ context.Context, c *models.Candidate) (id.CandidateID, error) {
	if _, ok := t.st.elections[c.ElectionID]; !ok {
		return 0, sentinel.ErrMissingReference
	}
	if c.WardID != nil {
		if _, ok := t.st.wards[*c.WardID]; !ok {
			return 0, sentinel.ErrMissingReference
		}
	}
	for _, existing := range t.st.candidates {
		if existing.UserID == c.UserID && existing.ElectionID == c.ElectionID {
			return 0, sentinel.ErrConflict
		}
	}
	t.st.seq.candidate++
	row := *c
	row.ID = id.CandidateID(t.st.seq.candidate)
	t.st.candidates[row.ID] = row
	return row.ID, nil
}

func (t candidateTable) FindByIDForUpdate(_ context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	c, ok := t.st.candidates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (t candidateTable) Update(_ context.Context, c *models.Candidate) error {
	if _, ok := t.st.candidates[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if c.WardID != nil {
		if _, ok := t.st.wards[*c.WardID]; !ok {
			return sentinel.ErrMissingReference
		}
	}
	t.st.candidates[c.ID] = *c
	return nil
}

func (t candidateTable) Delete(_ context.Context, candidateID id.CandidateID) error {
	if _, ok := t.st.candidates[candidateID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(t.st.candidates, candidateID)
	return nil
}

func (t candidateTable) CountByUser(_ context.Context, userID id.UserID) (int, error) {
	n := 0
	for _, c := range t.st.candidates {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (t candidateTable) HasApprovedByUser(_ context.Context, userID id.UserID) (bool, error) {
	for _, c := range t.st.candidates {
		if c.UserID == userID && c.Status == models.NominationApproved {
			return true, nil
		}
	}
	return false, nil
}

func (t candidateTable) view(c models.Candidate) models.CandidateView {
	u := t.st.users[c.UserID]
	return models.CandidateView{
		Candidate: c,
		VoterID:   u.VoterID,
		FirstName: u.Profile.FirstName,
		LastName:  u.Profile.LastName,
	}
}

type markTable struct{ st *state }

func (t markTable) Upsert(_ context.Context, m *models.VoterMark) error {
	if _, ok := t.st.users[m.VoterUserID]; !ok {
		return sentinel.ErrMissingReference
	}
	t.st.marks[markKey{election: m.ElectionID, agent: m.AgentUserID, voter: m.VoterUserID}] = *m
	return nil
}

func (t markTable) Delete(_ context.Context, electionID id.ElectionID, agentID, voterID id.UserID) (bool, error) {
	key := markKey{election: electionID, agent: agentID, voter: voterID}
	if _, ok := t.st.marks[key]; !ok {
		return false, nil
	}
	delete(t.st.marks, key)
	return true, nil
}

// Enrollment serves committed candidate and mark reads.
type Enrollment struct{ db *DB }

func (db *DB) Enrollment() *Enrollment { return &Enrollment{db: db} }

func (e *Enrollment) FindCandidate(_ context.Context, candidateID id.CandidateID) (*models.CandidateView, error) {
	return read(e.db, func(st *state) (*models.CandidateView, error) {
		c, ok := st.candidates[candidateID]
		if !ok {
			return nil, sentinel.ErrNotFound
		}
		view := candidateTable{st}.view(c)
		return &view, nil
	})
}

func (e *Enrollment) ListCandidates(_ context.Context, electionID id.ElectionID, status *models.NominationStatus) ([]models.CandidateView, error) {
	return read(e.db, func(st *state) ([]models.CandidateView, error) {
		out := []models.CandidateView{}
		for _, c := range st.candidates {
			if c.ElectionID != electionID || (status != nil && c.Status != *status) {
				continue
			}
			out = append(out, candidateTable{st}.view(c))
		}
		slices.SortFunc(out, func(a, b models.CandidateView) int { return cmp.Compare(a.ID, b.ID) })
		return out, nil
	})
}

func (e *Enrollment) CountCandidates(_ context.Context, electionID id.ElectionID) (models.StatusCounts, error) {
	return read(e.db, func(st *state) (models.StatusCounts, error) {
		var counts models.StatusCounts
		for _, c := range st.candidates {
			if c.ElectionID != electionID {
				continue
			}
			switch c.Status {
			case models.NominationPending:
				counts.Pending++
			case models.NominationApproved:
				counts.Approved++
			case models.NominationRejected:
				counts.Rejected++
			}
			counts.Total++
		}
		return counts, nil
	})
}

func (e *Enrollment) FindMark(_ context.Context, electionID id.ElectionID, agentID, voterID id.UserID) (*models.VoterMark, error) {
	return read(e.db, func(st *state) (*models.VoterMark, error) {
		m, ok := st.marks[markKey{election: electionID, agent: agentID, voter: voterID}]
		if !ok {
			return nil, sentinel.ErrNotFound
		}
		return &m, nil
	})
}

// AssignmentCount returns the number of committed agent assignments.
func (e *Enrollment) AssignmentCount() int {
	n, _ := read(e.db, func(st *state) (int, error) { return len(st.assignments), nil })
	return n
}

// FindAssignment returns the committed assignment for (agent, election).
func (e *Enrollment) FindAssignment(ctx context.Context, agentID id.UserID, electionID id.ElectionID) (*models.AgentAssignment, error) {
	return read(e.db, func(st *state) (*models.AgentAssignment, error) {
		return assignmentTable{st}.FindByAgentAndElection(ctx, agentID, electionID)
	})
}
