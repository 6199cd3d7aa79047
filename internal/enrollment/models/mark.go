package models

import (
	"strings"
	"time"

	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

const (
	// MarkUndo deletes an existing mark instead of being stored.
	MarkUndo = "undo"
	// MarkPending is reported when no mark exists.
	MarkPending = "Pending"

	maxMarkStatusLen = 32
)

// VoterMark is one agent's turnout record for one voter in one election.
type VoterMark struct {
	ElectionID  id.ElectionID `json:"election_id"`
	AgentUserID id.UserID     `json:"agent_user_id"`
	VoterUserID id.UserID     `json:"voter_user_id"`
	Status      string        `json:"status"`
	MarkedAt    time.Time     `json:"marked_at"`
}

type MarkVoterRequest struct {
	ElectionID id.ElectionID `json:"election_id"`
	VoterID    id.UserID     `json:"voter_id"`
	Status     string        `json:"status"`
}

func (r *MarkVoterRequest) Validate() error {
	r.Status = strings.TrimSpace(r.Status)
	if r.ElectionID <= 0 || r.VoterID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "election_id and voter_id are required")
	}
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	if len(r.Status) > maxMarkStatusLen {
		return dErrors.New(dErrors.CodeValidation, "status is too long")
	}
	return nil
}

// IsUndo reports whether the request deletes the mark.
func (r *MarkVoterRequest) IsUndo() bool {
	return strings.EqualFold(r.Status, MarkUndo)
}
