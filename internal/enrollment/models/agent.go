package models

import (
	"strings"
	"time"

	identity "electoral/internal/identity/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

// AgentAssignment deploys an agent to one booth of one election.
// Keyed by (AgentUserID, ElectionID); re-enrollment updates in place.
type AgentAssignment struct {
	AgentUserID id.UserID          `json:"agent_user_id"`
	ElectionID  id.ElectionID      `json:"election_id"`
	BoothID     id.ElectionBoothID `json:"booth_id"`
	WardID      *id.WardID         `json:"ward_id,omitempty"`
	PhotoKey    string             `json:"-"`
	AssignedAt  time.Time          `json:"assigned_at"`
}

// CreateAgentRequest is the input for agent enrollment.
type CreateAgentRequest struct {
	VoterID    string
	ElectionID id.ElectionID
	BoothID    id.ElectionBoothID
	WardID     *id.WardID
	ACName     string
	Password   string
	Profile    identity.Profile
}

func (r *CreateAgentRequest) Validate() error {
	r.VoterID = strings.TrimSpace(r.VoterID)
	r.Profile.Normalize()
	if r.VoterID == "" {
		return dErrors.New(dErrors.CodeValidation, "voter_id is required")
	}
	if r.ElectionID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "election_id is required")
	}
	if r.BoothID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "booth_id is required")
	}
	return nil
}

// AgentResult is returned after a successful enrollment.
type AgentResult struct {
	UserID     id.UserID          `json:"user_id"`
	ElectionID id.ElectionID      `json:"election_id"`
	BoothID    id.ElectionBoothID `json:"booth_id"`
	IsNewUser  bool               `json:"is_new_user"`
}

// CreateCandidateRequest is the input for a nomination.
type CreateCandidateRequest struct {
	VoterID       string
	ElectionID    id.ElectionID
	Party         string
	CandidateType string
	WardID        *id.WardID
	Password      string
	PhotoKey      string
	SymbolKey     string
	Profile       identity.Profile
}

func (r *CreateCandidateRequest) Validate() error {
	r.VoterID = strings.TrimSpace(r.VoterID)
	r.Party = strings.TrimSpace(r.Party)
	r.Profile.Normalize()
	if r.PhotoKey == "" || r.SymbolKey == "" {
		return dErrors.New(dErrors.CodeValidation, "Candidate photo and party symbol are required")
	}
	if r.ElectionID <= 0 || r.VoterID == "" || r.Party == "" {
		return dErrors.New(dErrors.CodeValidation, "election_id, voter_id and party are required")
	}
	return nil
}

// CandidateResult is returned after a successful nomination.
type CandidateResult struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	UserID      id.UserID      `json:"user_id"`
	PhotoKey    string         `json:"candidate_photo"`
	SymbolKey   string         `json:"party_symbol"`
	IsNewUser   bool           `json:"is_new_user"`
}
