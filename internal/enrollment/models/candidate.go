package models

import (
	"strings"
	"time"

	identity "electoral/internal/identity/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

// DefaultCandidateType is used when a nomination does not say otherwise.
const DefaultCandidateType = "party"

// Candidate binds a user to one election.
//
// Invariants:
//   - at most one row per (UserID, ElectionID)
//   - SymbolKey and PhotoKey are non-empty
//   - WardID is nil unless the election is Municipal
//   - once Status is approved, fields only change after an explicit reopen
type Candidate struct {
	ID            id.CandidateID   `json:"id"`
	UserID        id.UserID        `json:"user_id"`
	ElectionID    id.ElectionID    `json:"election_id"`
	Party         string           `json:"party"`
	SymbolKey     string           `json:"-"`
	PhotoKey      string           `json:"-"`
	WardID        *id.WardID       `json:"ward_id,omitempty"`
	CandidateType string           `json:"candidate_type"`
	Status        NominationStatus `json:"nomination_status"`
	ApprovedBy    *id.UserID       `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time       `json:"approved_at,omitempty"`
	RejectedBy    *id.UserID       `json:"rejected_by,omitempty"`
	RejectedAt    *time.Time       `json:"rejected_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewCandidate builds a pending nomination, enforcing the creation invariants.
func NewCandidate(userID id.UserID, electionID id.ElectionID, party, symbolKey, photoKey string, wardID *id.WardID, candidateType string, now time.Time) (*Candidate, error) {
	if symbolKey == "" || photoKey == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Candidate photo and party symbol are required")
	}
	party = strings.TrimSpace(party)
	if party == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "party is required")
	}
	candidateType = strings.TrimSpace(candidateType)
	if candidateType == "" {
		candidateType = DefaultCandidateType
	}
	return &Candidate{
		UserID:        userID,
		ElectionID:    electionID,
		Party:         party,
		SymbolKey:     symbolKey,
		PhotoKey:      photoKey,
		WardID:        wardID,
		CandidateType: candidateType,
		Status:        NominationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ApplyStatus moves the nomination to next and stamps the reviewer.
// It returns false when next equals the current status.
func (c *Candidate) ApplyStatus(next NominationStatus, reviewer id.UserID, now time.Time) (bool, error) {
	if c.Status == next {
		return false, nil
	}
	if !c.Status.CanTransitionTo(next) {
		return false, dErrors.New(dErrors.CodeValidation,
			"cannot change nomination status from "+string(c.Status)+" to "+string(next))
	}
	switch next {
	case NominationApproved:
		c.ApprovedBy = &reviewer
		c.ApprovedAt = &now
	case NominationRejected:
		c.RejectedBy = &reviewer
		c.RejectedAt = &now
	}
	c.Status = next
	c.UpdatedAt = now
	return true, nil
}

// CandidateUpdate carries optional edits. Nil or empty means "leave as is".
type CandidateUpdate struct {
	Party         *string
	CandidateType *string
	WardID        *id.WardID
	SymbolKey     string
	PhotoKey      string
	Status        *NominationStatus
	Profile       identity.Profile
}

// HasFieldEdits reports whether anything other than Status would change.
func (u CandidateUpdate) HasFieldEdits() bool {
	return u.Party != nil || u.CandidateType != nil || u.WardID != nil ||
		u.SymbolKey != "" || u.PhotoKey != "" || !u.Profile.IsEmpty()
}

// Reopens reports whether the update explicitly moves an approved
// nomination back into review.
func (u CandidateUpdate) Reopens(current NominationStatus) bool {
	return current == NominationApproved && u.Status != nil && *u.Status != NominationApproved
}

// CheckEditable rejects field edits on a locked nomination unless the same
// update reopens it.
func (c *Candidate) CheckEditable(u CandidateUpdate) error {
	if c.Status.Locked() && u.HasFieldEdits() && !u.Reopens(c.Status) {
		return dErrors.New(dErrors.CodeValidation, "approved candidate cannot be edited")
	}
	return nil
}

// ApplyFields copies the non-status edits onto c. Status is handled by ApplyStatus.
func (c *Candidate) ApplyFields(u CandidateUpdate, now time.Time) error {
	if u.Party != nil {
		party := strings.TrimSpace(*u.Party)
		if party == "" {
			return dErrors.New(dErrors.CodeValidation, "party cannot be empty")
		}
		c.Party = party
	}
	if u.CandidateType != nil {
		if ct := strings.TrimSpace(*u.CandidateType); ct != "" {
			c.CandidateType = ct
		}
	}
	if u.WardID != nil {
		c.WardID = u.WardID
	}
	if u.SymbolKey != "" {
		c.SymbolKey = u.SymbolKey
	}
	if u.PhotoKey != "" {
		c.PhotoKey = u.PhotoKey
	}
	c.UpdatedAt = now
	return nil
}

// CandidateView is a candidate joined with its user for display.
type CandidateView struct {
	Candidate
	VoterID   string `json:"voter_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"candidate_photo,omitempty"`
	SymbolURL string `json:"party_symbol,omitempty"`
}

// StatusCounts tallies nominations of one election by status.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
