package models

import (
	"strings"
	"time"

	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

// ElectionType decides which geographic unit applies to dependent rows.
type ElectionType string

const (
	ElectionTypeAssembly  ElectionType = "Assembly"
	ElectionTypeMunicipal ElectionType = "Municipal"
	// ElectionTypeOther only appears for legacy rows that predate the
	// closed set; it is never accepted at creation.
	ElectionTypeOther ElectionType = "Other"
)

// ParseElectionType accepts exactly Assembly or Municipal, case-insensitively.
func ParseElectionType(s string) (ElectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assembly":
		return ElectionTypeAssembly, nil
	case "municipal":
		return ElectionTypeMunicipal, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "election_type must be Assembly or Municipal")
	}
}

// ClassifyStoredType maps a persisted type string onto the enum. Stored values
// are matched by substring so legacy spellings ("Municipal Corporation") still
// classify; anything matching neither token is ElectionTypeOther.
func ClassifyStoredType(raw string) ElectionType {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "municipal"):
		return ElectionTypeMunicipal
	case strings.Contains(lower, "assembly"):
		return ElectionTypeAssembly
	default:
		return ElectionTypeOther
	}
}

// Status is the election lifecycle.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusClosed   Status = "closed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusUpcoming:
		return StatusUpcoming, nil
	case StatusActive:
		return StatusActive, nil
	case StatusClosed:
		return StatusClosed, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "status must be upcoming, active or closed")
	}
}

// CanTransitionTo allows upcoming -> active -> closed and upcoming -> closed.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusUpcoming:
		return next == StatusActive || next == StatusClosed
	case StatusActive:
		return next == StatusClosed
	default:
		return false
	}
}

// Election is a scoped electoral event.
type Election struct {
	ID          id.ElectionID `json:"id"`
	Name        string        `json:"name"`
	State       string        `json:"state"`
	District    string        `json:"district"`
	Type        ElectionType  `json:"election_type"`
	Status      Status        `json:"status"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	TotalSeats  int           `json:"total_seats"`
	TotalVoters int           `json:"total_voters"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Scope is what dependent-entity validation needs to know about an election.
type Scope struct {
	ID       id.ElectionID
	Type     ElectionType
	State    string
	District string
}

func (e *Election) Scope() Scope {
	return Scope{ID: e.ID, Type: e.Type, State: e.State, District: e.District}
}

// GeoRef names the geographic units an enrollment refers to.
type GeoRef struct {
	WardID  *id.WardID
	BoothID *id.ElectionBoothID
	ACName  string
}

// CreateElectionRequest is the admin input for a new election.
type CreateElectionRequest struct {
	Name         string     `json:"name"`
	State        string     `json:"state"`
	District     string     `json:"district"`
	ElectionType string     `json:"election_type"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	TotalSeats   int        `json:"total_seats"`
	TotalVoters  int        `json:"total_voters"`
}

func (r *CreateElectionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.State = strings.TrimSpace(r.State)
	r.District = strings.TrimSpace(r.District)
	if r.Name == "" || r.State == "" || r.District == "" {
		return dErrors.New(dErrors.CodeValidation, "name, state and district are required")
	}
	if _, err := ParseElectionType(r.ElectionType); err != nil {
		return err
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return dErrors.New(dErrors.CodeValidation, "end_date must not be before start_date")
	}
	if r.TotalSeats < 0 || r.TotalVoters < 0 {
		return dErrors.New(dErrors.CodeValidation, "counts must not be negative")
	}
	return nil
}
