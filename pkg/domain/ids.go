// Package domain holds the typed identifiers shared across bounded contexts.
//
// All rows in the schema use BIGSERIAL keys. Each table gets its own named
// int64 type so an ElectionID cannot be passed where a WardID is expected.
package domain

import (
	"strconv"
	"strings"

	dErrors "electoral/pkg/domain-errors"
)

type (
	UserID          int64
	ElectionID      int64
	WardID          int64
	BoothID         int64
	ElectionBoothID int64
	CandidateID     int64
	NotificationID  int64
)

func (id UserID) String() string          { return strconv.FormatInt(int64(id), 10) }
func (id ElectionID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id WardID) String() string          { return strconv.FormatInt(int64(id), 10) }
func (id BoothID) String() string         { return strconv.FormatInt(int64(id), 10) }
func (id ElectionBoothID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id CandidateID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id NotificationID) String() string  { return strconv.FormatInt(int64(id), 10) }

func (id UserID) IsZero() bool     { return id == 0 }
func (id ElectionID) IsZero() bool { return id == 0 }
func (id CandidateID) IsZero() bool {
	return id == 0
}

// parsePositive accepts a base-10 positive integer and nothing else.
func parsePositive(s, label string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return v, nil
}

func ParseUserID(s string) (UserID, error) {
	v, err := parsePositive(s, "user_id")
	return UserID(v), err
}

func ParseElectionID(s string) (ElectionID, error) {
	v, err := parsePositive(s, "election_id")
	return ElectionID(v), err
}

func ParseWardID(s string) (WardID, error) {
	v, err := parsePositive(s, "ward_id")
	return WardID(v), err
}

func ParseBoothID(s string) (BoothID, error) {
	v, err := parsePositive(s, "booth_id")
	return BoothID(v), err
}

func ParseElectionBoothID(s string) (ElectionBoothID, error) {
	v, err := parsePositive(s, "booth_id")
	return ElectionBoothID(v), err
}

func ParseCandidateID(s string) (CandidateID, error) {
	v, err := parsePositive(s, "candidate_id")
	return CandidateID(v), err
}

func ParseNotificationID(s string) (NotificationID, error) {
	v, err := parsePositive(s, "notification_id")
	return NotificationID(v), err
}

// ParseOptionalWardID treats an empty string as "no ward".
func ParseOptionalWardID(s string) (*WardID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	w, err := ParseWardID(s)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
