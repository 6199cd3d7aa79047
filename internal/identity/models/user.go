package models

import (
	"strings"
	"time"

	id "electoral/pkg/domain"
)

// User is one natural person, keyed externally by VoterID.
//
// Invariants:
//   - VoterID is unique and never changes after insert
//   - Users are never deleted; role and assignment rows reference them
//   - PhotoKey is a bare object-store key, never a URL
type User struct {
	ID           id.UserID
	VoterID      string
	Profile      Profile
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the mergeable personal fields of a user.
type Profile struct {
	FirstName        string
	LastName         string
	Phone            string
	Email            string
	GovIDType        string
	GovIDNo          string
	Gender           string
	Age              *int
	PermanentBoothID *id.BoothID
	PhotoKey         string
}

// PhotoPolicy decides whether an incoming photo may replace a stored one.
// Each enrollment flow picks its own policy explicitly.
type PhotoPolicy int

const (
	// PhotoKeepExisting sets the photo only when the user has none.
	PhotoKeepExisting PhotoPolicy = iota
	// PhotoReplace lets a delivered photo overwrite the stored key.
	PhotoReplace
)

// Normalize trims whitespace on every text field.
func (p *Profile) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.GovIDType = strings.TrimSpace(p.GovIDType)
	p.GovIDNo = strings.TrimSpace(p.GovIDNo)
	p.Gender = strings.TrimSpace(p.Gender)
	p.PhotoKey = strings.TrimSpace(p.PhotoKey)
}

// IsEmpty reports whether the profile carries no values at all.
func (p Profile) IsEmpty() bool {
	return p == Profile{}
}

// MergeProfile folds incoming into existing: non-empty incoming values win,
// empty ones leave the stored value untouched. The photo follows policy.
func MergeProfile(existing, incoming Profile, policy PhotoPolicy) Profile {
	out := existing
	out.FirstName = firstNonEmpty(incoming.FirstName, existing.FirstName)
	out.LastName = firstNonEmpty(incoming.LastName, existing.LastName)
	out.Phone = firstNonEmpty(incoming.Phone, existing.Phone)
	out.Email = firstNonEmpty(incoming.Email, existing.Email)
	out.GovIDType = firstNonEmpty(incoming.GovIDType, existing.GovIDType)
	out.GovIDNo = firstNonEmpty(incoming.GovIDNo, existing.GovIDNo)
	out.Gender = firstNonEmpty(incoming.Gender, existing.Gender)
	if incoming.Age != nil {
		out.Age = incoming.Age
	}
	if incoming.PermanentBoothID != nil {
		out.PermanentBoothID = incoming.PermanentBoothID
	}
	if incoming.PhotoKey != "" {
		switch policy {
		case PhotoReplace:
			out.PhotoKey = incoming.PhotoKey
		case PhotoKeepExisting:
			if existing.PhotoKey == "" {
				out.PhotoKey = incoming.PhotoKey
			}
		}
	}
	return out
}

// KeepIdentity restores the fields an approved nomination freezes (names and
// photo) from locked onto p.
func (p Profile) KeepIdentity(locked Profile) Profile {
	p.FirstName = locked.FirstName
	p.LastName = locked.LastName
	p.PhotoKey = locked.PhotoKey
	return p
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ResolveRequest is the input to identity resolution.
type ResolveRequest struct {
	VoterID     string
	Profile     Profile
	Password    string
	PhotoPolicy PhotoPolicy
}

// Resolution is the outcome of identity resolution.
type Resolution struct {
	UserID    id.UserID
	IsNewUser bool
	// PhotoKey is the stored key after the merge.
	PhotoKey string
}
