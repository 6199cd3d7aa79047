package models

import (
	"strings"

	dErrors "electoral/pkg/domain-errors"
)

// NominationStatus is the review state of a candidate.
type NominationStatus string

const (
	NominationPending  NominationStatus = "pending"
	NominationApproved NominationStatus = "approved"
	NominationRejected NominationStatus = "rejected"
)

func ParseNominationStatus(s string) (NominationStatus, error) {
	switch NominationStatus(strings.ToLower(strings.TrimSpace(s))) {
	case NominationPending:
		return NominationPending, nil
	case NominationApproved:
		return NominationApproved, nil
	case NominationRejected:
		return NominationRejected, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "status must be pending, approved or rejected")
	}
}

// transitions lists every allowed move. Same-state requests are handled as
// no-ops before this table is consulted.
//
//	pending  -> approved | rejected
//	rejected -> pending (resubmission) | approved (re-review)
//	approved -> pending (explicit reopen)
var transitions = map[NominationStatus][]NominationStatus{
	NominationPending:  {NominationApproved, NominationRejected},
	NominationRejected: {NominationPending, NominationApproved},
	NominationApproved: {NominationPending},
}

// CanTransitionTo reports whether s may move to next.
func (s NominationStatus) CanTransitionTo(next NominationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Locked reports whether field edits are frozen in this state.
func (s NominationStatus) Locked() bool {
	return s == NominationApproved
}
