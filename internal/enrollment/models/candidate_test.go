package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identity "electoral/internal/identity/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func pendingCandidate(t *testing.T) *Candidate {
	t.Helper()
	c, err := NewCandidate(1, 5, "X", "party-symbols/s.png", "profile-photos/candidate/p.png", nil, "", now)
	require.NoError(t, err)
	return c
}

func TestNewCandidate(t *testing.T) {
	c := pendingCandidate(t)
	assert.Equal(t, NominationPending, c.Status)
	assert.Equal(t, DefaultCandidateType, c.CandidateType)

	_, err := NewCandidate(1, 5, "X", "", "photo", nil, "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNominationTransitions(t *testing.T) {
	cases := []struct {
		from, to NominationStatus
		ok       bool
	}{
		{NominationPending, NominationApproved, true},
		{NominationPending, NominationRejected, true},
		{NominationRejected, NominationPending, true},
		{NominationRejected, NominationApproved, true},
		{NominationApproved, NominationPending, true},
		{NominationApproved, NominationRejected, false},
		{NominationApproved, NominationApproved, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplyStatusStampsReviewer(t *testing.T) {
	c := pendingCandidate(t)

	changed, err := c.ApplyStatus(NominationRejected, 9, now)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, c.RejectedBy)
	assert.Equal(t, id.UserID(9), *c.RejectedBy)
	assert.Nil(t, c.ApprovedBy)

	later := now.Add(time.Hour)
	changed, err = c.ApplyStatus(NominationApproved, 10, later)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, id.UserID(10), *c.ApprovedBy)
	assert.Equal(t, later, *c.ApprovedAt)
	assert.Equal(t, id.UserID(9), *c.RejectedBy, "rejection stamps are kept")

	changed, err = c.ApplyStatus(NominationApproved, 11, later)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, id.UserID(10), *c.ApprovedBy)

	_, err = c.ApplyStatus(NominationRejected, 11, later)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCheckEditable(t *testing.T) {
	party := "Z"
	pending := NominationPending
	approved := NominationApproved

	c := pendingCandidate(t)
	c.Status = NominationApproved

	err := c.CheckEditable(CandidateUpdate{Party: &party})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	err = c.CheckEditable(CandidateUpdate{Profile: identity.Profile{FirstName: "New"}})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	err = c.CheckEditable(CandidateUpdate{Party: &party, Status: &approved})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	assert.NoError(t, c.CheckEditable(CandidateUpdate{Party: &party, Status: &pending}))
	assert.NoError(t, c.CheckEditable(CandidateUpdate{Status: &pending}))
}

func TestMarkVoterRequest(t *testing.T) {
	r := MarkVoterRequest{ElectionID: 1, VoterID: 10, Status: " UNDO "}
	require.NoError(t, r.Validate())
	assert.True(t, r.IsUndo())

	r = MarkVoterRequest{ElectionID: 1, VoterID: 10}
	assert.Error(t, r.Validate())
}
