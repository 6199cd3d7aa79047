//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	identity "electoral/internal/identity/models"
	identitystore "electoral/internal/identity/store"
	"electoral/internal/notification/models"
	"electoral/internal/notification/store"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	voter    id.UserID
	other    id.UserID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	users := identitystore.NewPostgres(s.postgres.DB)
	now := time.Now()
	var err error
	s.voter, _, err = users.InsertIfAbsent(ctx, &identity.User{VoterID: "V1", IsActive: true, CreatedAt: now, UpdatedAt: now})
	s.Require().NoError(err)
	s.other, _, err = users.InsertIfAbsent(ctx, &identity.User{VoterID: "V2", IsActive: true, CreatedAt: now, UpdatedAt: now})
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) note(userID id.UserID, eventID string) *models.Notification {
	return &models.Notification{
		UserID:    userID,
		EventID:   eventID,
		Title:     "Nomination received",
		Message:   "Your nomination is pending review.",
		Category:  models.CategoryNomination,
		CreatedAt: time.Now(),
	}
}

func (s *PostgresStoreSuite) TestInsertIsIdempotentPerEvent() {
	ctx := context.Background()

	first, created, err := s.store.Insert(ctx, s.note(s.voter, "evt-1"))
	s.Require().NoError(err)
	s.True(created)

	again, created, err := s.store.Insert(ctx, s.note(s.voter, "evt-1"))
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first, again)

	_, _, err = s.store.Insert(ctx, s.note(id.UserID(999999), "evt-2"))
	s.ErrorIs(err, sentinel.ErrMissingReference)
}

func (s *PostgresStoreSuite) TestReadState() {
	ctx := context.Background()
	var ids []id.NotificationID
	for _, eventID := range []string{"a", "b", "c"} {
		noteID, _, err := s.store.Insert(ctx, s.note(s.voter, eventID))
		s.Require().NoError(err)
		ids = append(ids, noteID)
	}

	s.Run("newest first with limit", func() {
		notes, err := s.store.ListForUser(ctx, s.voter, 2, false)
		s.Require().NoError(err)
		s.Require().Len(notes, 2)
		s.Equal(ids[2], notes[0].ID)
	})

	s.Run("another user cannot mark the note", func() {
		s.ErrorIs(s.store.MarkRead(ctx, s.other, ids[0]), sentinel.ErrNotFound)
	})

	s.Run("mark one then the rest", func() {
		s.Require().NoError(s.store.MarkRead(ctx, s.voter, ids[0]))
		unread, err := s.store.CountUnread(ctx, s.voter)
		s.Require().NoError(err)
		s.Equal(2, unread)

		notes, err := s.store.ListForUser(ctx, s.voter, 10, true)
		s.Require().NoError(err)
		s.Len(notes, 2)

		n, err := s.store.MarkAllRead(ctx, s.voter)
		s.Require().NoError(err)
		s.Equal(2, n)
	})
}
