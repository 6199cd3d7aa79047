//go:build integration

package main

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	electionmodels "electoral/internal/election/models"
	electionsvc "electoral/internal/election/service"
	electionstore "electoral/internal/election/store"
	"electoral/internal/enrollment/models"
	enrollmentsvc "electoral/internal/enrollment/service"
	enrollmentstore "electoral/internal/enrollment/store"
	identity "electoral/internal/identity/models"
	identitystore "electoral/internal/identity/store"
	notificationsvc "electoral/internal/notification/service"
	notificationstore "electoral/internal/notification/store"
	"electoral/internal/outbox"
	"electoral/internal/platform/password"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
	"electoral/pkg/testutil/containers"
)

// EnrollmentFlowSuite drives the enrollment engine against Postgres with the
// same transaction wiring the server uses.
type EnrollmentFlowSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	elections *electionsvc.Service
	service   *enrollmentsvc.Service
	users     *identitystore.PostgresStore

	admin    id.UserID
	assembly *electionmodels.Election
	booth    id.ElectionBoothID
}

func TestEnrollmentFlowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(EnrollmentFlowSuite))
}

func (s *EnrollmentFlowSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	db := s.postgres.DB
	s.elections = electionsvc.New(electionstore.NewPostgres(db))
	s.service = enrollmentsvc.New(
		newEnrollmentPostgresTx(db),
		enrollmentstore.NewPostgres(db),
		password.NewBcrypt(bcrypt.MinCost),
	)
	s.users = identitystore.NewPostgres(db)
}

func (s *EnrollmentFlowSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	now := time.Now()
	adminID, created, err := s.users.InsertIfAbsent(ctx, &identity.User{
		VoterID: "ADMIN1", IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	s.Require().NoError(err)
	s.Require().True(created)
	s.Require().NoError(s.users.Grant(ctx, adminID, identity.RoleAdmin))
	s.admin = adminID

	s.assembly, err = s.elections.CreateElection(ctx, &electionmodels.CreateElectionRequest{
		Name: "State Assembly", State: "Kerala", District: "Ernakulam", ElectionType: "Assembly",
	})
	s.Require().NoError(err)

	_, err = s.elections.ImportBooths(ctx, []electionmodels.Booth{
		{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "1", Name: "Library"},
	})
	s.Require().NoError(err)
	available, err := s.elections.AvailableBooths(ctx, s.assembly.ID, electionmodels.BoothFilter{})
	s.Require().NoError(err)
	s.Require().Len(available, 1)
	_, err = s.elections.AllocateBooths(ctx, &electionmodels.AllocateBoothsRequest{
		ElectionID: s.assembly.ID, BoothIDs: []id.BoothID{available[0].ID},
	})
	s.Require().NoError(err)
	booths, err := s.elections.ListElectionBooths(ctx, s.assembly.ID, nil)
	s.Require().NoError(err)
	s.booth = booths[0].ID
}

func (s *EnrollmentFlowSuite) adminCtx() context.Context {
	return requestcontext.WithUserID(context.Background(), s.admin)
}

func (s *EnrollmentFlowSuite) count(query string, args ...any) int {
	var n int
	s.Require().NoError(s.postgres.DB.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func (s *EnrollmentFlowSuite) TestConcurrentAgentEnrollmentCreatesOneUser() {
	const workers = 8
	var wg sync.WaitGroup
	var newUsers atomic.Int32
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.service.CreateAgent(s.adminCtx(), &models.CreateAgentRequest{
				VoterID:    "V500",
				ElectionID: s.assembly.ID,
				BoothID:    s.booth,
				Password:   "secret-pass",
				Profile:    identity.Profile{FirstName: "Asha"},
			})
			if err != nil {
				errs <- err
				return
			}
			if res.IsNewUser {
				newUsers.Add(1)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.Equal(int32(1), newUsers.Load())
	s.Equal(1, s.count(`SELECT COUNT(*) FROM users WHERE voter_id = 'V500'`))
	s.Equal(1, s.count(`SELECT COUNT(*) FROM election_agents WHERE election_id = $1`, s.assembly.ID))
	s.Equal(1, s.count(`SELECT COUNT(*) FROM outbox WHERE event_type = 'user_registered'`))
}

func (s *EnrollmentFlowSuite) TestFailedNominationRollsBack() {
	s.Run("ward on an assembly election leaves no user behind", func() {
		ward := id.WardID(999)
		_, err := s.service.CreateCandidate(s.adminCtx(), &models.CreateCandidateRequest{
			VoterID:    "V600",
			ElectionID: s.assembly.ID,
			Party:      "X",
			WardID:     &ward,
			Password:   "secret-pass",
			PhotoKey:   "profile-photos/candidate/a.png",
			SymbolKey:  "party-symbols/a.png",
		})
		s.Require().Error(err)
		s.Equal(0, s.count(`SELECT COUNT(*) FROM users WHERE voter_id = 'V600'`))
		s.Equal(0, s.count(`SELECT COUNT(*) FROM outbox`))
	})

	s.Run("duplicate nomination reverts the profile merge", func() {
		req := func(firstName string) *models.CreateCandidateRequest {
			return &models.CreateCandidateRequest{
				VoterID:    "V601",
				ElectionID: s.assembly.ID,
				Party:      "X",
				Password:   "secret-pass",
				PhotoKey:   "profile-photos/candidate/b.png",
				SymbolKey:  "party-symbols/b.png",
				Profile:    identity.Profile{FirstName: firstName},
			}
		}
		_, err := s.service.CreateCandidate(s.adminCtx(), req(""))
		s.Require().NoError(err)

		_, err = s.service.CreateCandidate(s.adminCtx(), req("Meera"))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(1, s.count(`SELECT COUNT(*) FROM candidates`))

		user, err := s.users.FindByVoterID(context.Background(), "V601")
		s.Require().NoError(err)
		s.Empty(user.Profile.FirstName)
	})
}

func (s *EnrollmentFlowSuite) TestRelayDeliversNotifications() {
	ctx := context.Background()
	res, err := s.service.CreateCandidate(s.adminCtx(), &models.CreateCandidateRequest{
		VoterID:    "V700",
		ElectionID: s.assembly.ID,
		Party:      "X",
		Password:   "secret-pass",
		PhotoKey:   "profile-photos/candidate/c.png",
		SymbolKey:  "party-symbols/c.png",
	})
	s.Require().NoError(err)
	_, err = s.service.SetNominationStatus(s.adminCtx(), res.CandidateID, models.NominationApproved)
	s.Require().NoError(err)

	notes := notificationstore.NewPostgres(s.postgres.DB)
	relay := outbox.NewRelay(
		outbox.NewPostgresSource(s.postgres.DB),
		notificationsvc.NewDispatcher(notes, nil, nil),
		time.Second, 50, nil,
	)
	published, err := relay.RelayOnce(ctx)
	s.Require().NoError(err)
	s.Equal(3, published)
	s.Equal(0, s.count(`SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`))

	inbox, err := notes.ListForUser(ctx, res.UserID, 10, false)
	s.Require().NoError(err)
	s.Len(inbox, 3)

	again, err := relay.RelayOnce(ctx)
	s.Require().NoError(err)
	s.Zero(again)
}

func (s *EnrollmentFlowSuite) TestLoginByContactNeedsOneOwner() {
	ctx := context.Background()
	now := time.Now()
	for _, voterID := range []string{"V800", "V801"} {
		_, _, err := s.users.InsertIfAbsent(ctx, &identity.User{
			VoterID: voterID, IsActive: true, CreatedAt: now, UpdatedAt: now,
			Profile: identity.Profile{Email: "shared@example.com", Phone: "90" + voterID},
		})
		s.Require().NoError(err)
	}

	_, err := s.users.FindByLogin(ctx, "Shared@Example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)

	u, err := s.users.FindByLogin(ctx, "90V801")
	s.Require().NoError(err)
	s.Equal("V801", u.VoterID)

	u, err = s.users.FindByLogin(ctx, "V800")
	s.Require().NoError(err)
	s.Equal("V800", u.VoterID)
}
