//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"electoral/internal/election/models"
	"electoral/internal/election/store"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	election *models.Election
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

	s.election = &models.Election{
		Name:      "City Polls",
		State:     "Kerala",
		District:  "Ernakulam",
		Type:      models.ElectionTypeMunicipal,
		Status:    models.StatusUpcoming,
		CreatedAt: time.Now(),
	}
	electionID, err := s.store.Create(ctx, s.election)
	s.Require().NoError(err)
	s.election.ID = electionID
}

func (s *PostgresStoreSuite) importBooths(booths ...models.Booth) []models.Booth {
	ctx := context.Background()
	_, err := s.store.InsertBooths(ctx, booths)
	s.Require().NoError(err)
	available, err := s.store.AvailableBooths(ctx, s.election.Scope(), models.BoothFilter{})
	s.Require().NoError(err)
	return available
}

func (s *PostgresStoreSuite) TestElectionRoundTrip() {
	ctx := context.Background()

	got, err := s.store.FindByID(ctx, s.election.ID)
	s.Require().NoError(err)
	s.Equal("City Polls", got.Name)
	s.Equal(models.ElectionTypeMunicipal, got.Type)

	s.Require().NoError(s.store.UpdateStatus(ctx, s.election.ID, models.StatusActive))
	got, err = s.store.FindByID(ctx, s.election.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, got.Status)

	_, err = s.store.FindByID(ctx, s.election.ID+100)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestWards() {
	ctx := context.Background()
	wardID, err := s.store.CreateWard(ctx, &models.Ward{ElectionID: s.election.ID, WardNo: 1, WardName: "North"})
	s.Require().NoError(err)

	s.Run("ward number is unique per election", func() {
		_, err := s.store.CreateWard(ctx, &models.Ward{ElectionID: s.election.ID, WardNo: 1, WardName: "Again"})
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("ward in use cannot be deleted", func() {
		_, err := s.store.CreateElectionBooth(ctx, &models.ElectionBooth{
			ElectionID: s.election.ID, WardID: &wardID, BoothName: "School Hall", Radius: models.DefaultBoothRadius,
		})
		s.Require().NoError(err)
		s.ErrorIs(s.store.DeleteWard(ctx, s.election.ID, wardID), sentinel.ErrConflict)
	})

	s.Run("ward lookup is scoped to the election", func() {
		_, err := s.store.FindWardInElection(ctx, s.election.ID+100, wardID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestAllocateBooths() {
	ctx := context.Background()
	available := s.importBooths(
		models.Booth{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "1", Name: "Library"},
		models.Booth{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "2", Name: "Temple Hall"},
		models.Booth{State: "Kerala", District: "Thrissur", ACNameNo: "62-Thrissur", PartNameNo: "1", Name: "Town Hall"},
	)
	s.Require().Len(available, 2, "only booths in the election's district")

	n, err := s.store.AllocateBooths(ctx, s.election.ID, nil, []id.BoothID{available[0].ID})
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.AllocateBooths(ctx, s.election.ID, nil, []id.BoothID{available[0].ID, available[1].ID})
	s.Require().NoError(err)
	s.Equal(1, n, "already allocated booth is skipped")

	_, err = s.store.AllocateBooths(ctx, s.election.ID, nil, []id.BoothID{999999})
	s.ErrorIs(err, sentinel.ErrMissingReference)

	rest, err := s.store.AvailableBooths(ctx, s.election.Scope(), models.BoothFilter{})
	s.Require().NoError(err)
	s.Empty(rest)

	booths, err := s.store.ListElectionBooths(ctx, s.election.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(booths, 2)
	s.Equal(models.DefaultBoothRadius, booths[0].Radius)

	s.Require().NoError(s.store.RemoveElectionBooth(ctx, s.election.ID, booths[0].ID))
	_, err = s.store.FindElectionBooth(ctx, s.election.ID, booths[0].ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestBoothHierarchy() {
	s.importBooths(
		models.Booth{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "1", Name: "Library"},
		models.Booth{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "1", Name: "Annex"},
		models.Booth{State: "Kerala", District: "Ernakulam", ACNameNo: "82-Vypin", PartNameNo: "3", Name: "Church Hall"},
	)
	rows, err := s.store.BoothHierarchy(context.Background())
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("81-Kochi", rows[0].ACNameNo)
	s.Equal(2, rows[0].Booths)
	s.Equal(1, rows[1].Booths)

	acs, err := s.store.AssemblyConstituencies(context.Background(), s.election.Scope())
	s.Require().NoError(err)
	s.Equal([]string{"81-Kochi", "82-Vypin"}, acs)
}
