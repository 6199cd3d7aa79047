package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"electoral/internal/election/models"
	"electoral/internal/election/service"
	"electoral/internal/storage/memory"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

type ElectionSuite struct {
	suite.Suite
	ctx     context.Context
	db      *memory.DB
	service *service.Service
}

func TestElectionSuite(t *testing.T) {
	suite.Run(t, new(ElectionSuite))
}

func (s *ElectionSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = memory.New()
	s.service = service.New(s.db.Elections())

	_, err := s.service.ImportBooths(s.ctx, []models.Booth{
		{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "1", Name: "Library"},
		{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "2", Name: "Temple Hall"},
		{State: "Kerala", District: "Ernakulam", ACNameNo: "82-Vyttila", PartNameNo: "1", Name: "Bus Depot"},
		{State: "Kerala", District: "Thrissur", ACNameNo: "60-Thrissur", PartNameNo: "1", Name: "Town Hall"},
	})
	s.Require().NoError(err)
}

func (s *ElectionSuite) create(electionType string) *models.Election {
	e, err := s.service.CreateElection(s.ctx, &models.CreateElectionRequest{
		Name: "Polls", State: "Kerala", District: "Ernakulam", ElectionType: electionType,
	})
	s.Require().NoError(err)
	return e
}

func (s *ElectionSuite) assertCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.Equal(code, dErrors.CodeOf(err), dErrors.MessageOf(err))
}

func (s *ElectionSuite) TestCreateElection() {
	s.Run("type is normalized and status starts upcoming", func() {
		e := s.create("municipal")
		s.Equal(models.ElectionTypeMunicipal, e.Type)
		s.Equal(models.StatusUpcoming, e.Status)
		s.NotZero(e.ID)
	})

	s.Run("other types are refused", func() {
		_, err := s.service.CreateElection(s.ctx, &models.CreateElectionRequest{
			Name: "Polls", State: "Kerala", District: "Ernakulam", ElectionType: "Panchayat",
		})
		s.assertCode(err, dErrors.CodeValidation)
	})
}

func (s *ElectionSuite) TestElectionType() {
	s.Run("legacy spellings classify by substring", func() {
		electionID, err := s.db.Elections().Create(s.ctx, &models.Election{Name: "Legacy", Type: "Municipal Corporation"})
		s.Require().NoError(err)

		got, err := s.service.ElectionType(s.ctx, electionID)
		s.Require().NoError(err)
		s.Equal(models.ElectionTypeMunicipal, got)
	})

	s.Run("unrecognized types skip geography checks", func() {
		electionID, err := s.db.Elections().Create(s.ctx, &models.Election{Name: "Legacy", Type: "By-poll"})
		s.Require().NoError(err)

		got, err := s.service.ElectionType(s.ctx, electionID)
		s.Require().NoError(err)
		s.Equal(models.ElectionTypeOther, got)

		ward := id.WardID(77)
		s.Require().NoError(service.NewScopeValidator(s.db.Elections(), nil).
			ValidateGeoScope(s.ctx, models.Scope{ID: electionID, Type: got}, models.GeoRef{WardID: &ward}))
	})

	s.Run("unknown election", func() {
		_, err := s.service.ElectionType(s.ctx, 404)
		s.assertCode(err, dErrors.CodeNotFound)
	})
}

func (s *ElectionSuite) TestChangeStatus() {
	e := s.create("Assembly")

	got, err := s.service.ChangeStatus(s.ctx, e.ID, models.StatusActive)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, got.Status)

	got, err = s.service.ChangeStatus(s.ctx, e.ID, models.StatusActive)
	s.Require().NoError(err, "repeating the current status is a no-op")
	s.Equal(models.StatusActive, got.Status)

	_, err = s.service.ChangeStatus(s.ctx, e.ID, models.StatusUpcoming)
	s.assertCode(err, dErrors.CodeValidation)

	_, err = s.service.ChangeStatus(s.ctx, e.ID, models.StatusClosed)
	s.Require().NoError(err)
	stored, err := s.service.GetElection(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusClosed, stored.Status)
}

func (s *ElectionSuite) TestWards() {
	municipal := s.create("Municipal")
	assembly := s.create("Assembly")

	s.Run("wards only exist in municipal elections", func() {
		_, err := s.service.CreateWard(s.ctx, &models.CreateWardRequest{ElectionID: assembly.ID, WardNo: 1, WardName: "North"})
		s.assertCode(err, dErrors.CodeValidation)
	})

	s.Run("ward numbers are unique per election", func() {
		_, err := s.service.CreateWard(s.ctx, &models.CreateWardRequest{ElectionID: municipal.ID, WardNo: 1, WardName: "North"})
		s.Require().NoError(err)
		_, err = s.service.CreateWard(s.ctx, &models.CreateWardRequest{ElectionID: municipal.ID, WardNo: 1, WardName: "Again"})
		s.assertCode(err, dErrors.CodeConflict)
	})

	s.Run("wards with booths cannot be deleted", func() {
		ward, err := s.service.CreateWard(s.ctx, &models.CreateWardRequest{ElectionID: municipal.ID, WardNo: 2, WardName: "South"})
		s.Require().NoError(err)
		_, err = s.service.CreateWardBooth(s.ctx, &models.CreateWardBoothRequest{ElectionID: municipal.ID, WardID: ward.ID, BoothName: "Hall"})
		s.Require().NoError(err)

		s.assertCode(s.service.DeleteWard(s.ctx, municipal.ID, ward.ID), dErrors.CodeConflict)
		s.assertCode(s.service.DeleteWard(s.ctx, assembly.ID, ward.ID), dErrors.CodeNotFound)
	})

	wards, err := s.service.ListWards(s.ctx, municipal.ID)
	s.Require().NoError(err)
	s.Len(wards, 2)
	s.Equal(1, wards[0].WardNo)
}

func (s *ElectionSuite) TestCreateWardBooth() {
	municipal := s.create("Municipal")
	other := s.create("Municipal")
	assembly := s.create("Assembly")
	ward, err := s.service.CreateWard(s.ctx, &models.CreateWardRequest{ElectionID: municipal.ID, WardNo: 1, WardName: "North"})
	s.Require().NoError(err)

	s.Run("radius defaults", func() {
		eb, err := s.service.CreateWardBooth(s.ctx, &models.CreateWardBoothRequest{ElectionID: municipal.ID, WardID: ward.ID, BoothName: " Hall "})
		s.Require().NoError(err)
		s.Equal(models.DefaultBoothRadius, eb.Radius)
		s.Equal("Hall", eb.BoothName)
	})

	s.Run("ward must belong to the election", func() {
		_, err := s.service.CreateWardBooth(s.ctx, &models.CreateWardBoothRequest{ElectionID: other.ID, WardID: ward.ID, BoothName: "Hall"})
		s.assertCode(err, dErrors.CodeValidation)
	})

	s.Run("assembly elections allocate master booths instead", func() {
		_, err := s.service.CreateWardBooth(s.ctx, &models.CreateWardBoothRequest{ElectionID: assembly.ID, WardID: ward.ID, BoothName: "Hall"})
		s.assertCode(err, dErrors.CodeValidation)
	})
}

func (s *ElectionSuite) TestAllocateBooths() {
	assembly := s.create("Assembly")

	available, err := s.service.AvailableBooths(s.ctx, assembly.ID, models.BoothFilter{})
	s.Require().NoError(err)
	s.Require().Len(available, 3, "only booths in the election's district")

	acs, err := s.service.AssemblyConstituencies(s.ctx, assembly.ID)
	s.Require().NoError(err)
	s.Equal([]string{"81-Kochi", "82-Vyttila"}, acs)

	kochi, err := s.service.AvailableBooths(s.ctx, assembly.ID, models.BoothFilter{ACNameNo: " 81-Kochi "})
	s.Require().NoError(err)
	s.Require().Len(kochi, 2)

	n, err := s.service.AllocateBooths(s.ctx, &models.AllocateBoothsRequest{
		ElectionID: assembly.ID,
		BoothIDs:   []id.BoothID{kochi[0].ID, kochi[1].ID},
	})
	s.Require().NoError(err)
	s.Equal(2, n)

	s.Run("already allocated booths are skipped", func() {
		n, err := s.service.AllocateBooths(s.ctx, &models.AllocateBoothsRequest{ElectionID: assembly.ID, BoothIDs: []id.BoothID{kochi[0].ID}})
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("ward is refused for assembly", func() {
		ward := id.WardID(1)
		_, err := s.service.AllocateBooths(s.ctx, &models.AllocateBoothsRequest{ElectionID: assembly.ID, BoothIDs: []id.BoothID{kochi[0].ID}, WardID: &ward})
		s.assertCode(err, dErrors.CodeValidation)
	})

	s.Run("unknown master booth", func() {
		_, err := s.service.AllocateBooths(s.ctx, &models.AllocateBoothsRequest{ElectionID: assembly.ID, BoothIDs: []id.BoothID{999}})
		s.assertCode(err, dErrors.CodeConflict)
	})

	remaining, err := s.service.AssemblyConstituencies(s.ctx, assembly.ID)
	s.Require().NoError(err)
	s.Equal([]string{"82-Vyttila"}, remaining)

	booths, err := s.service.ListElectionBooths(s.ctx, assembly.ID, nil)
	s.Require().NoError(err)
	s.Len(booths, 2)
	s.Require().NoError(s.service.RemoveElectionBooth(s.ctx, assembly.ID, booths[0].ID))
	s.assertCode(s.service.RemoveElectionBooth(s.ctx, assembly.ID, booths[0].ID), dErrors.CodeNotFound)
}

func (s *ElectionSuite) TestMunicipalAllocationNeedsWard() {
	municipal := s.create("Municipal")
	available, err := s.service.AvailableBooths(s.ctx, municipal.ID, models.BoothFilter{})
	s.Require().NoError(err)
	s.Require().NotEmpty(available)

	_, err = s.service.AllocateBooths(s.ctx, &models.AllocateBoothsRequest{ElectionID: municipal.ID, BoothIDs: []id.BoothID{available[0].ID}})
	s.assertCode(err, dErrors.CodeValidation)

	_, err = s.service.AssemblyConstituencies(s.ctx, municipal.ID)
	s.assertCode(err, dErrors.CodeValidation)

	ward, err := s.service.CreateWard(s.ctx, &models.CreateWardRequest{ElectionID: municipal.ID, WardNo: 4, WardName: "East"})
	s.Require().NoError(err)
	n, err := s.service.AllocateBooths(s.ctx, &models.AllocateBoothsRequest{ElectionID: municipal.ID, BoothIDs: []id.BoothID{available[0].ID}, WardID: &ward.ID})
	s.Require().NoError(err)
	s.Equal(1, n)

	inWard, err := s.service.ListElectionBooths(s.ctx, municipal.ID, &ward.ID)
	s.Require().NoError(err)
	s.Require().Len(inWard, 1)
	s.Equal(available[0].Name, inWard[0].BoothName)
}

func (s *ElectionSuite) TestImportBooths() {
	s.Run("rows are validated before anything is written", func() {
		_, err := s.service.ImportBooths(s.ctx, []models.Booth{
			{State: "Kerala", District: "Idukki", Name: "Ok"},
			{State: "Kerala", District: "", Name: "Broken"},
		})
		s.assertCode(err, dErrors.CodeValidation)
		s.Contains(dErrors.MessageOf(err), "row 2")
	})

	s.Run("empty import", func() {
		_, err := s.service.ImportBooths(s.ctx, nil)
		s.assertCode(err, dErrors.CodeValidation)
	})

	rows, err := s.service.BoothHierarchy(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 4)
	s.Equal(models.HierarchyRow{State: "Kerala", District: "Ernakulam", ACNameNo: "81-Kochi", PartNameNo: "1", Booths: 1}, rows[0])
	s.Equal("Thrissur", rows[3].District)
}
