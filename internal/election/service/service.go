package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"electoral/internal/election/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
)

// Store is the election persistence surface. Write methods return
// sentinel.ErrConflict for unique violations and sentinel.ErrMissingReference
// for dangling foreign keys.
type Store interface {
	ScopeStore
	Create(ctx context.Context, e *models.Election) (id.ElectionID, error)
	List(ctx context.Context) ([]models.Election, error)
	UpdateStatus(ctx context.Context, electionID id.ElectionID, status models.Status) error

	CreateWard(ctx context.Context, w *models.Ward) (id.WardID, error)
	ListWards(ctx context.Context, electionID id.ElectionID) ([]models.Ward, error)
	DeleteWard(ctx context.Context, electionID id.ElectionID, wardID id.WardID) error

	AllocateBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID, boothIDs []id.BoothID) (int, error)
	CreateElectionBooth(ctx context.Context, eb *models.ElectionBooth) (id.ElectionBoothID, error)
	ListElectionBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID) ([]models.ElectionBooth, error)
	RemoveElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) error

	AvailableBooths(ctx context.Context, scope models.Scope, filter models.BoothFilter) ([]models.Booth, error)
	AssemblyConstituencies(ctx context.Context, scope models.Scope) ([]string, error)
	BoothHierarchy(ctx context.Context) ([]models.HierarchyRow, error)
	InsertBooths(ctx context.Context, booths []models.Booth) (int, error)
}

// Service administers elections and their geography.
type Service struct {
	store  Store
	scope  *ScopeValidator
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.scope = NewScopeValidator(store, s.logger)
	return s
}

// CreateElection accepts only Assembly or Municipal types.
func (s *Service) CreateElection(ctx context.Context, req *models.CreateElectionRequest) (*models.Election, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	electionType, _ := models.ParseElectionType(req.ElectionType)
	e := &models.Election{
		Name:        req.Name,
		State:       req.State,
		District:    req.District,
		Type:        electionType,
		Status:      models.StatusUpcoming,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalSeats:  req.TotalSeats,
		TotalVoters: req.TotalVoters,
		CreatedAt:   requestcontext.Now(ctx),
	}
	electionID, err := s.store.Create(ctx, e)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create election")
	}
	e.ID = electionID
	s.logger.InfoContext(ctx, "election created",
		"election_id", electionID,
		"election_type", electionType,
		"request_id", requestcontext.RequestID(ctx),
	)
	return e, nil
}

func (s *Service) GetElection(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	e, err := s.store.FindByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Election not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load election")
	}
	return e, nil
}

func (s *Service) ListElections(ctx context.Context) ([]models.Election, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list elections")
	}
	return list, nil
}

// ElectionType returns the classified type of an election.
func (s *Service) ElectionType(ctx context.Context, electionID id.ElectionID) (models.ElectionType, error) {
	scope, err := s.scope.Classify(ctx, electionID)
	if err != nil {
		return "", err
	}
	return scope.Type, nil
}

func (s *Service) ChangeStatus(ctx context.Context, electionID id.ElectionID, next models.Status) (*models.Election, error) {
	e, err := s.GetElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if e.Status == next {
		return e, nil
	}
	if !e.Status.CanTransitionTo(next) {
		return nil, dErrors.New(dErrors.CodeValidation, "cannot change election status from "+string(e.Status)+" to "+string(next))
	}
	if err := s.store.UpdateStatus(ctx, electionID, next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update election status")
	}
	e.Status = next
	return e, nil
}

// CreateWard adds a ward to a Municipal election.
func (s *Service) CreateWard(ctx context.Context, req *models.CreateWardRequest) (*models.Ward, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	scope, err := s.scope.Classify(ctx, req.ElectionID)
	if err != nil {
		return nil, err
	}
	if scope.Type != models.ElectionTypeMunicipal {
		return nil, dErrors.New(dErrors.CodeValidation, "Wards can only be created for Municipal elections")
	}
	w := &models.Ward{
		ElectionID:  req.ElectionID,
		WardNo:      req.WardNo,
		WardName:    req.WardName,
		Description: strings.TrimSpace(req.Description),
	}
	wardID, err := s.store.CreateWard(ctx, w)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "Ward number already exists for this election")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create ward")
	}
	w.ID = wardID
	return w, nil
}

func (s *Service) ListWards(ctx context.Context, electionID id.ElectionID) ([]models.Ward, error) {
	if _, err := s.scope.Classify(ctx, electionID); err != nil {
		return nil, err
	}
	wards, err := s.store.ListWards(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list wards")
	}
	return wards, nil
}

func (s *Service) DeleteWard(ctx context.Context, electionID id.ElectionID, wardID id.WardID) error {
	err := s.store.DeleteWard(ctx, electionID, wardID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Ward not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "Ward is referenced by booths, agents or candidates")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete ward")
	}
}

// AllocateBooths copies master booths into the election's operative set.
// Booths already allocated are skipped. Municipal allocations name the ward
// the booths serve; Assembly allocations must not.
func (s *Service) AllocateBooths(ctx context.Context, req *models.AllocateBoothsRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	scope, err := s.scope.Classify(ctx, req.ElectionID)
	if err != nil {
		return 0, err
	}
	if err := s.scope.ValidateGeoScope(ctx, scope, models.GeoRef{WardID: req.WardID}); err != nil {
		return 0, err
	}
	n, err := s.store.AllocateBooths(ctx, req.ElectionID, req.WardID, req.BoothIDs)
	if err != nil {
		if errors.Is(err, sentinel.ErrMissingReference) {
			return 0, dErrors.New(dErrors.CodeConflict, "One or more booths do not exist")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate booths")
	}
	s.logger.InfoContext(ctx, "booths allocated",
		"election_id", req.ElectionID,
		"requested", len(req.BoothIDs),
		"allocated", n,
		"request_id", requestcontext.RequestID(ctx),
	)
	return n, nil
}

// CreateWardBooth creates a booth directly inside a Municipal ward.
func (s *Service) CreateWardBooth(ctx context.Context, req *models.CreateWardBoothRequest) (*models.ElectionBooth, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	scope, err := s.scope.Classify(ctx, req.ElectionID)
	if err != nil {
		return nil, err
	}
	if scope.Type != models.ElectionTypeMunicipal {
		return nil, dErrors.New(dErrors.CodeValidation, "Election booths are only allowed for Municipal elections")
	}
	wardID := req.WardID
	if err := s.scope.ValidateGeoScope(ctx, scope, models.GeoRef{WardID: &wardID}); err != nil {
		return nil, err
	}
	eb := &models.ElectionBooth{
		ElectionID: req.ElectionID,
		WardID:     &wardID,
		BoothName:  req.BoothName,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Radius:     req.Radius,
	}
	ebID, err := s.store.CreateElectionBooth(ctx, eb)
	if err != nil {
		if errors.Is(err, sentinel.ErrMissingReference) {
			return nil, dErrors.New(dErrors.CodeConflict, "Referenced ward or election no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create election booth")
	}
	eb.ID = ebID
	return eb, nil
}

func (s *Service) ListElectionBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID) ([]models.ElectionBooth, error) {
	if _, err := s.scope.Classify(ctx, electionID); err != nil {
		return nil, err
	}
	booths, err := s.store.ListElectionBooths(ctx, electionID, wardID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list election booths")
	}
	return booths, nil
}

func (s *Service) RemoveElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) error {
	err := s.store.RemoveElectionBooth(ctx, electionID, boothID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Election booth not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "Election booth has assigned agents")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove election booth")
	}
}

// AvailableBooths lists master booths in the election's region that are not
// yet allocated to it.
func (s *Service) AvailableBooths(ctx context.Context, electionID id.ElectionID, filter models.BoothFilter) ([]models.Booth, error) {
	scope, err := s.scope.Classify(ctx, electionID)
	if err != nil {
		return nil, err
	}
	filter.ACNameNo = strings.TrimSpace(filter.ACNameNo)
	booths, err := s.store.AvailableBooths(ctx, scope, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list available booths")
	}
	return booths, nil
}

// AssemblyConstituencies lists distinct AC names with unallocated booths.
func (s *Service) AssemblyConstituencies(ctx context.Context, electionID id.ElectionID) ([]string, error) {
	scope, err := s.scope.Classify(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if scope.Type != models.ElectionTypeAssembly {
		return nil, dErrors.New(dErrors.CodeValidation, "Assembly constituencies apply only to Assembly elections")
	}
	acs, err := s.store.AssemblyConstituencies(ctx, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assembly constituencies")
	}
	return acs, nil
}

func (s *Service) BoothHierarchy(ctx context.Context) ([]models.HierarchyRow, error) {
	rows, err := s.store.BoothHierarchy(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booth hierarchy")
	}
	return rows, nil
}

// ImportBooths validates and inserts master booth rows as one batch.
func (s *Service) ImportBooths(ctx context.Context, booths []models.Booth) (int, error) {
	if len(booths) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "no booths to import")
	}
	for i := range booths {
		if err := booths[i].Normalize(); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("row %d: %s", i+1, dErrors.MessageOf(err)))
		}
	}
	n, err := s.store.InsertBooths(ctx, booths)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to import booths")
	}
	s.logger.InfoContext(ctx, "booths imported", "count", n)
	return n, nil
}
