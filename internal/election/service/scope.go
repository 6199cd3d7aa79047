package service

import (
	"context"
	"errors"
	"log/slog"

	"electoral/internal/election/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
)

// ScopeStore reads the election geography used for validation.
type ScopeStore interface {
	FindByID(ctx context.Context, electionID id.ElectionID) (*models.Election, error)
	FindWardInElection(ctx context.Context, electionID id.ElectionID, wardID id.WardID) (*models.Ward, error)
	FindElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) (*models.ElectionBooth, error)
}

// ScopeValidator enforces which geographic unit each election type accepts.
type ScopeValidator struct {
	store  ScopeStore
	logger *slog.Logger
}

func NewScopeValidator(store ScopeStore, logger *slog.Logger) *ScopeValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScopeValidator{store: store, logger: logger}
}

// Classify loads the election's type and region.
func (v *ScopeValidator) Classify(ctx context.Context, electionID id.ElectionID) (models.Scope, error) {
	e, err := v.store.FindByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Scope{}, dErrors.New(dErrors.CodeNotFound, "Election not found")
		}
		return models.Scope{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load election")
	}
	return e.Scope(), nil
}

// ValidateGeoScope checks ward and booth references against scope.
//
// Municipal: ward required and owned by the election; a booth must be
// allocated to that election and ward.
// Assembly: ward forbidden; a booth must be allocated to the election. The
// AC name is advisory and not checked.
// Other: legacy rows only; checks are skipped.
func (v *ScopeValidator) ValidateGeoScope(ctx context.Context, scope models.Scope, geo models.GeoRef) error {
	switch scope.Type {
	case models.ElectionTypeMunicipal:
		if geo.WardID == nil {
			return dErrors.New(dErrors.CodeValidation, "ward_id is required for Municipal elections")
		}
		if _, err := v.store.FindWardInElection(ctx, scope.ID, *geo.WardID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeValidation, "Invalid ward for this election")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ward")
		}
		if geo.BoothID != nil {
			eb, err := v.store.FindElectionBooth(ctx, scope.ID, *geo.BoothID)
			if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load election booth")
			}
			if err != nil || eb.WardID == nil || *eb.WardID != *geo.WardID {
				return dErrors.New(dErrors.CodeValidation, "invalid booth for this municipal election/ward")
			}
		}
		return nil

	case models.ElectionTypeAssembly:
		if geo.WardID != nil {
			return dErrors.New(dErrors.CodeValidation, "ward_id should not be provided for Assembly elections")
		}
		if geo.BoothID != nil {
			if _, err := v.store.FindElectionBooth(ctx, scope.ID, *geo.BoothID); err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return dErrors.New(dErrors.CodeValidation, "invalid booth for this election")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load election booth")
			}
		}
		return nil

	default:
		v.logger.WarnContext(ctx, "election type unrecognized, skipping geo checks",
			"election_id", scope.ID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	}
}
