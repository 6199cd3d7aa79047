package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	electionmodels "electoral/internal/election/models"
	electionsvc "electoral/internal/election/service"
	"electoral/internal/enrollment/models"
	identity "electoral/internal/identity/models"
	identitysvc "electoral/internal/identity/service"
	"electoral/internal/outbox"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
)

const candidateAggregate = "candidate"

// CreateCandidate nominates the voter behind req.VoterID for one election.
// The nomination starts pending. A second nomination of the same user for
// the same election is a conflict.
func (s *Service) CreateCandidate(ctx context.Context, req *models.CreateCandidateRequest) (*models.CandidateResult, error) {
	if err := req.Validate(); err != nil {
		s.discard(ctx, req.PhotoKey, req.SymbolKey)
		return nil, err
	}

	var result *models.CandidateResult
	err := s.run(ctx, "create_candidate", func(ctx context.Context, stores Stores) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("election_id", int64(req.ElectionID)))

		scope := electionsvc.NewScopeValidator(stores.Elections, s.logger)
		electionScope, err := scope.Classify(ctx, req.ElectionID)
		if err != nil {
			return err
		}
		if err := scope.ValidateGeoScope(ctx, electionScope, electionmodels.GeoRef{WardID: req.WardID}); err != nil {
			return err
		}
		now := requestcontext.Now(ctx)
		candidate, err := models.NewCandidate(0, req.ElectionID, req.Party, req.SymbolKey, req.PhotoKey, req.WardID, req.CandidateType, now)
		if err != nil {
			return err
		}

		profile := req.Profile
		profile.PhotoKey = req.PhotoKey
		resolver := identitysvc.NewResolver(stores.Users, s.hasher, s.logger,
			identitysvc.WithProfileLock(stores.Candidates))
		resolution, err := resolver.ResolveOrCreate(ctx, identity.ResolveRequest{
			VoterID:     req.VoterID,
			Profile:     profile,
			Password:    req.Password,
			PhotoPolicy: identity.PhotoKeepExisting,
		})
		if err != nil {
			return err
		}

		if err := s.grantEnrollmentRoles(ctx, stores, resolution, identity.RoleCandidate); err != nil {
			return err
		}

		candidate.UserID = resolution.UserID
		candidateID, err := stores.Candidates.Insert(ctx, candidate)
		if err != nil {
			switch {
			case errors.Is(err, sentinel.ErrConflict):
				return dErrors.New(dErrors.CodeConflict, "User already registered as candidate in this election")
			case errors.Is(err, sentinel.ErrMissingReference):
				return dErrors.New(dErrors.CodeConflict, "referenced election or ward no longer exists")
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save candidate")
			}
		}

		if err := appendEvent(ctx, stores, outbox.EventCandidateNominated, candidateAggregate, candidateID.String(), outbox.Payload{
			UserID:      resolution.UserID,
			ElectionID:  req.ElectionID,
			CandidateID: int64(candidateID),
			Status:      string(models.NominationPending),
		}); err != nil {
			return err
		}

		result = &models.CandidateResult{
			CandidateID: candidateID,
			UserID:      resolution.UserID,
			PhotoKey:    req.PhotoKey,
			SymbolKey:   req.SymbolKey,
			IsNewUser:   resolution.IsNewUser,
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, req.PhotoKey, req.SymbolKey)
		return nil, err
	}

	s.metrics.IncCandidateNominated(result.IsNewUser)
	s.logger.InfoContext(ctx, "candidate nominated",
		"candidate_id", result.CandidateID,
		"user_id", result.UserID,
		"election_id", req.ElectionID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

// UpdateCandidate applies optional edits to a nomination. An approved
// nomination accepts field edits only when the same update reopens it.
// Editing a rejected nomination leaves its status alone unless the update
// names one.
func (s *Service) UpdateCandidate(ctx context.Context, candidateID id.CandidateID, u models.CandidateUpdate) (*models.Candidate, error) {
	u.Profile.Normalize()
	if !u.HasFieldEdits() && u.Status == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "no candidate fields to update")
	}

	var updated *models.Candidate
	statusChanged := false
	err := s.run(ctx, "update_candidate", func(ctx context.Context, stores Stores) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("candidate_id", int64(candidateID)))

		c, err := loadCandidateForUpdate(ctx, stores, candidateID)
		if err != nil {
			return err
		}
		if err := c.CheckEditable(u); err != nil {
			return err
		}

		if u.WardID != nil {
			scope := electionsvc.NewScopeValidator(stores.Elections, s.logger)
			electionScope, err := scope.Classify(ctx, c.ElectionID)
			if err != nil {
				return err
			}
			if err := scope.ValidateGeoScope(ctx, electionScope, electionmodels.GeoRef{WardID: u.WardID}); err != nil {
				return err
			}
		}

		now := requestcontext.Now(ctx)
		previous := c.Status
		if u.Status != nil {
			statusChanged, err = c.ApplyStatus(*u.Status, requestcontext.UserID(ctx), now)
			if err != nil {
				return err
			}
		}
		if !u.HasFieldEdits() && !statusChanged {
			updated = c
			return nil
		}
		if err := c.ApplyFields(u, now); err != nil {
			return err
		}

		if !u.Profile.IsEmpty() {
			if err := mergeCandidateProfile(ctx, stores, c.UserID, u.Profile); err != nil {
				return err
			}
		}

		if err := stores.Candidates.Update(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrMissingReference) {
				return dErrors.New(dErrors.CodeConflict, "referenced ward no longer exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update candidate")
		}

		payload := outbox.Payload{
			UserID:      c.UserID,
			ElectionID:  c.ElectionID,
			CandidateID: int64(c.ID),
			Status:      string(c.Status),
		}
		if err := appendEvent(ctx, stores, outbox.EventCandidateUpdated, candidateAggregate, c.ID.String(), payload); err != nil {
			return err
		}
		if statusChanged {
			s.logger.InfoContext(ctx, "nomination status changed",
				"candidate_id", c.ID,
				"from", previous,
				"to", c.Status,
				"request_id", requestcontext.RequestID(ctx),
			)
			if err := appendEvent(ctx, stores, outbox.EventNominationStatusChanged, candidateAggregate, c.ID.String(), payload); err != nil {
				return err
			}
		}
		updated = c
		return nil
	})
	if err != nil {
		s.discard(ctx, u.PhotoKey, u.SymbolKey)
		return nil, err
	}
	if statusChanged {
		s.metrics.IncStatusChange(string(updated.Status))
	}
	return updated, nil
}

// SetNominationStatus moves a nomination to next, stamping the calling
// reviewer. Requesting the current status is a no-op.
func (s *Service) SetNominationStatus(ctx context.Context, candidateID id.CandidateID, next models.NominationStatus) (*models.Candidate, error) {
	reviewer := requestcontext.UserID(ctx)
	if reviewer.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	var updated *models.Candidate
	var changed bool
	err := s.run(ctx, "set_nomination_status", func(ctx context.Context, stores Stores) error {
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int64("candidate_id", int64(candidateID)),
			attribute.String("status", string(next)),
		)

		c, err := loadCandidateForUpdate(ctx, stores, candidateID)
		if err != nil {
			return err
		}
		changed, err = c.ApplyStatus(next, reviewer, requestcontext.Now(ctx))
		if err != nil {
			return err
		}
		updated = c
		if !changed {
			return nil
		}
		if err := stores.Candidates.Update(ctx, c); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update nomination status")
		}
		return appendEvent(ctx, stores, outbox.EventNominationStatusChanged, candidateAggregate, c.ID.String(), outbox.Payload{
			UserID:      c.UserID,
			ElectionID:  c.ElectionID,
			CandidateID: int64(c.ID),
			Status:      string(c.Status),
		})
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.metrics.IncStatusChange(string(next))
		s.logger.InfoContext(ctx, "nomination status changed",
			"candidate_id", candidateID,
			"status", next,
			"reviewer_id", reviewer,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return updated, nil
}

// DeleteCandidate withdraws a nomination that is not approved. The user
// loses the CANDIDATE role once no nomination remains.
func (s *Service) DeleteCandidate(ctx context.Context, candidateID id.CandidateID) error {
	return s.run(ctx, "delete_candidate", func(ctx context.Context, stores Stores) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("candidate_id", int64(candidateID)))

		c, err := loadCandidateForUpdate(ctx, stores, candidateID)
		if err != nil {
			return err
		}
		if c.Status.Locked() {
			return dErrors.New(dErrors.CodeValidation, "approved candidate cannot be deleted")
		}
		if err := stores.Candidates.Delete(ctx, candidateID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete candidate")
		}

		roles := identitysvc.NewRoles(stores.Roles, s.logger)
		revoked, err := roles.RevokeIfUnused(ctx, c.UserID, identity.RoleCandidate, stores.Candidates)
		if err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "candidate withdrawn",
			"candidate_id", candidateID,
			"user_id", c.UserID,
			"role_revoked", revoked,
			"request_id", requestcontext.RequestID(ctx),
		)
		return appendEvent(ctx, stores, outbox.EventCandidateWithdrawn, candidateAggregate, candidateID.String(), outbox.Payload{
			UserID:      c.UserID,
			ElectionID:  c.ElectionID,
			CandidateID: int64(candidateID),
		})
	})
}

func (s *Service) GetCandidate(ctx context.Context, candidateID id.CandidateID) (*models.CandidateView, error) {
	view, err := s.reader.FindCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Candidate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidate")
	}
	s.sign(ctx, view)
	return view, nil
}

// ListCandidates lists an election's nominations, optionally by status.
func (s *Service) ListCandidates(ctx context.Context, electionID id.ElectionID, status *models.NominationStatus) ([]models.CandidateView, error) {
	views, err := s.reader.ListCandidates(ctx, electionID, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list candidates")
	}
	for i := range views {
		s.sign(ctx, &views[i])
	}
	return views, nil
}

func (s *Service) CountCandidates(ctx context.Context, electionID id.ElectionID) (models.StatusCounts, error) {
	counts, err := s.reader.CountCandidates(ctx, electionID)
	if err != nil {
		return models.StatusCounts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count candidates")
	}
	return counts, nil
}

func (s *Service) sign(ctx context.Context, view *models.CandidateView) {
	view.PhotoURL = s.signedURL(ctx, view.PhotoKey)
	view.SymbolURL = s.signedURL(ctx, view.SymbolKey)
}

func loadCandidateForUpdate(ctx context.Context, stores Stores, candidateID id.CandidateID) (*models.Candidate, error) {
	c, err := stores.Candidates.FindByIDForUpdate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Candidate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidate")
	}
	return c, nil
}

func mergeCandidateProfile(ctx context.Context, stores Stores, userID id.UserID, incoming identity.Profile) error {
	u, err := stores.Users.FindByIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	merged := identity.MergeProfile(u.Profile, incoming, identity.PhotoKeepExisting)
	if merged == u.Profile {
		return nil
	}
	if err := stores.Users.UpdateProfile(ctx, userID, merged, requestcontext.Now(ctx)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update candidate profile")
	}
	return nil
}
