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

// CreateAgent enrolls the voter behind req.VoterID as an agent on one booth of
// one election. A repeated enrollment for the same (agent, election) moves the
// existing assignment instead of adding a second one.
func (s *Service) CreateAgent(ctx context.Context, req *models.CreateAgentRequest) (*models.AgentResult, error) {
	if err := req.Validate(); err != nil {
		s.discard(ctx, req.Profile.PhotoKey)
		return nil, err
	}

	var result *models.AgentResult
	var storedPhoto string
	err := s.run(ctx, "create_agent", func(ctx context.Context, stores Stores) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("election_id", int64(req.ElectionID)))

		scope := electionsvc.NewScopeValidator(stores.Elections, s.logger)
		electionScope, err := scope.Classify(ctx, req.ElectionID)
		if err != nil {
			return err
		}
		boothID := req.BoothID
		wardID := req.WardID
		if err := scope.ValidateGeoScope(ctx, electionScope, electionmodels.GeoRef{
			WardID:  wardID,
			BoothID: &boothID,
			ACName:  req.ACName,
		}); err != nil {
			return err
		}

		resolver := identitysvc.NewResolver(stores.Users, s.hasher, s.logger,
			identitysvc.WithProfileLock(stores.Candidates))
		resolution, err := resolver.ResolveOrCreate(ctx, identity.ResolveRequest{
			VoterID:     req.VoterID,
			Profile:     req.Profile,
			Password:    req.Password,
			PhotoPolicy: identity.PhotoReplace,
		})
		if err != nil {
			return err
		}

		storedPhoto = resolution.PhotoKey
		if err := s.grantEnrollmentRoles(ctx, stores, resolution, identity.RoleAgent); err != nil {
			return err
		}

		assignment := &models.AgentAssignment{
			AgentUserID: resolution.UserID,
			ElectionID:  req.ElectionID,
			BoothID:     boothID,
			WardID:      wardID,
			PhotoKey:    resolution.PhotoKey,
			AssignedAt:  requestcontext.Now(ctx),
		}
		if err := stores.Assignments.Upsert(ctx, assignment); err != nil {
			if errors.Is(err, sentinel.ErrMissingReference) {
				return dErrors.New(dErrors.CodeConflict, "election booth no longer exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save agent assignment")
		}

		if err := appendEvent(ctx, stores, outbox.EventAgentAssigned, "election_agent", resolution.UserID.String(), outbox.Payload{
			UserID:     resolution.UserID,
			ElectionID: req.ElectionID,
			BoothID:    int64(boothID),
		}); err != nil {
			return err
		}

		result = &models.AgentResult{
			UserID:     resolution.UserID,
			ElectionID: req.ElectionID,
			BoothID:    boothID,
			IsNewUser:  resolution.IsNewUser,
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, req.Profile.PhotoKey)
		return nil, err
	}

	if req.Profile.PhotoKey != storedPhoto {
		// The profile kept its frozen photo; the new upload has no owner.
		s.discard(ctx, req.Profile.PhotoKey)
	}

	s.metrics.IncAgentEnrolled(result.IsNewUser)
	s.logger.InfoContext(ctx, "agent enrolled",
		"user_id", result.UserID,
		"election_id", result.ElectionID,
		"booth_id", result.BoothID,
		"is_new_user", result.IsNewUser,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

// grantEnrollmentRoles grants role, plus VOTER and a registration event for a
// user created in this transaction.
func (s *Service) grantEnrollmentRoles(ctx context.Context, stores Stores, resolution *identity.Resolution, role identity.RoleName) error {
	roles := identitysvc.NewRoles(stores.Roles, s.logger)
	if resolution.IsNewUser {
		if err := roles.Grant(ctx, resolution.UserID, identity.RoleVoter); err != nil {
			return err
		}
		if err := appendEvent(ctx, stores, outbox.EventUserRegistered, "user", resolution.UserID.String(), outbox.Payload{
			UserID: resolution.UserID,
		}); err != nil {
			return err
		}
	}
	return roles.Grant(ctx, resolution.UserID, role)
}

// MarkVoter records the calling agent's turnout status for a voter. The undo
// status deletes the mark instead of storing it.
func (s *Service) MarkVoter(ctx context.Context, req *models.MarkVoterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	agentID := requestcontext.UserID(ctx)
	if agentID.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	action := "mark"
	if req.IsUndo() {
		action = "undo"
	}
	err := s.run(ctx, "mark_voter", func(ctx context.Context, stores Stores) error {
		if _, err := stores.Assignments.FindByAgentAndElection(ctx, agentID, req.ElectionID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeForbidden, "agent is not assigned to this election")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agent assignment")
		}

		eventType := outbox.EventVoterMarked
		if req.IsUndo() {
			eventType = outbox.EventVoterUnmarked
			existed, err := stores.Marks.Delete(ctx, req.ElectionID, agentID, req.VoterID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete voter mark")
			}
			if !existed {
				return nil
			}
		} else {
			mark := &models.VoterMark{
				ElectionID:  req.ElectionID,
				AgentUserID: agentID,
				VoterUserID: req.VoterID,
				Status:      req.Status,
				MarkedAt:    requestcontext.Now(ctx),
			}
			if err := stores.Marks.Upsert(ctx, mark); err != nil {
				if errors.Is(err, sentinel.ErrMissingReference) {
					return dErrors.New(dErrors.CodeNotFound, "Voter not found")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save voter mark")
			}
		}

		return appendEvent(ctx, stores, eventType, "voter_mark", req.VoterID.String(), outbox.Payload{
			UserID:     req.VoterID,
			ElectionID: req.ElectionID,
			Status:     req.Status,
		})
	})
	if err != nil {
		return err
	}
	s.metrics.IncVoterMark(action)
	return nil
}

// VoterMarkStatus returns the calling agent's mark for a voter, or
// models.MarkPending when none exists.
func (s *Service) VoterMarkStatus(ctx context.Context, electionID id.ElectionID, voterID id.UserID) (string, error) {
	agentID := requestcontext.UserID(ctx)
	if agentID.IsZero() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	mark, err := s.reader.FindMark(ctx, electionID, agentID, voterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.MarkPending, nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load voter mark")
	}
	return mark.Status, nil
}
