package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electoral/internal/identity/models"
	"electoral/internal/outbox"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
)

type ProfileReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByVoterID(ctx context.Context, voterID string) (*models.User, error)
}

type ProfileWriter interface {
	FindByIDForUpdate(ctx context.Context, userID id.UserID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID id.UserID, profile models.Profile, now time.Time) error
}

type RoleLister interface {
	ListForUser(ctx context.Context, userID id.UserID) ([]models.RoleName, error)
}

type URLSigner interface {
	SignedURL(ctx context.Context, key string) (string, error)
}

type OutboxAppender interface {
	Append(ctx context.Context, ev outbox.Event) error
}

// ProfileStores is the unit of work for profile edits. Locks may be nil when
// nominations are not tracked.
type ProfileStores struct {
	Users  ProfileWriter
	Locks  ProfileLock
	Outbox OutboxAppender
}

type ProfileTx interface {
	RunInTx(ctx context.Context, fn func(stores ProfileStores) error) error
}

// Service serves profile reads and self-service edits.
type Service struct {
	reader ProfileReader
	roles  RoleLister
	tx     ProfileTx
	signer URLSigner
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(reader ProfileReader, roles RoleLister, tx ProfileTx, signer URLSigner, opts ...Option) *Service {
	s := &Service{reader: reader, roles: roles, tx: tx, signer: signer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetProfile returns the caller's profile with a signed photo URL.
func (s *Service) GetProfile(ctx context.Context, userID id.UserID) (*models.ProfileView, error) {
	u, err := s.reader.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return s.view(ctx, u)
}

// SearchByVoterID looks a voter up by external identifier.
func (s *Service) SearchByVoterID(ctx context.Context, voterID string) (*models.ProfileView, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "voter_id is required")
	}
	u, err := s.reader.FindByVoterID(ctx, voterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search user")
	}
	return s.view(ctx, u)
}

// UpdateProfile merges non-empty fields of p into the caller's profile.
// A non-empty PhotoKey replaces the stored photo key. The old object is kept
// because nominations and assignments may still reference it.
func (s *Service) UpdateProfile(ctx context.Context, userID id.UserID, p models.Profile) (*models.ProfileView, error) {
	p.Normalize()
	if p.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "no profile fields to update")
	}

	err := s.tx.RunInTx(ctx, func(stores ProfileStores) error {
		u, err := stores.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "user not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		merged := models.MergeProfile(u.Profile, p, models.PhotoReplace)
		if merged == u.Profile {
			return nil
		}
		if stores.Locks != nil && merged.KeepIdentity(u.Profile) != merged {
			locked, err := stores.Locks.HasApprovedByUser(ctx, userID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check nomination lock")
			}
			if locked {
				return dErrors.New(dErrors.CodeValidation, "name and photo cannot change while a nomination is approved")
			}
		}
		now := requestcontext.Now(ctx)
		if err := stores.Users.UpdateProfile(ctx, userID, merged, now); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
		}
		ev, err := outbox.New(outbox.EventProfileUpdated, "user", userID.String(), outbox.Payload{
			UserID:    userID,
			ActorID:   userID,
			RequestID: requestcontext.RequestID(ctx),
		}, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build event")
		}
		return stores.Outbox.Append(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile updated",
		"user_id", userID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return s.GetProfile(ctx, userID)
}

func (s *Service) view(ctx context.Context, u *models.User) (*models.ProfileView, error) {
	roles, err := s.roles.ListForUser(ctx, u.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load roles")
	}
	url := ""
	if u.Profile.PhotoKey != "" && s.signer != nil {
		url, err = s.signer.SignedURL(ctx, u.Profile.PhotoKey)
		if err != nil {
			// The profile is still useful without a photo.
			s.logger.WarnContext(ctx, "failed to sign photo url",
				"user_id", u.ID,
				"error", err,
			)
			url = ""
		}
	}
	return models.NewProfileView(u, roles, url), nil
}
