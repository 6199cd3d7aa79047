package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"electoral/internal/identity/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
)

// UserStore is the slice of user persistence identity resolution needs.
// Implementations bound to a transaction must honor the row lock.
type UserStore interface {
	FindByVoterIDForUpdate(ctx context.Context, voterID string) (*models.User, error)
	InsertIfAbsent(ctx context.Context, user *models.User) (id.UserID, bool, error)
	UpdateProfile(ctx context.Context, userID id.UserID, profile models.Profile, now time.Time) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// ProfileLock reports whether a user's names and photo are frozen, which is
// the case while the user holds an approved nomination.
type ProfileLock interface {
	HasApprovedByUser(ctx context.Context, userID id.UserID) (bool, error)
}

// Resolver finds or creates the user behind a voter identifier.
// It never grants roles.
type Resolver struct {
	users  UserStore
	hasher PasswordHasher
	lock   ProfileLock
	logger *slog.Logger
}

type ResolverOption func(*Resolver)

// WithProfileLock makes the merge path leave frozen fields untouched.
func WithProfileLock(lock ProfileLock) ResolverOption {
	return func(r *Resolver) {
		r.lock = lock
	}
}

func NewResolver(users UserStore, hasher PasswordHasher, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{users: users, hasher: hasher, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveOrCreate returns the user for req.VoterID, creating it when absent.
// An existing user has only non-empty incoming fields merged in. A concurrent
// creator winning the insert race is treated as "found".
func (r *Resolver) ResolveOrCreate(ctx context.Context, req models.ResolveRequest) (*models.Resolution, error) {
	voterID := strings.TrimSpace(req.VoterID)
	if voterID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "voter_id is required")
	}
	req.Profile.Normalize()

	existing, err := r.users.FindByVoterIDForUpdate(ctx, voterID)
	if err == nil {
		return r.merge(ctx, existing, req)
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up voter")
	}

	if req.Password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Password required for new voter")
	}
	hash, err := r.hasher.Hash(req.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	user := &models.User{
		VoterID:      voterID,
		Profile:      req.Profile,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	userID, created, err := r.users.InsertIfAbsent(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create voter")
	}
	if created {
		r.logger.InfoContext(ctx, "voter created",
			"user_id", userID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return &models.Resolution{UserID: userID, IsNewUser: true, PhotoKey: user.Profile.PhotoKey}, nil
	}

	// Another transaction inserted the same voter first; continue as found.
	r.logger.InfoContext(ctx, "voter insert lost race, re-reading",
		"request_id", requestcontext.RequestID(ctx),
	)
	existing, err = r.users.FindByVoterIDForUpdate(ctx, voterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to re-read voter")
	}
	return r.merge(ctx, existing, req)
}

func (r *Resolver) merge(ctx context.Context, existing *models.User, req models.ResolveRequest) (*models.Resolution, error) {
	merged := models.MergeProfile(existing.Profile, req.Profile, req.PhotoPolicy)
	if merged != existing.Profile && r.lock != nil {
		locked, err := r.lock.HasApprovedByUser(ctx, existing.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check nomination lock")
		}
		if locked {
			merged = merged.KeepIdentity(existing.Profile)
			r.logger.InfoContext(ctx, "approved nomination freezes names and photo",
				"user_id", existing.ID,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	if merged != existing.Profile {
		if err := r.users.UpdateProfile(ctx, existing.ID, merged, requestcontext.Now(ctx)); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update voter profile")
		}
	}
	return &models.Resolution{UserID: existing.ID, IsNewUser: false, PhotoKey: merged.PhotoKey}, nil
}
