package service

import (
	"context"
	"errors"
	"log/slog"

	"electoral/internal/identity/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
)

// RoleStore persists user-role grants. Grant must be conflict tolerant and
// return sentinel.ErrNotFound for a role name missing from reference data.
type RoleStore interface {
	Grant(ctx context.Context, userID id.UserID, role models.RoleName) error
	Revoke(ctx context.Context, userID id.UserID, role models.RoleName) error
}

// UsageCounter counts rows that still justify holding a role.
type UsageCounter interface {
	CountByUser(ctx context.Context, userID id.UserID) (int, error)
}

// Roles grants and revokes roles.
type Roles struct {
	store  RoleStore
	logger *slog.Logger
}

func NewRoles(store RoleStore, logger *slog.Logger) *Roles {
	if logger == nil {
		logger = slog.Default()
	}
	return &Roles{store: store, logger: logger}
}

// Grant is idempotent: granting a held role is a no-op.
func (r *Roles) Grant(ctx context.Context, userID id.UserID, role models.RoleName) error {
	if err := r.store.Grant(ctx, userID, role); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			r.logger.ErrorContext(ctx, "role missing from reference data",
				"role", role,
				"request_id", requestcontext.RequestID(ctx),
			)
			return dErrors.New(dErrors.CodeNotFound, "role "+string(role)+" not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
	}
	return nil
}

// RevokeIfUnused drops role when usage reports no remaining rows.
func (r *Roles) RevokeIfUnused(ctx context.Context, userID id.UserID, role models.RoleName, usage UsageCounter) (bool, error) {
	n, err := usage.CountByUser(ctx, userID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count role usage")
	}
	if n > 0 {
		return false, nil
	}
	if err := r.store.Revoke(ctx, userID, role); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke role")
	}
	return true, nil
}
