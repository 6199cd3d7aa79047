package main

import (
	"context"
	"log/slog"

	enrollmentsvc "electoral/internal/enrollment/service"
	identity "electoral/internal/identity/models"
	identitysvc "electoral/internal/identity/service"
	"electoral/internal/platform/config"
)

// bootstrapAdmin makes sure the configured account exists and holds ADMIN.
// Repeated starts are no-ops: the resolver finds the user and grants are
// idempotent. An existing password is never replaced.
func bootstrapAdmin(ctx context.Context, tx enrollmentsvc.StoreTx, hasher identitysvc.PasswordHasher, cfg config.AdminBootstrap, log *slog.Logger) error {
	return tx.RunInTx(ctx, func(stores enrollmentsvc.Stores) error {
		res, err := identitysvc.NewResolver(stores.Users, hasher, log).ResolveOrCreate(ctx, identity.ResolveRequest{
			VoterID:  cfg.VoterID,
			Password: cfg.Password,
		})
		if err != nil {
			return err
		}
		roles := identitysvc.NewRoles(stores.Roles, log)
		for _, role := range []identity.RoleName{identity.RoleVoter, identity.RoleAdmin} {
			if err := roles.Grant(ctx, res.UserID, role); err != nil {
				return err
			}
		}
		log.InfoContext(ctx, "admin account ready", "user_id", res.UserID, "created", res.IsNewUser)
		return nil
	})
}
