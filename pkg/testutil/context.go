package testutil

import (
	"net/http"

	id "electoral/pkg/domain"
	"electoral/pkg/requestcontext"
)

// WithUser simulates the auth middleware for handler tests.
func WithUser(req *http.Request, userID id.UserID, roles ...string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRoles(ctx, roles)
	return req.WithContext(ctx)
}
