// Package service authenticates users and manages access token lifetime.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"electoral/internal/auth/device"
	"electoral/internal/auth/models"
	identity "electoral/internal/identity/models"
	jwttoken "electoral/internal/jwt_token"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
	"electoral/pkg/requestcontext"
)

var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "electoral_login_attempts_total",
	Help: "Login attempts by outcome",
}, []string{"outcome"})

const invalidCredentials = "invalid credentials"

type UserStore interface {
	FindByLogin(ctx context.Context, login string) (*identity.User, error)
}

type RoleLister interface {
	ListForUser(ctx context.Context, userID id.UserID) ([]identity.RoleName, error)
}

type PasswordVerifier interface {
	Verify(plaintext, digest string) bool
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, roles []string, now time.Time, expiresIn time.Duration) (*jwttoken.IssuedToken, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type Service struct {
	users    UserStore
	roles    RoleLister
	verifier PasswordVerifier
	tokens   TokenIssuer
	trl      RevocationList
	tokenTTL time.Duration
	logger   *slog.Logger
}

func New(users UserStore, roles RoleLister, verifier PasswordVerifier, tokens TokenIssuer, trl RevocationList, tokenTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		users:    users,
		roles:    roles,
		verifier: verifier,
		tokens:   tokens,
		trl:      trl,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login verifies credentials. Unknown login, wrong password and inactive
// accounts all fail with the same unauthorized error.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByLogin(ctx, req.Login)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if user == nil || user.PasswordHash == "" || !s.verifier.Verify(req.Password, user.PasswordHash) || !user.IsActive {
		loginAttempts.WithLabelValues("rejected").Inc()
		s.logger.WarnContext(ctx, "login rejected",
			"request_id", requestcontext.RequestID(ctx),
			"client_ip", requestcontext.ClientIP(ctx),
		)
		return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
	}

	roles, err := s.roles.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load roles")
	}
	roleNames := make([]string, len(roles))
	for i, r := range roles {
		roleNames[i] = r.String()
	}

	issued, err := s.tokens.GenerateAccessToken(user.ID, roleNames, requestcontext.Now(ctx), s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	loginAttempts.WithLabelValues("accepted").Inc()
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID,
		"device", device.ParseUserAgent(requestcontext.UserAgent(ctx)),
		"request_id", requestcontext.RequestID(ctx),
	)
	return &models.LoginResult{
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        identity.NewProfileView(user, roles, ""),
	}, nil
}

// Logout revokes the caller's access token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context) error {
	tok, ok := requestcontext.AccessToken(ctx)
	if !ok || tok.JTI == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	ttl := tok.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return nil
	}
	if err := s.trl.RevokeToken(ctx, tok.JTI, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	s.logger.InfoContext(ctx, "user logged out",
		"user_id", requestcontext.UserID(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}
