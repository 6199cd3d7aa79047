package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"electoral/internal/auth/models"
	"electoral/internal/auth/service"
	"electoral/internal/auth/store/revocation"
	identity "electoral/internal/identity/models"
	jwttoken "electoral/internal/jwt_token"
	"electoral/internal/platform/password"
	"electoral/internal/storage/memory"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/requestcontext"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx    context.Context
	db     *memory.DB
	jwt    *jwttoken.JWTService
	trl    *revocation.MemoryTRL
	svc    *service.Service
	hasher *password.Bcrypt
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = memory.New()
	s.jwt = jwttoken.NewJWTService("key", "electoral", "electoral-api")
	s.trl = revocation.NewMemoryTRL()
	s.hasher = password.NewBcrypt(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = service.New(s.db.Users(), s.db.Roles(), s.hasher, s.jwt, s.trl, time.Hour, logger)

	s.seed("VOT100", "asha@example.com", "9000000001", true, identity.RoleVoter, identity.RoleAgent)
	s.seed("VOT200", "", "", false, identity.RoleVoter)
}

func (s *AuthServiceSuite) seed(voterID, email, phone string, active bool, roles ...identity.RoleName) {
	digest, err := s.hasher.Hash("s3cret-pass")
	s.Require().NoError(err)
	_, err = s.db.SeedUser(s.ctx, identity.User{
		VoterID:      voterID,
		Profile:      identity.Profile{FirstName: "Asha", Email: email, Phone: phone},
		PasswordHash: digest,
		IsActive:     active,
	}, roles...)
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestLogin() {
	for _, login := range []string{"VOT100", "asha@example.com", "9000000001"} {
		s.Run("by "+login, func() {
			res, err := s.svc.Login(s.ctx, &models.LoginRequest{Login: login, Password: "s3cret-pass"})
			s.Require().NoError(err)
			s.Equal("Bearer", res.TokenType)
			s.Equal("VOT100", res.User.VoterID)

			claims, err := s.jwt.ValidateToken(res.AccessToken)
			s.Require().NoError(err)
			s.ElementsMatch([]string{"VOTER", "AGENT"}, claims.Roles)
		})
	}

	s.Run("every failure is the same generic error", func() {
		cases := []models.LoginRequest{
			{Login: "VOT100", Password: "wrong"},
			{Login: "NOPE", Password: "s3cret-pass"},
			{Login: "VOT200", Password: "s3cret-pass"},
		}
		for _, req := range cases {
			_, err := s.svc.Login(s.ctx, &req)
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), req.Login)
			s.Equal("invalid credentials", dErrors.MessageOf(err), req.Login)
		}
	})

	s.Run("missing fields are a validation error", func() {
		_, err := s.svc.Login(s.ctx, &models.LoginRequest{Login: " "})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AuthServiceSuite) TestSharedEmailIdentifiesNobody() {
	s.seed("VOT300", "ASHA@example.com", "9000000003", true, identity.RoleVoter)

	_, err := s.svc.Login(s.ctx, &models.LoginRequest{Login: "asha@example.com", Password: "s3cret-pass"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("invalid credentials", dErrors.MessageOf(err))

	for _, login := range []string{"VOT300", "9000000003"} {
		res, err := s.svc.Login(s.ctx, &models.LoginRequest{Login: login, Password: "s3cret-pass"})
		s.Require().NoError(err, login)
		s.Equal("VOT300", res.User.VoterID)
	}
}

func (s *AuthServiceSuite) TestLogoutRevokesToken() {
	res, err := s.svc.Login(s.ctx, &models.LoginRequest{Login: "VOT100", Password: "s3cret-pass"})
	s.Require().NoError(err)
	claims, err := s.jwt.ValidateToken(res.AccessToken)
	s.Require().NoError(err)

	ctx := requestcontext.WithAccessToken(s.ctx, requestcontext.Token{JTI: claims.ID, ExpiresAt: claims.ExpiresAt.Time})
	s.Require().NoError(s.svc.Logout(ctx))

	revoked, err := s.trl.IsTokenRevoked(s.ctx, claims.ID)
	s.Require().NoError(err)
	s.True(revoked)

	err = s.svc.Logout(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
