package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"electoral/internal/auth/handler/mocks"
	"electoral/internal/auth/models"
	identity "electoral/internal/identity/models"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type AuthHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAuthenticated(r)
	s.router = r
}

func (s *AuthHandlerSuite) TestLogin() {
	s.Run("returns the token and profile", func() {
		s.service.EXPECT().Login(gomock.Any(), &models.LoginRequest{Login: "VOT1", Password: "secret-pw"}).
			Return(&models.LoginResult{
				AccessToken: "tok",
				TokenType:   "Bearer",
				ExpiresIn:   900,
				User:        &identity.ProfileView{VoterID: "VOT1"},
			}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login", map[string]string{
			"login": "  VOT1 ", "password": "secret-pw",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		res := testutil.UnmarshalResponse[models.LoginResult](s.T(), rr)
		s.Equal("tok", res.AccessToken)
		s.Require().NotNil(res.User)
		s.Equal("VOT1", res.User.VoterID)
	})

	s.Run("missing password never reaches the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login", map[string]string{"login": "VOT1"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("bad credentials are 401", func() {
		s.service.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login", map[string]string{
			"login": "VOT1", "password": "wrong",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})
}

func (s *AuthHandlerSuite) TestLogout() {
	s.Run("no content on success", func() {
		s.service.EXPECT().Logout(gomock.Any()).Return(nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/auth/logout"))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
		s.Empty(rr.Body.String())
	})

	s.Run("missing token", func() {
		s.service.EXPECT().Logout(gomock.Any()).
			Return(dErrors.New(dErrors.CodeUnauthorized, "no access token"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/auth/logout"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})
}
