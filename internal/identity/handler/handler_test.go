package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"electoral/internal/identity/handler/mocks"
	"electoral/internal/identity/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,Uploader,ObjectDeleter

type IdentityHandlerSuite struct {
	suite.Suite
	service  *mocks.MockService
	uploader *mocks.MockUploader
	objects  *mocks.MockObjectDeleter
	router   http.Handler
}

func TestIdentityHandlerSuite(t *testing.T) {
	suite.Run(t, new(IdentityHandlerSuite))
}

func (s *IdentityHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.uploader = mocks.NewMockUploader(ctrl)
	s.objects = mocks.NewMockObjectDeleter(ctrl)
	r := chi.NewRouter()
	New(s.service, s.uploader, s.objects, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func (s *IdentityHandlerSuite) TestGetProfile() {
	s.service.EXPECT().GetProfile(gomock.Any(), id.UserID(7)).
		Return(&models.ProfileView{ID: 7, VoterID: "VOT7", Roles: []models.RoleName{models.RoleVoter}}, nil)

	req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodGet, "/me"), 7, "VOTER")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	view := testutil.UnmarshalResponse[models.ProfileView](s.T(), rr)
	s.Equal("VOT7", view.VoterID)
}

func (s *IdentityHandlerSuite) TestUpdateProfile() {
	s.Run("json body", func() {
		s.service.EXPECT().UpdateProfile(gomock.Any(), id.UserID(7), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.UserID, p models.Profile) (*models.ProfileView, error) {
				s.Equal("Meera", p.FirstName)
				s.Equal("meera@example.com", p.Email)
				s.Empty(p.PhotoKey)
				return &models.ProfileView{ID: 7, FirstName: p.FirstName}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/me", map[string]any{
			"first_name": "Meera", "email": "Meera@Example.com",
		})
		rr := testutil.DoRequest(s.router, testutil.WithUser(req, 7, "VOTER"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("invalid age", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/me", map[string]any{"age": 0})
		rr := testutil.DoRequest(s.router, testutil.WithUser(req, 7, "VOTER"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("multipart photo goes to the caller's role folder", func() {
		s.uploader.EXPECT().Save(gomock.Any(), gomock.Any(), "photo", "profile-photos/agent").
			Return("profile-photos/agent/a.png", nil)
		s.service.EXPECT().UpdateProfile(gomock.Any(), id.UserID(7), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.UserID, p models.Profile) (*models.ProfileView, error) {
				s.Equal("profile-photos/agent/a.png", p.PhotoKey)
				s.Require().NotNil(p.Age)
				s.Equal(40, *p.Age)
				return &models.ProfileView{ID: 7}, nil
			})

		req := testutil.NewMultipartRequest(s.T(), http.MethodPut, "/me",
			map[string]string{"age": "40"}, map[string][]byte{"photo": testutil.PNG})
		rr := testutil.DoRequest(s.router, testutil.WithUser(req, 7, "VOTER", "AGENT"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("failed update discards the new photo", func() {
		s.uploader.EXPECT().Save(gomock.Any(), gomock.Any(), "photo", "profile-photos/voter").
			Return("profile-photos/voter/v.png", nil)
		s.service.EXPECT().UpdateProfile(gomock.Any(), id.UserID(7), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "email already in use"))
		s.objects.EXPECT().Delete(gomock.Any(), "profile-photos/voter/v.png").Return(nil)

		req := testutil.NewMultipartRequest(s.T(), http.MethodPut, "/me",
			map[string]string{"email": "taken@example.com"}, map[string][]byte{"photo": testutil.PNG})
		rr := testutil.DoRequest(s.router, testutil.WithUser(req, 7, "VOTER"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})
}

func (s *IdentityHandlerSuite) TestSearchVoter() {
	s.Run("agents may search", func() {
		s.service.EXPECT().SearchByVoterID(gomock.Any(), "VOT9").Return(&models.ProfileView{ID: 9, VoterID: "VOT9"}, nil)

		req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodGet, "/voters/search?voter_id=VOT9"), 5, "AGENT")
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusOK)
	})

	s.Run("voters may not", func() {
		req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodGet, "/voters/search?voter_id=VOT9"), 5, "VOTER")
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusForbidden)
	})
}

func TestPhotoFolder(t *testing.T) {
	assert.Equal(t, "voter", photoFolder(nil))
	assert.Equal(t, "voter", photoFolder([]string{"VOTER"}))
	assert.Equal(t, "candidate", photoFolder([]string{"VOTER", "CANDIDATE"}))
	assert.Equal(t, "others", photoFolder([]string{"AUDITOR"}))
}
