package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"electoral/internal/notification/handler/mocks"
	"electoral/internal/notification/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type NotificationHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
}

func TestNotificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerSuite))
}

func (s *NotificationHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	s.router = r
}

func (s *NotificationHandlerSuite) TestList() {
	s.Run("passes limit and unread filter for the caller", func() {
		s.service.EXPECT().List(gomock.Any(), id.UserID(7), 5, true).
			Return([]models.Notification{{ID: 1, UserID: 7, Title: "Welcome", Category: models.CategoryAccount}}, nil)

		req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodGet, "/notifications?limit=5&unread=true"), 7, "VOTER")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[struct {
			Notifications []models.Notification `json:"notifications"`
		}](s.T(), rr)
		s.Require().Len(body.Notifications, 1)
		s.Equal("Welcome", body.Notifications[0].Title)
	})

	s.Run("negative limit", func() {
		req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodGet, "/notifications?limit=-1"), 7)
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("anonymous caller", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/notifications"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})
}

func (s *NotificationHandlerSuite) TestUnreadCount() {
	s.service.EXPECT().UnreadCount(gomock.Any(), id.UserID(7)).Return(3, nil)

	req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodGet, "/notifications/unread-count"), 7)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	body := testutil.UnmarshalResponse[map[string]int](s.T(), rr)
	s.Equal(3, (*body)["unread"])
}

func (s *NotificationHandlerSuite) TestMarkRead() {
	s.Run("own notification", func() {
		s.service.EXPECT().MarkRead(gomock.Any(), id.UserID(7), id.NotificationID(12)).Return(nil)

		req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodPost, "/notifications/12/read"), 7)
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusOK)
	})

	s.Run("someone else's notification is not found", func() {
		s.service.EXPECT().MarkRead(gomock.Any(), id.UserID(7), id.NotificationID(13)).
			Return(dErrors.New(dErrors.CodeNotFound, "Notification not found"))

		req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodPost, "/notifications/13/read"), 7)
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("read-all is not treated as an id", func() {
		s.service.EXPECT().MarkAllRead(gomock.Any(), id.UserID(7)).Return(4, nil)

		req := testutil.WithUser(testutil.NewRequest(s.T(), http.MethodPost, "/notifications/read-all"), 7)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[map[string]int](s.T(), rr)
		s.Equal(4, (*body)["updated"])
	})
}
