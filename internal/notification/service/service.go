// Package service serves user notifications and turns committed domain
// events into notification rows.
package service

import (
	"context"
	"errors"
	"log/slog"

	"electoral/internal/notification/models"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/sentinel"
)

// Store persists notifications. Insert is idempotent by EventID.
type Store interface {
	Insert(ctx context.Context, note *models.Notification) (id.NotificationID, bool, error)
	ListForUser(ctx context.Context, userID id.UserID, limit int, unreadOnly bool) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID id.UserID) (int, error)
	MarkRead(ctx context.Context, userID id.UserID, noteID id.NotificationID) error
	MarkAllRead(ctx context.Context, userID id.UserID) (int, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

func (s *Service) List(ctx context.Context, userID id.UserID, limit int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > models.DefaultListLimit {
		limit = models.DefaultListLimit
	}
	notes, err := s.store.ListForUser(ctx, userID, limit, unreadOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return notes, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID id.UserID) (int, error) {
	n, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count notifications")
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, userID id.UserID, noteID id.NotificationID) error {
	err := s.store.MarkRead(ctx, userID, noteID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Notification not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update notification")
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID id.UserID) (int, error) {
	n, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update notifications")
	}
	return n, nil
}
