package memory

import (
	"cmp"
	"context"
	"slices"

	"electoral/internal/notification/models"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
)

// Notifications stores per-user notifications.
type Notifications struct{ db *DB }

func (db *DB) Notifications() *Notifications { return &Notifications{db: db} }

// Insert is a no-op returning created=false when EventID was already stored.
func (n *Notifications) Insert(ctx context.Context, note *models.Notification) (id.NotificationID, bool, error) {
	type result struct {
		id      id.NotificationID
		created bool
	}
	res, err := write(ctx, n.db, func(st *state) (result, error) {
		if _, ok := st.users[note.UserID]; !ok {
			return result{}, sentinel.ErrMissingReference
		}
		if note.EventID != "" {
			for _, existing := range st.notifications {
				if existing.EventID == note.EventID {
					return result{id: existing.ID}, nil
				}
			}
		}
		st.seq.notification++
		row := *note
		row.ID = id.NotificationID(st.seq.notification)
		st.notifications[row.ID] = row
		return result{id: row.ID, created: true}, nil
	})
	return res.id, res.created, err
}

func (n *Notifications) ListForUser(_ context.Context, userID id.UserID, limit int, unreadOnly bool) ([]models.Notification, error) {
	return read(n.db, func(st *state) ([]models.Notification, error) {
		out := []models.Notification{}
		for _, note := range st.notifications {
			if note.UserID != userID || (unreadOnly && note.IsRead) {
				continue
			}
			out = append(out, note)
		}
		slices.SortFunc(out, func(a, b models.Notification) int { return cmp.Compare(b.ID, a.ID) })
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	})
}

func (n *Notifications) CountUnread(_ context.Context, userID id.UserID) (int, error) {
	return read(n.db, func(st *state) (int, error) {
		count := 0
		for _, note := range st.notifications {
			if note.UserID == userID && !note.IsRead {
				count++
			}
		}
		return count, nil
	})
}

func (n *Notifications) MarkRead(ctx context.Context, userID id.UserID, notificationID id.NotificationID) error {
	_, err := write(ctx, n.db, func(st *state) (struct{}, error) {
		note, ok := st.notifications[notificationID]
		if !ok || note.UserID != userID {
			return struct{}{}, sentinel.ErrNotFound
		}
		note.IsRead = true
		st.notifications[notificationID] = note
		return struct{}{}, nil
	})
	return err
}

func (n *Notifications) MarkAllRead(ctx context.Context, userID id.UserID) (int, error) {
	return write(ctx, n.db, func(st *state) (int, error) {
		count := 0
		for noteID, note := range st.notifications {
			if note.UserID == userID && !note.IsRead {
				note.IsRead = true
				st.notifications[noteID] = note
				count++
			}
		}
		return count, nil
	})
}
