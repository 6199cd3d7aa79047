package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	identity "electoral/internal/identity/models"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
)

type userTable struct{ st *state }

func (t userTable) FindByID(_ context.Context, userID id.UserID) (*identity.User, error) {
	u, ok := t.st.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &u, nil
}

func (t userTable) FindByIDForUpdate(ctx context.Context, userID id.UserID) (*identity.User, error) {
	return t.FindByID(ctx, userID)
}

func (t userTable) FindByVoterID(ctx context.Context, voterID string) (*identity.User, error) {
	userID, ok := t.st.voterIndex[voterID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return t.FindByID(ctx, userID)
}

func (t userTable) FindByVoterIDForUpdate(ctx context.Context, voterID string) (*identity.User, error) {
	return t.FindByVoterID(ctx, voterID)
}

// FindByLogin matches voter_id, email (case-insensitive) or phone. A contact
// value shared by several users matches nobody.
func (t userTable) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	if u, err := t.FindByVoterID(ctx, login); err == nil {
		return u, nil
	}
	var match *identity.User
	for _, u := range t.st.users {
		if (u.Profile.Email != "" && strings.EqualFold(u.Profile.Email, login)) ||
			(u.Profile.Phone != "" && u.Profile.Phone == login) {
			if match != nil {
				return nil, sentinel.ErrNotFound
			}
			found := u
			match = &found
		}
	}
	if match == nil {
		return nil, sentinel.ErrNotFound
	}
	return match, nil
}

func (t userTable) InsertIfAbsent(_ context.Context, user *identity.User) (id.UserID, bool, error) {
	if _, exists := t.st.voterIndex[user.VoterID]; exists {
		return 0, false, nil
	}
	t.st.seq.user++
	u := *user
	u.ID = id.UserID(t.st.seq.user)
	t.st.users[u.ID] = u
	t.st.voterIndex[u.VoterID] = u.ID
	return u.ID, true, nil
}

func (t userTable) UpdateProfile(_ context.Context, userID id.UserID, profile identity.Profile, now time.Time) error {
	u, ok := t.st.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.Profile = profile
	u.UpdatedAt = now
	t.st.users[userID] = u
	return nil
}

type roleTable struct{ st *state }

func (t roleTable) Grant(_ context.Context, userID id.UserID, role identity.RoleName) error {
	if !t.st.roles[role] {
		return sentinel.ErrNotFound
	}
	if _, ok := t.st.users[userID]; !ok {
		return sentinel.ErrMissingReference
	}
	set, ok := t.st.userRoles[userID]
	if !ok {
		set = make(map[identity.RoleName]time.Time)
		t.st.userRoles[userID] = set
	}
	if _, held := set[role]; !held {
		set[role] = time.Now()
	}
	return nil
}

func (t roleTable) Revoke(_ context.Context, userID id.UserID, role identity.RoleName) error {
	delete(t.st.userRoles[userID], role)
	return nil
}

func (t roleTable) ListForUser(_ context.Context, userID id.UserID) ([]identity.RoleName, error) {
	out := make([]identity.RoleName, 0, len(t.st.userRoles[userID]))
	for role := range t.st.userRoles[userID] {
		out = append(out, role)
	}
	slices.Sort(out)
	return out, nil
}

// Users serves committed user reads.
type Users struct{ db *DB }

func (db *DB) Users() *Users { return &Users{db: db} }

func (u *Users) FindByID(ctx context.Context, userID id.UserID) (*identity.User, error) {
	return read(u.db, func(st *state) (*identity.User, error) {
		return userTable{st}.FindByID(ctx, userID)
	})
}

func (u *Users) FindByVoterID(ctx context.Context, voterID string) (*identity.User, error) {
	return read(u.db, func(st *state) (*identity.User, error) {
		return userTable{st}.FindByVoterID(ctx, voterID)
	})
}

func (u *Users) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	return read(u.db, func(st *state) (*identity.User, error) {
		return userTable{st}.FindByLogin(ctx, login)
	})
}

// Roles serves committed role reads.
type Roles struct{ db *DB }

func (db *DB) Roles() *Roles { return &Roles{db: db} }

func (r *Roles) ListForUser(ctx context.Context, userID id.UserID) ([]identity.RoleName, error) {
	return read(r.db, func(st *state) ([]identity.RoleName, error) {
		return roleTable{st}.ListForUser(ctx, userID)
	})
}

// UserRoleCount reports how many grants of role exist for userID (0 or 1).
func (r *Roles) UserRoleCount(userID id.UserID, role identity.RoleName) int {
	n, _ := read(r.db, func(st *state) (int, error) {
		if _, ok := st.userRoles[userID][role]; ok {
			return 1, nil
		}
		return 0, nil
	})
	return n
}

// Count returns the number of committed users.
func (u *Users) Count() int {
	n, _ := read(u.db, func(st *state) (int, error) {
		return len(st.users), nil
	})
	return n
}

// SeedUser inserts a user with roles in one transaction.
func (db *DB) SeedUser(ctx context.Context, user identity.User, roles ...identity.RoleName) (id.UserID, error) {
	return write(ctx, db, func(st *state) (id.UserID, error) {
		userID, created, err := userTable{st}.InsertIfAbsent(ctx, &user)
		if err != nil {
			return 0, err
		}
		if !created {
			return 0, sentinel.ErrConflict
		}
		for _, role := range roles {
			if err := (roleTable{st}).Grant(ctx, userID, role); err != nil {
				return 0, err
			}
		}
		return userID, nil
	})
}
