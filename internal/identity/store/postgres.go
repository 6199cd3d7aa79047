package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"electoral/internal/identity/models"
	"electoral/internal/platform/postgres"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
	txcontext "electoral/pkg/platform/tx"
)

const userColumns = `
	id, voter_id, first_name, last_name, phone, email, password_hash,
	gov_id_type, gov_id_no, gender, age, permanent_booth_id, profile_photo_key,
	is_active, created_at, updated_at`

// PostgresStore persists users and their role grants.
type PostgresStore struct {
	db txcontext.DBTX
}

// NewPostgres binds the store to a pool or to a transaction.
func NewPostgres(db txcontext.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var age sql.NullInt64
	var boothID sql.NullInt64
	err := row.Scan(
		&u.ID, &u.VoterID, &u.Profile.FirstName, &u.Profile.LastName, &u.Profile.Phone,
		&u.Profile.Email, &u.PasswordHash, &u.Profile.GovIDType, &u.Profile.GovIDNo,
		&u.Profile.Gender, &age, &boothID, &u.Profile.PhotoKey,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		u.Profile.Age = &v
	}
	if boothID.Valid {
		v := id.BoothID(boothID.Int64)
		u.Profile.PermanentBoothID = &v
	}
	return &u, nil
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, arg))
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, err
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `id = $1`, userID)
}

func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `id = $1 FOR UPDATE`, userID)
}

func (s *PostgresStore) FindByVoterID(ctx context.Context, voterID string) (*models.User, error) {
	return s.findOne(ctx, `voter_id = $1`, voterID)
}

// FindByVoterIDForUpdate locks the row for the rest of the transaction.
func (s *PostgresStore) FindByVoterIDForUpdate(ctx context.Context, voterID string) (*models.User, error) {
	return s.findOne(ctx, `voter_id = $1 FOR UPDATE`, voterID)
}

// FindByLogin matches voter_id, email (case-insensitive) or phone. A voter_id
// match wins over contact fields. A contact value shared by several users
// identifies nobody and reports ErrNotFound.
func (s *PostgresStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE voter_id = $1
			OR (email <> '' AND lower(email) = lower($1))
			OR (phone <> '' AND phone = $1)
		ORDER BY (voter_id = $1) DESC, id
		LIMIT 2`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, login)
	if err != nil {
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	defer rows.Close()

	var matches []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		matches = append(matches, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	switch {
	case len(matches) == 0:
		return nil, sentinel.ErrNotFound
	case matches[0].VoterID == login, len(matches) == 1:
		return matches[0], nil
	default:
		return nil, sentinel.ErrNotFound
	}
}

// InsertIfAbsent inserts user unless the voter_id exists. created is false
// when a concurrent or earlier insert won.
func (s *PostgresStore) InsertIfAbsent(ctx context.Context, user *models.User) (id.UserID, bool, error) {
	query := `
		INSERT INTO users (
			voter_id, first_name, last_name, phone, email, password_hash,
			gov_id_type, gov_id_no, gender, age, permanent_booth_id, profile_photo_key,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (voter_id) DO NOTHING
		RETURNING id
	`
	p := user.Profile
	var userID id.UserID
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query,
		user.VoterID, p.FirstName, p.LastName, p.Phone, p.Email, user.PasswordHash,
		p.GovIDType, p.GovIDNo, p.Gender, nullInt(p.Age), nullBooth(p.PermanentBoothID), p.PhotoKey,
		user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("insert user: %w", err)
	}
	return userID, true, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, userID id.UserID, p models.Profile, now time.Time) error {
	query := `
		UPDATE users SET
			first_name = $2, last_name = $3, phone = $4, email = $5,
			gov_id_type = $6, gov_id_no = $7, gender = $8, age = $9,
			permanent_booth_id = $10, profile_photo_key = $11, updated_at = $12
		WHERE id = $1
	`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		userID, p.FirstName, p.LastName, p.Phone, p.Email,
		p.GovIDType, p.GovIDNo, p.Gender, nullInt(p.Age),
		nullBooth(p.PermanentBoothID), p.PhotoKey, now,
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return requireAffected(res)
}

// Grant is a no-op when the role is already held. An unknown role name
// yields sentinel.ErrNotFound.
func (s *PostgresStore) Grant(ctx context.Context, userID id.UserID, role models.RoleName) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, r.id FROM roles r WHERE r.name = $2
		ON CONFLICT (user_id, role_id) DO NOTHING
		RETURNING role_id
	`
	var roleID int
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, userID, string(role)).Scan(&roleID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		// Either the role was already held or the role does not exist.
		return s.requireRole(ctx, role)
	case postgres.IsForeignKeyViolation(err):
		return sentinel.ErrMissingReference
	default:
		return fmt.Errorf("grant role: %w", err)
	}
}

func (s *PostgresStore) requireRole(ctx context.Context, role models.RoleName) error {
	var exists bool
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, string(role),
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check role: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Revoke(ctx context.Context, userID id.UserID, role models.RoleName) error {
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		DELETE FROM user_roles
		WHERE user_id = $1 AND role_id = (SELECT id FROM roles WHERE name = $2)
	`, userID, string(role))
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListForUser(ctx context.Context, userID id.UserID) ([]models.RoleName, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT r.name FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	defer rows.Close()

	roles := []models.RoleName{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, models.RoleName(name))
	}
	return roles, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBooth(v *id.BoothID) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
