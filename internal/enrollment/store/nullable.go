package store

import (
	"database/sql"
	"fmt"

	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
)

// nullableWard scans a nullable BIGINT into a *id.WardID.
type nullableWard struct{ dst **id.WardID }

func (n nullableWard) Scan(src any) error {
	var v sql.NullInt64
	if err := v.Scan(src); err != nil {
		return err
	}
	*n.dst = wardPtr(v)
	return nil
}

// nullableUser scans a nullable BIGINT into a *id.UserID.
type nullableUser struct{ dst **id.UserID }

func (n nullableUser) Scan(src any) error {
	var v sql.NullInt64
	if err := v.Scan(src); err != nil {
		return err
	}
	if !v.Valid {
		*n.dst = nil
		return nil
	}
	u := id.UserID(v.Int64)
	*n.dst = &u
	return nil
}

func wardPtr(v sql.NullInt64) *id.WardID {
	if !v.Valid {
		return nil
	}
	w := id.WardID(v.Int64)
	return &w
}

func nullWard(v *id.WardID) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullUser(v *id.UserID) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
