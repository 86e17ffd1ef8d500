package storage

import (
	"context"
	"database/sql"
	"errors"

	"shopledger/internal/core"
)

// GetUser looks up a credential record by username. A missing user is
// ErrNotFound, not a query failure; the caller decides how to surface it.
func (s *Store) GetUser(ctx context.Context, username string) (core.User, error) {
	var u core.User
	var role string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, username, password_hash, role FROM users WHERE username = ?`),
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, &QueryError{Op: "get user", Err: err}
	}
	u.Role = core.Role(role)
	return u, nil
}

// CreateUser inserts a credential record. Users are provisioned out of band
// (tooling and tests); the application itself never exposes this.
func (s *Store) CreateUser(ctx context.Context, u core.User) (int64, error) {
	return s.insertID(ctx, "create user",
		`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, string(u.Role))
}
