package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/xid"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new email/password account. A duplicate email is a
// conflict — "user already exists" at the API surface.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, google_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.GoogleID,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return storageErr("creating user", err)
	}

	return nil
}

// GetUserByID retrieves a user by internal id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id = ?`, id)
}

// GetUserByEmail retrieves a user by email, for login.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, cond string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, google_id, created_at, updated_at
		 FROM users WHERE `+cond,
		arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.GoogleID,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", "")
		}
		return nil, storageErr("getting user", err)
	}

	return &u, nil
}

// UpsertGoogleUser finds-or-creates an account keyed by Google subject id.
// An existing account keeps its internal id; name and email are refreshed
// from the fresh Google profile on every login.
func (db *DB) UpsertGoogleUser(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE google_id = ?`, user.GoogleID,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return storageErr("looking up google user", err)
	}

	now := time.Now()

	if err == sql.ErrNoRows {
		user.ID = xid.New().String()
		user.CreatedAt = now
		user.UpdatedAt = now

		_, err = db.conn.ExecContext(ctx,
			`INSERT INTO users (id, email, name, password_hash, google_id, created_at, updated_at)
			 VALUES (?, ?, ?, '', ?, ?, ?)`,
			user.ID, user.Email, user.Name, user.GoogleID,
			user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return storageErr("inserting google user", err)
		}
		return nil
	}

	user.ID = existingID
	user.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?`,
		user.Email, user.Name, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return storageErr("updating google user", err)
	}

	return nil
}
