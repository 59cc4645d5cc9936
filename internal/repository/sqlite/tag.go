package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/repository"
)

var _ repository.TagRepository = (*DB)(nil)

// CreateTag inserts an explicitly created tag. The UNIQUE(user_id, name)
// constraint turns a duplicate name into apperror.ErrConflict.
func (db *DB) CreateTag(ctx context.Context, tag *model.Tag) error {
	tag.ID = xid.New().String()
	tag.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tags (id, user_id, name, color, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tag.ID, tag.UserID, tag.Name, tag.Color, tag.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("tag", tag.Name)
		}
		return storageErr("creating tag", err)
	}

	return nil
}

// FindOrCreateTag returns the id of the user's tag with this exact name,
// creating it if absent.
//
// ATOMICITY: this is NOT a check-then-insert. The INSERT with
// ON CONFLICT DO NOTHING is a single atomic statement; when two calls race,
// both inserts hit the UNIQUE(user_id, name) constraint, exactly one row
// wins, and the follow-up SELECT reads that winner either way. Check-then-
// insert would let both callers pass the check and create duplicate tags.
func (db *DB) FindOrCreateTag(ctx context.Context, userID, name, color string) (string, error) {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tags (id, user_id, name, color, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, name) DO NOTHING`,
		xid.New().String(), userID, name, color, time.Now(),
	)
	if err != nil {
		return "", storageErr("upserting tag", err)
	}

	var id string
	err = db.conn.QueryRowContext(ctx,
		`SELECT id FROM tags WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&id)
	if err != nil {
		return "", storageErr("reading upserted tag", err)
	}

	return id, nil
}

// ListTags returns the user's tags, newest first.
func (db *DB) ListTags(ctx context.Context, userID string) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, color, created_at
		 FROM tags WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, storageErr("listing tags", err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0, 16)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, storageErr("scanning tag row", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating tags", err)
	}

	return tags, nil
}

// DeleteTag removes a tag owned by the user. Membership rows cascade, so the
// tag disappears from every place it was attached to.
func (db *DB) DeleteTag(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return storageErr("deleting tag", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("checking rows affected", err)
	}
	if affected == 0 {
		return apperror.NotFound("tag", id)
	}

	return nil
}

// AttachTag links a tag to a place. Both sides are verified to belong to the
// user first — a caller can never attach across account boundaries.
// Re-attaching an existing link is a no-op, not an error.
func (db *DB) AttachTag(ctx context.Context, userID, placeID, tagID string) error {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM tags WHERE id = ? AND user_id = ?`,
		tagID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return apperror.NotFound("tag", tagID)
	}
	if err != nil {
		return storageErr("checking tag", err)
	}

	err = db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM places WHERE id = ? AND user_id = ?`,
		placeID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return apperror.NotFound("place", placeID)
	}
	if err != nil {
		return storageErr("checking place", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO place_tags (place_id, tag_id) VALUES (?, ?)
		 ON CONFLICT(place_id, tag_id) DO NOTHING`,
		placeID, tagID,
	)
	if err != nil {
		return storageErr("attaching tag", err)
	}

	return nil
}

// DetachTag removes a tag↔place link. The ownership check rides along in the
// DELETE's subquery; detaching a link that doesn't exist is a no-op.
func (db *DB) DetachTag(ctx context.Context, userID, placeID, tagID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM place_tags
		 WHERE place_id = ? AND tag_id = ?
		   AND place_id IN (SELECT id FROM places WHERE user_id = ?)`,
		placeID, tagID, userID,
	)
	if err != nil {
		return storageErr("detaching tag", err)
	}

	return nil
}

// isUniqueViolation spots SQLite unique-constraint failures. The pure Go
// driver doesn't export a typed error for this, so we match the message the
// SQLite engine produces.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
