package sqlite

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/repository"
)

var _ repository.CollectionRepository = (*DB)(nil)

// CreateCollection inserts a new collection.
func (db *DB) CreateCollection(ctx context.Context, collection *model.Collection) error {
	collection.ID = xid.New().String()
	collection.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO collections (id, user_id, name, color, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		collection.ID, collection.UserID, collection.Name, collection.Color,
		collection.CreatedAt,
	)
	if err != nil {
		return storageErr("creating collection", err)
	}

	return nil
}

// ListCollections returns the user's collections, newest first, with
// PlaceCount computed from the places table. The count is never stored — a
// LEFT JOIN here means it can't drift from the actual membership, and empty
// collections still show up with a count of zero.
func (db *DB) ListCollections(ctx context.Context, userID string) ([]model.Collection, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.user_id, c.name, c.color, COUNT(p.id), c.created_at
		 FROM collections c
		 LEFT JOIN places p ON p.collection_id = c.id
		 WHERE c.user_id = ?
		 GROUP BY c.id
		 ORDER BY c.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, storageErr("listing collections", err)
	}
	defer rows.Close()

	collections := make([]model.Collection, 0, 8)
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.PlaceCount, &c.CreatedAt); err != nil {
			return nil, storageErr("scanning collection row", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating collections", err)
	}

	return collections, nil
}

// UpdateCollection renames/recolors a collection owned by the user.
func (db *DB) UpdateCollection(ctx context.Context, collection *model.Collection) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE collections SET name = ?, color = ? WHERE id = ? AND user_id = ?`,
		collection.Name, collection.Color, collection.ID, collection.UserID,
	)
	if err != nil {
		return storageErr("updating collection", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("checking rows affected", err)
	}
	if affected == 0 {
		return apperror.NotFound("collection", collection.ID)
	}

	return nil
}

// DeleteCollection unfiles the collection's places, then removes the
// collection — both inside one transaction so a crash can't leave half the
// places pointing at a deleted collection. The places themselves survive,
// just unassigned.
func (db *DB) DeleteCollection(ctx context.Context, userID, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("starting transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE places SET collection_id = NULL WHERE collection_id = ? AND user_id = ?`,
		id, userID,
	); err != nil {
		return storageErr("unassigning places", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM collections WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return storageErr("deleting collection", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("checking rows affected", err)
	}
	if affected == 0 {
		return apperror.NotFound("collection", id)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing collection delete", err)
	}

	return nil
}
