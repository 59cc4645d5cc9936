package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/query"
	"github.com/mhasan/pinpoint/internal/repository"
)

// Compile-time check that *DB implements repository.PlaceRepository.
var _ repository.PlaceRepository = (*DB)(nil)

// placeColumns is the SELECT list every place query shares, so Scan calls
// stay in one agreed order.
const placeColumns = `p.id, p.user_id, p.name, p.address, p.latitude, p.longitude,
	p.google_place_id, p.url, p.notes, p.rating, p.collection_id,
	p.created_at, p.updated_at`

// CreatePlace inserts a new place. The caller's struct gets the generated ID
// and timestamps filled in (pointer receiver — mutations are visible).
func (db *DB) CreatePlace(ctx context.Context, place *model.Place) error {
	place.ID = xid.New().String()

	now := time.Now()
	place.CreatedAt = now
	place.UpdatedAt = now

	// collection_id is stored as NULL (not "") when the place is unfiled,
	// so the IS NULL scope and the FK both behave.
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO places (id, user_id, name, address, latitude, longitude,
		 google_place_id, url, notes, rating, collection_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		place.ID,
		place.UserID,
		place.Name,
		place.Address,
		place.Latitude,
		place.Longitude,
		place.GooglePlaceID,
		place.URL,
		place.Notes,
		place.Rating,
		nullIfEmpty(place.CollectionID),
		place.CreatedAt,
		place.UpdatedAt,
	)
	if err != nil {
		return storageErr("creating place", err)
	}

	return nil
}

// GetPlaceByID retrieves a single place owned by the user, tags included.
func (db *DB) GetPlaceByID(ctx context.Context, userID, id string) (*model.Place, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places p WHERE p.id = ? AND p.user_id = ?`,
		id, userID,
	)

	place, err := scanPlace(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("place", id)
		}
		return nil, storageErr("getting place", err)
	}

	if err := db.hydrateTags(ctx, []*model.Place{place}); err != nil {
		return nil, err
	}
	return place, nil
}

// SearchPlaces runs one filtered retrieval over the user's places.
//
// The filter compiles through the query expression tree, so every
// user-supplied value travels as a bound parameter — the SQL text only ever
// contains code-owned column names and subqueries. Matching semantics:
//
//   - Text: case-insensitive substring over name OR address OR notes
//   - TagIDs: place's tag set intersects the given set (one match is enough)
//   - CollectionID / Unassigned: exact collection scope, or collection IS NULL
//   - groups combine with AND; absent groups impose nothing
//
// Results come back newest-first. No filter at all returns everything the
// user owns.
func (db *DB) SearchPlaces(ctx context.Context, userID string, f repository.SearchFilter) ([]model.Place, error) {
	conds := []query.Expr{query.Eq("p.user_id", userID)}

	if text := strings.TrimSpace(f.Text); text != "" {
		conds = append(conds, query.Or(
			query.Contains("p.name", text),
			query.Contains("p.address", text),
			query.Contains("p.notes", text),
		))
	}

	if len(f.TagIDs) > 0 {
		sub := "SELECT place_id FROM place_tags WHERE tag_id IN (" +
			placeholders(len(f.TagIDs)) + ")"
		args := make([]any, len(f.TagIDs))
		for i, id := range f.TagIDs {
			args[i] = id
		}
		conds = append(conds, query.InSubquery("p.id", sub, args...))
	}

	switch {
	case f.Unassigned:
		conds = append(conds, query.IsNull("p.collection_id"))
	case f.CollectionID != "":
		conds = append(conds, query.Eq("p.collection_id", f.CollectionID))
	}

	where, args := query.Where(query.And(conds...))

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+placeColumns+` FROM places p `+where+` ORDER BY p.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, storageErr("searching places", err)
	}
	defer rows.Close()

	places := make([]model.Place, 0, 16)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, storageErr("scanning place row", err)
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating places", err)
	}

	refs := make([]*model.Place, len(places))
	for i := range places {
		refs[i] = &places[i]
	}
	if err := db.hydrateTags(ctx, refs); err != nil {
		return nil, err
	}

	return places, nil
}

// DeletePlace removes a place owned by the user. Membership rows cascade.
func (db *DB) DeletePlace(ctx context.Context, userID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM places WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return storageErr("deleting place", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("checking rows affected", err)
	}
	if affected == 0 {
		return apperror.NotFound("place", id)
	}

	return nil
}

// DeleteAllPlaces removes every place the user owns and reports the count.
// Deleting nothing is not an error — the store just was already empty.
func (db *DB) DeleteAllPlaces(ctx context.Context, userID string) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM places WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return 0, storageErr("deleting all places", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, storageErr("checking rows affected", err)
	}
	return affected, nil
}

// SetPlaceCollection files a place into a collection, or unfiles it when
// collectionID is empty. The target collection must exist and belong to the
// same user — a dangling or foreign collection id is rejected, not stored.
func (db *DB) SetPlaceCollection(ctx context.Context, userID, placeID, collectionID string) error {
	if collectionID != "" {
		var one int
		err := db.conn.QueryRowContext(ctx,
			`SELECT 1 FROM collections WHERE id = ? AND user_id = ?`,
			collectionID, userID,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return apperror.NotFound("collection", collectionID)
		}
		if err != nil {
			return storageErr("checking collection", err)
		}
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE places SET collection_id = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		nullIfEmpty(collectionID), time.Now(), placeID, userID,
	)
	if err != nil {
		return storageErr("moving place", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("checking rows affected", err)
	}
	if affected == 0 {
		return apperror.NotFound("place", placeID)
	}

	return nil
}

// hydrateTags fills Tags on the given places with one membership query.
// Tag order within a place is alphabetical — membership itself is unordered.
func (db *DB) hydrateTags(ctx context.Context, places []*model.Place) error {
	byID := make(map[string]*model.Place, len(places))
	ids := make([]any, 0, len(places))
	for _, p := range places {
		p.Tags = []model.Tag{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT pt.place_id, t.id, t.user_id, t.name, t.color, t.created_at
		 FROM place_tags pt
		 JOIN tags t ON t.id = pt.tag_id
		 WHERE pt.place_id IN (`+placeholders(len(ids))+`)
		 ORDER BY t.name`,
		ids...,
	)
	if err != nil {
		return storageErr("loading place tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var placeID string
		var t model.Tag
		if err := rows.Scan(&placeID, &t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return storageErr("scanning place tag row", err)
		}
		if p, ok := byID[placeID]; ok {
			p.Tags = append(p.Tags, t)
		}
	}
	if err := rows.Err(); err != nil {
		return storageErr("iterating place tags", err)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPlace(s scanner) (*model.Place, error) {
	var p model.Place
	var collectionID sql.NullString
	err := s.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Address, &p.Latitude, &p.Longitude,
		&p.GooglePlaceID, &p.URL, &p.Notes, &p.Rating, &collectionID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CollectionID = collectionID.String
	return &p, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
