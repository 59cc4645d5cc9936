package model

import "time"

// Collection is a named grouping of places (a folder, in UI terms).
//
// PlaceCount is computed at query time from the places table — it is never
// stored, so it can't drift out of sync with the actual membership.
// Deleting a collection unfiles its places rather than deleting them.
type Collection struct {
	ID         string    `json:"id"         db:"id"`
	UserID     string    `json:"userId"     db:"user_id"`
	Name       string    `json:"name"       db:"name"`
	Color      string    `json:"color"      db:"color"`
	PlaceCount int       `json:"placeCount"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}
