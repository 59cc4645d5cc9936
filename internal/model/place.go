// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — plain records with struct tags
// for JSON serialization, no behaviour attached.
package model

import "time"

// Place is a single saved location owned by a user.
//
// Latitude/Longitude default to 0 for imported places — the Takeout CSV does
// not carry coordinates and we deliberately don't geocode, so 0/0 is a sentinel
// for "unknown", not a guess.
//
// GooglePlaceID is the opaque identifier embedded in a Google Maps URL
// (the "1s0x...:0x..." fragment). It is extracted during import but never
// validated against any external service.
//
// CollectionID is empty when the place is unfiled. Tags is populated by list
// and search queries; it is derived from the place_tags relation, not stored
// on the place row itself.
type Place struct {
	ID            string    `json:"id"            db:"id"`
	UserID        string    `json:"userId"        db:"user_id"`
	Name          string    `json:"name"          db:"name"`
	Address       string    `json:"address"       db:"address"`
	Latitude      float64   `json:"latitude"      db:"latitude"`
	Longitude     float64   `json:"longitude"     db:"longitude"`
	GooglePlaceID string    `json:"googlePlaceId,omitempty" db:"google_place_id"`
	URL           string    `json:"url,omitempty"    db:"url"`
	Notes         string    `json:"notes,omitempty"  db:"notes"`
	Rating        float64   `json:"rating,omitempty" db:"rating"`
	CollectionID  string    `json:"collectionId,omitempty" db:"collection_id"`
	Tags          []Tag     `json:"tags"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt"     db:"updated_at"`
}
