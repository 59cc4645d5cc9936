package model

import "time"

// DefaultTagColor is assigned to tags created implicitly during import,
// when the source row names a tag the user never styled.
const DefaultTagColor = "#3B82F6"

// Tag is a user-defined label attachable to any number of places.
//
// Name is unique per owner and compared case-sensitively — "Coffee" and
// "coffee" are two different tags. Color is free-form: the UI sends either a
// hex code or an emoji literal and tells them apart by format, so we store a
// plain string and don't validate the shape here.
type Tag struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	Color     string    `json:"color"     db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
