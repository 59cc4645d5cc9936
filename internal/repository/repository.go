// Package repository defines the storage interfaces the rest of the
// application programs against. The sqlite subpackage provides the real
// implementation; service tests substitute in-memory mocks.
//
// Every method is scoped by userID — cross-user data is never reachable
// through this boundary.
package repository

import (
	"context"

	"github.com/mhasan/pinpoint/internal/model"
)

// SearchFilter describes one filtered place retrieval. Zero-value fields
// impose no filtering; all provided predicates combine with AND.
type SearchFilter struct {
	// Text, when non-empty after trimming, requires a case-insensitive
	// substring match on name OR address OR notes.
	Text string
	// TagIDs, when non-empty, requires the place's tag set to intersect it
	// (OR across the provided tags — one match suffices).
	TagIDs []string
	// CollectionID, when non-empty, restricts to that collection exactly.
	CollectionID string
	// Unassigned restricts to places with no collection. Mutually exclusive
	// with CollectionID; when both are set, Unassigned wins.
	Unassigned bool
}

type PlaceRepository interface {
	CreatePlace(ctx context.Context, place *model.Place) error
	GetPlaceByID(ctx context.Context, userID, id string) (*model.Place, error)
	// SearchPlaces returns the user's places matching the filter, newest
	// first, with Tags hydrated. An empty filter returns all of them.
	SearchPlaces(ctx context.Context, userID string, f SearchFilter) ([]model.Place, error)
	DeletePlace(ctx context.Context, userID, id string) error
	// DeleteAllPlaces removes every place owned by the user and reports how
	// many were removed.
	DeleteAllPlaces(ctx context.Context, userID string) (int64, error)
	// SetPlaceCollection moves a place into a collection, or out of any
	// collection when collectionID is empty.
	SetPlaceCollection(ctx context.Context, userID, placeID, collectionID string) error
}

type TagRepository interface {
	// CreateTag inserts an explicitly created tag. A duplicate (user, name)
	// pair is a conflict.
	CreateTag(ctx context.Context, tag *model.Tag) error
	// FindOrCreateTag returns the id of the user's tag with the given name,
	// creating it with the given color if absent. The insert-if-absent is
	// atomic: concurrent calls for the same (user, name) converge on one row.
	FindOrCreateTag(ctx context.Context, userID, name, color string) (string, error)
	ListTags(ctx context.Context, userID string) ([]model.Tag, error)
	DeleteTag(ctx context.Context, userID, id string) error
	// AttachTag links a tag to a place after verifying the user owns both.
	// Re-attaching an existing link is a no-op.
	AttachTag(ctx context.Context, userID, placeID, tagID string) error
	DetachTag(ctx context.Context, userID, placeID, tagID string) error
}

type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection *model.Collection) error
	// ListCollections returns the user's collections with PlaceCount computed.
	ListCollections(ctx context.Context, userID string) ([]model.Collection, error)
	UpdateCollection(ctx context.Context, collection *model.Collection) error
	// DeleteCollection unfiles the collection's places, then removes the
	// collection. The places survive, unassigned.
	DeleteCollection(ctx context.Context, userID, id string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertGoogleUser finds-or-creates an account keyed by Google subject id,
	// refreshing name/email on every login.
	UpsertGoogleUser(ctx context.Context, user *model.User) error
}
