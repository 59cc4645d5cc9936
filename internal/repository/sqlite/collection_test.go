package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
)

func TestListCollections_ComputesPlaceCount(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	ctx := context.Background()

	full := createTestCollection(t, db, user.ID, "Tokyo")
	empty := createTestCollection(t, db, user.ID, "Someday")

	for _, name := range []string{"One", "Two", "Three"} {
		p := createTestPlace(t, db, user.ID, name)
		if err := db.SetPlaceCollection(ctx, user.ID, p.ID, full.ID); err != nil {
			t.Fatalf("SetPlaceCollection() error = %v", err)
		}
	}

	collections, err := db.ListCollections(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if len(collections) != 2 {
		t.Fatalf("got %d collections, want 2", len(collections))
	}

	counts := map[string]int{}
	for _, c := range collections {
		counts[c.ID] = c.PlaceCount
	}
	if counts[full.ID] != 3 {
		t.Errorf("full collection count = %d, want 3", counts[full.ID])
	}
	if counts[empty.ID] != 0 {
		t.Errorf("empty collection count = %d, want 0", counts[empty.ID])
	}
}

func TestDeleteCollection_UnfilesPlaces(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	ctx := context.Background()

	coll := createTestCollection(t, db, user.ID, "Tokyo")

	placeIDs := make([]string, 0, 3)
	for _, name := range []string{"One", "Two", "Three"} {
		p := createTestPlace(t, db, user.ID, name)
		if err := db.SetPlaceCollection(ctx, user.ID, p.ID, coll.ID); err != nil {
			t.Fatalf("SetPlaceCollection() error = %v", err)
		}
		placeIDs = append(placeIDs, p.ID)
	}

	if err := db.DeleteCollection(ctx, user.ID, coll.ID); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}

	// The places survive, unassigned — deletion never cascades to them.
	for _, id := range placeIDs {
		p, err := db.GetPlaceByID(ctx, user.ID, id)
		if err != nil {
			t.Fatalf("place %s gone after collection delete: %v", id, err)
		}
		if p.CollectionID != "" {
			t.Errorf("place %s still filed under %q", id, p.CollectionID)
		}
	}

	// The collection itself is gone from listings.
	collections, _ := db.ListCollections(ctx, user.ID)
	if len(collections) != 0 {
		t.Errorf("got %d collections after delete, want 0", len(collections))
	}
}

func TestDeleteCollection_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")

	err := db.DeleteCollection(context.Background(), user.ID, "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeleteCollection() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateCollection(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	ctx := context.Background()

	coll := createTestCollection(t, db, user.ID, "Tokyo")
	coll.Name = "Tokyo 2026"
	coll.Color = "🗼"

	if err := db.UpdateCollection(ctx, coll); err != nil {
		t.Fatalf("UpdateCollection() error = %v", err)
	}

	collections, _ := db.ListCollections(ctx, user.ID)
	if len(collections) != 1 || collections[0].Name != "Tokyo 2026" || collections[0].Color != "🗼" {
		t.Errorf("collections = %+v, want renamed Tokyo 2026", collections)
	}
}

func TestUpdateCollection_CrossUserIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	coll := createTestCollection(t, db, alice.ID, "Tokyo")
	coll.UserID = bob.ID
	coll.Name = "Hijacked"

	err := db.UpdateCollection(context.Background(), coll)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("cross-user update: error = %v, want ErrNotFound", err)
	}
}

func TestCreateCollection_DefaultsApplied(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")

	c := &model.Collection{UserID: user.ID, Name: "Weekend", Color: "#FF8800"}
	if err := db.CreateCollection(context.Background(), c); err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Error("CreateCollection() did not fill id/createdAt")
	}
}
