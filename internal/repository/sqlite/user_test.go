package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
)

func TestCreateUser_DuplicateEmailIsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Email: "a@example.com", Name: "A", PasswordHash: "x"}
	if err := db.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	dup := &model.User{Email: "a@example.com", Name: "B", PasswordHash: "y"}
	err := db.CreateUser(ctx, dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created := createTestUser(t, db, "a@example.com")

	found, err := db.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}

	_, err = db.GetUserByEmail(ctx, "missing@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing email: error = %v, want ErrNotFound", err)
	}
}

func TestUpsertGoogleUser_KeepsInternalID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &model.User{Email: "g@example.com", Name: "G", GoogleID: "sub-123"}
	if err := db.UpsertGoogleUser(ctx, first); err != nil {
		t.Fatalf("first UpsertGoogleUser() error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("upsert did not assign an id")
	}

	// Second login with a refreshed profile keeps the same account.
	second := &model.User{Email: "new@example.com", Name: "G Renamed", GoogleID: "sub-123"}
	if err := db.UpsertGoogleUser(ctx, second); err != nil {
		t.Fatalf("second UpsertGoogleUser() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second upsert id = %q, want %q", second.ID, first.ID)
	}

	stored, err := db.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if stored.Email != "new@example.com" || stored.Name != "G Renamed" {
		t.Errorf("stored profile = %q/%q, want refreshed values", stored.Email, stored.Name)
	}
}
