package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/repository"
)

func newTestPlaceService(t *testing.T) (*PlaceService, *mockPlaceRepo) {
	t.Helper()
	repo := newMockPlaceRepo()
	return NewPlaceService(repo, testLogger()), repo
}

func TestPlaceCreate_Success(t *testing.T) {
	svc, _ := newTestPlaceService(t)

	place, err := svc.Create(context.Background(), &model.Place{
		UserID:   "u1",
		Name:     "  Blue Bottle  ",
		Latitude: 37.77,
	})
	requireNoError(t, err, "Create()")

	if place.ID == "" {
		t.Error("expected place to have an ID")
	}
	if place.Name != "Blue Bottle" {
		t.Errorf("Name = %q, want trimmed", place.Name)
	}
}

func TestPlaceCreate_Validation(t *testing.T) {
	svc, _ := newTestPlaceService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		place *model.Place
	}{
		{"empty name", &model.Place{UserID: "u1", Name: "   "}},
		{"latitude out of range", &model.Place{UserID: "u1", Name: "X", Latitude: 91}},
		{"longitude out of range", &model.Place{UserID: "u1", Name: "X", Longitude: -181}},
		{"rating out of range", &model.Place{UserID: "u1", Name: "X", Rating: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.place)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSearch_TrimsTextAndDropsEmptyTagIDs(t *testing.T) {
	svc, repo := newTestPlaceService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.Place{UserID: "u1", Name: "Blue Bottle"})
	requireNoError(t, err, "Create()")

	// The mock matches on name only; what matters here is that the service
	// normalized the filter before handing it down.
	places, err := svc.Search(ctx, "u1", repository.SearchFilter{
		Text:   "  blue  ",
		TagIDs: []string{" ", "", "t1"},
	})
	requireNoError(t, err, "Search()")
	if len(places) != 1 {
		t.Errorf("got %d places, want 1 (text should be trimmed before matching)", len(places))
	}
	_ = repo
}

func TestSearch_PropagatesUnavailable(t *testing.T) {
	svc, repo := newTestPlaceService(t)
	repo.err = apperror.Unavailable(errors.New("disk gone"))

	_, err := svc.Search(context.Background(), "u1", repository.SearchFilter{})
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("Search() error = %v, want ErrUnavailable preserved through wrapping", err)
	}
}

func TestPlaceDelete_EmptyID(t *testing.T) {
	svc, _ := newTestPlaceService(t)

	err := svc.Delete(context.Background(), "u1", "  ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Delete() error = %v, want ErrValidation", err)
	}
}

func TestDeleteAll_ReportsCount(t *testing.T) {
	svc, _ := newTestPlaceService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, &model.Place{UserID: "u1", Name: name})
		requireNoError(t, err, "Create()")
	}
	_, err := svc.Create(ctx, &model.Place{UserID: "u2", Name: "Other"})
	requireNoError(t, err, "Create()")

	n, err := svc.DeleteAll(ctx, "u1")
	requireNoError(t, err, "DeleteAll()")
	if n != 3 {
		t.Errorf("DeleteAll() = %d, want 3", n)
	}
}

func TestMove_Unfiles(t *testing.T) {
	svc, repo := newTestPlaceService(t)
	ctx := context.Background()

	place, err := svc.Create(ctx, &model.Place{UserID: "u1", Name: "Cafe"})
	requireNoError(t, err, "Create()")

	requireNoError(t, svc.Move(ctx, "u1", place.ID, "coll-1"), "Move() into collection")
	if repo.places[place.ID].CollectionID != "coll-1" {
		t.Errorf("CollectionID = %q, want coll-1", repo.places[place.ID].CollectionID)
	}

	requireNoError(t, svc.Move(ctx, "u1", place.ID, ""), "Move() out of collection")
	if repo.places[place.ID].CollectionID != "" {
		t.Errorf("CollectionID = %q, want empty after unfiling", repo.places[place.ID].CollectionID)
	}
}
