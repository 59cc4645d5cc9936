// Package service contains the business logic layer: validation, ownership
// rules and orchestration, with no knowledge of HTTP or SQL. Handlers sit
// above it, repositories below.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/repository"
)

const (
	MaxPlaceNameLength = 200
	MaxNotesLength     = 10000
)

// PlaceService handles place CRUD and filtered search.
type PlaceService struct {
	places repository.PlaceRepository
	logger *slog.Logger
}

func NewPlaceService(places repository.PlaceRepository, logger *slog.Logger) *PlaceService {
	return &PlaceService{places: places, logger: logger}
}

// Create validates and saves a manually added place.
func (s *PlaceService) Create(ctx context.Context, place *model.Place) (*model.Place, error) {
	place.Name = strings.TrimSpace(place.Name)
	if place.Name == "" {
		return nil, apperror.ValidationFailed("name", "place name is required")
	}
	if len(place.Name) > MaxPlaceNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("place name must be %d characters or less", MaxPlaceNameLength))
	}
	if len(place.Notes) > MaxNotesLength {
		return nil, apperror.ValidationFailed("notes",
			fmt.Sprintf("notes must be %d characters or less", MaxNotesLength))
	}
	if place.Latitude < -90 || place.Latitude > 90 {
		return nil, apperror.ValidationFailed("latitude", "latitude must be between -90 and 90")
	}
	if place.Longitude < -180 || place.Longitude > 180 {
		return nil, apperror.ValidationFailed("longitude", "longitude must be between -180 and 180")
	}
	if place.Rating < 0 || place.Rating > 5 {
		return nil, apperror.ValidationFailed("rating", "rating must be between 0 and 5")
	}

	if err := s.places.CreatePlace(ctx, place); err != nil {
		s.logger.Error("failed to create place",
			slog.String("name", place.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating place: %w", err)
	}

	s.logger.Info("place created",
		slog.String("id", place.ID),
		slog.String("userID", place.UserID),
	)
	return place, nil
}

// GetByID returns one of the user's places, tags hydrated.
func (s *PlaceService) GetByID(ctx context.Context, userID, id string) (*model.Place, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "place ID is required")
	}
	return s.places.GetPlaceByID(ctx, userID, id)
}

// Search returns the user's places matching the filter, newest first. Free
// text is trimmed before matching; a whitespace-only query is the same as no
// text filter. Empty tag ids are dropped rather than matched literally.
func (s *PlaceService) Search(ctx context.Context, userID string, f repository.SearchFilter) ([]model.Place, error) {
	f.Text = strings.TrimSpace(f.Text)

	tagIDs := f.TagIDs[:0]
	for _, id := range f.TagIDs {
		if id = strings.TrimSpace(id); id != "" {
			tagIDs = append(tagIDs, id)
		}
	}
	f.TagIDs = tagIDs

	places, err := s.places.SearchPlaces(ctx, userID, f)
	if err != nil {
		s.logger.Error("search failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("searching places: %w", err)
	}
	return places, nil
}

// Delete removes one place. Memberships go with it; tags and collections
// stay.
func (s *PlaceService) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "place ID is required")
	}
	if err := s.places.DeletePlace(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("place deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

// DeleteAll wipes the user's places, typically before a clean re-import.
func (s *PlaceService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.places.DeleteAllPlaces(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting all places: %w", err)
	}
	s.logger.Info("all places deleted",
		slog.String("userID", userID),
		slog.Int64("count", n),
	)
	return n, nil
}

// Move files the place under a collection, or unfiles it when collectionID
// is empty.
func (s *PlaceService) Move(ctx context.Context, userID, placeID, collectionID string) error {
	if strings.TrimSpace(placeID) == "" {
		return apperror.ValidationFailed("id", "place ID is required")
	}
	return s.places.SetPlaceCollection(ctx, userID, placeID, strings.TrimSpace(collectionID))
}
