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
	MaxCollectionNameLength = 100

	// DefaultCollectionColor is applied when a collection is created without
	// an explicit color.
	DefaultCollectionColor = "#10B981"
)

// CollectionService handles folder-style grouping of places. A place
// belongs to at most one collection.
type CollectionService struct {
	collections repository.CollectionRepository
	logger      *slog.Logger
}

func NewCollectionService(collections repository.CollectionRepository, logger *slog.Logger) *CollectionService {
	return &CollectionService{collections: collections, logger: logger}
}

func (s *CollectionService) Create(ctx context.Context, userID, name, color string) (*model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "collection name is required")
	}
	if len(name) > MaxCollectionNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("collection name must be %d characters or less", MaxCollectionNameLength))
	}
	if color = strings.TrimSpace(color); color == "" {
		color = DefaultCollectionColor
	}

	collection := &model.Collection{UserID: userID, Name: name, Color: color}
	if err := s.collections.CreateCollection(ctx, collection); err != nil {
		s.logger.Error("failed to create collection",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	s.logger.Info("collection created",
		slog.String("id", collection.ID),
		slog.String("name", collection.Name),
	)
	return collection, nil
}

// List returns the user's collections with their live place counts.
func (s *CollectionService) List(ctx context.Context, userID string) ([]model.Collection, error) {
	collections, err := s.collections.ListCollections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return collections, nil
}

// Update renames or recolors a collection. Empty fields keep their current
// value.
func (s *CollectionService) Update(ctx context.Context, userID, id, name, color string) (*model.Collection, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "collection ID is required")
	}

	existing, err := s.findCollection(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > MaxCollectionNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("collection name must be %d characters or less", MaxCollectionNameLength))
		}
		existing.Name = name
	}
	if color = strings.TrimSpace(color); color != "" {
		existing.Color = color
	}

	if err := s.collections.UpdateCollection(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating collection: %w", err)
	}
	return existing, nil
}

// Delete removes a collection. Its places survive, unfiled.
func (s *CollectionService) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "collection ID is required")
	}
	if err := s.collections.DeleteCollection(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("collection deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

func (s *CollectionService) findCollection(ctx context.Context, userID, id string) (*model.Collection, error) {
	collections, err := s.collections.ListCollections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	for i := range collections {
		if collections[i].ID == id {
			return &collections[i], nil
		}
	}
	return nil, apperror.NotFound("collection", id)
}
