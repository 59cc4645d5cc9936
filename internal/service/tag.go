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

const MaxTagNameLength = 50

// TagService handles tag management and name resolution. Tag names are
// case-sensitive: "Coffee" and "coffee" are distinct tags.
type TagService struct {
	tags   repository.TagRepository
	logger *slog.Logger
}

func NewTagService(tags repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{tags: tags, logger: logger}
}

// Resolve maps a tag name to its id, creating the tag with the default
// color when it doesn't exist yet. Safe under concurrent calls for the same
// name; every caller gets the same id. The import pipeline resolves every
// tag it encounters through here.
func (s *TagService) Resolve(ctx context.Context, userID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", "tag name is required")
	}
	if len(name) > MaxTagNameLength {
		return "", apperror.ValidationFailed("name",
			fmt.Sprintf("tag name must be %d characters or less", MaxTagNameLength))
	}

	id, err := s.tags.FindOrCreateTag(ctx, userID, name, model.DefaultTagColor)
	if err != nil {
		return "", fmt.Errorf("resolving tag %q: %w", name, err)
	}
	return id, nil
}

// Create adds a tag explicitly, with a caller-chosen color. Unlike Resolve,
// a name that already exists is a conflict here.
func (s *TagService) Create(ctx context.Context, userID, name, color string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name is required")
	}
	if len(name) > MaxTagNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("tag name must be %d characters or less", MaxTagNameLength))
	}
	if color = strings.TrimSpace(color); color == "" {
		color = model.DefaultTagColor
	}

	tag := &model.Tag{UserID: userID, Name: name, Color: color}
	if err := s.tags.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created",
		slog.String("id", tag.ID),
		slog.String("name", tag.Name),
	)
	return tag, nil
}

// List returns the user's tags, newest first.
func (s *TagService) List(ctx context.Context, userID string) ([]model.Tag, error) {
	tags, err := s.tags.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// Delete removes a tag and its place memberships.
func (s *TagService) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "tag ID is required")
	}
	if err := s.tags.DeleteTag(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("tag deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

// Attach links a tag to a place. Attaching an already-attached tag is a
// no-op.
func (s *TagService) Attach(ctx context.Context, userID, placeID, tagID string) error {
	if strings.TrimSpace(placeID) == "" || strings.TrimSpace(tagID) == "" {
		return apperror.ValidationFailed("id", "place ID and tag ID are required")
	}
	return s.tags.AttachTag(ctx, userID, placeID, tagID)
}

// Detach unlinks a tag from a place. Detaching a link that doesn't exist is
// a no-op.
func (s *TagService) Detach(ctx context.Context, userID, placeID, tagID string) error {
	if strings.TrimSpace(placeID) == "" || strings.TrimSpace(tagID) == "" {
		return apperror.ValidationFailed("id", "place ID and tag ID are required")
	}
	return s.tags.DetachTag(ctx, userID, placeID, tagID)
}
