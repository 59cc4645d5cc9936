package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mhasan/pinpoint/internal/apperror"
	"github.com/mhasan/pinpoint/internal/model"
	"github.com/mhasan/pinpoint/internal/repository"
)

// In-memory stand-ins for the repository interfaces. The services don't
// know which implementation they get, so these exercise the exact same code
// paths as the sqlite package without any disk I/O.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- places ---

type mockPlaceRepo struct {
	places map[string]*model.Place
	nextID int
	err    error // when set, every method fails with it
}

func newMockPlaceRepo() *mockPlaceRepo {
	return &mockPlaceRepo{places: make(map[string]*model.Place)}
}

func (m *mockPlaceRepo) CreatePlace(_ context.Context, place *model.Place) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	place.ID = fmt.Sprintf("place-%d", m.nextID)
	stored := *place
	m.places[place.ID] = &stored
	return nil
}

func (m *mockPlaceRepo) GetPlaceByID(_ context.Context, userID, id string) (*model.Place, error) {
	if m.err != nil {
		return nil, m.err
	}
	place, ok := m.places[id]
	if !ok || place.UserID != userID {
		return nil, apperror.NotFound("place", id)
	}
	result := *place
	return &result, nil
}

func (m *mockPlaceRepo) SearchPlaces(_ context.Context, userID string, f repository.SearchFilter) ([]model.Place, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []model.Place{}
	for _, p := range m.places {
		if p.UserID != userID {
			continue
		}
		if f.Text != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Text)) {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPlaceRepo) DeletePlace(_ context.Context, userID, id string) error {
	if m.err != nil {
		return m.err
	}
	place, ok := m.places[id]
	if !ok || place.UserID != userID {
		return apperror.NotFound("place", id)
	}
	delete(m.places, id)
	return nil
}

func (m *mockPlaceRepo) DeleteAllPlaces(_ context.Context, userID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for id, p := range m.places {
		if p.UserID == userID {
			delete(m.places, id)
			n++
		}
	}
	return n, nil
}

func (m *mockPlaceRepo) SetPlaceCollection(_ context.Context, userID, placeID, collectionID string) error {
	if m.err != nil {
		return m.err
	}
	place, ok := m.places[placeID]
	if !ok || place.UserID != userID {
		return apperror.NotFound("place", placeID)
	}
	place.CollectionID = collectionID
	return nil
}

// --- tags ---

type mockTagRepo struct {
	tags   map[string]*model.Tag
	nextID int
}

func newMockTagRepo() *mockTagRepo {
	return &mockTagRepo{tags: make(map[string]*model.Tag)}
}

func (m *mockTagRepo) CreateTag(_ context.Context, tag *model.Tag) error {
	for _, t := range m.tags {
		if t.UserID == tag.UserID && t.Name == tag.Name {
			return apperror.Conflict("tag", tag.Name)
		}
	}
	m.nextID++
	tag.ID = fmt.Sprintf("tag-%d", m.nextID)
	stored := *tag
	m.tags[tag.ID] = &stored
	return nil
}

func (m *mockTagRepo) FindOrCreateTag(ctx context.Context, userID, name, color string) (string, error) {
	for id, t := range m.tags {
		if t.UserID == userID && t.Name == name {
			return id, nil
		}
	}
	tag := &model.Tag{UserID: userID, Name: name, Color: color}
	if err := m.CreateTag(ctx, tag); err != nil {
		return "", err
	}
	return tag.ID, nil
}

func (m *mockTagRepo) ListTags(_ context.Context, userID string) ([]model.Tag, error) {
	result := []model.Tag{}
	for _, t := range m.tags {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTagRepo) DeleteTag(_ context.Context, userID, id string) error {
	tag, ok := m.tags[id]
	if !ok || tag.UserID != userID {
		return apperror.NotFound("tag", id)
	}
	delete(m.tags, id)
	return nil
}

func (m *mockTagRepo) AttachTag(_ context.Context, _, _, _ string) error { return nil }
func (m *mockTagRepo) DetachTag(_ context.Context, _, _, _ string) error { return nil }

// --- collections ---

type mockCollectionRepo struct {
	collections map[string]*model.Collection
	nextID      int
}

func newMockCollectionRepo() *mockCollectionRepo {
	return &mockCollectionRepo{collections: make(map[string]*model.Collection)}
}

func (m *mockCollectionRepo) CreateCollection(_ context.Context, c *model.Collection) error {
	m.nextID++
	c.ID = fmt.Sprintf("coll-%d", m.nextID)
	stored := *c
	m.collections[c.ID] = &stored
	return nil
}

func (m *mockCollectionRepo) ListCollections(_ context.Context, userID string) ([]model.Collection, error) {
	result := []model.Collection{}
	for _, c := range m.collections {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCollectionRepo) UpdateCollection(_ context.Context, c *model.Collection) error {
	existing, ok := m.collections[c.ID]
	if !ok || existing.UserID != c.UserID {
		return apperror.NotFound("collection", c.ID)
	}
	stored := *c
	m.collections[c.ID] = &stored
	return nil
}

func (m *mockCollectionRepo) DeleteCollection(_ context.Context, userID, id string) error {
	c, ok := m.collections[id]
	if !ok || c.UserID != userID {
		return apperror.NotFound("collection", id)
	}
	delete(m.collections, id)
	return nil
}

// --- users ---

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) UpsertGoogleUser(_ context.Context, user *model.User) error {
	for id, u := range m.users {
		if u.GoogleID == user.GoogleID {
			user.ID = id
			u.Email = user.Email
			u.Name = user.Name
			return nil
		}
	}
	return m.CreateUser(context.Background(), user)
}

var (
	_ repository.PlaceRepository      = (*mockPlaceRepo)(nil)
	_ repository.TagRepository        = (*mockTagRepo)(nil)
	_ repository.CollectionRepository = (*mockCollectionRepo)(nil)
	_ repository.UserRepository       = (*mockUserRepo)(nil)
)

func requireNoError(t *testing.T, err error, what string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
}
