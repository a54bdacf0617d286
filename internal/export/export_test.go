package export

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/filmorate/backend/internal/catalog"
	"github.com/filmorate/backend/internal/models"
	"github.com/filmorate/backend/internal/repositories"
)

type fakeUploader struct {
	key  string
	body []byte
	err  error
}

func (u *fakeUploader) Save(_ context.Context, key string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.key = key
	u.body = body
	return "memory://" + key, nil
}

func newSeededCatalog(t *testing.T) (*catalog.Catalog, models.Film, models.User, models.User) {
	t.Helper()

	store := repositories.NewMemoryStore()
	c := catalog.New(catalog.Stores{
		Films:      store.Films,
		Users:      store.Users,
		Friends:    store.Friends,
		Likes:      store.Likes,
		References: store.References,
	})
	ctx := context.Background()

	alice, err := c.Users.Create(ctx, models.User{Email: "alice@example.com", Login: "alice", Birthday: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := c.Users.Create(ctx, models.User{Email: "bob@example.com", Login: "bob", Name: "Bob", Birthday: time.Date(1985, 3, 4, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	film, err := c.Films.Create(ctx, models.Film{
		Name:        "Heat",
		Description: "Crime epic",
		ReleaseDate: time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC),
		Duration:    170,
		MPA:         models.Rating{ID: 4},
		Genres:      []models.Genre{{ID: 6}, {ID: 2}},
	})
	if err != nil {
		t.Fatalf("create film: %v", err)
	}
	if err := c.Friends.Add(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if err := c.Likes.Add(ctx, film.ID, bob.ID); err != nil {
		t.Fatalf("add like: %v", err)
	}
	return c, film, alice, bob
}

func TestBuild(t *testing.T) {
	c, film, alice, bob := newSeededCatalog(t)
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("UTC+3", 3*3600))

	snap, err := Build(context.Background(), c, now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !snap.GeneratedAt.Equal(now) || snap.GeneratedAt.Location() != time.UTC {
		t.Fatalf("expected generation time in UTC got %v", snap.GeneratedAt)
	}
	if len(snap.Ratings) != 5 || len(snap.Genres) != 6 {
		t.Fatalf("expected all reference data got %d ratings %d genres", len(snap.Ratings), len(snap.Genres))
	}
	if len(snap.Films) != 1 {
		t.Fatalf("expected one film got %+v", snap.Films)
	}
	got := snap.Films[0]
	if got.ID != film.ID || got.ReleaseDate != "1995-12-15" || got.MPA.Name != "R" {
		t.Fatalf("unexpected film %+v", got)
	}
	if len(got.Genres) != 2 || got.Genres[0].ID != 2 || got.Genres[1].ID != 6 {
		t.Fatalf("expected sorted genres got %+v", got.Genres)
	}
	if len(got.Likes) != 1 || got.Likes[0] != bob.ID {
		t.Fatalf("expected like from bob got %v", got.Likes)
	}

	if len(snap.Users) != 2 {
		t.Fatalf("expected two users got %+v", snap.Users)
	}
	if snap.Users[0].ID != alice.ID || snap.Users[0].Name != "alice" || snap.Users[0].Birthday != "1990-01-02" {
		t.Fatalf("unexpected first user %+v", snap.Users[0])
	}
	if len(snap.Users[1].Friends) != 1 || snap.Users[1].Friends[0] != alice.ID {
		t.Fatalf("expected bob to list alice got %v", snap.Users[1].Friends)
	}
}

func TestPublish(t *testing.T) {
	c, _, _, _ := newSeededCatalog(t)
	uploader := &fakeUploader{}
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	key := DefaultKey(now)
	if key != "exports/catalog-20240506T070809Z.json" {
		t.Fatalf("unexpected default key %q", key)
	}

	location, err := Publish(context.Background(), c, uploader, key, now)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if location != "memory://"+key || uploader.key != key {
		t.Fatalf("unexpected location %q for key %q", location, uploader.key)
	}

	var snap Snapshot
	if err := json.Unmarshal(uploader.body, &snap); err != nil {
		t.Fatalf("decode uploaded snapshot: %v", err)
	}
	if len(snap.Films) != 1 || len(snap.Users) != 2 {
		t.Fatalf("unexpected uploaded snapshot %+v", snap)
	}
}

func TestPublishUploadFailure(t *testing.T) {
	c, _, _, _ := newSeededCatalog(t)
	uploadErr := errors.New("bucket unavailable")

	_, err := Publish(context.Background(), c, &fakeUploader{err: uploadErr}, "exports/x.json", time.Now())
	if !errors.Is(err, uploadErr) {
		t.Fatalf("expected upload error got %v", err)
	}
}
