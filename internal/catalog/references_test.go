package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filmorate/backend/internal/models"
	"github.com/filmorate/backend/internal/repositories"
)

type countingDirectory struct {
	Directory
	ratingCalls int
	genreCalls  int
	listCalls   int
}

func (d *countingDirectory) Rating(ctx context.Context, id int) (models.Rating, error) {
	d.ratingCalls++
	return d.Directory.Rating(ctx, id)
}

func (d *countingDirectory) Genre(ctx context.Context, id int) (models.Genre, error) {
	d.genreCalls++
	return d.Directory.Genre(ctx, id)
}

func (d *countingDirectory) Genres(ctx context.Context) ([]models.Genre, error) {
	d.listCalls++
	return d.Directory.Genres(ctx)
}

func TestResolveGenresIsCanonical(t *testing.T) {
	refs := NewReferences(repositories.NewMemoryStore().References)
	ctx := context.Background()

	shuffled, err := refs.ResolveGenres(ctx, []models.Genre{{ID: 3}, {ID: 1}, {ID: 2}, {ID: 1}})
	if err != nil {
		t.Fatalf("resolve shuffled: %v", err)
	}
	ordered, err := refs.ResolveGenres(ctx, []models.Genre{{ID: 1}, {ID: 2}, {ID: 3}})
	if err != nil {
		t.Fatalf("resolve ordered: %v", err)
	}

	if !equalIDs(shuffled, ordered) {
		t.Fatalf("expected same canonical set got %v and %v", shuffled, ordered)
	}
	if !equalIDs(genreIDs(shuffled), []int{1, 2, 3}) {
		t.Fatalf("expected [1 2 3] got %v", genreIDs(shuffled))
	}
	if shuffled[0].Name != "Комедия" {
		t.Fatalf("expected names to be resolved got %+v", shuffled)
	}
}

func TestResolveGenresEmpty(t *testing.T) {
	refs := NewReferences(repositories.NewMemoryStore().References)

	for _, input := range [][]models.Genre{nil, {}} {
		genres, err := refs.ResolveGenres(context.Background(), input)
		if err != nil {
			t.Fatalf("resolve empty: %v", err)
		}
		if genres == nil || len(genres) != 0 {
			t.Fatalf("expected empty non-nil slice got %#v", genres)
		}
	}
}

func TestResolveGenresStopsAtFirstUnknown(t *testing.T) {
	dir := &countingDirectory{Directory: repositories.NewMemoryStore().References}
	refs := NewReferences(dir)

	_, err := refs.ResolveGenres(context.Background(), []models.Genre{{ID: 1}, {ID: 50}, {ID: 60}, {ID: 2}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
	if dir.genreCalls != 2 {
		t.Fatalf("expected resolution to stop at the first unknown id got %d lookups", dir.genreCalls)
	}
}

func TestResolveRating(t *testing.T) {
	refs := NewReferences(repositories.NewMemoryStore().References)

	rating, err := refs.ResolveRating(context.Background(), 3)
	if err != nil {
		t.Fatalf("resolve rating: %v", err)
	}
	if rating.Name != "PG-13" {
		t.Fatalf("expected PG-13 got %q", rating.Name)
	}

	if _, err := refs.ResolveRating(context.Background(), 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestReferenceListings(t *testing.T) {
	refs := NewReferences(repositories.NewMemoryStore().References)
	ctx := context.Background()

	ratings, err := refs.Ratings(ctx)
	if err != nil {
		t.Fatalf("ratings: %v", err)
	}
	if len(ratings) != len(repositories.DefaultRatings) || ratings[0].Name != "G" {
		t.Fatalf("unexpected ratings %+v", ratings)
	}

	genres, err := refs.Genres(ctx)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	if len(genres) != len(repositories.DefaultGenres) || genres[len(genres)-1].Name != "Боевик" {
		t.Fatalf("unexpected genres %+v", genres)
	}
}

func TestCachingDirectory(t *testing.T) {
	base := &countingDirectory{Directory: repositories.NewMemoryStore().References}
	cache := NewCachingDirectory(base, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cache.Rating(ctx, 1); err != nil {
			t.Fatalf("rating: %v", err)
		}
		if _, err := cache.Genres(ctx); err != nil {
			t.Fatalf("genres: %v", err)
		}
	}
	if base.ratingCalls != 1 || base.listCalls != 1 {
		t.Fatalf("expected one base call each got rating=%d list=%d", base.ratingCalls, base.listCalls)
	}

	for i := 0; i < 2; i++ {
		if _, err := cache.Genre(ctx, 99); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found got %v", err)
		}
	}
	if base.genreCalls != 2 {
		t.Fatalf("expected misses not to be cached got %d calls", base.genreCalls)
	}
}

func TestCachingDirectoryExpiry(t *testing.T) {
	base := &countingDirectory{Directory: repositories.NewMemoryStore().References}
	cache := NewCachingDirectory(base, time.Millisecond)

	if _, err := cache.Rating(context.Background(), 2); err != nil {
		t.Fatalf("rating: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := cache.Rating(context.Background(), 2); err != nil {
		t.Fatalf("rating: %v", err)
	}
	if base.ratingCalls != 2 {
		t.Fatalf("expected cache miss after expiry got %d calls", base.ratingCalls)
	}
}

func TestCachingDirectoryDefaultTTL(t *testing.T) {
	cache := NewCachingDirectory(repositories.NewMemoryStore().References, 0)
	if cache.ttl <= 0 {
		t.Fatalf("expected ttl to default positive got %v", cache.ttl)
	}
}
