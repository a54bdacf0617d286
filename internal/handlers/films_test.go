package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/filmorate/backend/internal/models"
)

type failingFilmService struct {
	FilmService
	err error
}

func (s failingFilmService) List(context.Context) ([]models.Film, error) {
	return nil, s.err
}

func (s failingFilmService) Popular(context.Context, int) ([]models.Film, error) {
	return nil, s.err
}

type recordingFilmService struct {
	FilmService
	limit int
}

func (s *recordingFilmService) Popular(_ context.Context, limit int) ([]models.Film, error) {
	s.limit = limit
	return []models.Film{}, nil
}

func TestFilmCreate(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())

	payload := validFilm()
	payload["genres"] = []map[string]int{{"id": 6}, {"id": 2}, {"id": 6}}
	rec := doRequest(t, h, http.MethodPost, "/films", payload)
	expectStatus(t, rec, http.StatusCreated)

	film := decodeBody[filmResponse](t, rec)
	if film.ID == 0 || film.Name != "Heat" || film.ReleaseDate != "1995-12-15" {
		t.Fatalf("unexpected film %+v", film)
	}
	if film.MPA.ID != 4 || film.MPA.Name != "R" {
		t.Fatalf("expected mpa R got %+v", film.MPA)
	}
	if len(film.Genres) != 2 || film.Genres[0].ID != 2 || film.Genres[1].ID != 6 {
		t.Fatalf("expected genres [2 6] got %+v", film.Genres)
	}
	if film.Likes == nil {
		t.Fatalf("expected likes to be an empty list")
	}
}

func TestFilmCreateValidation(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())

	tests := []struct {
		name   string
		mutate func(map[string]any)
		status int
	}{
		{"blank name", func(p map[string]any) { p["name"] = "  " }, http.StatusBadRequest},
		{"description too long", func(p map[string]any) { p["description"] = strings.Repeat("ё", 201) }, http.StatusBadRequest},
		{"release on cinema birthday", func(p map[string]any) { p["releaseDate"] = "1895-12-28" }, http.StatusBadRequest},
		{"malformed release date", func(p map[string]any) { p["releaseDate"] = "15.12.1995" }, http.StatusBadRequest},
		{"zero duration", func(p map[string]any) { p["duration"] = 0 }, http.StatusBadRequest},
		{"missing mpa", func(p map[string]any) { delete(p, "mpa") }, http.StatusBadRequest},
		{"unknown mpa", func(p map[string]any) { p["mpa"] = map[string]int{"id": 42} }, http.StatusNotFound},
		{"unknown genre", func(p map[string]any) { p["genres"] = []map[string]int{{"id": 1}, {"id": 99}} }, http.StatusNotFound},
		{"day after cinema birthday", func(p map[string]any) { p["releaseDate"] = "1895-12-29" }, http.StatusCreated},
		{"description at limit", func(p map[string]any) { p["description"] = strings.Repeat("a", 200) }, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validFilm()
			tt.mutate(payload)
			rec := doRequest(t, h, http.MethodPost, "/films", payload)
			expectStatus(t, rec, tt.status)
			if tt.status >= http.StatusBadRequest {
				if resp := decodeBody[errorResponse](t, rec); resp.Error == "" {
					t.Fatalf("expected error message")
				}
			}
		})
	}
}

func TestFilmCreateInvalidBody(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())

	rec := doRequest(t, h, http.MethodPost, "/films", "{not json")
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestFilmUpdate(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	film := createFilm(t, h, "Heat")

	payload := validFilm()
	payload["id"] = film.ID
	payload["name"] = "Heat 2"
	payload["mpa"] = map[string]int{"id": 3}
	rec := doRequest(t, h, http.MethodPut, "/films", payload)
	expectStatus(t, rec, http.StatusOK)

	updated := decodeBody[filmResponse](t, rec)
	if updated.ID != film.ID || updated.Name != "Heat 2" || updated.MPA.Name != "PG-13" {
		t.Fatalf("unexpected updated film %+v", updated)
	}

	payload["id"] = 9999
	rec = doRequest(t, h, http.MethodPut, "/films", payload)
	expectStatus(t, rec, http.StatusNotFound)

	delete(payload, "id")
	rec = doRequest(t, h, http.MethodPut, "/films", payload)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestFilmGetAndDelete(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	film := createFilm(t, h, "Heat")
	path := fmt.Sprintf("/films/%d", film.ID)

	rec := doRequest(t, h, http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[filmResponse](t, rec); got.ID != film.ID {
		t.Fatalf("expected film %d got %+v", film.ID, got)
	}

	expectStatus(t, doRequest(t, h, http.MethodGet, "/films/abc", nil), http.StatusBadRequest)
	expectStatus(t, doRequest(t, h, http.MethodGet, "/films/777", nil), http.StatusNotFound)

	expectStatus(t, doRequest(t, h, http.MethodDelete, path, nil), http.StatusNoContent)
	expectStatus(t, doRequest(t, h, http.MethodGet, path, nil), http.StatusNotFound)
	expectStatus(t, doRequest(t, h, http.MethodDelete, path, nil), http.StatusNotFound)
}

func TestFilmLikes(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	film := createFilm(t, h, "Heat")
	user := createUser(t, h, "alice")
	path := fmt.Sprintf("/films/%d/like/%d", film.ID, user.ID)

	expectStatus(t, doRequest(t, h, http.MethodDelete, path, nil), http.StatusNotFound)
	expectStatus(t, doRequest(t, h, http.MethodPut, path, nil), http.StatusNoContent)
	expectStatus(t, doRequest(t, h, http.MethodPut, path, nil), http.StatusConflict)

	rec := doRequest(t, h, http.MethodGet, fmt.Sprintf("/films/%d", film.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[filmResponse](t, rec); len(got.Likes) != 1 || got.Likes[0] != user.ID {
		t.Fatalf("expected like from %d got %v", user.ID, got.Likes)
	}

	expectStatus(t, doRequest(t, h, http.MethodDelete, path, nil), http.StatusNoContent)
	expectStatus(t, doRequest(t, h, http.MethodPut, fmt.Sprintf("/films/%d/like/404", film.ID), nil), http.StatusNotFound)
	expectStatus(t, doRequest(t, h, http.MethodPut, fmt.Sprintf("/films/%d/like/-1", film.ID), nil), http.StatusBadRequest)
}

func TestFilmPopular(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	quiet := createFilm(t, h, "quiet")
	loved := createFilm(t, h, "loved")
	for _, login := range []string{"alice", "bob"} {
		user := createUser(t, h, login)
		expectStatus(t, doRequest(t, h, http.MethodPut, fmt.Sprintf("/films/%d/like/%d", loved.ID, user.ID), nil), http.StatusNoContent)
	}

	rec := doRequest(t, h, http.MethodGet, "/films/popular", nil)
	expectStatus(t, rec, http.StatusOK)
	films := decodeBody[[]filmResponse](t, rec)
	if len(films) != 2 || films[0].ID != loved.ID || films[1].ID != quiet.ID {
		t.Fatalf("expected loved then quiet got %+v", films)
	}

	rec = doRequest(t, h, http.MethodGet, "/films/popular?count=1", nil)
	expectStatus(t, rec, http.StatusOK)
	if films := decodeBody[[]filmResponse](t, rec); len(films) != 1 || films[0].ID != loved.ID {
		t.Fatalf("expected only loved got %+v", films)
	}

	rec = doRequest(t, h, http.MethodGet, "/films/popular?count=0", nil)
	expectStatus(t, rec, http.StatusOK)
	if films := decodeBody[[]filmResponse](t, rec); len(films) != 0 {
		t.Fatalf("expected no films got %+v", films)
	}

	expectStatus(t, doRequest(t, h, http.MethodGet, "/films/popular?count=many", nil), http.StatusBadRequest)
}

func TestFilmPopularDefaultCount(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		want       int
	}{
		{name: "unset", configured: 0, want: DefaultPopularCount},
		{name: "configured", configured: 3, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			films := &recordingFilmService{}
			h := newTestRouter(t, Dependencies{Films: films, PopularDefault: tt.configured})

			expectStatus(t, doRequest(t, h, http.MethodGet, "/films/popular", nil), http.StatusOK)
			if films.limit != tt.want {
				t.Fatalf("expected limit %d got %d", tt.want, films.limit)
			}
		})
	}
}

func TestFilmServiceFailure(t *testing.T) {
	h := newTestRouter(t, Dependencies{Films: failingFilmService{err: errors.New("database unavailable")}})

	for _, path := range []string{"/films", "/films/popular"} {
		rec := doRequest(t, h, http.MethodGet, path, nil)
		expectStatus(t, rec, http.StatusInternalServerError)
		if resp := decodeBody[errorResponse](t, rec); strings.Contains(resp.Error, "database") {
			t.Fatalf("expected internal details to be hidden got %q", resp.Error)
		}
	}
}
