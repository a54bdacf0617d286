package handlers

import (
	"net/http"
	"strconv"

	"github.com/filmorate/backend/internal/logging"
)

// DefaultPopularCount applies when GET /films/popular omits count.
const DefaultPopularCount = 10

// FilmHandler serves film, like and popularity endpoints.
type FilmHandler struct {
	Films          FilmService
	Likes          LikeService
	PopularDefault int
}

// Create handles POST /films.
func (h FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeFilm(w, r)
	if !ok {
		return
	}

	film, err := h.Films.Create(ctx, req.toModel())
	if err != nil {
		respondCatalogError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, newFilmResponse(film))
}

// Update handles PUT /films.
func (h FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeFilm(w, r)
	if !ok {
		return
	}
	if req.ID <= 0 {
		respondError(ctx, w, http.StatusBadRequest, "id is required")
		return
	}

	film, err := h.Films.Update(ctx, req.toModel())
	if err != nil {
		respondCatalogError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, newFilmResponse(film))
}

// List handles GET /films.
func (h FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	films, err := h.Films.List(ctx)
	if err != nil {
		respondCatalogError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, newFilmResponses(films))
}

// Get handles GET /films/{id}.
func (h FilmHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	film, err := h.Films.Get(r.Context(), ids[0])
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, newFilmResponse(film))
}

// Delete handles DELETE /films/{id}.
func (h FilmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	if err := h.Films.Delete(r.Context(), ids[0]); err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Popular handles GET /films/popular?count=N.
func (h FilmHandler) Popular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count := h.PopularDefault
	if count <= 0 {
		count = DefaultPopularCount
	}
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			logging.FromContext(ctx).Warn("invalid popular count", "count", raw)
			respondError(ctx, w, http.StatusBadRequest, "count must be an integer")
			return
		}
		count = parsed
	}

	films, err := h.Films.Popular(ctx, count)
	if err != nil {
		respondCatalogError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, newFilmResponses(films))
}

// AddLike handles PUT /films/{id}/like/{userId}.
func (h FilmHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}

	if err := h.Likes.Add(r.Context(), ids[0], ids[1]); err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveLike handles DELETE /films/{id}/like/{userId}.
func (h FilmHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "userId")
	if !ok {
		return
	}

	if err := h.Likes.Remove(r.Context(), ids[0], ids[1]); err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h FilmHandler) decodeFilm(w http.ResponseWriter, r *http.Request) (filmRequest, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req filmRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid film payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return filmRequest{}, false
	}
	if err := validatePayload(req); err != nil {
		logger.Warn("film validation failed", "error", err)
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return filmRequest{}, false
	}
	return req, true
}
