package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ReferenceHandler serves the read-only genre and MPA rating endpoints.
type ReferenceHandler struct {
	References ReferenceService
}

// Genres handles GET /genres.
func (h ReferenceHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.References.Genres(r.Context())
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}

	out := make([]genreResponse, 0, len(genres))
	for _, genre := range genres {
		out = append(out, newGenreResponse(genre))
	}
	respondJSON(r.Context(), w, http.StatusOK, out)
}

// Genre handles GET /genres/{id}.
func (h ReferenceHandler) Genre(w http.ResponseWriter, r *http.Request) {
	id, ok := referenceID(w, r)
	if !ok {
		return
	}

	genre, err := h.References.ResolveGenre(r.Context(), id)
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, newGenreResponse(genre))
}

// Ratings handles GET /mpa.
func (h ReferenceHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.References.Ratings(r.Context())
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}

	out := make([]ratingResponse, 0, len(ratings))
	for _, rating := range ratings {
		out = append(out, newRatingResponse(rating))
	}
	respondJSON(r.Context(), w, http.StatusOK, out)
}

// Rating handles GET /mpa/{id}.
func (h ReferenceHandler) Rating(w http.ResponseWriter, r *http.Request) {
	id, ok := referenceID(w, r)
	if !ok {
		return
	}

	rating, err := h.References.ResolveRating(r.Context(), id)
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, newRatingResponse(rating))
}

func referenceID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(r.Context(), w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
