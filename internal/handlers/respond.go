package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/filmorate/backend/internal/catalog"
	"github.com/filmorate/backend/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, errorResponse{Error: message})
}

// respondCatalogError maps catalog failures onto HTTP statuses. Internal
// failures are logged with their cause and reported generically.
func respondCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(ctx, w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrConflict):
		respondError(ctx, w, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrValidation):
		respondError(ctx, w, http.StatusBadRequest, err.Error())
	default:
		logging.FromContext(ctx).Error("catalog operation failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return id, nil
}

// pathIDs parses every named path parameter, responding with 400 and
// returning false on the first invalid one.
func pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := pathID(r, name)
		if err != nil {
			respondError(r.Context(), w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
