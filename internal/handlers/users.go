package handlers

import (
	"net/http"

	"github.com/filmorate/backend/internal/logging"
)

// UserHandler serves user endpoints.
type UserHandler struct {
	Users UserService
}

// Create handles POST /users.
func (h UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeUser(w, r)
	if !ok {
		return
	}

	user, err := h.Users.Create(ctx, req.toModel())
	if err != nil {
		respondCatalogError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, newUserResponse(user))
}

// Update handles PUT /users.
func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeUser(w, r)
	if !ok {
		return
	}
	if req.ID <= 0 {
		respondError(ctx, w, http.StatusBadRequest, "id is required")
		return
	}

	user, err := h.Users.Update(ctx, req.toModel())
	if err != nil {
		respondCatalogError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, newUserResponse(user))
}

// List handles GET /users.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, newUserResponses(users))
}

// Get handles GET /users/{id}.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	user, err := h.Users.Get(r.Context(), ids[0])
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, newUserResponse(user))
}

// Delete handles DELETE /users/{id}.
func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	if err := h.Users.Delete(r.Context(), ids[0]); err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeUser(w http.ResponseWriter, r *http.Request) (userRequest, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid user payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return userRequest{}, false
	}
	if err := validatePayload(req); err != nil {
		logger.Warn("user validation failed", "error", err, "login", req.Login)
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return userRequest{}, false
	}
	return req, true
}
