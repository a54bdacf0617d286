package handlers

import "net/http"

// FriendHandler provides friendship mutation and listing endpoints.
type FriendHandler struct {
	Friends FriendService
}

// Add handles PUT /users/{id}/friends/{friendId}.
func (h FriendHandler) Add(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}

	if err := h.Friends.Add(r.Context(), ids[0], ids[1]); err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /users/{id}/friends/{friendId}.
func (h FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "friendId")
	if !ok {
		return
	}

	if err := h.Friends.Remove(r.Context(), ids[0], ids[1]); err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /users/{id}/friends.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id")
	if !ok {
		return
	}

	users, err := h.Friends.List(r.Context(), ids[0])
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, newUserResponses(users))
}

// Common handles GET /users/{id}/friends/common/{otherId}.
func (h FriendHandler) Common(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathIDs(w, r, "id", "otherId")
	if !ok {
		return
	}

	users, err := h.Friends.Common(r.Context(), ids[0], ids[1])
	if err != nil {
		respondCatalogError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, newUserResponses(users))
}
