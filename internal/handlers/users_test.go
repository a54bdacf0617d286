package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestUserCreateDefaultsName(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())

	user := createUser(t, h, "neo")
	if user.ID == 0 || user.Name != "neo" || user.Birthday != "1990-05-01" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.Friends == nil {
		t.Fatalf("expected friends to be an empty list")
	}

	payload := validUser("trinity")
	payload["name"] = "Trinity"
	rec := doRequest(t, h, http.MethodPost, "/users", payload)
	expectStatus(t, rec, http.StatusCreated)
	if got := decodeBody[userResponse](t, rec); got.Name != "Trinity" {
		t.Fatalf("expected explicit name to be kept got %q", got.Name)
	}
}

func TestUserCreateValidation(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	tomorrow := time.Now().UTC().AddDate(0, 0, 2).Format(dateLayout)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing email", func(p map[string]any) { delete(p, "email") }},
		{"malformed email", func(p map[string]any) { p["email"] = "neo.example.com" }},
		{"blank login", func(p map[string]any) { p["login"] = "" }},
		{"login with space", func(p map[string]any) { p["login"] = "the one" }},
		{"future birthday", func(p map[string]any) { p["birthday"] = tomorrow }},
		{"malformed birthday", func(p map[string]any) { p["birthday"] = "yesterday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validUser("neo")
			tt.mutate(payload)
			rec := doRequest(t, h, http.MethodPost, "/users", payload)
			expectStatus(t, rec, http.StatusBadRequest)
			if resp := decodeBody[errorResponse](t, rec); resp.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestUserUpdateGetListDelete(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	user := createUser(t, h, "neo")

	payload := validUser("theone")
	payload["id"] = user.ID
	rec := doRequest(t, h, http.MethodPut, "/users", payload)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[userResponse](t, rec); got.Login != "theone" || got.Name != "theone" {
		t.Fatalf("unexpected updated user %+v", got)
	}

	payload["id"] = 404
	expectStatus(t, doRequest(t, h, http.MethodPut, "/users", payload), http.StatusNotFound)

	path := fmt.Sprintf("/users/%d", user.ID)
	rec = doRequest(t, h, http.MethodGet, path, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[userResponse](t, rec); got.Login != "theone" {
		t.Fatalf("unexpected user %+v", got)
	}

	rec = doRequest(t, h, http.MethodGet, "/users", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[[]userResponse](t, rec); len(got) != 1 {
		t.Fatalf("expected one user got %+v", got)
	}

	expectStatus(t, doRequest(t, h, http.MethodDelete, path, nil), http.StatusNoContent)
	expectStatus(t, doRequest(t, h, http.MethodGet, path, nil), http.StatusNotFound)
}

func TestFriendEndpoints(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	alice := createUser(t, h, "alice")
	bob := createUser(t, h, "bob")
	carol := createUser(t, h, "carol")

	for _, pair := range [][2]int64{{alice.ID, bob.ID}, {alice.ID, carol.ID}, {bob.ID, carol.ID}, {alice.ID, bob.ID}} {
		path := fmt.Sprintf("/users/%d/friends/%d", pair[0], pair[1])
		expectStatus(t, doRequest(t, h, http.MethodPut, path, nil), http.StatusNoContent)
	}

	rec := doRequest(t, h, http.MethodGet, fmt.Sprintf("/users/%d/friends", bob.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	friends := decodeBody[[]userResponse](t, rec)
	if len(friends) != 2 || friends[0].ID != alice.ID || friends[1].ID != carol.ID {
		t.Fatalf("expected alice and carol got %+v", friends)
	}

	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/users/%d/friends/common/%d", alice.ID, bob.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	common := decodeBody[[]userResponse](t, rec)
	if len(common) != 1 || common[0].ID != carol.ID {
		t.Fatalf("expected carol in common got %+v", common)
	}

	path := fmt.Sprintf("/users/%d/friends/%d", bob.ID, alice.ID)
	expectStatus(t, doRequest(t, h, http.MethodDelete, path, nil), http.StatusNoContent)
	expectStatus(t, doRequest(t, h, http.MethodDelete, path, nil), http.StatusNoContent)

	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/users/%d/friends", alice.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[[]userResponse](t, rec); len(got) != 1 || got[0].ID != carol.ID {
		t.Fatalf("expected only carol left got %+v", got)
	}
}

func TestFriendEndpointErrors(t *testing.T) {
	h := newTestRouter(t, newCatalogDeps())
	alice := createUser(t, h, "alice")

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"befriend self", http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, alice.ID), http.StatusBadRequest},
		{"unknown friend", http.MethodPut, fmt.Sprintf("/users/%d/friends/404", alice.ID), http.StatusNotFound},
		{"befriend unknown self", http.MethodPut, "/users/404/friends/404", http.StatusNotFound},
		{"remove unknown friend", http.MethodDelete, fmt.Sprintf("/users/%d/friends/404", alice.ID), http.StatusNotFound},
		{"list unknown user", http.MethodGet, "/users/404/friends", http.StatusNotFound},
		{"common with unknown", http.MethodGet, fmt.Sprintf("/users/%d/friends/common/404", alice.ID), http.StatusNotFound},
		{"malformed id", http.MethodGet, "/users/x/friends", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, doRequest(t, h, tt.method, tt.path, nil), tt.status)
		})
	}
}
