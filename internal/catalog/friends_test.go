package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestFriendsAddIsIdempotentAndSymmetric(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	a := mustCreateUser(t, c, "alice")
	b := mustCreateUser(t, c, "bob")

	for i := 0; i < 2; i++ {
		if err := c.Friends.Add(ctx, a.ID, b.ID); err != nil {
			t.Fatalf("add friend (attempt %d): %v", i+1, err)
		}
	}

	ofA, err := c.Friends.IDs(ctx, a.ID)
	if err != nil {
		t.Fatalf("friends of a: %v", err)
	}
	if !equalIDs(ofA, []int64{b.ID}) {
		t.Fatalf("expected a's friends [%d] got %v", b.ID, ofA)
	}

	ofB, err := c.Friends.IDs(ctx, b.ID)
	if err != nil {
		t.Fatalf("friends of b: %v", err)
	}
	if !equalIDs(ofB, []int64{a.ID}) {
		t.Fatalf("expected b's friends [%d] got %v", a.ID, ofB)
	}
}

func TestFriendsRemoveClearsBothDirections(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	a := mustCreateUser(t, c, "alice")
	b := mustCreateUser(t, c, "bob")

	if err := c.Friends.Add(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if err := c.Friends.Remove(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("remove friend: %v", err)
	}

	for _, id := range []int64{a.ID, b.ID} {
		ids, err := c.Friends.IDs(ctx, id)
		if err != nil {
			t.Fatalf("friends of %d: %v", id, err)
		}
		if ids == nil || len(ids) != 0 {
			t.Fatalf("expected empty non-nil friends for %d got %#v", id, ids)
		}
	}

	if err := c.Friends.Remove(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("expected removing a missing friendship to be a no-op got %v", err)
	}
}

func TestFriendsUnknownUsers(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	a := mustCreateUser(t, c, "alice")

	tests := []struct {
		name string
		call func() error
	}{
		{"add unknown friend", func() error { return c.Friends.Add(ctx, a.ID, 99) }},
		{"add from unknown user", func() error { return c.Friends.Add(ctx, 99, a.ID) }},
		{"add unknown user to themselves", func() error { return c.Friends.Add(ctx, 42, 42) }},
		{"remove unknown friend", func() error { return c.Friends.Remove(ctx, a.ID, 99) }},
		{"list unknown user", func() error { _, err := c.Friends.List(ctx, 99); return err }},
		{"common with unknown user", func() error { _, err := c.Friends.Common(ctx, a.ID, 99); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected not found got %v", err)
			}
		})
	}
}

func TestFriendsRejectsSelf(t *testing.T) {
	c := newTestCatalog(t)
	a := mustCreateUser(t, c, "alice")

	if err := c.Friends.Add(context.Background(), a.ID, a.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestFriendsCommon(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	a := mustCreateUser(t, c, "alice")
	b := mustCreateUser(t, c, "bob")
	shared := mustCreateUser(t, c, "carol")
	onlyA := mustCreateUser(t, c, "dave")
	onlyB := mustCreateUser(t, c, "erin")

	pairs := [][2]int64{
		{a.ID, b.ID},
		{a.ID, shared.ID},
		{b.ID, shared.ID},
		{a.ID, onlyA.ID},
		{b.ID, onlyB.ID},
	}
	for _, pair := range pairs {
		if err := c.Friends.Add(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("add friend %v: %v", pair, err)
		}
	}

	ids, err := c.Friends.CommonIDs(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("common ids: %v", err)
	}
	if !equalIDs(ids, []int64{shared.ID}) {
		t.Fatalf("expected common [%d] got %v", shared.ID, ids)
	}

	users, err := c.Friends.Common(ctx, b.ID, a.ID)
	if err != nil {
		t.Fatalf("common users: %v", err)
	}
	if len(users) != 1 || users[0].Login != "carol" {
		t.Fatalf("expected carol as common friend got %+v", users)
	}
	if !equalIDs(users[0].Friends, []int64{a.ID, b.ID}) {
		t.Fatalf("expected carol's friends to be attached got %v", users[0].Friends)
	}
}

func TestFriendsListResolvesUsers(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	a := mustCreateUser(t, c, "alice")
	b := mustCreateUser(t, c, "bob")
	d := mustCreateUser(t, c, "dave")

	for _, id := range []int64{d.ID, b.ID} {
		if err := c.Friends.Add(ctx, a.ID, id); err != nil {
			t.Fatalf("add friend: %v", err)
		}
	}

	users, err := c.Friends.List(ctx, a.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(users) != 2 || users[0].ID != b.ID || users[1].ID != d.ID {
		t.Fatalf("expected friends ordered by id got %+v", users)
	}
}
