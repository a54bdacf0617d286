// Package catalog implements the relationship and ranking rules of the film
// catalog: friendships, likes, reference resolution, popularity and the
// assembly of films and users from their stores.
package catalog

// Stores groups the persistence collaborators the catalog depends on.
type Stores struct {
	Films      FilmStore
	Users      UserStore
	Friends    FriendStore
	Likes      LikeStore
	References Directory
}

// Catalog bundles the catalog services sharing one set of stores.
type Catalog struct {
	Films      *Films
	Users      *Users
	Friends    *Friends
	Likes      *Likes
	References *References
}

// New wires the catalog services over stores.
func New(stores Stores) *Catalog {
	refs := NewReferences(stores.References)
	return &Catalog{
		Films:      NewFilms(stores.Films, stores.Likes, refs),
		Users:      NewUsers(stores.Users, stores.Friends),
		Friends:    NewFriends(stores.Users, stores.Friends),
		Likes:      NewLikes(stores.Films, stores.Users, stores.Likes),
		References: refs,
	}
}
