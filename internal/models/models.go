package models

import "time"

// Film represents a catalog entry together with its resolved reference data.
type Film struct {
	ID          int64
	Name        string
	Description string
	ReleaseDate time.Time
	Duration    int
	MPA         Rating
	Genres      []Genre
	Likes       []int64
}

// User represents a member of the Filmorate community.
type User struct {
	ID       int64
	Email    string
	Login    string
	Name     string
	Birthday time.Time
	Friends  []int64
}

// Rating is an age classification (MPA) record.
type Rating struct {
	ID   int
	Name string
}

// Genre is a film genre record.
type Genre struct {
	ID   int
	Name string
}

// FriendshipStatus describes the state of a friendship edge.
type FriendshipStatus string

const (
	FriendshipPending   FriendshipStatus = "pending"
	FriendshipConfirmed FriendshipStatus = "confirmed"
)

// Friendship is one directed row of a symmetric friendship.
type Friendship struct {
	UserID   int64
	FriendID int64
	Status   FriendshipStatus
}

// Like records that a user approved of a film.
type Like struct {
	FilmID int64
	UserID int64
}
