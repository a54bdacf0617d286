package repositories

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/filmorate/backend/internal/models"
)

type edge struct {
	from, to int64
}

// MemoryStore keeps the whole catalog in process memory. All tables share one
// lock so that id issuing and edge uniqueness checks happen atomically with
// the writes they guard.
type MemoryStore struct {
	mu sync.RWMutex

	films      map[int64]models.Film
	users      map[int64]models.User
	filmGenres map[int64][]int
	likes      map[edge]struct{}
	friends    map[edge]models.FriendshipStatus
	ratings    map[int]models.Rating
	genres     map[int]models.Genre

	nextFilmID int64
	nextUserID int64

	Users      *MemoryUserRepository
	Films      *MemoryFilmRepository
	Friends    *MemoryFriendRepository
	Likes      *MemoryLikeRepository
	References *MemoryReferenceRepository
}

// NewMemoryStore returns an empty catalog seeded with the default ratings and genres.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		films:      make(map[int64]models.Film),
		users:      make(map[int64]models.User),
		filmGenres: make(map[int64][]int),
		likes:      make(map[edge]struct{}),
		friends:    make(map[edge]models.FriendshipStatus),
		ratings:    make(map[int]models.Rating),
		genres:     make(map[int]models.Genre),
	}
	for _, rating := range DefaultRatings {
		s.ratings[rating.ID] = rating
	}
	for _, genre := range DefaultGenres {
		s.genres[genre.ID] = genre
	}

	s.Users = &MemoryUserRepository{s: s}
	s.Films = &MemoryFilmRepository{s: s}
	s.Friends = &MemoryFriendRepository{s: s}
	s.Likes = &MemoryLikeRepository{s: s}
	s.References = &MemoryReferenceRepository{s: s}
	return s
}

// MemoryUserRepository implements UserRepository on a MemoryStore.
type MemoryUserRepository struct {
	s *MemoryStore
}

// Create assigns the next user id and stores the user.
func (r *MemoryUserRepository) Create(_ context.Context, user models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.Friends = nil
	r.s.users[user.ID] = user
	return user, nil
}

// Update replaces an existing user.
func (r *MemoryUserRepository) Update(_ context.Context, user models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return models.User{}, ErrNotFound
	}
	user.Friends = nil
	r.s.users[user.ID] = user
	return user, nil
}

// FindByID returns the user with the given id.
func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// List returns all users ordered by id.
func (r *MemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Delete removes the user together with its friendships and likes.
func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.users, id)
	for e := range r.s.friends {
		if e.from == id || e.to == id {
			delete(r.s.friends, e)
		}
	}
	for e := range r.s.likes {
		if e.to == id {
			delete(r.s.likes, e)
		}
	}
	return nil
}

// MemoryFilmRepository implements FilmRepository on a MemoryStore.
type MemoryFilmRepository struct {
	s *MemoryStore
}

// Create assigns the next film id and stores the film and its genre links.
func (r *MemoryFilmRepository) Create(_ context.Context, film models.Film) (models.Film, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkReferencesLocked(film); err != nil {
		return models.Film{}, err
	}

	r.s.nextFilmID++
	film.ID = r.s.nextFilmID
	r.s.storeFilmLocked(film)
	return r.s.filmLocked(film.ID), nil
}

// Update replaces an existing film and its genre links.
func (r *MemoryFilmRepository) Update(_ context.Context, film models.Film) (models.Film, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.films[film.ID]; !ok {
		return models.Film{}, ErrNotFound
	}
	if err := r.s.checkReferencesLocked(film); err != nil {
		return models.Film{}, err
	}
	r.s.storeFilmLocked(film)
	return r.s.filmLocked(film.ID), nil
}

// FindByID returns the film with the given id.
func (r *MemoryFilmRepository) FindByID(_ context.Context, id int64) (models.Film, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.films[id]; !ok {
		return models.Film{}, ErrNotFound
	}
	return r.s.filmLocked(id), nil
}

// List returns all films ordered by id.
func (r *MemoryFilmRepository) List(_ context.Context) ([]models.Film, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]int64, 0, len(r.s.films))
	for id := range r.s.films {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	films := make([]models.Film, 0, len(ids))
	for _, id := range ids {
		films = append(films, r.s.filmLocked(id))
	}
	return films, nil
}

// Delete removes the film together with its likes and genre links.
func (r *MemoryFilmRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.films[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.films, id)
	delete(r.s.filmGenres, id)
	for e := range r.s.likes {
		if e.from == id {
			delete(r.s.likes, e)
		}
	}
	return nil
}

func (s *MemoryStore) checkReferencesLocked(film models.Film) error {
	if _, ok := s.ratings[film.MPA.ID]; !ok {
		return ErrNotFound
	}
	for _, genre := range film.Genres {
		if _, ok := s.genres[genre.ID]; !ok {
			return ErrNotFound
		}
	}
	return nil
}

func (s *MemoryStore) storeFilmLocked(film models.Film) {
	ids := make([]int, 0, len(film.Genres))
	for _, genre := range film.Genres {
		if !slices.Contains(ids, genre.ID) {
			ids = append(ids, genre.ID)
		}
	}
	slices.Sort(ids)

	film.Genres = nil
	film.Likes = nil
	s.films[film.ID] = film
	s.filmGenres[film.ID] = ids
}

func (s *MemoryStore) filmLocked(id int64) models.Film {
	film := s.films[id]
	film.MPA = models.Rating{ID: film.MPA.ID}
	film.Genres = make([]models.Genre, 0, len(s.filmGenres[id]))
	for _, genreID := range s.filmGenres[id] {
		film.Genres = append(film.Genres, models.Genre{ID: genreID})
	}
	return film
}

// MemoryFriendRepository implements FriendRepository on a MemoryStore.
type MemoryFriendRepository struct {
	s *MemoryStore
}

// Add stores both directions of the friendship unless they already exist.
func (r *MemoryFriendRepository) Add(_ context.Context, userID, friendID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return ErrNotFound
	}
	if _, ok := r.s.users[friendID]; !ok {
		return ErrNotFound
	}

	for _, e := range []edge{{userID, friendID}, {friendID, userID}} {
		if _, exists := r.s.friends[e]; !exists {
			r.s.friends[e] = models.FriendshipConfirmed
		}
	}
	return nil
}

// Remove deletes both directions of the friendship.
func (r *MemoryFriendRepository) Remove(_ context.Context, userID, friendID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.friends, edge{userID, friendID})
	delete(r.s.friends, edge{friendID, userID})
	return nil
}

// ListFriendIDs returns the friends of a user, ascending.
func (r *MemoryFriendRepository) ListFriendIDs(_ context.Context, userID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []int64{}
	for e := range r.s.friends {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// ListAll returns the friends of every user that has any.
func (r *MemoryFriendRepository) ListAll(_ context.Context) (map[int64][]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return collectEdges(r.s.friends), nil
}

// MemoryLikeRepository implements LikeRepository on a MemoryStore.
type MemoryLikeRepository struct {
	s *MemoryStore
}

// Add records a like, returning ErrConflict when it already exists.
func (r *MemoryLikeRepository) Add(_ context.Context, filmID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.films[filmID]; !ok {
		return ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return ErrNotFound
	}

	e := edge{filmID, userID}
	if _, exists := r.s.likes[e]; exists {
		return ErrConflict
	}
	r.s.likes[e] = struct{}{}
	return nil
}

// Remove deletes a like, returning ErrNotFound when it does not exist.
func (r *MemoryLikeRepository) Remove(_ context.Context, filmID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e := edge{filmID, userID}
	if _, exists := r.s.likes[e]; !exists {
		return ErrNotFound
	}
	delete(r.s.likes, e)
	return nil
}

// ListForFilm returns the ids of users who liked the film, ascending.
func (r *MemoryLikeRepository) ListForFilm(_ context.Context, filmID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []int64{}
	for e := range r.s.likes {
		if e.from == filmID {
			ids = append(ids, e.to)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// ListAll returns the likes of every film that has any.
func (r *MemoryLikeRepository) ListAll(_ context.Context) (map[int64][]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return collectEdges(r.s.likes), nil
}

func collectEdges[V any](edges map[edge]V) map[int64][]int64 {
	out := make(map[int64][]int64)
	for e := range edges {
		out[e.from] = append(out[e.from], e.to)
	}
	for _, ids := range out {
		slices.Sort(ids)
	}
	return out
}

// MemoryReferenceRepository implements ReferenceRepository on a MemoryStore.
type MemoryReferenceRepository struct {
	s *MemoryStore
}

// Rating returns the rating with the given id.
func (r *MemoryReferenceRepository) Rating(_ context.Context, id int) (models.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rating, ok := r.s.ratings[id]
	if !ok {
		return models.Rating{}, ErrNotFound
	}
	return rating, nil
}

// Ratings lists all ratings ordered by id.
func (r *MemoryReferenceRepository) Ratings(_ context.Context) ([]models.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ratings := make([]models.Rating, 0, len(r.s.ratings))
	for _, rating := range r.s.ratings {
		ratings = append(ratings, rating)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

// Genre returns the genre with the given id.
func (r *MemoryReferenceRepository) Genre(_ context.Context, id int) (models.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	genre, ok := r.s.genres[id]
	if !ok {
		return models.Genre{}, ErrNotFound
	}
	return genre, nil
}

// Genres lists all genres ordered by id.
func (r *MemoryReferenceRepository) Genres(_ context.Context) ([]models.Genre, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	genres := make([]models.Genre, 0, len(r.s.genres))
	for _, genre := range r.s.genres {
		genres = append(genres, genre)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

var _ UserRepository = (*MemoryUserRepository)(nil)
var _ FilmRepository = (*MemoryFilmRepository)(nil)
var _ FriendRepository = (*MemoryFriendRepository)(nil)
var _ LikeRepository = (*MemoryLikeRepository)(nil)
var _ ReferenceRepository = (*MemoryReferenceRepository)(nil)
