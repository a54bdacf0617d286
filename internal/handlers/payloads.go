package handlers

import (
	"time"

	"github.com/filmorate/backend/internal/models"
)

type idRef struct {
	ID int `json:"id"`
}

type filmRequest struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description" validate:"max=200"`
	ReleaseDate string  `json:"releaseDate" validate:"required,datetime=2006-01-02,releasedate"`
	Duration    int     `json:"duration" validate:"gt=0"`
	MPA         *idRef  `json:"mpa"`
	Genres      []idRef `json:"genres"`
}

func (req filmRequest) toModel() models.Film {
	releaseDate, _ := time.Parse(dateLayout, req.ReleaseDate)
	film := models.Film{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		ReleaseDate: releaseDate,
		Duration:    req.Duration,
	}
	if req.MPA != nil {
		film.MPA = models.Rating{ID: req.MPA.ID}
	}
	for _, genre := range req.Genres {
		film.Genres = append(film.Genres, models.Genre{ID: genre.ID})
	}
	return film
}

type userRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"notblank,nowhitespace"`
	Name     string `json:"name"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02,notfuture"`
}

func (req userRequest) toModel() models.User {
	birthday, _ := time.Parse(dateLayout, req.Birthday)
	return models.User{
		ID:       req.ID,
		Email:    req.Email,
		Login:    req.Login,
		Name:     req.Name,
		Birthday: birthday,
	}
}

type ratingResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type filmResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ReleaseDate string          `json:"releaseDate"`
	Duration    int             `json:"duration"`
	MPA         ratingResponse  `json:"mpa"`
	Genres      []genreResponse `json:"genres"`
	Likes       []int64         `json:"likes"`
}

type userResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday"`
	Friends  []int64 `json:"friends"`
}

func newRatingResponse(rating models.Rating) ratingResponse {
	return ratingResponse{ID: rating.ID, Name: rating.Name}
}

func newGenreResponse(genre models.Genre) genreResponse {
	return genreResponse{ID: genre.ID, Name: genre.Name}
}

func newFilmResponse(film models.Film) filmResponse {
	genres := make([]genreResponse, 0, len(film.Genres))
	for _, genre := range film.Genres {
		genres = append(genres, newGenreResponse(genre))
	}
	likes := film.Likes
	if likes == nil {
		likes = []int64{}
	}
	return filmResponse{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate.Format(dateLayout),
		Duration:    film.Duration,
		MPA:         newRatingResponse(film.MPA),
		Genres:      genres,
		Likes:       likes,
	}
}

func newFilmResponses(films []models.Film) []filmResponse {
	out := make([]filmResponse, 0, len(films))
	for _, film := range films {
		out = append(out, newFilmResponse(film))
	}
	return out
}

func newUserResponse(user models.User) userResponse {
	friends := user.Friends
	if friends == nil {
		friends = []int64{}
	}
	return userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Login:    user.Login,
		Name:     user.Name,
		Birthday: user.Birthday.Format(dateLayout),
		Friends:  friends,
	}
}

func newUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, newUserResponse(user))
	}
	return out
}
