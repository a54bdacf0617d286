package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Films          FilmService
	Likes          LikeService
	Users          UserService
	Friends        FriendService
	References     ReferenceService
	Limiter        RateLimiter
	HealthChecks   map[string]HealthCheck
	PopularDefault int
}

// RegisterRoutes wires HTTP handlers into the provided router. Mutating
// routes share the per-client rate limiter.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	health := HealthHandler{Checks: deps.HealthChecks}
	films := FilmHandler{Films: deps.Films, Likes: deps.Likes, PopularDefault: deps.PopularDefault}
	users := UserHandler{Users: deps.Users}
	friends := FriendHandler{Friends: deps.Friends}
	refs := ReferenceHandler{References: deps.References}
	limit := rateLimited(deps.Limiter, "catalog")

	r.Get("/healthz", health.Handle)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/films", func(r chi.Router) {
		r.Get("/", films.List)
		r.Get("/popular", films.Popular)
		r.Get("/{id}", films.Get)

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/", films.Create)
			r.Put("/", films.Update)
			r.Delete("/{id}", films.Delete)
			r.Put("/{id}/like/{userId}", films.AddLike)
			r.Delete("/{id}/like/{userId}", films.RemoveLike)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Get("/{id}", users.Get)
		r.Get("/{id}/friends", friends.List)
		r.Get("/{id}/friends/common/{otherId}", friends.Common)

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/", users.Create)
			r.Put("/", users.Update)
			r.Delete("/{id}", users.Delete)
			r.Put("/{id}/friends/{friendId}", friends.Add)
			r.Delete("/{id}/friends/{friendId}", friends.Remove)
		})
	})

	r.Get("/genres", refs.Genres)
	r.Get("/genres/{id}", refs.Genre)
	r.Get("/mpa", refs.Ratings)
	r.Get("/mpa/{id}", refs.Rating)
}
