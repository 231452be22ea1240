package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/recommend"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *recommend.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Users.
	r.Get("/users/random", h.RandomUser)
	r.Get("/users/{id}/recommendations", h.Recommendations)
	r.Get("/users/{id}/profile", h.Profile)
	r.Get("/users/{id}/interactions", h.Interactions)
	r.Get("/users/{id}/connectivity", h.Connectivity)

	// Graph statistics.
	r.Get("/stats/counts", h.GraphCounts)
	r.Get("/stats/degrees", h.DegreeCounts)

	// Tags and search.
	r.Get("/tags", h.Tags)
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
