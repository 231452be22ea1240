package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/graph"
	"github.com/starford/raido/internal/recommend"
)

// Handler holds API route handlers.
type Handler struct {
	svc *recommend.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *recommend.Service) *Handler {
	return &Handler{svc: svc}
}

// Recommendations handles GET /api/users/{id}/recommendations.
// Query params: axes (comma-separated, default ingredients,tags),
// limit, percentile.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	q := r.URL.Query()

	axes, err := recommend.ParseAxes(q.Get("axes"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	percentile := -1.0
	if raw := q.Get("percentile"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 || p > 100 {
			writeJSON(w, http.StatusBadRequest, errorBody("percentile must be a number in [0,100]"))
			return
		}
		percentile = p
	}

	ranked, err := h.svc.Recommend(r.Context(), userID, recommend.Options{
		Axes:       axes,
		Limit:      limit,
		Percentile: percentile,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("user not found"))
		case errors.Is(err, apperr.ErrEmptyProfile):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("user has no positive interactions to profile"))
		default:
			slog.Error("recommend failed", slog.String("user", userID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":         userID,
		"recommendations": ranked,
	})
}

// Profile handles GET /api/users/{id}/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	profile, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("user not found"))
		} else {
			slog.Error("profile failed", slog.String("user", userID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Interactions handles GET /api/users/{id}/interactions.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	history, err := h.svc.History(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("user not found"))
		} else {
			slog.Error("interactions failed", slog.String("user", userID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if history == nil {
		history = []graph.Interaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      userID,
		"interactions": history,
	})
}

// Connectivity handles GET /api/users/{id}/connectivity.
func (h *Handler) Connectivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	est, err := h.svc.Connectivity(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("user not found"))
		} else {
			slog.Error("connectivity failed", slog.String("user", userID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// RandomUser handles GET /api/users/random.
func (h *Handler) RandomUser(w http.ResponseWriter, r *http.Request) {
	minReviews, _ := strconv.Atoi(r.URL.Query().Get("min_reviews"))
	id, reviews, err := h.svc.RandomUser(r.Context(), minReviews)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no user with enough reviews"))
		} else {
			slog.Error("random user failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": id,
		"reviews": reviews,
	})
}

// GraphCounts handles GET /api/stats/counts.
func (h *Handler) GraphCounts(w http.ResponseWriter, r *http.Request) {
	nodes, rels, err := h.svc.GraphCounts(r.Context())
	if err != nil {
		slog.Error("graph counts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":         nodes,
		"relationships": rels,
	})
}

// DegreeCounts handles GET /api/stats/degrees.
// Query params: label (required), rel (comma-separated, default
// REVIEWED,SUBMITTED), direction (default BOTH).
func (h *Handler) DegreeCounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	label := q.Get("label")
	if label == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'label' is required"))
		return
	}
	relTypes := []string{graph.KindReviewed, graph.KindSubmitted}
	if raw := q.Get("rel"); raw != "" {
		relTypes = strings.Split(raw, ",")
	}
	direction := q.Get("direction")
	if direction == "" {
		direction = graph.DirectionBoth
	}

	buckets, err := h.svc.DegreeCounts(r.Context(), label, relTypes, direction)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidDirection):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("degree counts failed", slog.String("label", label), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"label":   label,
		"degrees": buckets,
		"summary": graph.DegreeSummary(buckets),
	})
}

// Tags handles GET /api/tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	tags, err := h.svc.TagCounts(r.Context(), limit)
	if err != nil {
		slog.Error("tags failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if tags == nil {
		tags = []graph.NameCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tags": tags,
	})
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.svc.SearchRecipes(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if hits == nil {
		hits = []graph.RecipeHit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": hits,
	})
}
