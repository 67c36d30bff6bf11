package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gobanhq/goban-backend/internal/entity"
	"github.com/gobanhq/goban-backend/internal/repository"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	RatingHandler(w http.ResponseWriter, r *http.Request)
}

type ratingRepo interface {
	GetByID(ctx context.Context, participantID string) (*entity.Rating, error)
}

type handlers struct {
	ratings ratingRepo
}

func NewHandlers(ratings ratingRepo) Handlers {
	return &handlers{
		ratings: ratings,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) RatingHandler(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("player")
	if participantID == "" {
		http.Error(w, "player is required", http.StatusBadRequest)
		return
	}

	rating, err := that.ratings.GetByID(r.Context(), participantID)
	if errors.Is(err, repository.ErrRatingNotFound) {
		http.Error(w, "rating not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(rating); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
