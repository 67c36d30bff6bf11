package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/gobanhq/goban-backend/internal/entity"
)

var ErrRatingNotFound = errors.New("rating not found")

type RatingRepository interface {
	ApplyResult(ctx context.Context, participantID, outcome string, boardSize int) error
	GetByID(ctx context.Context, participantID string) (*entity.Rating, error)
}

type dbRating struct {
	client *redis.Client
}

func NewRatingRepository(client *redis.Client) RatingRepository {
	return &dbRating{
		client: client,
	}
}

// ApplyResult folds one game outcome into the participant's stored rating.
func (that *dbRating) ApplyResult(ctx context.Context, participantID, outcome string, boardSize int) error {
	rating, err := that.GetByID(ctx, participantID)
	if errors.Is(err, ErrRatingNotFound) {
		rating = &entity.Rating{
			ParticipantID: participantID,
			GamesBySize:   make(map[string]int),
		}
	} else if err != nil {
		return fmt.Errorf("failed to load rating: %w", err)
	}

	switch outcome {
	case entity.OutcomeWon:
		rating.Wins++
	case entity.OutcomeLost:
		rating.Losses++
	case entity.OutcomeDrew:
		rating.Draws++
	}

	if rating.GamesBySize == nil {
		rating.GamesBySize = make(map[string]int)
	}
	rating.GamesBySize[strconv.Itoa(boardSize)]++

	ratingJSON, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("failed to marshal rating: %w", err)
	}

	ratingKey := "rating:" + participantID
	if err = that.client.Set(ctx, ratingKey, ratingJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}

	return nil
}

func (that *dbRating) GetByID(ctx context.Context, participantID string) (*entity.Rating, error) {
	ratingKey := "rating:" + participantID

	response, err := that.client.Get(ctx, ratingKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrRatingNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get rating by id: %w", err)
	}

	var rating entity.Rating
	if err = json.Unmarshal([]byte(response), &rating); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating: %w", err)
	}

	return &rating, nil
}
