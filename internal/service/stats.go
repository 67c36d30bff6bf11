package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/gobanhq/goban-backend/internal/entity"
)

type ratingRepo interface {
	ApplyResult(ctx context.Context, participantID, outcome string, boardSize int) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// StatsService records finished games with the persistence and rating
// collaborators. Every call is best-effort: failures are logged and never
// propagate back into the game path.
type StatsService struct {
	logger  *slog.Logger
	ratings ratingRepo
	results resultRepo
}

func NewStatsService(logger *slog.Logger, ratings ratingRepo, results resultRepo) *StatsService {
	return &StatsService{
		logger:  logger.With("component", "stats"),
		ratings: ratings,
		results: results,
	}
}

func (that *StatsService) RecordResult(ctx context.Context, game *entity.Game, score *entity.Score) {
	log := that.logger.With("method", "RecordResult", "gameID", game.ID)

	result := &entity.GameResult{
		GameID:     game.ID,
		BoardSize:  game.BoardSize,
		Winner:     game.Winner,
		Reason:     game.EndReason,
		FinishedAt: time.Now(),
	}
	if score != nil {
		result.ScoreBlack = score.Black
		result.ScoreWhite = score.White
	}

	for _, player := range game.Players {
		switch player.Color {
		case entity.PlayerBlack:
			result.Black = player.ID
		case entity.PlayerWhite:
			result.White = player.ID
		}
	}

	if err := that.results.Save(ctx, result); err != nil {
		log.Error("failed to persist game result", "error", err)
	}

	for _, player := range game.Players {
		outcome := entity.OutcomeDrew
		switch {
		case game.Winner == "":
			outcome = entity.OutcomeDrew
		case game.Winner == player.Color:
			outcome = entity.OutcomeWon
		default:
			outcome = entity.OutcomeLost
		}

		if err := that.ratings.ApplyResult(ctx, player.ID, outcome, game.BoardSize); err != nil {
			log.Error("failed to update rating", "participantID", player.ID, "error", err)
		}
	}
}
