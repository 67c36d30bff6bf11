package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gobanhq/goban-backend/internal/entity"
)

var ErrResultNotFound = errors.New("game result not found")

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	FindByGameID(ctx context.Context, gameID string) (*entity.GameResult, error)
}

type resultRepository struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &resultRepository{
		conn: conn,
	}
}

func (that *resultRepository) Save(ctx context.Context, result *entity.GameResult) error {
	query := `INSERT INTO game_results
		(game_id, board_size, black, white, winner, reason, score_black, score_white, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.GameID, result.BoardSize, result.Black, result.White,
		result.Winner, result.Reason, result.ScoreBlack, result.ScoreWhite,
		result.FinishedAt)
	if err != nil {
		return fmt.Errorf("can't save game result: %w", err)
	}

	return nil
}

func (that *resultRepository) FindByGameID(ctx context.Context, gameID string) (*entity.GameResult, error) {
	query := `SELECT game_id, board_size, black, white, winner, reason, score_black, score_white, finished_at
		FROM game_results WHERE game_id = ?`

	var result entity.GameResult

	err := that.conn.QueryRowContext(ctx, query, gameID).Scan(
		&result.GameID, &result.BoardSize, &result.Black, &result.White,
		&result.Winner, &result.Reason, &result.ScoreBlack, &result.ScoreWhite,
		&result.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find game result: %w", err)
	}

	return &result, nil
}
