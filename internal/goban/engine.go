package goban

import (
	"fmt"

	"github.com/gobanhq/goban-backend/internal/apperror"
	"github.com/gobanhq/goban-backend/internal/entity"
)

// MoveResult describes an applied placement.
type MoveResult struct {
	Move *entity.Move
	Hash string
}

// simulation is the outcome of tentatively placing a stone on a scratch
// board: the resulting board (captures removed) and the stones taken.
type simulation struct {
	board    [][]string
	captured []entity.Point
	hash     uint64
}

// simulateMove runs the legality checks in order: bounds, occupancy, turn,
// suicide, superko. Cheap structural checks come first so malformed requests
// never pay for the flood fills or the hash lookup.
func simulateMove(game *entity.Game, color string, x, y int) (*simulation, error) {
	if game.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if !onBoard(game.BoardSize, x, y) {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrInvalidCoordinates, x, y)
	}

	if game.Board[y][x] != entity.EmptyCell {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrPositionOccupied, x, y)
	}

	if game.Turn != color {
		return nil, apperror.ErrNotYourTurn
	}

	scratch := copyBoard(game.Board)
	scratch[y][x] = color
	hash := UpdateHash(HashBoard(game.Board), game.BoardSize, x, y, entity.EmptyCell, color)

	var captured []entity.Point
	for _, group := range FindCapturedGroups(scratch, x, y, color) {
		for _, point := range group {
			hash = UpdateHash(hash, game.BoardSize, point.X, point.Y, scratch[point.Y][point.X], entity.EmptyCell)
			scratch[point.Y][point.X] = entity.EmptyCell
			captured = append(captured, point)
		}
	}

	if len(captured) == 0 {
		ownGroup := FindGroup(scratch, x, y, color)
		if !HasLiberty(scratch, ownGroup) {
			return nil, apperror.ErrSuicideMove
		}
	}

	if _, seen := game.SeenHashes[HashKey(hash)]; seen {
		return nil, apperror.ErrKoViolation
	}

	return &simulation{board: scratch, captured: captured, hash: hash}, nil
}

// LegalMove checks a placement without mutating the game.
func LegalMove(game *entity.Game, color string, x, y int) error {
	_, err := simulateMove(game, color, x, y)
	return err
}

// TryMove validates and applies a placement as one operation, so that the
// check and the apply cannot race. The caller must hold the game's lock.
func TryMove(game *entity.Game, color string, x, y int) (*MoveResult, error) {
	sim, err := simulateMove(game, color, x, y)
	if err != nil {
		return nil, err
	}

	game.Board = sim.board
	game.Captures[color] += len(sim.captured)
	game.SeenHashes[HashKey(sim.hash)] = struct{}{}
	game.MoveNumber++
	game.ConsecutivePasses = 0
	game.Turn = entity.Opponent(color)

	return &MoveResult{
		Move: &entity.Move{Color: color, X: x, Y: y, Captured: sim.captured},
		Hash: HashKey(sim.hash),
	}, nil
}

// Pass applies a pass for the given color. Two passes in immediate
// succession end the game; the board is left untouched either way.
func Pass(game *entity.Game, color string) (bool, error) {
	if game.IsFinished() {
		return false, apperror.ErrGameFinished
	}

	if game.Turn != color {
		return false, apperror.ErrNotYourTurn
	}

	game.ConsecutivePasses++
	game.MoveNumber++

	if game.ConsecutivePasses >= 2 {
		game.Status = entity.StatusFinished
		game.EndReason = entity.EndReasonTwoPasses
		game.Turn = ""
		return true, nil
	}

	game.Turn = entity.Opponent(color)

	return false, nil
}

// Resign finishes the game immediately with the opposite color as winner.
// No scoring is performed.
func Resign(game *entity.Game, color string) {
	game.Status = entity.StatusFinished
	game.EndReason = entity.EndReasonResignation
	game.Winner = entity.Opponent(color)
	game.Turn = ""
}
