// Package goban implements the Go rules engine: group and liberty analysis,
// capture detection, suicide prevention, positional superko via Zobrist
// hashing, and area scoring. All functions operate on entity.Game state and
// assume the caller serializes access per game.
package goban

import (
	"github.com/gobanhq/goban-backend/internal/entity"
)

// NewGame creates a fresh game and records the empty board's fingerprint as
// the first seen position.
func NewGame(id string, boardSize int) (*entity.Game, error) {
	game, err := entity.NewGame(id, boardSize)
	if err != nil {
		return nil, err
	}

	game.SeenHashes[HashKey(HashBoard(game.Board))] = struct{}{}

	return game, nil
}

func onBoard(size, x, y int) bool {
	return x >= 0 && x < size && y >= 0 && y < size
}

// neighbors appends the 4-adjacent points of (x,y) that are on the board.
func neighbors(size, x, y int) []entity.Point {
	points := make([]entity.Point, 0, 4)
	if x > 0 {
		points = append(points, entity.Point{X: x - 1, Y: y})
	}
	if x < size-1 {
		points = append(points, entity.Point{X: x + 1, Y: y})
	}
	if y > 0 {
		points = append(points, entity.Point{X: x, Y: y - 1})
	}
	if y < size-1 {
		points = append(points, entity.Point{X: x, Y: y + 1})
	}
	return points
}

func copyBoard(board [][]string) [][]string {
	dup := make([][]string, len(board))
	for y := range board {
		dup[y] = make([]string, len(board[y]))
		copy(dup[y], board[y])
	}
	return dup
}
