package entity

import (
	"fmt"
	"math/rand"

	"github.com/gobanhq/goban-backend/internal/apperror"
)

const (
	StatusActive   = "active"
	StatusFinished = "finished"

	PlayerBlack = "B"
	PlayerWhite = "W"

	EmptyCell = ""
)

// End reasons reported with the final result.
const (
	EndReasonTwoPasses   = "two_passes"
	EndReasonResignation = "resignation"
)

// BoardSizes lists the supported board dimensions.
var BoardSizes = []int{9, 13, 19}

// Game holds the full state of one active game. The board, capture counts and
// seen-position set are owned exclusively by this instance and must only be
// mutated through the goban package while the session's lock is held.
type Game struct {
	ID                string         `json:"id"`
	BoardSize         int            `json:"board_size"`
	Board             [][]string     `json:"board"`
	Turn              string         `json:"player_turn,omitempty"`
	MoveNumber        int            `json:"move_number"`
	ConsecutivePasses int            `json:"consecutive_passes"`
	Captures          map[string]int `json:"captures"`
	Komi              float64        `json:"komi"`
	Status            string         `json:"status"`
	Winner            string         `json:"winner,omitempty"`
	EndReason         string         `json:"end_reason,omitempty"`
	Players           []*Player      `json:"players,omitempty"`

	// SeenHashes records every board-position fingerprint that has existed
	// during this game, including the empty starting position. It only grows.
	SeenHashes map[string]struct{} `json:"-"`
}

// NewGame creates an empty game for the given board size. Black moves first.
func NewGame(id string, boardSize int) (*Game, error) {
	if !ValidBoardSize(boardSize) {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidBoardSize, boardSize)
	}

	board := make([][]string, boardSize)
	for y := range board {
		board[y] = make([]string, boardSize)
	}

	return &Game{
		ID:         id,
		BoardSize:  boardSize,
		Board:      board,
		Turn:       PlayerBlack,
		Captures:   map[string]int{PlayerBlack: 0, PlayerWhite: 0},
		Komi:       KomiForSize(boardSize),
		Status:     StatusActive,
		SeenHashes: make(map[string]struct{}),
	}, nil
}

func ValidBoardSize(size int) bool {
	for _, s := range BoardSizes {
		if s == size {
			return true
		}
	}
	return false
}

// KomiForSize returns white's compensation for the given board size.
func KomiForSize(size int) float64 {
	switch size {
	case 9:
		return 0.5
	case 13:
		return 4.5
	default:
		return 6.5
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsActive() bool {
	return that.Status == StatusActive
}

// Opponent returns the opposite color.
func Opponent(color string) string {
	if color == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

// RandomColors assigns the two seats by unbiased coin flip.
func RandomColors() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerBlack, PlayerWhite
	}
	return PlayerWhite, PlayerBlack
}
