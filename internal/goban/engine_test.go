package goban

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobanhq/goban-backend/internal/apperror"
	"github.com/gobanhq/goban-backend/internal/entity"
)

func newTestGame(t *testing.T, size int) *entity.Game {
	t.Helper()

	game, err := NewGame("test-game", size)
	require.NoError(t, err)

	return game
}

// play applies an alternating sequence of placements, failing the test if any
// of them is rejected. Points are (x, y) pairs starting with black.
func play(t *testing.T, game *entity.Game, points ...[2]int) {
	t.Helper()

	for _, point := range points {
		_, err := TryMove(game, game.Turn, point[0], point[1])
		require.NoError(t, err, "move at (%d,%d)", point[0], point[1])
	}
}

func TestTryMove_StructuralRejections(t *testing.T) {
	t.Run("off-board coordinates are rejected", func(t *testing.T) {
		// Given: a fresh 9x9 game
		game := newTestGame(t, 9)

		// When: black plays outside the grid
		_, err := TryMove(game, entity.PlayerBlack, 9, 0)

		// Then: the move is rejected and nothing changed
		assert.ErrorIs(t, err, apperror.ErrInvalidCoordinates)
		assert.Equal(t, 0, game.MoveNumber)
		assert.Equal(t, entity.PlayerBlack, game.Turn)
	})

	t.Run("occupied point is rejected", func(t *testing.T) {
		// Given: black already holds (2,2)
		game := newTestGame(t, 9)
		play(t, game, [2]int{2, 2})

		// When: white plays on top of it
		_, err := TryMove(game, entity.PlayerWhite, 2, 2)

		// Then: the move is rejected
		assert.ErrorIs(t, err, apperror.ErrPositionOccupied)
		assert.Equal(t, entity.PlayerBlack, game.Board[2][2])
	})

	t.Run("out of turn is rejected", func(t *testing.T) {
		// Given: a fresh game where black moves first
		game := newTestGame(t, 9)

		// When: white tries to open
		_, err := TryMove(game, entity.PlayerWhite, 4, 4)

		// Then: the move is rejected and the turn did not flip
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.PlayerBlack, game.Turn)
	})

	t.Run("finished game accepts no moves", func(t *testing.T) {
		// Given: a game ended by resignation
		game := newTestGame(t, 9)
		Resign(game, entity.PlayerBlack)

		// When: a placement arrives afterwards
		_, err := TryMove(game, entity.PlayerBlack, 0, 0)

		// Then: it is rejected
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestTryMove_AltersTurnAndCounters(t *testing.T) {
	// Given: a fresh 9x9 game
	game := newTestGame(t, 9)

	// When: black opens and white answers
	result, err := TryMove(game, entity.PlayerBlack, 4, 4)
	require.NoError(t, err)

	// Then: the move is recorded and the turn flips
	assert.Equal(t, entity.PlayerBlack, game.Board[4][4])
	assert.Equal(t, entity.PlayerWhite, game.Turn)
	assert.Equal(t, 1, game.MoveNumber)
	assert.Empty(t, result.Move.Captured)
	assert.NotEmpty(t, result.Hash)

	_, err = TryMove(game, entity.PlayerWhite, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, entity.PlayerBlack, game.Turn)
	assert.Equal(t, 2, game.MoveNumber)
}

func TestTryMove_CapturesSurroundedStone(t *testing.T) {
	// Given: a white stone at (1,0) with black closing in on all sides
	game := newTestGame(t, 9)
	play(t, game,
		[2]int{0, 0}, [2]int{1, 0},
		[2]int{0, 1}, [2]int{5, 5},
		[2]int{2, 0}, [2]int{5, 6},
	)

	// When: black takes the last liberty at (1,1)
	result, err := TryMove(game, entity.PlayerBlack, 1, 1)

	// Then: the white stone is removed and credited to black
	require.NoError(t, err)
	assert.Equal(t, []entity.Point{{X: 1, Y: 0}}, result.Move.Captured)
	assert.Equal(t, entity.EmptyCell, game.Board[0][1])
	assert.Equal(t, 1, game.Captures[entity.PlayerBlack])
	assert.Equal(t, 0, game.Captures[entity.PlayerWhite])
}

func TestTryMove_SuicideIsRejected(t *testing.T) {
	// Given: black walls around the empty point (1,1)
	game := newTestGame(t, 9)
	play(t, game,
		[2]int{1, 0}, [2]int{5, 5},
		[2]int{0, 1}, [2]int{5, 6},
		[2]int{1, 2}, [2]int{5, 7},
		[2]int{2, 1},
	)

	// When: white plays into the eye without capturing anything
	_, err := TryMove(game, entity.PlayerWhite, 1, 1)

	// Then: the move is rejected and the board is untouched
	assert.ErrorIs(t, err, apperror.ErrSuicideMove)
	assert.Equal(t, entity.EmptyCell, game.Board[1][1])
	assert.Equal(t, entity.PlayerWhite, game.Turn)
	assert.Equal(t, 7, game.MoveNumber)
}

func TestTryMove_CapturingIntoNoLibertyIsLegal(t *testing.T) {
	// Given: white at (0,0) is in atari, and white stones at (1,1) and (0,2)
	// leave the point (0,1) without a liberty of its own
	game := newTestGame(t, 9)
	play(t, game,
		[2]int{1, 0}, [2]int{0, 0},
		[2]int{5, 5}, [2]int{1, 1},
		[2]int{5, 6}, [2]int{0, 2},
	)

	// When: black plays the libertyless point (0,1)
	_, err := TryMove(game, entity.PlayerBlack, 0, 1)

	// Then: the placement stands because the capture frees (0,0)
	require.NoError(t, err)
	assert.Equal(t, entity.EmptyCell, game.Board[0][0])
	assert.Equal(t, entity.PlayerBlack, game.Board[1][0])
}

func TestTryMove_SimpleKoIsRejected(t *testing.T) {
	// Given: the classic ko shape around (1,1) and (2,1)
	game := newTestGame(t, 9)
	play(t, game,
		[2]int{1, 0}, [2]int{2, 0},
		[2]int{0, 1}, [2]int{1, 1},
		[2]int{1, 2}, [2]int{3, 1},
		[2]int{5, 5}, [2]int{2, 2},
	)

	// When: black takes the ko
	result, err := TryMove(game, entity.PlayerBlack, 2, 1)
	require.NoError(t, err)
	require.Equal(t, []entity.Point{{X: 1, Y: 1}}, result.Move.Captured)

	// Then: the immediate recapture would repeat the position and is rejected
	_, err = TryMove(game, entity.PlayerWhite, 1, 1)
	assert.ErrorIs(t, err, apperror.ErrKoViolation)
	assert.Equal(t, entity.PlayerWhite, game.Turn)
	assert.Equal(t, entity.PlayerBlack, game.Board[1][2])
}

func TestTryMove_KoRecaptureAfterExchangeIsLegal(t *testing.T) {
	// Given: black has just taken the ko at (2,1)
	game := newTestGame(t, 9)
	play(t, game,
		[2]int{1, 0}, [2]int{2, 0},
		[2]int{0, 1}, [2]int{1, 1},
		[2]int{1, 2}, [2]int{3, 1},
		[2]int{5, 5}, [2]int{2, 2},
		[2]int{2, 1},
	)

	// When: white plays a ko threat elsewhere, black answers, and white
	// recaptures
	play(t, game, [2]int{7, 7}, [2]int{6, 6})
	result, err := TryMove(game, entity.PlayerWhite, 1, 1)

	// Then: the recapture is legal because the two extra stones make the
	// whole-board position new
	require.NoError(t, err)
	assert.Equal(t, []entity.Point{{X: 2, Y: 1}}, result.Move.Captured)
}

// Three simultaneous kos cycle through six novel positions before the board
// comes back around; only the sixth capture repeats a position.
func TestTryMove_TripleKoCycleStopsAtFirstRepeat(t *testing.T) {
	// Given: three independent ko shapes plus a neutral black stone at (4,8)
	// so it is black's turn when the cycle starts
	game := newTestGame(t, 9)
	play(t, game,
		[2]int{1, 0}, [2]int{2, 0},
		[2]int{0, 1}, [2]int{1, 1},
		[2]int{1, 2}, [2]int{3, 1},
		[2]int{7, 0}, [2]int{2, 2},
		[2]int{6, 1}, [2]int{6, 0},
		[2]int{8, 1}, [2]int{5, 1},
		[2]int{7, 2}, [2]int{6, 2},
		[2]int{1, 4}, [2]int{2, 4},
		[2]int{0, 5}, [2]int{1, 5},
		[2]int{1, 6}, [2]int{3, 5},
		[2]int{4, 8}, [2]int{2, 6},
	)

	// When: the kos are traded one after another
	play(t, game,
		[2]int{2, 1}, // black takes ko one
		[2]int{7, 1}, // white takes ko two
		[2]int{2, 5}, // black takes ko three
		[2]int{1, 1}, // white retakes ko one: other kos changed, still novel
		[2]int{6, 1}, // black retakes ko two: still novel
	)

	// Then: white retaking ko three would restore the pre-cycle position
	_, err := TryMove(game, entity.PlayerWhite, 1, 5)
	assert.ErrorIs(t, err, apperror.ErrKoViolation)
}

func TestPass_TwoPassesEndTheGame(t *testing.T) {
	// Given: a game with one stone on the board
	game := newTestGame(t, 9)
	play(t, game, [2]int{4, 4})

	// When: white passes and black passes back
	ended, err := Pass(game, entity.PlayerWhite)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, 1, game.ConsecutivePasses)
	assert.Equal(t, entity.PlayerBlack, game.Turn)

	ended, err = Pass(game, entity.PlayerBlack)
	require.NoError(t, err)

	// Then: the game is finished with the two-passes reason
	assert.True(t, ended)
	assert.True(t, game.IsFinished())
	assert.Equal(t, entity.EndReasonTwoPasses, game.EndReason)

	// Then: no further pass is accepted
	_, err = Pass(game, entity.PlayerWhite)
	assert.ErrorIs(t, err, apperror.ErrGameFinished)
}

func TestPass_PlacementResetsTheCount(t *testing.T) {
	// Given: black passed once
	game := newTestGame(t, 9)
	ended, err := Pass(game, entity.PlayerBlack)
	require.NoError(t, err)
	require.False(t, ended)

	// When: white places a stone and black passes again
	play(t, game, [2]int{4, 4})
	ended, err = Pass(game, entity.PlayerBlack)
	require.NoError(t, err)

	// Then: the pass count restarted, so the game is still running
	assert.False(t, ended)
	assert.True(t, game.IsActive())
	assert.Equal(t, 1, game.ConsecutivePasses)
}

func TestPass_OutOfTurnIsRejected(t *testing.T) {
	game := newTestGame(t, 9)

	_, err := Pass(game, entity.PlayerWhite)

	assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	assert.Equal(t, 0, game.ConsecutivePasses)
}

func TestResign_OpponentWinsWithoutScoring(t *testing.T) {
	// Given: a running game
	game := newTestGame(t, 9)
	play(t, game, [2]int{4, 4})

	// When: white resigns
	Resign(game, entity.PlayerWhite)

	// Then: black wins immediately
	assert.True(t, game.IsFinished())
	assert.Equal(t, entity.PlayerBlack, game.Winner)
	assert.Equal(t, entity.EndReasonResignation, game.EndReason)
}

func TestLegalMove_DoesNotMutate(t *testing.T) {
	// Given: a game mid-opening
	game := newTestGame(t, 9)
	play(t, game, [2]int{4, 4})
	movesBefore := game.MoveNumber
	hashesBefore := len(game.SeenHashes)

	// When: a legal and an illegal placement are checked
	require.NoError(t, LegalMove(game, entity.PlayerWhite, 2, 2))
	assert.ErrorIs(t, LegalMove(game, entity.PlayerWhite, 4, 4), apperror.ErrPositionOccupied)

	// Then: the game state is unchanged either way
	assert.Equal(t, movesBefore, game.MoveNumber)
	assert.Equal(t, hashesBefore, len(game.SeenHashes))
	assert.Equal(t, entity.EmptyCell, game.Board[2][2])
}
