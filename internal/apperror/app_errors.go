package apperror

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameFinished       = errors.New("game is already finished")
	ErrInvalidCoordinates = errors.New("coordinates are off the board")
	ErrPositionOccupied   = errors.New("position is already occupied")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrSuicideMove        = errors.New("move would leave own group without liberties")
	ErrKoViolation        = errors.New("move recreates a previous board position")

	ErrNotInGame        = errors.New("participant is not seated in this game")
	ErrSameParticipant  = errors.New("participants must be distinct")
	ErrInvalidBoardSize = errors.New("unsupported board size")
)

// Wire-level reason codes reported back to the requesting participant.
const (
	ReasonGameNotFound       = "game_not_found"
	ReasonGameFinished       = "game_finished"
	ReasonInvalidCoordinates = "invalid_coordinates"
	ReasonPositionOccupied   = "position_occupied"
	ReasonNotYourTurn        = "not_your_turn"
	ReasonSuicideMove        = "suicide_move"
	ReasonKoViolation        = "ko_violation"
	ReasonNotInGame          = "not_in_game"
	ReasonInvalidBoardSize   = "invalid_board_size"
	ReasonInternal           = "internal_error"
)

// ReasonCode maps an application error to its wire reason code.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return ReasonGameNotFound
	case errors.Is(err, ErrGameFinished):
		return ReasonGameFinished
	case errors.Is(err, ErrInvalidCoordinates):
		return ReasonInvalidCoordinates
	case errors.Is(err, ErrPositionOccupied):
		return ReasonPositionOccupied
	case errors.Is(err, ErrNotYourTurn):
		return ReasonNotYourTurn
	case errors.Is(err, ErrSuicideMove):
		return ReasonSuicideMove
	case errors.Is(err, ErrKoViolation):
		return ReasonKoViolation
	case errors.Is(err, ErrNotInGame):
		return ReasonNotInGame
	case errors.Is(err, ErrInvalidBoardSize):
		return ReasonInvalidBoardSize
	default:
		return ReasonInternal
	}
}
