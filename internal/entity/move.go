package entity

import "time"

// Point is a board coordinate; (0,0) is the top-left corner, x grows right,
// y grows down.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Move is one applied action: a stone placement or a pass.
type Move struct {
	Color    string  `json:"color"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Pass     bool    `json:"pass,omitempty"`
	Captured []Point `json:"captured,omitempty"`
}

// Score is the terminal scoring outcome. Winner is empty on a tie.
type Score struct {
	Black  float64 `json:"black"`
	White  float64 `json:"white"`
	Winner string  `json:"winner,omitempty"`
	Diff   float64 `json:"diff"`
	Komi   float64 `json:"komi"`
}

// Game outcomes from one participant's point of view, as recorded by the
// rating collaborator.
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
	OutcomeDrew = "drew"
)

// GameResult is the durable record handed to the persistence collaborator
// when a game ends.
type GameResult struct {
	GameID     string    `json:"game_id"`
	BoardSize  int       `json:"board_size"`
	Black      string    `json:"black"`
	White      string    `json:"white"`
	Winner     string    `json:"winner,omitempty"`
	Reason     string    `json:"reason"`
	ScoreBlack float64   `json:"score_black"`
	ScoreWhite float64   `json:"score_white"`
	FinishedAt time.Time `json:"finished_at"`
}

// Rating is the per-participant statistics blob kept by the rating
// collaborator.
type Rating struct {
	ParticipantID string         `json:"participant_id"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	Draws         int            `json:"draws"`
	GamesBySize   map[string]int `json:"games_by_size,omitempty"`
}
