package entity

// Event is the envelope delivered to a participant over the transport
// boundary. Only the fields relevant to the action are populated.
type Event struct {
	Player        *Player `json:"player,omitempty"`
	Opponent      *Player `json:"opponent,omitempty"`
	Game          *Game   `json:"game,omitempty"`
	Move          *Move   `json:"move,omitempty"`
	Score         *Score  `json:"score,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	QueuePosition int     `json:"queue_position,omitempty"`
	Error         string  `json:"error,omitempty"`
}
