package entity

// Participant identity kinds, resolved once at the transport boundary. The
// core treats the ID as an opaque stable string either way.
const (
	KindGuest   = "guest"
	KindAccount = "account"
)

type Player struct {
	ID     string `json:"id"`
	Kind   string `json:"kind,omitempty"`
	Color  string `json:"color,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

func (that *Player) IsGuest() bool {
	return that.Kind == KindGuest
}
