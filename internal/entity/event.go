package entity

import "time"

type EventKind string

const (
	EventBegin        EventKind = "BEGIN"
	EventPlayerChange EventKind = "PLAYER_CHANGE"
	EventMoveComplete EventKind = "MOVE_COMPLETE"
	EventEnd          EventKind = "END"
)

type Event struct {
	Kind      EventKind `json:"kind"`
	GameID    string    `json:"game_id"`
	GameType  GameType  `json:"game_type"`
	Payload   any       `json:"payload,omitempty"`
	EmittedAt time.Time `json:"emitted_at"`
}

func NewEvent(kind EventKind, game *Game, payload any) Event {
	return Event{
		Kind:      kind,
		GameID:    game.ID,
		GameType:  game.Type,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}
