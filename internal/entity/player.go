package entity

import (
	"strings"
	"time"
)

const BotPrefix = "bot:"

// Player - a registered identity, independent of any session.
type Player struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Color            Color     `json:"color,omitempty"`
	GameCount        int       `json:"game_count"`
	Wins             int       `json:"wins"`
	LastRegistration time.Time `json:"last_registration,omitempty"`
}

func NewBotPlayer(name string) *Player {
	return &Player{
		ID:   BotPrefix + name,
		Name: name,
	}
}

func (that *Player) IsBot() bool {
	return strings.HasPrefix(that.ID, BotPrefix)
}

// GamePlayer - a seat: a player bound to one session with a colour.
type GamePlayer struct {
	ID       string       `json:"id"`
	PlayerID string       `json:"player_id"`
	Name     string       `json:"name"`
	GameID   string       `json:"game_id"`
	Type     GameType     `json:"type"`
	Color    Color        `json:"color"`
	Score    int          `json:"score"`
	Trias    []BeadString `json:"trias,omitempty"`
	Tesseras []BeadString `json:"tesseras,omitempty"`
	JoinedAt time.Time    `json:"joined_at"`
}

func (that *GamePlayer) IsBot() bool {
	return strings.HasPrefix(that.PlayerID, BotPrefix)
}

// Recorded returns every bead string already credited to the seat.
func (that *GamePlayer) Recorded() []BeadString {
	recorded := make([]BeadString, 0, len(that.Trias)+len(that.Tesseras))
	recorded = append(recorded, that.Trias...)
	return append(recorded, that.Tesseras...)
}
