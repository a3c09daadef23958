package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
)

type GameState string

const (
	StateOpen   GameState = "OPEN"
	StateActive GameState = "ACTIVE"
	StateEnd    GameState = "END"
)

var (
	ErrUnknownGameState = errors.New("unknown game state")
	ErrSeatNotFound     = errors.New("seat not found")
)

type Game struct {
	ID        string        `json:"id"`
	Type      GameType      `json:"type"`
	Mode      Mode          `json:"mode,omitempty"`
	State     GameState     `json:"state"`
	Grid      *Grid         `json:"grid"`
	Players   []*GamePlayer `json:"players"`
	Turn      int           `json:"turn"`
	MoveCount int           `json:"move_count"`
	Winner    string        `json:"winner,omitempty"`
	Version   int64         `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewGame(id string, variant Variant) *Game {
	now := time.Now().UTC()

	return &Game{
		ID:        id,
		Type:      variant.Type,
		Mode:      variant.Mode,
		State:     StateOpen,
		Grid:      NewGrid(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsOpen() bool {
	return that.State == StateOpen
}

func (that *Game) IsActive() bool {
	return that.State == StateActive
}

func (that *Game) IsEnded() bool {
	return that.State == StateEnd
}

func (that *Game) ConfirmActiveState() error {
	switch {
	case that.IsOpen():
		return apperror.ErrGameIsNotStarted
	case that.IsEnded():
		return apperror.ErrGameFinished
	case that.IsActive():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameState, that.State)
	}
}

// CurrentPlayer returns the turn-holder, nil unless the game is active.
func (that *Game) CurrentPlayer() *GamePlayer {
	if !that.IsActive() || len(that.Players) == 0 {
		return nil
	}
	return that.Players[that.Turn%len(that.Players)]
}

func (that *Game) IsTurnOf(seatID string) bool {
	current := that.CurrentPlayer()
	return current != nil && current.ID == seatID
}

// AdvanceTurn hands the turn to the next seat in join order.
func (that *Game) AdvanceTurn() {
	if len(that.Players) == 0 {
		return
	}
	that.Turn = (that.Turn + 1) % len(that.Players)
}

func (that *Game) Seat(seatID string) *GamePlayer {
	for _, player := range that.Players {
		if player.ID == seatID {
			return player
		}
	}
	return nil
}

// SeatOf finds the seat held by a player identity.
func (that *Game) SeatOf(playerID string) *GamePlayer {
	for _, player := range that.Players {
		if player.PlayerID == playerID {
			return player
		}
	}
	return nil
}

func (that *Game) AddPlayer(player *GamePlayer) {
	player.GameID = that.ID
	player.Type = that.Type
	that.Players = append(that.Players, player)
}

func (that *Game) RemovePlayer(seatID string) error {
	for i, player := range that.Players {
		if player.ID == seatID {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			if len(that.Players) > 0 && that.Turn >= len(that.Players) {
				that.Turn = 0
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSeatNotFound, seatID)
}

// AvailableColors returns the palette minus colours already seated, in palette order.
func (that *Game) AvailableColors(palette []Color) []Color {
	taken := make(map[Color]bool, len(that.Players))
	for _, player := range that.Players {
		taken[player.Color] = true
	}

	available := make([]Color, 0, len(palette))
	for _, color := range palette {
		if !taken[color] {
			available = append(available, color)
		}
	}
	return available
}

// TurnOrder lists the seats starting with the turn-holder.
func (that *Game) TurnOrder() []*GamePlayer {
	order := make([]*GamePlayer, 0, len(that.Players))
	for i := range that.Players {
		order = append(order, that.Players[(that.Turn+i)%len(that.Players)])
	}
	return order
}

func (that *Game) Start() {
	that.State = StateActive
	that.Turn = 0
}

// Finish ends the game; an empty winner means nobody won.
func (that *Game) Finish(winner string) {
	that.State = StateEnd
	that.Winner = winner
}

// Leader returns the unique top scorer, nil on a tie.
func (that *Game) Leader() *GamePlayer {
	var leader *GamePlayer
	tied := false
	for _, player := range that.Players {
		switch {
		case leader == nil || player.Score > leader.Score:
			leader = player
			tied = false
		case player.Score == leader.Score:
			tied = true
		}
	}
	if tied {
		return nil
	}
	return leader
}
