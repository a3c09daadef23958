package entity

import "time"

type MoveStatus string

const (
	StatusPending MoveStatus = "PENDING"
	StatusValid   MoveStatus = "VALID"
	StatusInvalid MoveStatus = "INVALID"
)

// Move - a player's request to change the grid. Current is set for relocations, nil for placements.
type Move struct {
	ID          string     `json:"id,omitempty"`
	GameID      string     `json:"game_id,omitempty"`
	PlayerID    string     `json:"player_id"`
	Current     *Cell      `json:"current,omitempty"`
	Destination Cell       `json:"destination"`
	Status      MoveStatus `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	Sequence    int        `json:"sequence,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

func (that *Move) IsValid() bool {
	return that.Status == StatusValid
}

func (that *Move) Reject(reason string) {
	that.Status = StatusInvalid
	that.Reason = reason
}

// Suggestion - a proposed move that is evaluated but never applied.
type Suggestion struct {
	PlayerID    string     `json:"player_id"`
	Current     *Cell      `json:"current,omitempty"`
	Destination Cell       `json:"destination"`
	Status      MoveStatus `json:"status"`
	Reason      string     `json:"reason,omitempty"`
}

// AsMove builds the move the suggestion stands for.
func (that *Suggestion) AsMove() *Move {
	return &Move{
		PlayerID:    that.PlayerID,
		Current:     that.Current,
		Destination: that.Destination,
		Status:      StatusPending,
	}
}

// Mutation - the grid change a valid move produces.
type Mutation struct {
	Place      []Cell       `json:"place,omitempty"`
	Remove     []Coordinate `json:"remove,omitempty"`
	ScoreDelta int          `json:"score_delta,omitempty"`
}

// Apply removes first, then places.
func (that Mutation) Apply(grid *Grid) {
	for _, coordinate := range that.Remove {
		grid.RemoveCell(coordinate)
	}
	for _, cell := range that.Place {
		grid.UpdateCell(cell)
	}
}
