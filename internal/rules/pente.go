package rules

import (
	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

// Pente - placement only; alignments are scored by the session.
type Pente struct {
	variant entity.Variant
}

func NewPente(variant entity.Variant) *Pente {
	return &Pente{variant: variant}
}

func (that *Pente) Validate(grid *entity.Grid, roster []*entity.GamePlayer, move *entity.Move) Verdict {
	seat := seatOf(roster, move.PlayerID)
	if seat == nil {
		return Invalid(ErrNotSeated)
	}

	if move.Current != nil {
		return Invalid(ErrFixedPieces)
	}

	destination := move.Destination
	if !that.variant.InBounds(destination.Coordinate) {
		return Invalid(ErrOutsideBoard)
	}

	if destination.Color != entity.NoColor && destination.Color != seat.Color {
		return Invalid(ErrForeignColor)
	}

	if _, occupied := grid.GetLocation(destination.Coordinate); occupied {
		return Invalid(apperror.ErrCellOccupied)
	}

	return valid(entity.Mutation{
		Place: []entity.Cell{{Coordinate: destination.Coordinate, Color: seat.Color}},
	})
}

// IsTerminal - the board is full.
func (that *Pente) IsTerminal(grid *entity.Grid, _ []*entity.GamePlayer) bool {
	return grid.Len() >= that.variant.Columns*that.variant.Rows
}

func (that *Pente) Setup(_ *entity.Grid, _ []*entity.GamePlayer) {}

// Candidates offers the centre on an empty board, otherwise every empty cell touching a placed one.
func (that *Pente) Candidates(grid *entity.Grid, seat *entity.GamePlayer) []*entity.Move {
	if grid.Len() == 0 {
		center := entity.NewCell(that.variant.Columns/2, that.variant.Rows/2, seat.Color)
		return []*entity.Move{{PlayerID: seat.ID, Destination: center, Status: entity.StatusPending}}
	}

	seen := make(map[entity.Coordinate]bool)
	var moves []*entity.Move
	for _, cell := range grid.Cells() {
		for _, axis := range entity.Axes() {
			first, second := axis.Directions()
			for _, direction := range []entity.Direction{first, second} {
				at := cell.Step(direction)
				if seen[at] || !that.variant.InBounds(at) {
					continue
				}
				seen[at] = true

				if _, occupied := grid.GetLocation(at); occupied {
					continue
				}
				moves = append(moves, &entity.Move{
					PlayerID:    seat.ID,
					Destination: entity.Cell{Coordinate: at, Color: seat.Color},
					Status:      entity.StatusPending,
				})
			}
		}
	}

	return moves
}
