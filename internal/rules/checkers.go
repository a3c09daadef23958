package rules

import (
	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

const checkersRowsPerSide = 3

// Checkers - men only: a diagonal step forward or a single capturing jump.
// BLACK starts on the low rows and moves north, every other colour starts on the high rows and moves south.
type Checkers struct {
	variant entity.Variant
}

func NewCheckers(variant entity.Variant) *Checkers {
	return &Checkers{variant: variant}
}

func (that *Checkers) Validate(grid *entity.Grid, roster []*entity.GamePlayer, move *entity.Move) Verdict {
	seat := seatOf(roster, move.PlayerID)
	if seat == nil {
		return Invalid(ErrNotSeated)
	}

	if move.Current == nil {
		return Invalid(ErrNoPieceToMove)
	}

	source, destination := move.Current.Coordinate, move.Destination.Coordinate
	if !that.variant.InBounds(source) || !that.variant.InBounds(destination) {
		return Invalid(ErrOutsideBoard)
	}

	if move.Destination.Color != entity.NoColor && move.Destination.Color != seat.Color {
		return Invalid(ErrForeignColor)
	}

	piece, ok := grid.GetLocation(source)
	if !ok || piece.Color != seat.Color {
		return Invalid(ErrNotYourPiece)
	}

	if _, occupied := grid.GetLocation(destination); occupied {
		return Invalid(apperror.ErrCellOccupied)
	}

	forward := that.forward(seat.Color)
	dc, dr := destination.Column-source.Column, destination.Row-source.Row
	landed := entity.Cell{Coordinate: destination, Color: seat.Color}

	switch {
	case (dc == 1 || dc == -1) && dr == forward:
		return valid(entity.Mutation{
			Remove: []entity.Coordinate{source},
			Place:  []entity.Cell{landed},
		})

	case (dc == 2 || dc == -2) && dr == 2*forward:
		jumped := entity.Coordinate{Column: source.Column + dc/2, Row: source.Row + dr/2}
		victim, found := grid.GetLocation(jumped)
		if !found || victim.Color == seat.Color {
			return Invalid(ErrNothingToTake)
		}

		return valid(entity.Mutation{
			Remove:     []entity.Coordinate{source, jumped},
			Place:      []entity.Cell{landed},
			ScoreDelta: 1,
		})

	default:
		return Invalid(ErrIllegalStep)
	}
}

// IsTerminal - the seat about to move has no legal move left.
func (that *Checkers) IsTerminal(grid *entity.Grid, roster []*entity.GamePlayer) bool {
	if len(roster) == 0 {
		return false
	}
	return len(that.Candidates(grid, roster[0])) == 0
}

func (that *Checkers) Setup(grid *entity.Grid, roster []*entity.GamePlayer) {
	for _, seat := range roster {
		first := 0
		if that.forward(seat.Color) < 0 {
			first = that.variant.Rows - checkersRowsPerSide
		}

		for row := first; row < first+checkersRowsPerSide; row++ {
			for column := 0; column < that.variant.Columns; column++ {
				if isDark(column, row) {
					grid.UpdateCell(entity.NewCell(column, row, seat.Color))
				}
			}
		}
	}
}

func (that *Checkers) Candidates(grid *entity.Grid, seat *entity.GamePlayer) []*entity.Move {
	roster := []*entity.GamePlayer{seat}
	forward := that.forward(seat.Color)

	var moves []*entity.Move
	for _, piece := range grid.CellsOf(seat.Color) {
		for _, reach := range []int{1, 2} {
			for _, side := range []int{-1, 1} {
				current := piece
				move := &entity.Move{
					PlayerID:    seat.ID,
					Current:     &current,
					Destination: entity.NewCell(piece.Column+side*reach, piece.Row+forward*reach, seat.Color),
					Status:      entity.StatusPending,
				}
				if that.Validate(grid, roster, move).IsValid() {
					moves = append(moves, move)
				}
			}
		}
	}

	return moves
}

func (that *Checkers) forward(color entity.Color) int {
	if color == entity.Black {
		return 1
	}
	return -1
}

func isDark(column, row int) bool {
	return (column+row)%2 == 0
}
