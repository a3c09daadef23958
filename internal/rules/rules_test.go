package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

func roster(colors ...entity.Color) []*entity.GamePlayer {
	seats := make([]*entity.GamePlayer, 0, len(colors))
	for _, color := range colors {
		seats = append(seats, &entity.GamePlayer{ID: "seat-" + string(color), Color: color})
	}
	return seats
}

func placement(seatID string, column, row int) *entity.Move {
	return &entity.Move{PlayerID: seatID, Destination: entity.NewCell(column, row, entity.NoColor)}
}

func relocation(seatID string, from, to [2]int) *entity.Move {
	current := entity.NewCell(from[0], from[1], entity.NoColor)
	return &entity.Move{PlayerID: seatID, Current: &current, Destination: entity.NewCell(to[0], to[1], entity.NoColor)}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(entity.DefaultVariants())

	pente, err := registry.Get(entity.Pente)
	require.NoError(t, err)
	assert.IsType(t, &Pente{}, pente)

	checkers, err := registry.Get(entity.Checkers)
	require.NoError(t, err)
	assert.IsType(t, &Checkers{}, checkers)

	_, err = registry.Get("GO")
	assert.ErrorIs(t, err, apperror.ErrUnknownGameType)
}

func TestPente_Validate(t *testing.T) {
	evaluator := NewPente(entity.DefaultVariants()[entity.Pente])
	seats := roster(entity.Black, entity.Blue, entity.Green, entity.Red)

	t.Run("Placement on an empty cell takes the seat colour", func(t *testing.T) {
		// Given: an empty grid
		grid := entity.NewGrid()

		// When: black places at the centre
		verdict := evaluator.Validate(grid, seats, placement("seat-BLACK", 9, 9))

		// Then: the mutation places a black cell and leaves the grid untouched
		require.True(t, verdict.IsValid())
		assert.Equal(t, []entity.Cell{entity.NewCell(9, 9, entity.Black)}, verdict.Mutation.Place)
		assert.Empty(t, verdict.Mutation.Remove)
		assert.Equal(t, 0, grid.Len())
	})

	t.Run("Rejections", func(t *testing.T) {
		grid := entity.NewGrid(entity.NewCell(3, 3, entity.Red))
		foreign := placement("seat-BLACK", 4, 4)
		foreign.Destination.Color = entity.Red

		cases := map[string]struct {
			move   *entity.Move
			reason error
		}{
			"occupied":   {placement("seat-BLUE", 3, 3), apperror.ErrCellOccupied},
			"off board":  {placement("seat-BLUE", 19, 0), ErrOutsideBoard},
			"not seated": {placement("stranger", 1, 1), ErrNotSeated},
			"relocation": {relocation("seat-RED", [2]int{3, 3}, [2]int{4, 3}), ErrFixedPieces},
			"foreign":    {foreign, ErrForeignColor},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				verdict := evaluator.Validate(grid, seats, tc.move)

				assert.Equal(t, entity.StatusInvalid, verdict.Status)
				assert.Equal(t, tc.reason.Error(), verdict.Reason)
			})
		}
	})
}

func TestPente_Candidates(t *testing.T) {
	evaluator := NewPente(entity.DefaultVariants()[entity.Pente])
	seat := roster(entity.Green)[0]

	t.Run("Empty board offers the centre", func(t *testing.T) {
		moves := evaluator.Candidates(entity.NewGrid(), seat)

		require.Len(t, moves, 1)
		assert.Equal(t, entity.NewCell(9, 9, entity.Green), moves[0].Destination)
	})

	t.Run("Neighbours of placed cells are offered once", func(t *testing.T) {
		// Given: a single cell in the corner
		grid := entity.NewGrid(entity.NewCell(0, 0, entity.Black))

		// When: asking for candidates
		moves := evaluator.Candidates(grid, seat)

		// Then: the three in-bounds neighbours are offered
		assert.Len(t, moves, 3)
		for _, move := range moves {
			assert.True(t, evaluator.Validate(grid, []*entity.GamePlayer{seat}, move).IsValid())
		}
	})

	t.Run("Full board is terminal", func(t *testing.T) {
		variant := entity.DefaultVariants()[entity.Pente]
		variant.Columns, variant.Rows = 2, 2
		small := NewPente(variant)

		grid := entity.NewGrid(entity.NewCell(0, 0, entity.Black), entity.NewCell(1, 0, entity.Red), entity.NewCell(0, 1, entity.Blue))
		assert.False(t, small.IsTerminal(grid, nil))

		grid.UpdateCell(entity.NewCell(1, 1, entity.Green))
		assert.True(t, small.IsTerminal(grid, nil))
	})
}

func TestCheckers(t *testing.T) {
	variant := entity.DefaultVariants()[entity.Checkers]
	evaluator := NewCheckers(variant)
	seats := roster(entity.Black, entity.Red)

	t.Run("Setup lays twelve pieces per side on dark squares", func(t *testing.T) {
		grid := entity.NewGrid()

		evaluator.Setup(grid, seats)

		assert.Len(t, grid.CellsOf(entity.Black), 12)
		assert.Len(t, grid.CellsOf(entity.Red), 12)
		for _, cell := range grid.Cells() {
			assert.True(t, isDark(cell.Column, cell.Row), cell.Coordinate.String())
		}
		assert.Len(t, evaluator.Candidates(grid, seats[0]), 7)
		assert.Len(t, evaluator.Candidates(grid, seats[1]), 7)
		assert.False(t, evaluator.IsTerminal(grid, seats))
	})

	t.Run("Step forward relocates the piece", func(t *testing.T) {
		grid := entity.NewGrid(entity.NewCell(2, 2, entity.Black))

		verdict := evaluator.Validate(grid, seats, relocation("seat-BLACK", [2]int{2, 2}, [2]int{3, 3}))

		require.True(t, verdict.IsValid())
		assert.Equal(t, []entity.Coordinate{{Column: 2, Row: 2}}, verdict.Mutation.Remove)
		assert.Equal(t, []entity.Cell{entity.NewCell(3, 3, entity.Black)}, verdict.Mutation.Place)
		assert.Zero(t, verdict.Mutation.ScoreDelta)
	})

	t.Run("Jump captures the opposing piece", func(t *testing.T) {
		// Given: a red piece diagonally in front of a black one
		grid := entity.NewGrid(entity.NewCell(2, 2, entity.Black), entity.NewCell(3, 3, entity.Red))

		// When: black jumps over it
		verdict := evaluator.Validate(grid, seats, relocation("seat-BLACK", [2]int{2, 2}, [2]int{4, 4}))

		// Then: both the source and the captured piece are removed
		require.True(t, verdict.IsValid())
		assert.ElementsMatch(t, []entity.Coordinate{{Column: 2, Row: 2}, {Column: 3, Row: 3}}, verdict.Mutation.Remove)
		assert.Equal(t, 1, verdict.Mutation.ScoreDelta)

		verdict.Mutation.Apply(grid)
		assert.Equal(t, []entity.Cell{entity.NewCell(4, 4, entity.Black)}, grid.Cells())
	})

	t.Run("Rejections", func(t *testing.T) {
		grid := entity.NewGrid(entity.NewCell(2, 2, entity.Black), entity.NewCell(5, 5, entity.Red), entity.NewCell(1, 3, entity.Black))

		cases := map[string]struct {
			move   *entity.Move
			reason error
		}{
			"backwards":      {relocation("seat-BLACK", [2]int{2, 2}, [2]int{3, 1}), ErrIllegalStep},
			"red goes down":  {relocation("seat-RED", [2]int{5, 5}, [2]int{6, 6}), ErrIllegalStep},
			"opponent piece": {relocation("seat-BLACK", [2]int{5, 5}, [2]int{4, 6}), ErrNotYourPiece},
			"empty jump":     {relocation("seat-BLACK", [2]int{2, 2}, [2]int{4, 4}), ErrNothingToTake},
			"own jump":       {relocation("seat-BLACK", [2]int{2, 2}, [2]int{0, 4}), ErrNothingToTake},
			"occupied":       {relocation("seat-BLACK", [2]int{2, 2}, [2]int{1, 3}), apperror.ErrCellOccupied},
			"off board":      {relocation("seat-RED", [2]int{5, 5}, [2]int{5, 8}), ErrOutsideBoard},
			"placement":      {placement("seat-BLACK", 0, 0), ErrNoPieceToMove},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				verdict := evaluator.Validate(grid, seats, tc.move)

				assert.Equal(t, entity.StatusInvalid, verdict.Status)
				assert.Equal(t, tc.reason.Error(), verdict.Reason)
			})
		}
	})

	t.Run("Only the seat about to move can run out of moves", func(t *testing.T) {
		// Given: black has a piece left, red has none
		grid := entity.NewGrid(entity.NewCell(2, 2, entity.Black))

		// Then: the game ends when red is to move, not when black is
		assert.True(t, evaluator.IsTerminal(grid, roster(entity.Red, entity.Black)))
		assert.False(t, evaluator.IsTerminal(grid, seats))
	})

	t.Run("Blocked mover ends the game even if the other side could move", func(t *testing.T) {
		// Given: a red piece on its last row and a black piece stuck on the top edge
		grid := entity.NewGrid(entity.NewCell(1, 7, entity.Black), entity.NewCell(4, 4, entity.Red))

		assert.True(t, evaluator.IsTerminal(grid, seats))
		assert.False(t, evaluator.IsTerminal(grid, roster(entity.Red, entity.Black)))
	})
}
