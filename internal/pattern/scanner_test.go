package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

const (
	triaScore    = 1
	tesseraScore = 2
)

func place(grid *entity.Grid, color entity.Color, coords ...[2]int) []entity.Cell {
	cells := make([]entity.Cell, 0, len(coords))
	for _, c := range coords {
		cell := entity.NewCell(c[0], c[1], color)
		grid.UpdateCell(cell)
		cells = append(cells, cell)
	}
	return cells
}

func TestScanner_Tria(t *testing.T) {
	t.Run("Run of exactly three records one tria", func(t *testing.T) {
		// Given: two black cells in a row and a third placed next to them
		grid := entity.NewGrid()
		place(grid, entity.Black, [2]int{5, 5}, [2]int{6, 5})
		placed := place(grid, entity.Black, [2]int{7, 5})[0]

		// When: scanning from the placed cell
		result := NewScanner(triaScore, tesseraScore).Scan(grid, placed, nil)

		// Then: exactly one tria is recorded
		require.Len(t, result.Trias, 1)
		assert.Empty(t, result.Tesseras)
		assert.Equal(t, triaScore, result.Delta)
		assert.Equal(t, 3, result.Trias[0].Len())
		assert.Equal(t, entity.NewCell(5, 5, entity.Black), result.Trias[0].Cells[0])
	})

	t.Run("Tria is scored once whichever cell triggers the scan", func(t *testing.T) {
		// Given: a vertical line of three red cells
		grid := entity.NewGrid()
		cells := place(grid, entity.Red, [2]int{2, 2}, [2]int{2, 3}, [2]int{2, 4})
		scanner := NewScanner(triaScore, tesseraScore)

		// When: every cell of the line is scanned with the growing record
		var recorded []entity.BeadString
		total := 0
		for _, cell := range cells {
			result := scanner.Scan(grid, cell, recorded)
			recorded = append(recorded, result.Trias...)
			total += result.Delta
		}

		// Then: the tria is credited once
		assert.Len(t, recorded, 1)
		assert.Equal(t, triaScore, total)
	})

	t.Run("Other colours and gaps end the run", func(t *testing.T) {
		grid := entity.NewGrid()
		place(grid, entity.Black, [2]int{0, 0}, [2]int{1, 0})
		place(grid, entity.Blue, [2]int{3, 0})
		place(grid, entity.Black, [2]int{4, 0})
		placed := place(grid, entity.Black, [2]int{2, 0})[0]

		result := NewScanner(triaScore, tesseraScore).Scan(grid, placed, nil)

		require.Len(t, result.Trias, 1)
		assert.False(t, result.Trias[0].Contains(entity.Coordinate{Column: 4, Row: 0}))
	})

	t.Run("Pairs score nothing", func(t *testing.T) {
		grid := entity.NewGrid()
		place(grid, entity.Green, [2]int{0, 0})
		placed := place(grid, entity.Green, [2]int{1, 1})[0]

		result := NewScanner(triaScore, tesseraScore).Scan(grid, placed, nil)

		assert.True(t, result.IsEmpty())
		assert.Zero(t, result.Delta)
	})

	t.Run("One placement can complete runs on several axes", func(t *testing.T) {
		// Given: a horizontal pair and a diagonal pair meeting at (2,2)
		grid := entity.NewGrid()
		place(grid, entity.Black, [2]int{0, 2}, [2]int{1, 2}, [2]int{0, 0}, [2]int{1, 1})
		placed := place(grid, entity.Black, [2]int{2, 2})[0]

		// When: scanning the meeting cell
		result := NewScanner(triaScore, tesseraScore).Scan(grid, placed, nil)

		// Then: both trias are recorded
		assert.Len(t, result.Trias, 2)
		assert.Equal(t, 2*triaScore, result.Delta)
	})
}

func TestScanner_Tessera(t *testing.T) {
	t.Run("Extending a tria supersedes it without double counting", func(t *testing.T) {
		// Given: a seat that already owns a tria
		grid := entity.NewGrid()
		scanner := NewScanner(triaScore, tesseraScore)
		seat := &entity.GamePlayer{Color: entity.Black}

		third := place(grid, entity.Black, [2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0})[2]
		scanner.Scan(grid, third, seat.Recorded()).Apply(seat)
		require.Len(t, seat.Trias, 1)

		// When: the run is extended to four
		fourth := place(grid, entity.Black, [2]int{3, 0})[0]
		result := scanner.Scan(grid, fourth, seat.Recorded())
		result.Apply(seat)

		// Then: one tessera replaces the tria and the seat is paid the tessera score in total
		assert.Len(t, result.Superseded, 1)
		assert.Empty(t, seat.Trias)
		require.Len(t, seat.Tesseras, 1)
		assert.Equal(t, 4, seat.Tesseras[0].Len())
		assert.Equal(t, tesseraScore, seat.Score)
	})

	t.Run("Tessera keeps the full run", func(t *testing.T) {
		// Given: two pairs with a gap between them
		grid := entity.NewGrid()
		place(grid, entity.Red, [2]int{0, 0}, [2]int{1, 1}, [2]int{3, 3}, [2]int{4, 4})
		placed := place(grid, entity.Red, [2]int{2, 2})[0]

		// When: the gap is filled
		result := NewScanner(triaScore, tesseraScore).Scan(grid, placed, nil)

		// Then: a five cell tessera is recorded
		require.Len(t, result.Tesseras, 1)
		assert.Equal(t, 5, result.Tesseras[0].Len())
		assert.Equal(t, tesseraScore, result.Delta)
	})

	t.Run("Joining two trias into one tessera adds nothing", func(t *testing.T) {
		// Given: a seat owning two trias on one row with a single gap between them
		grid := entity.NewGrid()
		scanner := NewScanner(triaScore, tesseraScore)
		seat := &entity.GamePlayer{Color: entity.Green}

		left := place(grid, entity.Green, [2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0})[2]
		scanner.Scan(grid, left, seat.Recorded()).Apply(seat)
		right := place(grid, entity.Green, [2]int{4, 0}, [2]int{5, 0}, [2]int{6, 0})[2]
		scanner.Scan(grid, right, seat.Recorded()).Apply(seat)
		require.Len(t, seat.Trias, 2)
		require.Equal(t, 2*triaScore, seat.Score)

		// When: the gap is filled
		gap := place(grid, entity.Green, [2]int{3, 0})[0]
		result := scanner.Scan(grid, gap, seat.Recorded())
		result.Apply(seat)

		// Then: the seven cell tessera replaces both trias and the score stays at the tessera value
		assert.Len(t, result.Superseded, 2)
		assert.Zero(t, result.Delta)
		assert.Empty(t, seat.Trias)
		require.Len(t, seat.Tesseras, 1)
		assert.Equal(t, 7, seat.Tesseras[0].Len())
		assert.Equal(t, tesseraScore, seat.Score)
	})

	t.Run("Recorded tessera is never re-scored", func(t *testing.T) {
		grid := entity.NewGrid()
		scanner := NewScanner(triaScore, tesseraScore)
		seat := &entity.GamePlayer{Color: entity.Blue}

		last := place(grid, entity.Blue, [2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})[3]
		scanner.Scan(grid, last, seat.Recorded()).Apply(seat)

		fifth := place(grid, entity.Blue, [2]int{0, 4})[0]
		result := scanner.Scan(grid, fifth, seat.Recorded())

		assert.True(t, result.IsEmpty())
		assert.Zero(t, result.Delta)
	})
}

func TestScanner_ScanAll(t *testing.T) {
	t.Run("Several placed cells of one run are credited once", func(t *testing.T) {
		// Given: three cells placed at once
		grid := entity.NewGrid()
		placed := place(grid, entity.Black, [2]int{4, 0}, [2]int{4, 1}, [2]int{4, 2})

		// When: all of them are scanned
		result := NewScanner(triaScore, tesseraScore).ScanAll(grid, placed, nil)

		// Then: one tria
		assert.Len(t, result.Trias, 1)
		assert.Equal(t, triaScore, result.Delta)
	})
}
