package entity

import (
	"encoding/json"
	"fmt"
	"sort"
)

type Coordinate struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Less orders by column, then row.
func (that Coordinate) Less(other Coordinate) bool {
	if that.Column != other.Column {
		return that.Column < other.Column
	}
	return that.Row < other.Row
}

// Step returns the neighbour in the given direction.
func (that Coordinate) Step(direction Direction) Coordinate {
	dc, dr := direction.Offset()
	return Coordinate{Column: that.Column + dc, Row: that.Row + dr}
}

func (that Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", that.Column, that.Row)
}

type Cell struct {
	Coordinate
	Color Color `json:"color"`
}

func NewCell(column, row int, color Color) Cell {
	return Cell{Coordinate: Coordinate{Column: column, Row: row}, Color: color}
}

// Grid - the sparse board. Absent coordinates are empty.
type Grid struct {
	cells map[Coordinate]Cell
}

func NewGrid(cells ...Cell) *Grid {
	grid := &Grid{cells: make(map[Coordinate]Cell, len(cells))}
	for _, cell := range cells {
		grid.UpdateCell(cell)
	}
	return grid
}

func (that *Grid) GetLocation(coordinate Coordinate) (Cell, bool) {
	if that == nil {
		return Cell{}, false
	}
	cell, ok := that.cells[coordinate]
	return cell, ok
}

// UpdateCell places or replaces the cell at its coordinate.
func (that *Grid) UpdateCell(cell Cell) {
	if that.cells == nil {
		that.cells = make(map[Coordinate]Cell)
	}
	that.cells[cell.Coordinate] = cell
}

// RemoveCell is a no-op when the coordinate is empty.
func (that *Grid) RemoveCell(coordinate Coordinate) {
	delete(that.cells, coordinate)
}

func (that *Grid) Clone() *Grid {
	clone := &Grid{cells: make(map[Coordinate]Cell, that.Len())}
	if that == nil {
		return clone
	}
	for coordinate, cell := range that.cells {
		clone.cells[coordinate] = cell
	}
	return clone
}

func (that *Grid) Len() int {
	if that == nil {
		return 0
	}
	return len(that.cells)
}

// Cells returns the occupied cells in coordinate order.
func (that *Grid) Cells() []Cell {
	cells := make([]Cell, 0, that.Len())
	if that == nil {
		return cells
	}
	for _, cell := range that.cells {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Less(cells[j].Coordinate)
	})
	return cells
}

func (that *Grid) CellsOf(color Color) []Cell {
	var cells []Cell
	for _, cell := range that.Cells() {
		if cell.Color == color {
			cells = append(cells, cell)
		}
	}
	return cells
}

func (that *Grid) Equal(other *Grid) bool {
	if that.Len() != other.Len() {
		return false
	}
	for _, cell := range that.Cells() {
		if found, ok := other.GetLocation(cell.Coordinate); !ok || found != cell {
			return false
		}
	}
	return true
}

func (that *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Cells())
}

func (that *Grid) UnmarshalJSON(data []byte) error {
	var cells []Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("failed to unmarshal grid: %w", err)
	}

	that.cells = make(map[Coordinate]Cell, len(cells))
	for _, cell := range cells {
		that.cells[cell.Coordinate] = cell
	}
	return nil
}
