package pattern

import (
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
)

// Result - what a scan recorded and what it is worth.
type Result struct {
	Trias      []entity.BeadString
	Tesseras   []entity.BeadString
	Superseded []entity.BeadString
	Delta      int
}

func (that Result) IsEmpty() bool {
	return len(that.Trias) == 0 && len(that.Tesseras) == 0
}

type Scanner struct {
	triaScore    int
	tesseraScore int
}

func NewScanner(triaScore, tesseraScore int) *Scanner {
	return &Scanner{
		triaScore:    triaScore,
		tesseraScore: tesseraScore,
	}
}

// Scan looks for alignments through the placed cell on the four axes.
// Recorded holds the bead strings already credited to the cell's owner.
func (that *Scanner) Scan(grid *entity.Grid, placed entity.Cell, recorded []entity.BeadString) Result {
	var result Result

	known := append([]entity.BeadString{}, recorded...)
	for _, axis := range entity.Axes() {
		run := walk(grid, placed, axis)

		switch {
		case run.Len() == entity.TriaSize:
			if coveredBy(run, known) {
				continue
			}

			result.Trias = append(result.Trias, run)
			result.Delta += that.triaScore
			known = append(known, run)

		case run.Len() >= entity.TesseraSize:
			if overlapsTessera(run, known) {
				continue
			}

			superseded := triasWithin(run, known)
			result.Superseded = append(result.Superseded, superseded...)
			result.Tesseras = append(result.Tesseras, run)
			result.Delta += max(that.tesseraScore-that.triaScore*len(superseded), 0)
			known = append(known, run)
		}
	}

	return result
}

// ScanAll scans each placed cell in order, feeding earlier findings into later scans.
func (that *Scanner) ScanAll(grid *entity.Grid, placed []entity.Cell, recorded []entity.BeadString) Result {
	var total Result

	known := append([]entity.BeadString{}, recorded...)
	for _, cell := range placed {
		result := that.Scan(grid, cell, known)

		total.Trias = append(total.Trias, result.Trias...)
		total.Tesseras = append(total.Tesseras, result.Tesseras...)
		total.Superseded = append(total.Superseded, result.Superseded...)
		total.Delta += result.Delta

		known = append(known, result.Trias...)
		known = append(known, result.Tesseras...)
	}

	// a later cell may have grown a tria found by an earlier one
	total.Trias = without(total.Trias, total.Superseded)

	return total
}

// Apply credits the result to the seat that owns the scanned cells.
func (that Result) Apply(player *entity.GamePlayer) {
	player.Trias = append(without(player.Trias, that.Superseded), that.Trias...)
	player.Tesseras = append(player.Tesseras, that.Tesseras...)
	player.Score += that.Delta
}

// walk collects the maximal same-coloured run through the cell along the axis.
// The sparse grid has nothing past the edge, so the edge ends the walk too.
func walk(grid *entity.Grid, placed entity.Cell, axis entity.Vertice) entity.BeadString {
	forward, backward := axis.Directions()

	var head []entity.Cell
	for at := placed.Step(backward); ; at = at.Step(backward) {
		cell, ok := grid.GetLocation(at)
		if !ok || cell.Color != placed.Color {
			break
		}
		head = append(head, cell)
	}

	cells := make([]entity.Cell, 0, len(head)+1)
	for i := len(head) - 1; i >= 0; i-- {
		cells = append(cells, head[i])
	}
	cells = append(cells, placed)

	for at := placed.Step(forward); ; at = at.Step(forward) {
		cell, ok := grid.GetLocation(at)
		if !ok || cell.Color != placed.Color {
			break
		}
		cells = append(cells, cell)
	}

	return entity.BeadString{Color: placed.Color, Cells: cells}
}

func coveredBy(run entity.BeadString, known []entity.BeadString) bool {
	for _, bead := range known {
		if run.IsSubsetOf(bead) {
			return true
		}
	}
	return false
}

func overlapsTessera(run entity.BeadString, known []entity.BeadString) bool {
	for _, bead := range known {
		if bead.Len() < entity.TesseraSize {
			continue
		}
		if bead.IsSubsetOf(run) || run.IsSubsetOf(bead) {
			return true
		}
	}
	return false
}

func triasWithin(run entity.BeadString, known []entity.BeadString) []entity.BeadString {
	var trias []entity.BeadString
	for _, bead := range known {
		if bead.Len() == entity.TriaSize && bead.IsSubsetOf(run) {
			trias = append(trias, bead)
		}
	}
	return trias
}

func without(beads, removed []entity.BeadString) []entity.BeadString {
	var out []entity.BeadString
	for _, bead := range beads {
		keep := true
		for _, gone := range removed {
			if bead.Equal(gone) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, bead)
		}
	}
	return out
}
