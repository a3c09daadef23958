package entity

// BeadString - an ordered run of same-coloured cells on one line.
type BeadString struct {
	Color Color  `json:"color"`
	Cells []Cell `json:"cells"`
}

const (
	TriaSize    = 3
	TesseraSize = 4
)

func (that BeadString) Len() int {
	return len(that.Cells)
}

func (that BeadString) Contains(coordinate Coordinate) bool {
	for _, cell := range that.Cells {
		if cell.Coordinate == coordinate {
			return true
		}
	}
	return false
}

// IsSubsetOf compares by coordinate set; order is ignored.
func (that BeadString) IsSubsetOf(other BeadString) bool {
	if that.Len() > other.Len() {
		return false
	}
	for _, cell := range that.Cells {
		if !other.Contains(cell.Coordinate) {
			return false
		}
	}
	return true
}

func (that BeadString) Equal(other BeadString) bool {
	return that.Len() == other.Len() && that.IsSubsetOf(other)
}
