package entity

// Direction - compass direction on the board, north points to higher rows.
type Direction string

const (
	North     Direction = "NORTH"
	South     Direction = "SOUTH"
	East      Direction = "EAST"
	West      Direction = "WEST"
	NorthEast Direction = "NORTHEAST"
	SouthEast Direction = "SOUTHEAST"
	NorthWest Direction = "NORTHWEST"
	SouthWest Direction = "SOUTHWEST"

	UnknownDirection Direction = "UNKNOWN"
)

// Vertice - the line a direction lies on.
type Vertice string

const (
	Vertical   Vertice = "VERTICAL"
	Horizontal Vertice = "HORIZONTAL"
	Forward    Vertice = "FORWARD"
	Reverse    Vertice = "REVERSE"

	UnknownVertice Vertice = "UNKNOWN"
)

// Axes lists the four lines alignments are looked up on.
func Axes() []Vertice {
	return []Vertice{Horizontal, Vertical, Forward, Reverse}
}

func (that Direction) Vertice() Vertice {
	switch that {
	case North, South:
		return Vertical
	case East, West:
		return Horizontal
	case NorthEast, SouthWest:
		return Forward
	case SouthEast, NorthWest:
		return Reverse
	default:
		return UnknownVertice
	}
}

// Offset returns the column and row delta of one step.
func (that Direction) Offset() (int, int) {
	switch that {
	case North:
		return 0, 1
	case South:
		return 0, -1
	case East:
		return 1, 0
	case West:
		return -1, 0
	case NorthEast:
		return 1, 1
	case SouthEast:
		return 1, -1
	case NorthWest:
		return -1, 1
	case SouthWest:
		return -1, -1
	default:
		return 0, 0
	}
}

func (that Direction) Opposite() Direction {
	switch that {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case NorthEast:
		return SouthWest
	case SouthWest:
		return NorthEast
	case SouthEast:
		return NorthWest
	case NorthWest:
		return SouthEast
	default:
		return UnknownDirection
	}
}

// Directions returns the two opposite directions that make up the line.
func (that Vertice) Directions() (Direction, Direction) {
	switch that {
	case Vertical:
		return North, South
	case Horizontal:
		return East, West
	case Forward:
		return NorthEast, SouthWest
	case Reverse:
		return NorthWest, SouthEast
	default:
		return UnknownDirection, UnknownDirection
	}
}

// DirectionBetween returns the direction of a straight step from one coordinate to another.
func DirectionBetween(from, to Coordinate) Direction {
	dc, dr := sign(to.Column-from.Column), sign(to.Row-from.Row)
	if dc == 0 && dr == 0 {
		return UnknownDirection
	}
	if dc != 0 && dr != 0 && abs(to.Column-from.Column) != abs(to.Row-from.Row) {
		return UnknownDirection
	}

	for _, direction := range []Direction{North, South, East, West, NorthEast, SouthEast, NorthWest, SouthWest} {
		if c, r := direction.Offset(); c == dc && r == dr {
			return direction
		}
	}
	return UnknownDirection
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
