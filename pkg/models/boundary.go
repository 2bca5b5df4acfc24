package models

// Boundary identifies the start or end instant of a schedule item
type Boundary int

const (
	BoundaryStart Boundary = iota
	BoundaryEnd
)

// Boundaries lists every boundary in evaluation order
var Boundaries = []Boundary{BoundaryStart, BoundaryEnd}

func (b Boundary) String() string {
	switch b {
	case BoundaryStart:
		return "start"
	case BoundaryEnd:
		return "end"
	default:
		return "unknown"
	}
}
