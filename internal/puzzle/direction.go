package puzzle

import (
	"encoding/json"
	"fmt"
)

// Direction is a placement orientation on the grid.
type Direction string

const (
	Horizontal        Direction = "horizontal"
	HorizontalReverse Direction = "horizontalReverse"
	Vertical          Direction = "vertical"
	VerticalReverse   Direction = "verticalReverse"
	Diagonal          Direction = "diagonal"
	DiagonalReverse   Direction = "diagonalReverse"
)

// AllDirections lists every supported direction.
var AllDirections = []Direction{
	Horizontal, Vertical, Diagonal,
	HorizontalReverse, VerticalReverse, DiagonalReverse,
}

// geometry describes how a word of length n is walked for one direction.
//
// rowBound/colBound are exclusive upper bounds for the start coordinate.
type geometry struct {
	rowStep, colStep   int
	rowBound, colBound int
	reversed           bool
}

// geometryFor returns the walk for d on a size×size grid and a word of length n.
func geometryFor(d Direction, size, n int) (geometry, bool) {
	switch d {
	case Horizontal:
		return geometry{rowStep: 0, colStep: 1, rowBound: size, colBound: size - n}, true
	case HorizontalReverse:
		return geometry{rowStep: 0, colStep: -1, rowBound: size, colBound: size - 1, reversed: true}, true
	case Vertical:
		return geometry{rowStep: 1, colStep: 0, rowBound: size - n, colBound: size}, true
	case VerticalReverse:
		return geometry{rowStep: -1, colStep: 0, rowBound: size - 1, colBound: size, reversed: true}, true
	case Diagonal:
		return geometry{rowStep: 1, colStep: 1, rowBound: size - n, colBound: size - n}, true
	case DiagonalReverse:
		return geometry{rowStep: 1, colStep: -1, rowBound: size - n, colBound: size - 1, reversed: true}, true
	}
	return geometry{}, false
}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	_, ok := geometryFor(d, 1, 1)
	return ok
}

// UnmarshalJSON rejects unknown direction names.
func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Direction(s).Valid() {
		return fmt.Errorf("puzzle: unknown direction %q", s)
	}
	*d = Direction(s)
	return nil
}
