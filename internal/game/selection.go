package game

import "slices"

// Selection tracks the player's in-progress path.
//
// The path never repeats a cell and each cell is 8-adjacent to the previous
// one. It is not required to be straight; bent paths simply fail to match.
type Selection struct {
	path Path
}

// Select toggles or extends the path with c:
//   - c is the tail: it is removed.
//   - c is elsewhere on the path: nothing happens.
//   - otherwise c is appended if the path is empty or c touches the tail.
//
// It reports whether the path changed.
func (s *Selection) Select(c Cell) bool {
	if i := slices.Index(s.path, c); i >= 0 {
		if i == len(s.path)-1 {
			s.path = s.path[:i]
			return true
		}
		return false
	}
	if len(s.path) == 0 || s.path[len(s.path)-1].Adjacent(c) {
		s.path = append(s.path, c)
		return true
	}
	return false
}

// Clear empties the path.
func (s *Selection) Clear() { s.path = nil }

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool { return len(s.path) == 0 }

// Len is the number of selected cells.
func (s *Selection) Len() int { return len(s.path) }

// Path returns a copy of the current path.
func (s *Selection) Path() Path { return append(Path{}, s.path...) }

// Contains reports whether c is on the path.
func (s *Selection) Contains(c Cell) bool { return slices.Contains(s.path, c) }
