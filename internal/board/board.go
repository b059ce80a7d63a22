// Package board models the Clue-Less board: a grid of spaces linked to
// their north/south/east/west neighbours, grouped into rooms, hallways and
// secret passages. A Board is built once and shared read-only by all games.
package board

import (
	"fmt"
	"sort"

	apperrors "clueless/internal/errors"
)

// Step is the grid distance between two adjacent cells. Cells sit on even
// coordinates so that a move between neighbours crosses two half-steps.
const Step = 2

// Coord is an integer grid position. North is towards smaller Y.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CollectionID identifies a SpaceCollection on a board.
type CollectionID int

// Kind distinguishes the concrete collection variants.
type Kind int

const (
	KindHallway Kind = iota
	KindSecretPassage
	KindRoom
)

func (k Kind) String() string {
	switch k {
	case KindHallway:
		return "hallway"
	case KindSecretPassage:
		return "secret passage"
	case KindRoom:
		return "room"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Space is a single cell. Each space belongs to exactly one collection.
type Space struct {
	Coord      Coord
	Collection CollectionID

	North, South, East, West *Space
}

// Collection groups spaces that share a board. Secret passages own no
// spaces; they link the two rooms in Ends.
type Collection struct {
	ID     CollectionID
	Kind   Kind
	Name   string
	Spaces []*Space
	Ends   [2]CollectionID
}

// Neighbors holds the four (possibly absent) directional neighbours of a space.
type Neighbors struct {
	North, South, East, West *Space
}

// Board is the shared, immutable game board.
type Board struct {
	spaces      map[Coord]*Space
	collections []*Collection
	passages    map[CollectionID]CollectionID
}

// Space returns the space at c.
func (b *Board) Space(c Coord) (*Space, error) {
	s, ok := b.spaces[c]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "space %s not found", c)
	}
	return s, nil
}

// Neighbors returns the directional neighbours of the space at c.
func (b *Board) Neighbors(c Coord) (Neighbors, error) {
	s, err := b.Space(c)
	if err != nil {
		return Neighbors{}, err
	}
	return Neighbors{North: s.North, South: s.South, East: s.East, West: s.West}, nil
}

// Collection returns the collection with the given id.
func (b *Board) Collection(id CollectionID) (*Collection, error) {
	if id < 0 || int(id) >= len(b.collections) {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "space collection %d not found", id)
	}
	return b.collections[id], nil
}

// Spaces returns the member spaces of a collection.
func (b *Board) Spaces(id CollectionID) ([]*Space, error) {
	col, err := b.Collection(id)
	if err != nil {
		return nil, err
	}
	out := make([]*Space, len(col.Spaces))
	copy(out, col.Spaces)
	return out, nil
}

// CollectionOf returns the collection containing the space at c.
func (b *Board) CollectionOf(c Coord) (*Collection, error) {
	s, err := b.Space(c)
	if err != nil {
		return nil, err
	}
	return b.collections[s.Collection], nil
}

// RoomSpace returns the first space of a room, which is where a character
// lands when summoned into it.
func (b *Board) RoomSpace(id CollectionID) (*Space, error) {
	col, err := b.Collection(id)
	if err != nil {
		return nil, err
	}
	if col.Kind != KindRoom || len(col.Spaces) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "%s is not a room", col.Name)
	}
	return col.Spaces[0], nil
}

// Passage returns the room at the far end of a secret passage leaving room.
func (b *Board) Passage(room CollectionID) (CollectionID, bool) {
	to, ok := b.passages[room]
	return to, ok
}

// Collections returns every collection in id order.
func (b *Board) Collections() []*Collection {
	out := make([]*Collection, len(b.collections))
	copy(out, b.collections)
	return out
}

// Coords returns every space coordinate, ordered by row then column.
func (b *Board) Coords() []Coord {
	out := make([]Coord, 0, len(b.spaces))
	for c := range b.spaces {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Bounds returns the largest X and Y used by any space.
func (b *Board) Bounds() Coord {
	var bound Coord
	for c := range b.spaces {
		if c.X > bound.X {
			bound.X = c.X
		}
		if c.Y > bound.Y {
			bound.Y = c.Y
		}
	}
	return bound
}
