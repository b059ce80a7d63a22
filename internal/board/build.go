package board

import (
	"fmt"
	"strings"

	"clueless/internal/config"
)

// New builds a board from the layout section of a game definition.
// Rooms get collection ids first, in declaration order, then hallways,
// then secret passages.
func New(cfg *config.GameConfig) (*Board, error) {
	b := &Board{
		spaces:   make(map[Coord]*Space),
		passages: make(map[CollectionID]CollectionID),
	}

	roomIDs := make(map[string]CollectionID)
	for _, r := range cfg.Rooms {
		col := b.addCollection(KindRoom, r.Name)
		if err := b.addSpace(col, toCoord(r.At)); err != nil {
			return nil, err
		}
		roomIDs[strings.ToLower(r.Name)] = col.ID
	}
	for _, h := range cfg.Hallways {
		at := toCoord(h)
		col := b.addCollection(KindHallway, "Hallway "+at.String())
		if err := b.addSpace(col, at); err != nil {
			return nil, err
		}
	}
	for _, p := range cfg.Passages {
		from, ok := roomIDs[strings.ToLower(p.Rooms[0])]
		if !ok {
			return nil, fmt.Errorf("board: passage %q: unknown room %q", p.Name, p.Rooms[0])
		}
		to, ok := roomIDs[strings.ToLower(p.Rooms[1])]
		if !ok {
			return nil, fmt.Errorf("board: passage %q: unknown room %q", p.Name, p.Rooms[1])
		}
		col := b.addCollection(KindSecretPassage, p.Name)
		col.Ends = [2]CollectionID{from, to}
		b.passages[from] = to
		b.passages[to] = from
	}

	b.link()
	if err := b.checkSymmetry(); err != nil {
		return nil, err
	}
	return b, nil
}

func toCoord(p config.Position) Coord {
	return Coord{X: p[0], Y: p[1]}
}

func (b *Board) addCollection(kind Kind, name string) *Collection {
	col := &Collection{ID: CollectionID(len(b.collections)), Kind: kind, Name: name}
	b.collections = append(b.collections, col)
	return col
}

func (b *Board) addSpace(col *Collection, at Coord) error {
	if at.X%Step != 0 || at.Y%Step != 0 {
		return fmt.Errorf("board: %s at %s is off the grid", col.Name, at)
	}
	if _, taken := b.spaces[at]; taken {
		return fmt.Errorf("board: space %s declared twice", at)
	}
	s := &Space{Coord: at, Collection: col.ID}
	b.spaces[at] = s
	col.Spaces = append(col.Spaces, s)
	return nil
}

// link wires each space to the spaces one Step away. Only the north and
// west edges are looked up; south and east are set as their inverses.
func (b *Board) link() {
	for at, s := range b.spaces {
		if n, ok := b.spaces[Coord{at.X, at.Y - Step}]; ok {
			s.North = n
			n.South = s
		}
		if w, ok := b.spaces[Coord{at.X - Step, at.Y}]; ok {
			s.West = w
			w.East = s
		}
	}
}

func (b *Board) checkSymmetry() error {
	for at, s := range b.spaces {
		if s.North != nil && s.North.South != s {
			return fmt.Errorf("board: %s north edge is not mirrored", at)
		}
		if s.South != nil && s.South.North != s {
			return fmt.Errorf("board: %s south edge is not mirrored", at)
		}
		if s.West != nil && s.West.East != s {
			return fmt.Errorf("board: %s west edge is not mirrored", at)
		}
		if s.East != nil && s.East.West != s {
			return fmt.Errorf("board: %s east edge is not mirrored", at)
		}
	}
	return nil
}
