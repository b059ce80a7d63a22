package card

import (
	"fmt"
	"sort"
	"strings"

	"clueless/internal/board"
	"clueless/internal/config"
	apperrors "clueless/internal/errors"
)

// Registry is the read-only set of cards shared by all games.
type Registry struct {
	all        []Card
	byID       map[ID]Card
	byName     map[string]ID
	characters map[ID]Character
	rooms      map[ID]Room
	roomAt     map[board.CollectionID]ID
	order      map[Kind][]ID
}

// NewRegistry seeds the registry from a game definition. Characters are
// numbered first, then weapons, then rooms, in declaration order.
func NewRegistry(cfg *config.GameConfig, b *board.Board) (*Registry, error) {
	r := &Registry{
		byID:       make(map[ID]Card),
		byName:     make(map[string]ID),
		characters: make(map[ID]Character),
		rooms:      make(map[ID]Room),
		roomAt:     make(map[board.CollectionID]ID),
		order:      make(map[Kind][]ID),
	}

	for _, s := range cfg.Suspects {
		start := board.Coord{X: s.Start[0], Y: s.Start[1]}
		if _, err := b.Space(start); err != nil {
			return nil, fmt.Errorf("card: %s: %w", s.Name, err)
		}
		c := r.add(s.Name, KindCharacter)
		r.characters[c.ID] = Character{Card: c, Start: start, Color: s.Color}
	}
	for _, w := range cfg.Weapons {
		r.add(w, KindWeapon)
	}
	for _, rc := range cfg.Rooms {
		col, err := b.CollectionOf(board.Coord{X: rc.At[0], Y: rc.At[1]})
		if err != nil {
			return nil, fmt.Errorf("card: %s: %w", rc.Name, err)
		}
		c := r.add(rc.Name, KindRoom)
		r.rooms[c.ID] = Room{Card: c, Collection: col.ID}
		r.roomAt[col.ID] = c.ID
	}
	return r, nil
}

func (r *Registry) add(name string, kind Kind) Card {
	c := Card{ID: ID(len(r.all) + 1), Name: name, Kind: kind}
	r.all = append(r.all, c)
	r.byID[c.ID] = c
	r.byName[strings.ToLower(name)] = c.ID
	r.order[kind] = append(r.order[kind], c.ID)
	return c
}

// Card returns the card with the given id.
func (r *Registry) Card(id ID) (Card, error) {
	c, ok := r.byID[id]
	if !ok {
		return Card{}, apperrors.Wrapf(apperrors.ErrNotFound, "card %d not found", id)
	}
	return c, nil
}

// ByName looks a card up by name, ignoring case.
func (r *Registry) ByName(name string) (Card, error) {
	id, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Card{}, apperrors.Wrapf(apperrors.ErrNotFound, "card %q not found", name)
	}
	return r.byID[id], nil
}

// OfKind returns the card with the given id if it belongs to kind.
func (r *Registry) OfKind(id ID, kind Kind) (Card, error) {
	c, err := r.Card(id)
	if err != nil {
		return Card{}, err
	}
	if c.Kind != kind {
		return Card{}, apperrors.Wrapf(apperrors.ErrNotFound, "%s is not one of the %s", c.Name, kind)
	}
	return c, nil
}

// Character returns the character details for id.
func (r *Registry) Character(id ID) (Character, error) {
	c, ok := r.characters[id]
	if !ok {
		return Character{}, apperrors.Wrapf(apperrors.ErrNotFound, "character %d not found", id)
	}
	return c, nil
}

// Room returns the room details for id.
func (r *Registry) Room(id ID) (Room, error) {
	rm, ok := r.rooms[id]
	if !ok {
		return Room{}, apperrors.Wrapf(apperrors.ErrNotFound, "room %d not found", id)
	}
	return rm, nil
}

// RoomAt returns the room card for a board collection, if the collection
// is a room.
func (r *Registry) RoomAt(col board.CollectionID) (Room, bool) {
	id, ok := r.roomAt[col]
	if !ok {
		return Room{}, false
	}
	return r.rooms[id], true
}

// All returns every card in id order.
func (r *Registry) All() []Card {
	out := make([]Card, len(r.all))
	copy(out, r.all)
	return out
}

// Kind returns every card of one family in id order.
func (r *Registry) Kind(kind Kind) []Card {
	ids := r.order[kind]
	out := make([]Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out
}

// Characters returns every character in id order.
func (r *Registry) Characters() []Character {
	out := make([]Character, 0, len(r.characters))
	for _, id := range r.order[KindCharacter] {
		out = append(out, r.characters[id])
	}
	return out
}

// Weapons returns every weapon card in id order.
func (r *Registry) Weapons() []Card { return r.Kind(KindWeapon) }

// Rooms returns every room in id order.
func (r *Registry) Rooms() []Room {
	out := make([]Room, 0, len(r.rooms))
	for _, id := range r.order[KindRoom] {
		out = append(out, r.rooms[id])
	}
	return out
}

// SortByName orders cards alphabetically in place.
func SortByName(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].Name < cards[j].Name })
}
