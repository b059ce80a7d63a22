// Package card holds the three card families of the game and the registry
// that seeds them once from the game definition.
package card

import (
	"clueless/internal/board"
)

// ID identifies a card. Zero is never assigned.
type ID int

// Kind defines the family of a card using a typed enum.
type Kind int

const (
	KindCharacter Kind = iota
	KindWeapon
	KindRoom
)

func (k Kind) String() string {
	return []string{"characters", "weapons", "rooms"}[k]
}

// Card is the common identity of every card. Two cards are the same card
// only if their IDs match.
type Card struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Equal reports whether c and o are the same underlying card.
func (c Card) Equal(o Card) bool {
	return c.ID == o.ID
}

func (c Card) String() string {
	return c.Name
}

// Character is a suspect card with its starting space and display colour.
type Character struct {
	Card
	Start board.Coord
	Color string
}

// Room is a room card. The board side of the room is referenced by its
// collection id rather than embedded.
type Room struct {
	Card
	Collection board.CollectionID
}
