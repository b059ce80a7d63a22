package game

import (
	"fmt"
	"math/rand"

	"clueless/internal/card"
)

// WhoWhatWhere is a (character, weapon, room) triple. The case file holds
// one as the solution; suggestions and accusations each carry their own
// as a claim.
type WhoWhatWhere struct {
	Character card.Card `json:"character"`
	Weapon    card.Card `json:"weapon"`
	Room      card.Card `json:"room"`
}

// Compare reports whether all three cards match by identity.
func (w WhoWhatWhere) Compare(o WhoWhatWhere) bool {
	return w.Character.Equal(o.Character) &&
		w.Weapon.Equal(o.Weapon) &&
		w.Room.Equal(o.Room)
}

// Cards returns the triple as a slice in character, weapon, room order.
func (w WhoWhatWhere) Cards() []card.Card {
	return []card.Card{w.Character, w.Weapon, w.Room}
}

func (w WhoWhatWhere) String() string {
	return fmt.Sprintf("character: %s, room: %s, weapon: %s", w.Character, w.Room, w.Weapon)
}

// CaseFile is the hidden solution of a game. It cannot be changed once
// created.
type CaseFile struct {
	solution WhoWhatWhere
}

// NewRandomCaseFile picks one character, one weapon and one room, each
// uniformly and independently.
func NewRandomCaseFile(reg *card.Registry, rnd *rand.Rand) CaseFile {
	chars := reg.Kind(card.KindCharacter)
	weapons := reg.Kind(card.KindWeapon)
	rooms := reg.Kind(card.KindRoom)
	return CaseFile{solution: WhoWhatWhere{
		Character: chars[rnd.Intn(len(chars))],
		Weapon:    weapons[rnd.Intn(len(weapons))],
		Room:      rooms[rnd.Intn(len(rooms))],
	}}
}

func newCaseFile(w WhoWhatWhere) CaseFile {
	return CaseFile{solution: w}
}

func (c CaseFile) Character() card.Card { return c.solution.Character }
func (c CaseFile) Weapon() card.Card    { return c.solution.Weapon }
func (c CaseFile) Room() card.Card      { return c.solution.Room }

// Solution returns a copy of the hidden triple.
func (c CaseFile) Solution() WhoWhatWhere { return c.solution }

// Compare reports whether claim names exactly the hidden triple.
func (c CaseFile) Compare(claim WhoWhatWhere) bool {
	return c.solution.Compare(claim)
}

// Contains reports whether the card is one of the three hidden cards.
func (c CaseFile) Contains(id card.ID) bool {
	return c.solution.Character.ID == id || c.solution.Weapon.ID == id || c.solution.Room.ID == id
}
