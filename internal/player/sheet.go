package player

import (
	"sort"

	"clueless/internal/card"
	apperrors "clueless/internal/errors"

	"github.com/google/uuid"
)

// SheetID identifies a detective sheet.
type SheetID string

// SheetItem is one line of a detective sheet.
type SheetItem struct {
	ID              string    `json:"id"`
	Card            card.Card `json:"card"`
	Checked         bool      `json:"checked"`
	InitiallyDealt  bool      `json:"initially_dealt"`
	ManuallyChecked bool      `json:"manually_checked"`
}

// Sheet is a player's private record of which cards are ruled out of the
// case file. It holds exactly one item per card in the registry.
type Sheet struct {
	ID     SheetID
	Player ID

	items []*SheetItem
	index map[card.ID]*SheetItem
}

// NewSheet creates a sheet with one unchecked item for every card.
func NewSheet(owner ID, cards []card.Card) *Sheet {
	items := make([]SheetItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, SheetItem{ID: uuid.NewString(), Card: c})
	}
	return RestoreSheet(SheetID(uuid.NewString()), owner, items)
}

// RestoreSheet rebuilds a sheet from stored items.
func RestoreSheet(id SheetID, owner ID, items []SheetItem) *Sheet {
	s := &Sheet{
		ID:     id,
		Player: owner,
		index:  make(map[card.ID]*SheetItem, len(items)),
	}
	for i := range items {
		item := items[i]
		s.items = append(s.items, &item)
		s.index[item.Card.ID] = &item
	}
	return s
}

// MakeNote overwrites the three flags of the item for a card.
func (s *Sheet) MakeNote(id card.ID, checked, initiallyDealt, manuallyChecked bool) error {
	item, ok := s.index[id]
	if !ok {
		return apperrors.Wrapf(apperrors.ErrNotFound, "sheet item for card %d not found", id)
	}
	item.Checked = checked
	item.InitiallyDealt = initiallyDealt
	item.ManuallyChecked = manuallyChecked
	return nil
}

// Item returns a copy of the item for a card.
func (s *Sheet) Item(id card.ID) (SheetItem, error) {
	item, ok := s.index[id]
	if !ok {
		return SheetItem{}, apperrors.Wrapf(apperrors.ErrNotFound, "sheet item for card %d not found", id)
	}
	return *item, nil
}

// Items returns a copy of every item in registry order.
func (s *Sheet) Items() []SheetItem {
	out := make([]SheetItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out
}

// ItemsOf returns the items of one card family ordered by card name.
func (s *Sheet) ItemsOf(kind card.Kind) []SheetItem {
	var out []SheetItem
	for _, item := range s.items {
		if item.Card.Kind == kind {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Card.Name < out[j].Card.Name })
	return out
}

func (s *Sheet) CharacterItems() []SheetItem { return s.ItemsOf(card.KindCharacter) }
func (s *Sheet) WeaponItems() []SheetItem    { return s.ItemsOf(card.KindWeapon) }
func (s *Sheet) RoomItems() []SheetItem      { return s.ItemsOf(card.KindRoom) }

// Left returns the cards of one family not yet checked, ordered by name.
func (s *Sheet) Left(kind card.Kind) []card.Card {
	var out []card.Card
	for _, item := range s.ItemsOf(kind) {
		if !item.Checked {
			out = append(out, item.Card)
		}
	}
	return out
}

func (s *Sheet) CharactersLeft() []card.Card { return s.Left(card.KindCharacter) }
func (s *Sheet) WeaponsLeft() []card.Card    { return s.Left(card.KindWeapon) }
func (s *Sheet) RoomsLeft() []card.Card      { return s.Left(card.KindRoom) }

// Dealt returns the cards the player was dealt at the start of the game,
// i.e. their hand, ordered by name.
func (s *Sheet) Dealt() []card.Card {
	var out []card.Card
	for _, item := range s.items {
		if item.InitiallyDealt {
			out = append(out, item.Card)
		}
	}
	card.SortByName(out)
	return out
}

// Clone returns a deep copy that shares nothing with s.
func (s *Sheet) Clone() *Sheet {
	return RestoreSheet(s.ID, s.Player, s.Items())
}
