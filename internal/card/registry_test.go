package card

import (
	"errors"
	"testing"

	"clueless/internal/board"
	"clueless/internal/config"
	apperrors "clueless/internal/errors"
)

func newTestRegistry(t *testing.T) (*Registry, *board.Board) {
	t.Helper()
	cfg := config.Default()
	b, err := board.New(cfg)
	if err != nil {
		t.Fatalf("build board: %v", err)
	}
	r, err := NewRegistry(cfg, b)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return r, b
}

func TestRegistryFamilies(t *testing.T) {
	r, _ := newTestRegistry(t)

	if got := len(r.All()); got != 21 {
		t.Errorf("expected 21 cards, got %d", got)
	}
	if got := len(r.Characters()); got != 6 {
		t.Errorf("expected 6 characters, got %d", got)
	}
	if got := len(r.Weapons()); got != 6 {
		t.Errorf("expected 6 weapons, got %d", got)
	}
	if got := len(r.Rooms()); got != 9 {
		t.Errorf("expected 9 rooms, got %d", got)
	}

	t.Run("ids are unique and start at one", func(t *testing.T) {
		seen := make(map[ID]bool)
		for i, c := range r.All() {
			if c.ID != ID(i+1) {
				t.Errorf("expected id %d for %s, got %d", i+1, c.Name, c.ID)
			}
			if seen[c.ID] {
				t.Errorf("duplicate id %d", c.ID)
			}
			seen[c.ID] = true
		}
	})
}

func TestRegistryLookups(t *testing.T) {
	r, b := newTestRegistry(t)

	t.Run("by name ignores case", func(t *testing.T) {
		c, err := r.ByName("lead pipe")
		if err != nil {
			t.Fatalf("by name: %v", err)
		}
		if c.Name != "Lead Pipe" || c.Kind != KindWeapon {
			t.Errorf("unexpected card %+v", c)
		}
	})

	t.Run("characters carry start and colour", func(t *testing.T) {
		scarlett, _ := r.ByName("Miss Scarlett")
		ch, err := r.Character(scarlett.ID)
		if err != nil {
			t.Fatalf("character: %v", err)
		}
		if ch.Start != (board.Coord{X: 6, Y: 0}) || ch.Color != "red" {
			t.Errorf("unexpected character %+v", ch)
		}
	})

	t.Run("rooms reference their board collection", func(t *testing.T) {
		kitchen, _ := r.ByName("Kitchen")
		rm, err := r.Room(kitchen.ID)
		if err != nil {
			t.Fatalf("room: %v", err)
		}
		col, _ := b.CollectionOf(board.Coord{X: 8, Y: 8})
		if rm.Collection != col.ID {
			t.Errorf("expected collection %d, got %d", col.ID, rm.Collection)
		}
		back, ok := r.RoomAt(col.ID)
		if !ok || !back.Equal(kitchen) {
			t.Errorf("expected RoomAt to return the kitchen, got %+v", back)
		}
	})

	t.Run("hallways have no room card", func(t *testing.T) {
		col, _ := b.CollectionOf(board.Coord{X: 2, Y: 0})
		if _, ok := r.RoomAt(col.ID); ok {
			t.Error("expected no room card for a hallway")
		}
	})

	t.Run("unknown or mistyped cards are not found", func(t *testing.T) {
		if _, err := r.Card(999); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		rope, _ := r.ByName("Rope")
		if _, err := r.OfKind(rope.ID, KindRoom); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected ErrNotFound for a weapon used as a room, got %v", err)
		}
		if _, err := r.ByName("Attic"); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCardEqualityIsIdentity(t *testing.T) {
	a := Card{ID: 1, Name: "Rope", Kind: KindWeapon}
	b := Card{ID: 1, Name: "Rope", Kind: KindWeapon}
	c := Card{ID: 2, Name: "Rope", Kind: KindWeapon}
	if !a.Equal(b) {
		t.Error("expected cards with the same id to be equal")
	}
	if a.Equal(c) {
		t.Error("expected cards with different ids to differ even with the same name")
	}
}

func TestSortByName(t *testing.T) {
	cards := []Card{{ID: 1, Name: "Wrench"}, {ID: 2, Name: "Candlestick"}, {ID: 3, Name: "Rope"}}
	SortByName(cards)
	if cards[0].Name != "Candlestick" || cards[2].Name != "Wrench" {
		t.Errorf("unexpected order %v", cards)
	}
}
