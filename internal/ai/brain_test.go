package ai

import (
	"io"
	"math/rand"
	"testing"

	"clueless/internal/board"
	"clueless/internal/card"
	"clueless/internal/config"
	"clueless/internal/events"
	"clueless/internal/player"

	"github.com/sirupsen/logrus"
)

// setupTestAI is a helper function to create a clean brain for each test.
// This ensures tests are isolated from each other.
func setupTestAI(t *testing.T) (*Brain, *card.Registry) {
	t.Helper()
	// GIVEN the default board and cards and a set of players
	cfg := config.Default()
	b, err := board.New(cfg)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	reg, err := card.NewRegistry(cfg, b)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	// GIVEN a "null" logger that discards output and a predictable random source
	log := logrus.New()
	log.SetOutput(io.Discard)
	seededRand := rand.New(rand.NewSource(1))

	brain := NewBrain(log, seededRand, &DeterministicChooser{}, reg)
	brain.Setup("Player 1", []string{"Player 1", "Player 2", "Player 3"})
	return brain, reg
}

func id(t *testing.T, reg *card.Registry, name string) card.ID {
	t.Helper()
	c, err := reg.ByName(name)
	if err != nil {
		t.Fatalf("card %q: %v", name, err)
	}
	return c.ID
}

func get(t *testing.T, reg *card.Registry, name string) card.Card {
	t.Helper()
	c, _ := reg.Card(id(t, reg, name))
	return c
}

func TestMarkCardLocation(t *testing.T) {
	// GIVEN a fresh brain
	brain, reg := setupTestAI(t)
	wrench := id(t, reg, "Wrench")

	// WHEN we learn a definitive fact (e.g., Player 2 has the Wrench)
	brain.markCardLocation(wrench, "Player 2")

	// THEN the knowledge grid for "Wrench" should be correct
	t.Run("it marks the owner as Yes", func(t *testing.T) {
		if brain.Status(wrench, "Player 2") != StatusYes {
			t.Errorf("Expected Player 2 to have Wrench, but status was not Yes")
		}
	})

	t.Run("it marks all other locations as No", func(t *testing.T) {
		for _, loc := range []string{"Player 1", "Player 3", Solution} {
			if brain.Status(wrench, loc) != StatusNo {
				t.Errorf("Expected %s to NOT have Wrench, but status was %s", loc, brain.Status(wrench, loc))
			}
		}
	})
}

func TestDeduceCardByElimination(t *testing.T) {
	// GIVEN a brain that knows a card is NOT held by anyone except Player 3
	brain, reg := setupTestAI(t)
	rope := id(t, reg, "Rope")
	brain.knowledge[rope]["Player 1"] = StatusNo
	brain.knowledge[rope]["Player 2"] = StatusNo
	brain.knowledge[rope][Solution] = StatusNo

	// WHEN the deduction runs
	changed := brain.deduceCardLocationsByElimination()

	// THEN it should deduce Player 3 must have the Rope
	if !changed {
		t.Errorf("Expected the deduction to make a change, but it did not")
	}
	if brain.Status(rope, "Player 3") != StatusYes {
		t.Errorf("Expected Player 3 to be marked as having the Rope, but status was %s", brain.Status(rope, "Player 3"))
	}
}

func TestDeduceSolutionByElimination(t *testing.T) {
	// GIVEN a brain that knows all characters except one are NOT in the solution
	brain, reg := setupTestAI(t)
	peacock := id(t, reg, "Mrs. Peacock")
	for _, c := range reg.Kind(card.KindCharacter) {
		if c.ID != peacock {
			brain.knowledge[c.ID][Solution] = StatusNo
		}
	}

	// WHEN the deduction runs
	changed := brain.deduceSolutionByElimination()

	// THEN it should deduce Mrs. Peacock must be in the solution
	if !changed {
		t.Errorf("Expected the deduction to make a change, but it did not")
	}
	if brain.Status(peacock, Solution) != StatusYes {
		t.Errorf("Expected Mrs. Peacock to be marked as the solution character")
	}
}

func TestPruneAndSolveMystery(t *testing.T) {
	t.Run("it prunes a mystery when a card is eliminated", func(t *testing.T) {
		// GIVEN a brain that thinks Player 2 has one of (Rope, Dagger, Lead Pipe)
		brain, reg := setupTestAI(t)
		dagger := id(t, reg, "Dagger")
		brain.unresolvedSuggestions = []UnresolvedSuggestion{
			{Disprover: "Player 2", PossibleCards: map[card.ID]struct{}{
				id(t, reg, "Rope"): {}, dagger: {}, id(t, reg, "Lead Pipe"): {},
			}},
		}
		// AND we later learn Player 2 does NOT have the Dagger
		brain.knowledge[dagger]["Player 2"] = StatusNo

		// WHEN we prune mysteries
		brain.pruneAndSolveMysteries()

		// THEN the mystery should be narrowed down
		if len(brain.unresolvedSuggestions) != 1 {
			t.Fatalf("Expected 1 unresolved suggestion, got %d", len(brain.unresolvedSuggestions))
		}
		remaining := brain.unresolvedSuggestions[0].PossibleCards
		if len(remaining) != 2 {
			t.Errorf("Expected mystery to be pruned to 2 cards, but had %d", len(remaining))
		}
		if _, ok := remaining[dagger]; ok {
			t.Errorf("Expected Dagger to be pruned from mystery, but it was still present")
		}
	})

	t.Run("it solves a mystery when only one card remains", func(t *testing.T) {
		// GIVEN a brain with a mystery that has been pruned to one card
		brain, reg := setupTestAI(t)
		conservatory := id(t, reg, "Conservatory")
		brain.unresolvedSuggestions = []UnresolvedSuggestion{
			{Disprover: "Player 3", PossibleCards: map[card.ID]struct{}{conservatory: {}}},
		}

		// WHEN we prune mysteries
		brain.pruneAndSolveMysteries()

		// THEN the mystery should be resolved and the knowledge updated
		if len(brain.unresolvedSuggestions) != 0 {
			t.Errorf("Expected mystery to be resolved and removed, but %d remain", len(brain.unresolvedSuggestions))
		}
		if brain.Status(conservatory, "Player 3") != StatusYes {
			t.Errorf("Expected to learn Player 3 has the Conservatory")
		}
	})
}

func TestLearnFromSheet(t *testing.T) {
	// GIVEN a sheet with a dealt card and a card revealed by someone else
	brain, reg := setupTestAI(t)
	sheet := player.NewSheet("p1", reg.All())
	rope, hall := id(t, reg, "Rope"), id(t, reg, "Hall")
	_ = sheet.MakeNote(rope, true, true, false)
	_ = sheet.MakeNote(hall, true, false, false)

	// WHEN the brain reads it
	brain.LearnFromSheet(sheet)

	// THEN the dealt card is in my hand and the revealed one is not the solution
	if brain.Status(rope, "Player 1") != StatusYes {
		t.Errorf("Expected the Rope to be in my hand")
	}
	if len(brain.Hand()) != 1 || brain.Hand()[0].Name != "Rope" {
		t.Errorf("unexpected hand %v", brain.Hand())
	}
	if brain.Status(hall, Solution) != StatusNo {
		t.Errorf("Expected the Hall to be ruled out of the solution")
	}
	if brain.Status(hall, "Player 2") != StatusMaybe {
		t.Errorf("Expected the Hall's holder to stay unknown")
	}
}

func TestHandleSuggestionEvents(t *testing.T) {
	suggestion := events.SuggestionMade{PlayerName: "Player 2", Character: "Mr. Green", Weapon: "Rope", Room: "Hall"}

	t.Run("disproval by another player is a mystery", func(t *testing.T) {
		// GIVEN Player 2 suggests and Player 1 (me) is skipped over
		brain, reg := setupTestAI(t)
		brain.HandleEvent(suggestion)
		brain.HandleEvent(events.CardRevealed{SuggesterName: "Player 2", DisproverName: "Player 3"})

		// THEN a mystery is recorded for Player 3
		if len(brain.unresolvedSuggestions) != 1 || brain.unresolvedSuggestions[0].Disprover != "Player 3" {
			t.Fatalf("unexpected mysteries %+v", brain.unresolvedSuggestions)
		}
		// AND nobody was asked before Player 3
		if brain.Status(id(t, reg, "Rope"), "Player 1") != StatusMaybe {
			t.Errorf("Expected no deduction about Player 1")
		}
	})

	t.Run("players passed over hold none of the cards", func(t *testing.T) {
		brain, reg := setupTestAI(t)
		brain.HandleEvent(suggestion)
		brain.HandleEvent(events.CardRevealed{SuggesterName: "Player 2", DisproverName: "Player 1"})

		if brain.Status(id(t, reg, "Rope"), "Player 3") != StatusNo {
			t.Errorf("Expected Player 3 to be ruled out")
		}
		if len(brain.unresolvedSuggestions) != 0 {
			t.Errorf("Expected no mystery when I disproved")
		}
	})

	t.Run("my undisproved suggestion reveals the solution", func(t *testing.T) {
		brain, reg := setupTestAI(t)
		brain.ReceiveHand([]card.Card{get(t, reg, "Hall")})
		brain.HandleEvent(events.SuggestionMade{PlayerName: "Player 1", Character: "Mr. Green", Weapon: "Rope", Room: "Hall"})
		brain.HandleEvent(events.NoDisproval{})

		if brain.Status(id(t, reg, "Mr. Green"), Solution) != StatusYes || brain.Status(id(t, reg, "Rope"), Solution) != StatusYes {
			t.Errorf("Expected Mr. Green and the Rope in the solution")
		}
		if brain.Status(id(t, reg, "Hall"), Solution) != StatusNo {
			t.Errorf("Expected my own Hall card to stay out of the solution")
		}
	})

	t.Run("a reveal without a suggestion is ignored", func(t *testing.T) {
		brain, _ := setupTestAI(t)
		brain.HandleEvent(events.CardRevealed{SuggesterName: "Player 2", DisproverName: "Player 3"})
		if len(brain.unresolvedSuggestions) != 0 {
			t.Errorf("Expected nothing to be learned")
		}
	})
}

func TestSuggest(t *testing.T) {
	t.Run("explore avoids my own cards", func(t *testing.T) {
		brain, reg := setupTestAI(t)
		brain.ReceiveHand([]card.Card{get(t, reg, "Mr. Green"), get(t, reg, "Rope")})
		hall := get(t, reg, "Hall")

		for i := 0; i < 20; i++ {
			s := brain.Suggest(hall)
			if s.Room.ID != hall.ID {
				t.Fatalf("Expected the suggestion to stay in the Hall, got %s", s.Room)
			}
			if s.Character.Name == "Mr. Green" || s.Weapon.Name == "Rope" {
				t.Fatalf("Expected to probe unknown cards, got %s", s)
			}
		}
	})

	t.Run("exploit keeps the known solution card", func(t *testing.T) {
		brain, reg := setupTestAI(t)
		brain.markCardLocation(id(t, reg, "Dagger"), Solution)
		s := brain.Suggest(get(t, reg, "Kitchen"))
		if s.Weapon.Name != "Dagger" {
			t.Errorf("Expected the Dagger in the suggestion, got %s", s)
		}
	})

	t.Run("surgical strike targets the mystery", func(t *testing.T) {
		brain, reg := setupTestAI(t)
		brain.ReceiveHand([]card.Card{get(t, reg, "Rope")})
		brain.unresolvedSuggestions = []UnresolvedSuggestion{
			{Disprover: "Player 2", PossibleCards: map[card.ID]struct{}{id(t, reg, "Mr. Green"): {}, id(t, reg, "Hall"): {}}},
		}
		s := brain.Suggest(get(t, reg, "Kitchen"))
		if s.Character.Name != "Mr. Green" || s.Weapon.Name != "Rope" {
			t.Errorf("Expected Mr. Green with my own Rope, got %s", s)
		}
	})
}

func TestAccusation(t *testing.T) {
	brain, reg := setupTestAI(t)
	if _, ok := brain.Accusation(); ok {
		t.Fatal("Expected no accusation with nothing known")
	}

	brain.markCardLocation(id(t, reg, "Mrs. White"), Solution)
	brain.markCardLocation(id(t, reg, "Wrench"), Solution)
	if _, ok := brain.Accusation(); ok {
		t.Fatal("Expected no accusation with the room unknown")
	}

	brain.markCardLocation(id(t, reg, "Kitchen"), Solution)
	acc, ok := brain.Accusation()
	if !ok || acc.Character.Name != "Mrs. White" || acc.Weapon.Name != "Wrench" || acc.Room.Name != "Kitchen" {
		t.Errorf("unexpected accusation %s (ok=%v)", acc, ok)
	}
}

func TestChoosers(t *testing.T) {
	_, reg := setupTestAI(t)
	cards := []card.Card{get(t, reg, "Rope"), get(t, reg, "Dagger"), get(t, reg, "Wrench")}

	if got := (&DeterministicChooser{}).Choose(cards); got.Name != "Dagger" {
		t.Errorf("Expected Dagger, got %s", got)
	}
	if cards[0].Name != "Rope" {
		t.Error("Expected the input order to be left alone")
	}
	random := NewRandomChooser(rand.New(rand.NewSource(1)))
	for i := 0; i < 10; i++ {
		got := random.Choose(cards)
		if got.ID == 0 {
			t.Fatal("Expected a card")
		}
	}
	if got := random.Choose(nil); got.ID != 0 {
		t.Errorf("Expected the zero card, got %s", got)
	}
}
