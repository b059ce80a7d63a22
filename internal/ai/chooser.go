package ai

import (
	"math/rand"

	"clueless/internal/card"
	"clueless/internal/game"
)

// Chooser picks one card out of several candidates. The game uses it to
// decide which matching card a disprover shows; the brain uses it to break
// ties between equally useful suggestion cards.
type Chooser = game.Chooser

var (
	_ Chooser = (*RandomChooser)(nil)
	_ Chooser = (*DeterministicChooser)(nil)
)

// RandomChooser picks uniformly from its own source.
type RandomChooser struct {
	rand *rand.Rand
}

func NewRandomChooser(rand *rand.Rand) *RandomChooser {
	return &RandomChooser{rand: rand}
}

// Choose returns the zero Card when there is nothing to choose from.
func (r *RandomChooser) Choose(candidates []card.Card) card.Card {
	if len(candidates) == 0 {
		return card.Card{}
	}
	return candidates[r.rand.Intn(len(candidates))]
}

// DeterministicChooser always takes the alphabetically first candidate and
// leaves the caller's slice untouched.
type DeterministicChooser struct{}

func (d *DeterministicChooser) Choose(candidates []card.Card) card.Card {
	if len(candidates) == 0 {
		return card.Card{}
	}
	byName := make([]card.Card, len(candidates))
	copy(byName, candidates)
	card.SortByName(byName)
	return byName[0]
}
