package ai

import (
	"sort"

	"clueless/internal/card"
	"clueless/internal/game"
)

// SuggestionStrategy builds a suggestion for a fixed room, or declines.
type SuggestionStrategy interface {
	BuildSuggestion(b *Brain, room card.Card) (game.WhoWhatWhere, bool)
}

// --- Strategy Implementations ---

// ExploitStrategy keeps the case-file cards already known and probes the rest.
type ExploitStrategy struct{}

func (s *ExploitStrategy) BuildSuggestion(b *Brain, room card.Card) (game.WhoWhatWhere, bool) {
	character, knownCharacter := b.knownSolution(card.KindCharacter)
	weapon, knownWeapon := b.knownSolution(card.KindWeapon)
	if !knownCharacter && !knownWeapon {
		return game.WhoWhatWhere{}, false
	}
	b.log.Infof("Strategy: EXPLOIT. I know part of the solution.")
	if !knownCharacter {
		character = b.pickUnknownCard(card.KindCharacter)
	}
	if !knownWeapon {
		weapon = b.pickUnknownCard(card.KindWeapon)
	}
	return game.WhoWhatWhere{Character: character, Weapon: weapon, Room: room}, true
}

// SurgicalStrikeStrategy targets the card that shows up most often in
// disprovals whose card this player never saw.
type SurgicalStrikeStrategy struct{}

func (s *SurgicalStrikeStrategy) BuildSuggestion(b *Brain, room card.Card) (game.WhoWhatWhere, bool) {
	cardFrequency := make(map[card.ID]int)
	for _, mystery := range b.unresolvedSuggestions {
		for id := range mystery.PossibleCards {
			c, err := b.cards.Card(id)
			if err != nil || c.Kind == card.KindRoom {
				continue
			}
			cardFrequency[id]++
		}
	}
	if len(cardFrequency) == 0 {
		return game.WhoWhatWhere{}, false
	}

	sortedTargets := sortByValue(cardFrequency)
	var patientTargets []card.Card
	for _, id := range sortedTargets {
		if !b.recentSurgicalTargets.Contains(id) {
			c, _ := b.cards.Card(id)
			patientTargets = append(patientTargets, c)
		}
	}
	if len(patientTargets) == 0 {
		for _, id := range sortedTargets {
			c, _ := b.cards.Card(id)
			patientTargets = append(patientTargets, c)
		}
	}
	target := b.chooser.Choose(patientTargets)
	b.log.Infof("Strategy: SURGICAL STRIKE. Targeting '%s'.", target.Name)
	b.recentSurgicalTargets.Push(target.ID)
	return b.buildSuggestionAroundTarget(target, room), true
}

// ExploreStrategy probes cards nobody has ruled out yet.
type ExploreStrategy struct{}

func (s *ExploreStrategy) BuildSuggestion(b *Brain, room card.Card) (game.WhoWhatWhere, bool) {
	b.log.Infof("Strategy: EXPLORE. Gathering new information.")
	return s.mustBuild(b, room), true
}

func (s *ExploreStrategy) mustBuild(b *Brain, room card.Card) game.WhoWhatWhere {
	return game.WhoWhatWhere{
		Character: b.pickUnknownCard(card.KindCharacter),
		Weapon:    b.pickUnknownCard(card.KindWeapon),
		Room:      room,
	}
}

// --- Strategy Helpers ---

func (b *Brain) pickUnknownCard(kind card.Kind) card.Card {
	all := b.cards.Kind(kind)
	var maybes []card.Card
	for _, c := range all {
		if _, inHand := b.hand[c.ID]; !inHand && b.knowledge[c.ID][Solution] == StatusMaybe {
			maybes = append(maybes, c)
		}
	}
	if len(maybes) > 0 {
		return maybes[b.rand.Intn(len(maybes))]
	}

	var notMine []card.Card
	for _, c := range all {
		if _, inHand := b.hand[c.ID]; !inHand {
			notMine = append(notMine, c)
		}
	}
	if len(notMine) > 0 {
		return b.chooser.Choose(notMine)
	}
	return b.chooser.Choose(all)
}

// buildSuggestionAroundTarget pairs target with a card from this player's
// own hand, so a disproval can only be about the target.
func (b *Brain) buildSuggestionAroundTarget(target, room card.Card) game.WhoWhatWhere {
	w := game.WhoWhatWhere{Room: room}
	switch target.Kind {
	case card.KindCharacter:
		w.Character = target
	case card.KindWeapon:
		w.Weapon = target
	}

	hand := b.Hand()
	b.rand.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })
	for _, c := range hand {
		switch {
		case c.Kind == card.KindCharacter && w.Character.ID == 0:
			w.Character = c
		case c.Kind == card.KindWeapon && w.Weapon.ID == 0:
			w.Weapon = c
		}
	}
	if w.Character.ID == 0 {
		w.Character = b.pickUnknownCard(card.KindCharacter)
	}
	if w.Weapon.ID == 0 {
		w.Weapon = b.pickUnknownCard(card.KindWeapon)
	}
	return w
}

// --- Utility Types and Functions ---

// Deque remembers the last maxSize values pushed.
type Deque[T comparable] struct {
	elements []T
	maxSize  int
}

func NewDeque[T comparable](maxSize int) *Deque[T] {
	return &Deque[T]{maxSize: maxSize}
}
func (d *Deque[T]) Push(v T) {
	d.elements = append(d.elements, v)
	if len(d.elements) > d.maxSize {
		d.elements = d.elements[1:]
	}
}
func (d *Deque[T]) Contains(v T) bool {
	for _, e := range d.elements {
		if e == v {
			return true
		}
	}
	return false
}

func sortByValue(m map[card.ID]int) []card.ID {
	type kv struct {
		Key   card.ID
		Value int
	}
	var ss []kv
	for k, v := range m {
		ss = append(ss, kv{k, v})
	}
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})
	var result []card.ID
	for _, kv := range ss {
		result = append(result, kv.Key)
	}
	return result
}
