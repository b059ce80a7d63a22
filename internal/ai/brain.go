// Package ai is a deduction engine that sits beside a human player. It
// reads the player's detective sheet and the game's public events, keeps a
// card-by-location knowledge grid, and proposes suggestions and accusations.
package ai

import (
	"math/rand"
	"sort"

	"clueless/internal/card"
	"clueless/internal/events"
	"clueless/internal/game"
	"clueless/internal/player"

	"github.com/sirupsen/logrus"
)

// Solution is the knowledge-grid location of the case file.
const Solution = "solution"

// CardStatus defines the knowledge state of a card.
type CardStatus int

const (
	StatusMaybe CardStatus = iota
	StatusYes
	StatusNo
)

func (s CardStatus) String() string {
	return []string{"?", "yes", "no"}[s]
}

// Brain holds everything one player can deduce about where the cards are.
type Brain struct {
	name                  string
	cards                 *card.Registry
	players               []string
	hand                  map[card.ID]struct{}
	knowledge             map[card.ID]map[string]CardStatus
	unresolvedSuggestions []UnresolvedSuggestion
	recentSurgicalTargets *Deque[card.ID]
	strategies            []SuggestionStrategy
	pending               *pendingSuggestion
	log                   logrus.FieldLogger
	chooser               Chooser
	rand                  *rand.Rand
}

// UnresolvedSuggestion tracks a disproval where the specific card shown is unknown.
type UnresolvedSuggestion struct {
	Disprover     string
	PossibleCards map[card.ID]struct{}
}

// pendingSuggestion is a suggestion waiting for its disproval event.
type pendingSuggestion struct {
	suggester string
	cards     []card.Card
}

// NewBrain is the constructor for the deduction engine. It injects dependencies.
func NewBrain(logger logrus.FieldLogger, rand *rand.Rand, chooser Chooser, cards *card.Registry) *Brain {
	b := &Brain{
		log:     logger,
		rand:    rand,
		chooser: chooser,
		cards:   cards,
	}
	b.strategies = []SuggestionStrategy{
		&ExploitStrategy{},
		&SurgicalStrikeStrategy{},
		&ExploreStrategy{},
	}
	return b
}

// Setup resets the brain for a game. players are the usernames of every
// sheet-holding player in join order; me must be one of them.
func (b *Brain) Setup(me string, players []string) {
	b.name = me
	b.players = append([]string(nil), players...)
	b.log = b.log.WithField("player", me)

	b.hand = make(map[card.ID]struct{})
	b.unresolvedSuggestions = nil
	b.pending = nil
	b.recentSurgicalTargets = NewDeque[card.ID](3)
	b.knowledge = make(map[card.ID]map[string]CardStatus)
	for _, c := range b.cards.All() {
		b.knowledge[c.ID] = make(map[string]CardStatus)
		for _, p := range b.players {
			b.knowledge[c.ID][p] = StatusMaybe
		}
		b.knowledge[c.ID][Solution] = StatusMaybe
	}
	b.log.Debugf("Deduction engine initialized for %d players.", len(players))
}

// --- Public Getters for CLI ---

func (b *Brain) Name() string      { return b.name }
func (b *Brain) Players() []string { return b.players }

// Status returns what the brain knows about card id at location.
func (b *Brain) Status(id card.ID, location string) CardStatus {
	return b.knowledge[id][location]
}

// Hand returns the cards this player was dealt, ordered by name.
func (b *Brain) Hand() []card.Card {
	var cards []card.Card
	for id := range b.hand {
		if c, err := b.cards.Card(id); err == nil {
			cards = append(cards, c)
		}
	}
	card.SortByName(cards)
	return cards
}

// ReceiveHand records the dealt cards.
func (b *Brain) ReceiveHand(cards []card.Card) {
	for _, c := range cards {
		b.hand[c.ID] = struct{}{}
		b.markCardLocation(c.ID, b.name)
	}
	b.runDeductionLoop()
}

// LearnFromSheet reads the player's detective sheet. Dealt items are the
// hand; any other checked item is known not to be in the case file.
func (b *Brain) LearnFromSheet(sheet *player.Sheet) {
	var hand []card.Card
	for _, item := range sheet.Items() {
		switch {
		case item.InitiallyDealt:
			hand = append(hand, item.Card)
		case item.Checked && b.knowledge[item.Card.ID][Solution] == StatusMaybe:
			b.knowledge[item.Card.ID][Solution] = StatusNo
		}
	}
	b.ReceiveHand(hand)
}

// LearnReveal records that disprover showed this player c.
func (b *Brain) LearnReveal(c card.Card, disprover string) {
	b.markCardLocation(c.ID, disprover)
	b.runDeductionLoop()
}

// HandleEvent follows suggestions and their disprovals.
func (b *Brain) HandleEvent(e events.Event) {
	switch event := e.(type) {
	case events.SuggestionMade:
		var claim []card.Card
		for _, name := range []string{event.Character, event.Weapon, event.Room} {
			if c, err := b.cards.ByName(name); err == nil {
				claim = append(claim, c)
			}
		}
		b.pending = &pendingSuggestion{suggester: event.PlayerName, cards: claim}
	case events.CardRevealed:
		b.processDisproval(event.DisproverName)
	case events.NoDisproval:
		b.processDisproval("")
	}
}

func (b *Brain) processDisproval(disprover string) {
	s := b.pending
	b.pending = nil
	if s == nil {
		return
	}

	// Everyone asked before the disprover holds none of the cards.
	for _, p := range b.askedBefore(s.suggester, disprover) {
		for _, c := range s.cards {
			b.markNotHeld(c.ID, p)
		}
	}

	switch {
	case s.suggester == b.name && disprover == "":
		b.log.Infof("My suggestion was not disproved! Making powerful deductions.")
		for _, c := range s.cards {
			if _, inHand := b.hand[c.ID]; !inHand {
				b.markCardLocation(c.ID, Solution)
			}
		}
	case s.suggester != b.name && disprover != "" && disprover != b.name:
		mystery := UnresolvedSuggestion{Disprover: disprover, PossibleCards: make(map[card.ID]struct{})}
		for _, c := range s.cards {
			mystery.PossibleCards[c.ID] = struct{}{}
		}
		b.unresolvedSuggestions = append(b.unresolvedSuggestions, mystery)
		b.log.Infof("Noted that %s holds one of %v.", disprover, b.names(mystery.PossibleCards))
	}

	b.runDeductionLoop()
}

// askedBefore returns the players after suggester in join order up to, but
// not including, disprover. With no disprover it returns everyone else.
func (b *Brain) askedBefore(suggester, disprover string) []string {
	start := -1
	for i, p := range b.players {
		if p == suggester {
			start = i
		}
	}
	if start < 0 {
		return nil
	}
	var out []string
	for i := 1; i < len(b.players); i++ {
		p := b.players[(start+i)%len(b.players)]
		if p == disprover {
			break
		}
		out = append(out, p)
	}
	return out
}

// Suggest proposes a suggestion in room, the room the player stands in.
func (b *Brain) Suggest(room card.Card) game.WhoWhatWhere {
	b.log.Debugf("Formulating a suggestion in the %s...", room.Name)
	for _, s := range b.strategies {
		if suggestion, ok := s.BuildSuggestion(b, room); ok {
			return suggestion
		}
	}
	return (&ExploreStrategy{}).mustBuild(b, room)
}

// Accusation returns the case file once every family is down to one
// candidate.
func (b *Brain) Accusation() (game.WhoWhatWhere, bool) {
	var solution [3]card.Card
	for i, kind := range []card.Kind{card.KindCharacter, card.KindWeapon, card.KindRoom} {
		c, ok := b.knownSolution(kind)
		if !ok {
			return game.WhoWhatWhere{}, false
		}
		solution[i] = c
	}
	b.log.Debugf("Finalizing knowledge before accusing.")
	return game.WhoWhatWhere{Character: solution[0], Weapon: solution[1], Room: solution[2]}, true
}

func (b *Brain) knownSolution(kind card.Kind) (card.Card, bool) {
	for _, c := range b.cards.Kind(kind) {
		if b.knowledge[c.ID][Solution] == StatusYes {
			return c, true
		}
	}
	return card.Card{}, false
}

// --- Internal Deduction Logic ---

func (b *Brain) runDeductionLoop() {
	for i := 0; i < 10; i++ { // Safety break
		var changed bool
		changed = b.pruneAndSolveMysteries() || changed
		changed = b.deduceSolutionByElimination() || changed
		changed = b.deduceCardLocationsByElimination() || changed
		if !changed {
			break
		}
	}
}

func (b *Brain) locations() []string {
	all := make([]string, len(b.players)+1)
	copy(all, b.players)
	all[len(b.players)] = Solution
	return all
}

func (b *Brain) markCardLocation(id card.ID, location string) bool {
	row, ok := b.knowledge[id]
	if !ok {
		b.log.Errorf("markCardLocation called with unknown card %d", id)
		return false
	}
	if row[location] == StatusYes {
		return false
	}
	b.log.Debugf("Learned that card %d is with %s.", id, location)
	for _, loc := range b.locations() {
		row[loc] = StatusNo
	}
	row[location] = StatusYes
	return true
}

func (b *Brain) markNotHeld(id card.ID, location string) {
	if row, ok := b.knowledge[id]; ok && row[location] == StatusMaybe {
		row[location] = StatusNo
	}
}

func (b *Brain) pruneAndSolveMysteries() bool {
	var changed bool
	var remaining []UnresolvedSuggestion
	for _, mystery := range b.unresolvedSuggestions {
		pruned := make(map[card.ID]struct{})
		for id := range mystery.PossibleCards {
			if b.knowledge[id][mystery.Disprover] != StatusNo {
				pruned[id] = struct{}{}
			}
		}
		if len(pruned) < len(mystery.PossibleCards) {
			b.log.Debugf("Pruning mystery: %s's options narrowed to %v", mystery.Disprover, b.names(pruned))
			mystery.PossibleCards = pruned
			changed = true
		}
		if len(pruned) == 1 {
			id := sortedIDs(pruned)[0]
			b.log.Infof("Solved a mystery: %s must have shown %v.", mystery.Disprover, b.names(pruned))
			if b.markCardLocation(id, mystery.Disprover) {
				changed = true
			}
		} else if len(pruned) > 1 {
			remaining = append(remaining, mystery)
		}
	}
	if len(remaining) < len(b.unresolvedSuggestions) {
		changed = true
	}
	b.unresolvedSuggestions = remaining
	return changed
}

func (b *Brain) deduceCardLocationsByElimination() bool {
	var changed bool
	for _, c := range b.cards.All() {
		var maybes []string
		isKnown := false
		for _, loc := range b.locations() {
			if b.knowledge[c.ID][loc] == StatusYes {
				isKnown = true
				break
			}
			if b.knowledge[c.ID][loc] == StatusMaybe {
				maybes = append(maybes, loc)
			}
		}
		if !isKnown && len(maybes) == 1 {
			if b.markCardLocation(c.ID, maybes[0]) {
				changed = true
			}
		}
	}
	return changed
}

func (b *Brain) deduceSolutionByElimination() bool {
	var changed bool
	for _, kind := range []card.Kind{card.KindCharacter, card.KindWeapon, card.KindRoom} {
		if _, solved := b.knownSolution(kind); solved {
			continue
		}
		var maybes []card.ID
		for _, c := range b.cards.Kind(kind) {
			if b.knowledge[c.ID][Solution] == StatusMaybe {
				maybes = append(maybes, c.ID)
			}
		}
		if len(maybes) == 1 {
			if b.markCardLocation(maybes[0], Solution) {
				changed = true
			}
		}
	}
	return changed
}

func (b *Brain) names(ids map[card.ID]struct{}) []string {
	var out []string
	for _, id := range sortedIDs(ids) {
		if c, err := b.cards.Card(id); err == nil {
			out = append(out, c.Name)
		}
	}
	return out
}

func sortedIDs(m map[card.ID]struct{}) []card.ID {
	k := make([]card.ID, 0, len(m))
	for id := range m {
		k = append(k, id)
	}
	sort.Slice(k, func(i, j int) bool { return k[i] < k[j] })
	return k
}
