package game

import (
	"fmt"

	"clueless/internal/board"
	"clueless/internal/card"
	apperrors "clueless/internal/errors"
	"clueless/internal/events"
	"clueless/internal/player"

	"github.com/google/uuid"
)

// ActionKind tags the variant an Action holds.
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionSuggestion
	ActionAccusation
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionSuggestion:
		return "suggestion"
	case ActionAccusation:
		return "accusation"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Action is a recorded step of a turn. From and To are set for moves,
// Claim for suggestions and accusations.
type Action struct {
	ID          string        `json:"id"`
	Kind        ActionKind    `json:"kind"`
	TurnID      TurnID        `json:"turn_id"`
	From        board.Coord   `json:"from"`
	To          board.Coord   `json:"to"`
	Claim       *WhoWhatWhere `json:"claim,omitempty"`
	Description string        `json:"description"`
}

// ActionSpec is what a caller asks for. Cards are referenced by id and
// resolved against the registry when the action is taken.
type ActionSpec struct {
	Kind      ActionKind
	To        board.Coord
	Character card.ID
	Weapon    card.ID
	Room      card.ID
}

// MoveTo asks to move the acting player to c.
func MoveTo(c board.Coord) ActionSpec {
	return ActionSpec{Kind: ActionMove, To: c}
}

// Suggest asks to suggest that character did it with weapon in room.
func Suggest(character, weapon, room card.ID) ActionSpec {
	return ActionSpec{Kind: ActionSuggestion, Character: character, Weapon: weapon, Room: room}
}

// Accuse asks to accuse character of doing it with weapon in room.
func Accuse(character, weapon, room card.ID) ActionSpec {
	return ActionSpec{Kind: ActionAccusation, Character: character, Weapon: weapon, Room: room}
}

// Disproval reports who showed the suggester a card, and which one.
type Disproval struct {
	Player player.ID `json:"player"`
	Name   string    `json:"name"`
	Card   card.Card `json:"card"`
}

// Outcome is the result of a successfully taken action.
type Outcome struct {
	Action    Action
	Disproval *Disproval // suggestions only; nil when nobody could disprove
	Correct   bool       // accusations only
	Sequence  int
}

// ValidMove reports whether to is one cell away from from: exactly Step
// along one axis and unchanged along the other.
func ValidMove(from, to board.Coord) bool {
	dx, dy := abs(to.X-from.X), abs(to.Y-from.Y)
	return (dx == board.Step && dy == 0) || (dx == 0 && dy == board.Step)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// resolve turns a spec into an action for turn t, taken by p.
func (g *Game) resolve(t *Turn, p *player.Player, spec ActionSpec) (Action, error) {
	a := Action{ID: uuid.NewString(), Kind: spec.Kind, TurnID: t.ID}
	switch spec.Kind {
	case ActionMove:
		if _, err := g.board.Space(spec.To); err != nil {
			return Action{}, err
		}
		a.From, a.To = p.Space, spec.To
		a.Description = fmt.Sprintf("%s moves from %s to %s", p.DisplayName(), a.From, a.To)
	case ActionSuggestion, ActionAccusation:
		claim, err := g.claim(spec)
		if err != nil {
			return Action{}, err
		}
		a.Claim = &claim
		a.Description = fmt.Sprintf("%s makes %s: %s", p.DisplayName(), spec.Kind, claim)
	default:
		return Action{}, apperrors.Wrapf(apperrors.ErrInvalidAction, "unknown action kind %d", spec.Kind)
	}
	return a, nil
}

// claim builds a fresh triple from the spec's card ids.
func (g *Game) claim(spec ActionSpec) (WhoWhatWhere, error) {
	ch, err := g.cards.OfKind(spec.Character, card.KindCharacter)
	if err != nil {
		return WhoWhatWhere{}, err
	}
	w, err := g.cards.OfKind(spec.Weapon, card.KindWeapon)
	if err != nil {
		return WhoWhatWhere{}, err
	}
	r, err := g.cards.OfKind(spec.Room, card.KindRoom)
	if err != nil {
		return WhoWhatWhere{}, err
	}
	return WhoWhatWhere{Character: ch, Weapon: w, Room: r}, nil
}

// validate checks the positional rules of a.
func (g *Game) validate(a Action, p *player.Player) error {
	switch a.Kind {
	case ActionMove:
		if !ValidMove(a.From, a.To) {
			return apperrors.Wrapf(apperrors.ErrInvalidAction, "cannot move from %s to %s", a.From, a.To)
		}
		return nil
	case ActionSuggestion:
		room, err := g.cards.Room(a.Claim.Room.ID)
		if err != nil {
			return err
		}
		col, err := g.board.CollectionOf(p.Space)
		if err != nil {
			return err
		}
		if col.ID != room.Collection {
			return apperrors.Wrapf(apperrors.ErrInvalidAction, "must be in the %s to suggest it", room.Name)
		}
		_, err = g.board.RoomSpace(room.Collection)
		return err
	case ActionAccusation:
		if p.Result == player.ResultLost {
			err := apperrors.Wrapf(apperrors.ErrInvalidAction, "%s is out and can no longer accuse", p.DisplayName())
			return apperrors.WithKind(err, apperrors.KindState)
		}
		return nil
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidAction, "unknown action kind %d", a.Kind)
	}
}

// perform applies a, which has already been validated.
func (g *Game) perform(a Action, p *player.Player, out *Outcome) error {
	switch a.Kind {
	case ActionMove:
		p.Space = a.To
		g.log.Infof("%s moved to %s.", p.DisplayName(), a.To)
		g.publish(events.PlayerMoved{
			GameID: string(g.id), PlayerName: p.DisplayName(), Character: g.characterName(p.Character),
			From: a.From, To: a.To,
		})
		g.registerGameUpdate()
		return nil

	case ActionSuggestion:
		claim := *a.Claim
		g.log.Infof("%s suggests %s.", p.DisplayName(), claim)
		g.publish(events.SuggestionMade{
			GameID: string(g.id), PlayerName: p.DisplayName(),
			Character: claim.Character.Name, Weapon: claim.Weapon.Name, Room: claim.Room.Name,
		})
		if err := g.summon(claim); err != nil {
			return err
		}
		out.Disproval = g.disprove(p, claim)
		g.registerGameUpdate()
		return nil

	case ActionAccusation:
		claim := *a.Claim
		out.Correct = g.caseFile.Compare(claim)
		g.log.Infof("%s accuses %s.", p.DisplayName(), claim)
		g.publish(events.AccusationMade{
			GameID: string(g.id), PlayerName: p.DisplayName(),
			Character: claim.Character.Name, Weapon: claim.Weapon.Name, Room: claim.Room.Name,
			Correct: out.Correct,
		})
		if out.Correct {
			g.endGame(p)
		} else {
			g.loseGame(p)
		}
		return nil

	default:
		return apperrors.Wrapf(apperrors.ErrInvalidAction, "unknown action kind %d", a.Kind)
	}
}

// summon moves the suggested character's player into the suggested room.
// The weapon stays where it is.
func (g *Game) summon(claim WhoWhatWhere) error {
	target := g.playerByCharacter(claim.Character.ID)
	if target == nil {
		return nil
	}
	room, err := g.cards.Room(claim.Room.ID)
	if err != nil {
		return err
	}
	space, err := g.board.RoomSpace(room.Collection)
	if err != nil {
		return err
	}
	if target.Space == space.Coord {
		return nil
	}
	from := target.Space
	target.Space = space.Coord
	g.log.Debugf("%s is summoned to the %s.", claim.Character.Name, room.Name)
	g.publish(events.PlayerMoved{
		GameID: string(g.id), PlayerName: target.DisplayName(), Character: claim.Character.Name,
		From: from, To: space.Coord, Summoned: true,
	})
	return nil
}

// disprove asks each sheet-holding player after the suggester, in join
// order, to show one of the suggested cards. The first who can shows one
// and the suggester notes it on their sheet.
func (g *Game) disprove(suggester *player.Player, claim WhoWhatWhere) *Disproval {
	sheet, idx := g.sheetFor(suggester.ID)
	if sheet == nil {
		return nil
	}
	for i := 1; i < len(g.sheets); i++ {
		other := g.sheets[(idx+i)%len(g.sheets)]
		var matching []card.Card
		for _, c := range claim.Cards() {
			if g.holds(other.Player, c.ID) {
				matching = append(matching, c)
			}
		}
		if len(matching) == 0 {
			continue
		}

		shown := g.chooser.Choose(matching)
		_ = sheet.MakeNote(shown.ID, true, false, false)
		disprover := g.playerByID(other.Player)
		g.log.Infof("%s showed %s a card.", disprover.DisplayName(), suggester.DisplayName())
		g.log.Debugf("%s showed %s.", disprover.DisplayName(), shown)
		g.publish(events.CardRevealed{
			GameID: string(g.id), SuggesterName: suggester.DisplayName(), DisproverName: disprover.DisplayName(),
		})
		return &Disproval{Player: disprover.ID, Name: disprover.DisplayName(), Card: shown}
	}
	g.log.Infof("No one could disprove %s's suggestion.", suggester.DisplayName())
	g.publish(events.NoDisproval{GameID: string(g.id)})
	return nil
}

// TakeAction validates and applies spec on turn turnID for the user actor.
// Nothing changes unless every check passes.
func (g *Game) TakeAction(turnID TurnID, actor player.UserID, spec ActionSpec) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusStarted {
		return Outcome{}, apperrors.ErrNotStarted
	}
	t := g.currentTurn()
	if t == nil || t.ID != turnID {
		return Outcome{}, apperrors.ErrStaleTurn
	}
	p := g.playerByID(t.Player)
	if p == nil || p.User == nil || p.User.ID != actor {
		return Outcome{}, apperrors.ErrNotYourTurn
	}
	if err := t.checkOrder(spec.Kind); err != nil {
		g.log.Warnf("%s: %v", p.DisplayName(), err)
		return Outcome{}, err
	}
	a, err := g.resolve(t, p, spec)
	if err != nil {
		return Outcome{}, err
	}
	if err := g.validate(a, p); err != nil {
		g.log.Warnf("%s: %v", p.DisplayName(), err)
		return Outcome{}, err
	}

	out := Outcome{Action: a}
	if err := g.perform(a, p, &out); err != nil {
		return Outcome{}, err
	}
	t.Actions = append(t.Actions, a)
	out.Sequence = g.sequence
	return out, nil
}

// EndTurn closes turn turnID and hands the next turn to the following
// human player in join order, wrapping around. Eliminated players still
// get turns.
func (g *Game) EndTurn(turnID TurnID, actor player.UserID) (Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusStarted {
		return Turn{}, apperrors.ErrNotStarted
	}
	t := g.currentTurn()
	if t == nil || t.ID != turnID {
		return Turn{}, apperrors.ErrStaleTurn
	}
	p := g.playerByID(t.Player)
	if p == nil || p.User == nil || p.User.ID != actor {
		return Turn{}, apperrors.ErrNotYourTurn
	}

	next := g.nextPlayer(p)
	if next == nil {
		return Turn{}, apperrors.Wrapf(apperrors.ErrNotFound, "no player to take the next turn")
	}
	t.Ended = true
	nt := newTurn(t.Number+1, next.ID)
	g.turns = append(g.turns, nt)
	g.current = len(g.turns) - 1

	g.log.Infof("%s ended turn %d; %s is up.", p.DisplayName(), t.Number, next.DisplayName())
	g.publish(events.TurnEnded{GameID: string(g.id), TurnNumber: t.Number, NextPlayer: next.DisplayName()})
	g.registerGameUpdate()
	return nt.clone(), nil
}

// nextPlayer returns the human player after p in join order.
func (g *Game) nextPlayer(p *player.Player) *player.Player {
	var humans []*player.Player
	idx := -1
	for _, o := range g.players {
		if o.IsNonUser() {
			continue
		}
		if o.ID == p.ID {
			idx = len(humans)
		}
		humans = append(humans, o)
	}
	if len(humans) == 0 {
		return nil
	}
	return humans[(idx+1)%len(humans)]
}
