package game

import (
	"fmt"

	apperrors "clueless/internal/errors"
	"clueless/internal/player"

	"github.com/google/uuid"
)

// TurnID identifies a turn.
type TurnID string

// Phase is where a turn stands in its move, suggest, accuse sequence.
type Phase int

const (
	PhaseOpen Phase = iota
	PhaseMoveTaken
	PhaseSuggestionOrAccusationPending
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "Open"
	case PhaseMoveTaken:
		return "Move Taken"
	case PhaseSuggestionOrAccusationPending:
		return "Suggestion Or Accusation Pending"
	case PhaseClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Turn is one player's go. Actions are kept in the order they were taken.
type Turn struct {
	ID      TurnID    `json:"id"`
	Number  int       `json:"number"`
	Player  player.ID `json:"player"`
	Actions []Action  `json:"actions"`
	Ended   bool      `json:"ended"`
}

func newTurn(number int, p player.ID) *Turn {
	return &Turn{ID: TurnID(uuid.NewString()), Number: number, Player: p}
}

// Phase derives the turn's state from the actions taken so far.
func (t *Turn) Phase() Phase {
	switch {
	case t.Ended || t.has(ActionAccusation):
		return PhaseClosed
	case t.has(ActionSuggestion):
		return PhaseSuggestionOrAccusationPending
	case t.has(ActionMove):
		return PhaseMoveTaken
	default:
		return PhaseOpen
	}
}

func (t *Turn) has(kind ActionKind) bool {
	for _, a := range t.Actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// checkOrder rejects an action that is out of sequence for this turn. A
// move must come first, one suggestion at most, and nothing follows an
// accusation.
func (t *Turn) checkOrder(kind ActionKind) error {
	var reason string
	switch kind {
	case ActionMove:
		if len(t.Actions) > 0 {
			reason = "a move must be the first action of the turn"
		}
	case ActionSuggestion:
		if t.has(ActionSuggestion) || t.has(ActionAccusation) {
			reason = "only one suggestion per turn, and none after an accusation"
		}
	case ActionAccusation:
		if t.has(ActionAccusation) {
			reason = "only one accusation per turn"
		}
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidAction, "unknown action kind %d", kind)
	}
	if reason == "" {
		return nil
	}
	return apperrors.WithKind(apperrors.Wrapf(apperrors.ErrInvalidAction, "%s", reason), apperrors.KindState)
}

func (t *Turn) clone() Turn {
	cp := *t
	cp.Actions = append([]Action(nil), t.Actions...)
	return cp
}

func (t *Turn) String() string {
	return fmt.Sprintf("turn %d (%s)", t.Number, t.Phase())
}
