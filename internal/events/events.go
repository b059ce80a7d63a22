package events

import (
	"sync"

	"clueless/internal/board"
)

// Event is a marker interface for all event types.
type Event interface{}

// Listener defines an interface for any component that wants to react to events.
type Listener interface {
	HandleEvent(e Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(e Event)

func (f ListenerFunc) HandleEvent(e Event) { f(e) }

// Manager (or Event Bus) manages listeners and dispatches events.
// Listeners are called synchronously and must not call back into the game
// that published the event.
type Manager struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewManager() *Manager {
	return &Manager{}
}
func (em *Manager) Subscribe(l Listener) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.listeners = append(em.listeners, l)
}
func (em *Manager) Publish(e Event) {
	em.mu.RLock()
	listeners := make([]Listener, len(em.listeners))
	copy(listeners, em.listeners)
	em.mu.RUnlock()
	for _, l := range listeners {
		l.HandleEvent(e)
	}
}

// --- Event Types ---

// GameUpdated is published on every externally visible state change.
// Polling clients compare Sequence instead of diffing full state.
type GameUpdated struct {
	GameID   string
	Sequence int
}

type PlayerJoined struct {
	GameID     string
	PlayerName string
	Character  string
}

type GameStarted struct {
	GameID      string
	FirstPlayer string
	Players     int
}

type PlayerMoved struct {
	GameID     string
	PlayerName string
	Character  string
	From, To   board.Coord
	Summoned   bool // moved by someone else's suggestion
}

type SuggestionMade struct {
	GameID     string
	PlayerName string
	Character  string
	Weapon     string
	Room       string
}

// CardRevealed tells observers that a card was shown. Which card is only
// known to the suggester, so it is not part of the event.
type CardRevealed struct {
	GameID        string
	SuggesterName string
	DisproverName string
}

type NoDisproval struct {
	GameID string
}

type AccusationMade struct {
	GameID     string
	PlayerName string
	Character  string
	Weapon     string
	Room       string
	Correct    bool
}

type TurnEnded struct {
	GameID     string
	TurnNumber int
	NextPlayer string
}

type GameOver struct {
	GameID   string
	Winner   string
	Solution [3]string
}
