package game

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"clueless/internal/board"
	"clueless/internal/card"
	"clueless/internal/events"
	"clueless/internal/player"
	"clueless/internal/store"

	"github.com/sirupsen/logrus"
)

// Store persists game records.
type Store interface {
	Save(ctx context.Context, rec store.Record) error
	Load(ctx context.Context, id string) (store.Record, error)
	List(ctx context.Context) ([]store.Record, error)
}

// Summary is a lobby line for one game.
type Summary struct {
	ID        ID
	Name      string
	Status    Status
	Sequence  int
	UpdatedAt time.Time
}

// Manager owns every live game. It hands out per-game dependencies, keeps
// games in memory and writes each one to its Store after every change.
type Manager struct {
	board   *board.Board
	cards   *card.Registry
	store   Store
	log     *logrus.Logger
	events  *events.Manager
	chooser func(*rand.Rand) Chooser

	mu    sync.RWMutex
	rand  *rand.Rand
	games map[ID]*Game
}

// NewManager creates a Manager with its required dependencies. A nil store
// keeps games in memory only.
func NewManager(b *board.Board, cards *card.Registry, s Store, logger *logrus.Logger, rnd *rand.Rand) *Manager {
	if s == nil {
		s = store.NewMemory()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Manager{
		board:  b,
		cards:  cards,
		store:  s,
		log:    logger,
		events: events.NewManager(),
		rand:   rnd,
		games:  make(map[ID]*Game),
	}
}

// Events is a public getter for the shared event bus.
func (m *Manager) Events() *events.Manager {
	return m.events
}

// WithChooser sets how each new game picks the card a disprover reveals.
// The function gets the game's own random source.
func (m *Manager) WithChooser(f func(*rand.Rand) Chooser) *Manager {
	m.chooser = f
	return m
}

func (m *Manager) deps() Deps {
	m.mu.Lock()
	rnd := rand.New(rand.NewSource(m.rand.Int63()))
	m.mu.Unlock()

	d := Deps{
		Board:  m.board,
		Cards:  m.cards,
		Log:    m.log,
		Rand:   rnd,
		Events: m.events,
	}
	if m.chooser != nil {
		d.Chooser = m.chooser(rnd)
	}
	return d
}

// CreateGame starts a new lobby hosted by host.
func (m *Manager) CreateGame(ctx context.Context, host player.User, name string) (*Game, error) {
	g := New(name, host, m.deps())

	m.mu.Lock()
	m.games[g.ID()] = g
	m.mu.Unlock()

	if err := m.persist(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Get returns a game, loading it from the store if it is not in memory.
func (m *Manager) Get(ctx context.Context, id ID) (*Game, error) {
	m.mu.RLock()
	g, ok := m.games[id]
	m.mu.RUnlock()
	if ok {
		return g, nil
	}
	rec, err := m.store.Load(ctx, string(id))
	if err != nil {
		return nil, err
	}
	restored, err := Restore(rec, m.deps())
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	m.games[id] = restored
	return restored, nil
}

// List returns a summary of every known game, most recently updated first.
func (m *Manager) List(ctx context.Context) ([]Summary, error) {
	recs, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, Summary{
			ID:        ID(r.ID),
			Name:      r.Name,
			Status:    Status(r.Status),
			Sequence:  r.Sequence,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

// JoinGame seats user as character in game id.
func (m *Manager) JoinGame(ctx context.Context, id ID, user player.User, character card.ID) (player.Player, error) {
	g, err := m.Get(ctx, id)
	if err != nil {
		return player.Player{}, err
	}
	p, err := g.AddPlayer(user, character)
	if err != nil {
		return player.Player{}, err
	}
	return p, m.persist(ctx, g)
}

// StartGame starts game id on behalf of user.
func (m *Manager) StartGame(ctx context.Context, id ID, user player.UserID) error {
	g, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := g.Start(user); err != nil {
		return err
	}
	return m.persist(ctx, g)
}

// TakeAction applies spec on the given turn of game id.
func (m *Manager) TakeAction(ctx context.Context, id ID, turn TurnID, actor player.UserID, spec ActionSpec) (Outcome, error) {
	g, err := m.Get(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	out, err := g.TakeAction(turn, actor, spec)
	if err != nil {
		return Outcome{}, err
	}
	return out, m.persist(ctx, g)
}

// EndTurn ends the given turn of game id.
func (m *Manager) EndTurn(ctx context.Context, id ID, turn TurnID, actor player.UserID) (Turn, error) {
	g, err := m.Get(ctx, id)
	if err != nil {
		return Turn{}, err
	}
	next, err := g.EndTurn(turn, actor)
	if err != nil {
		return Turn{}, err
	}
	return next, m.persist(ctx, g)
}

// MakeNote updates an item on a player's detective sheet.
func (m *Manager) MakeNote(ctx context.Context, id ID, requester player.ID, c card.ID, checked, initiallyDealt, manuallyChecked bool) error {
	g, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := g.MakeNote(requester, c, checked, initiallyDealt, manuallyChecked); err != nil {
		return err
	}
	return m.persist(ctx, g)
}

func (m *Manager) persist(ctx context.Context, g *Game) error {
	rec, err := g.Record()
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, rec); err != nil {
		m.log.WithError(err).Errorf("Failed to save game %s.", g.ID())
		return fmt.Errorf("save game %s: %w", g.ID(), err)
	}
	return nil
}
