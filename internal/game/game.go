package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"clueless/internal/board"
	"clueless/internal/card"
	apperrors "clueless/internal/errors"
	"clueless/internal/events"
	"clueless/internal/player"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MinPlayers is the number of human players needed to start a game.
const MinPlayers = 2

// ID identifies a game.
type ID string

// Status is the lifecycle state of a game. It only ever moves forward.
type Status int

const (
	StatusNotStarted Status = iota
	StatusStarted
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusStarted:
		return "Started"
	case StatusComplete:
		return "Complete"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) valid() bool {
	return s >= StatusNotStarted && s <= StatusComplete
}

// Chooser picks the card a disproving player reveals.
type Chooser interface {
	Choose(cards []card.Card) card.Card
}

// Deps are the shared collaborators a game is built with.
type Deps struct {
	Board   *board.Board
	Cards   *card.Registry
	Log     logrus.FieldLogger
	Rand    *rand.Rand
	Chooser Chooser         // optional; defaults to the first card by name
	Events  *events.Manager // optional
}

// Game is one game session: the board it is played on, its hidden case
// file, the players in join order and the turns taken so far.
//
// Every exported method runs under the game's mutex, so the sequence
// counter and the current turn always change together.
type Game struct {
	mu sync.Mutex

	id      ID
	name    string
	host    player.User
	board   *board.Board
	cards   *card.Registry
	log     logrus.FieldLogger
	rand    *rand.Rand
	chooser Chooser
	events  *events.Manager

	caseFile   CaseFile
	status     Status
	players    []*player.Player
	sheets     []*player.Sheet
	hands      map[player.ID][]card.ID
	turns      []*Turn
	current    int
	sequence   int
	startTime  time.Time
	lastUpdate time.Time
}

// New initializes a game hosted by host: it draws a random case file,
// sets the status to NotStarted and registers the first update. The host
// still has to join with a character like everyone else.
func New(name string, host player.User, deps Deps) *Game {
	g := newGame(ID(uuid.NewString()), name, host, deps)
	g.caseFile = NewRandomCaseFile(g.cards, g.rand)
	g.status = StatusNotStarted
	g.startTime = time.Now()
	g.log.Infof("Game %q created by %s.", name, host.Name)
	g.log.Debugf("Case file: %s", g.caseFile.Solution())
	g.registerGameUpdate()
	return g
}

func newGame(id ID, name string, host player.User, deps Deps) *Game {
	log := deps.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	rnd := deps.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	chooser := deps.Chooser
	if chooser == nil {
		chooser = firstByName{}
	}
	return &Game{
		id:      id,
		name:    name,
		host:    host,
		board:   deps.Board,
		cards:   deps.Cards,
		log:     log.WithField("game", string(id)),
		rand:    rnd,
		chooser: chooser,
		events:  deps.Events,
		current: -1,
	}
}

func (g *Game) ID() ID { return g.id }

func (g *Game) Name() string { return g.name }

func (g *Game) Host() player.User { return g.host }

func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Game) Sequence() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sequence
}

// CurrentTurn returns a copy of the turn in progress.
func (g *Game) CurrentTurn() (Turn, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.currentTurn()
	if t == nil {
		return Turn{}, false
	}
	return t.clone(), true
}

// Players returns copies of every player in join order. Non-user players
// created at start come last.
func (g *Game) Players() []player.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]player.Player, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, *p)
	}
	return out
}

// PlayerFor returns the player a user controls in this game.
func (g *Game) PlayerFor(user player.UserID) (player.Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.players {
		if p.User != nil && p.User.ID == user {
			return *p, true
		}
	}
	return player.Player{}, false
}

// UnusedCharacters returns the characters no player has claimed yet.
func (g *Game) UnusedCharacters() []card.Character {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unusedCharacters()
}

func (g *Game) unusedCharacters() []card.Character {
	var out []card.Character
	for _, ch := range g.cards.Characters() {
		if g.playerByCharacter(ch.ID) == nil {
			out = append(out, ch)
		}
	}
	return out
}

// AddPlayer seats user as character. Each user may join once and each
// character may be claimed once. The new player gets a blank detective
// sheet.
func (g *Game) AddPlayer(user player.User, character card.ID) (player.Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusNotStarted {
		return player.Player{}, apperrors.Wrapf(apperrors.ErrAlreadyStarted, "game already started, cannot join")
	}
	ch, err := g.cards.Character(character)
	if err != nil {
		return player.Player{}, err
	}
	for _, p := range g.players {
		if p.User != nil && p.User.ID == user.ID {
			return player.Player{}, apperrors.ErrDuplicateUser
		}
	}
	if g.playerByCharacter(ch.ID) != nil {
		return player.Player{}, apperrors.Wrapf(apperrors.ErrDuplicateCharacter, "%s is already in use", ch.Name)
	}

	u := user
	p := player.New(&u, ch)
	g.players = append(g.players, p)
	g.sheets = append(g.sheets, player.NewSheet(p.ID, g.cards.All()))

	g.log.Infof("%s joined as %s.", user.Name, ch.Name)
	g.publish(events.PlayerJoined{GameID: string(g.id), PlayerName: user.Name, Character: ch.Name})
	g.registerGameUpdate()
	return *p, nil
}

// Start begins the game on behalf of user, who must be the host. The host
// takes the first turn, the cards outside the case file are dealt across
// the detective sheets, and every unclaimed character gets a non-user
// player on its starting space.
func (g *Game) Start(user player.UserID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.status != StatusNotStarted:
		return apperrors.ErrAlreadyStarted
	case len(g.players) < MinPlayers:
		return apperrors.ErrInsufficientPlayers
	case g.host.ID != user:
		return apperrors.ErrNotHost
	}
	host := g.hostPlayer()
	if host == nil {
		return apperrors.Wrapf(apperrors.ErrNotFound, "host %s has not joined the game", g.host.Name)
	}

	g.status = StatusStarted
	g.turns = append(g.turns, newTurn(1, host.ID))
	g.current = len(g.turns) - 1

	g.deal()

	// Non-user players get no detective sheet, so this must run after the deal.
	for _, ch := range g.unusedCharacters() {
		g.players = append(g.players, player.New(nil, ch))
		g.log.Debugf("%s joins as a non-user player at %s.", ch.Name, ch.Start)
	}

	g.log.Infof("Game started with %d players; %s goes first.", len(g.sheets), host.DisplayName())
	g.publish(events.GameStarted{GameID: string(g.id), FirstPlayer: host.DisplayName(), Players: len(g.sheets)})
	g.registerGameUpdate()
	return nil
}

// deal shuffles every card that is not in the case file and hands them out
// round-robin over the detective sheets in join order.
func (g *Game) deal() {
	var deck []card.Card
	for _, c := range g.cards.All() {
		if !g.caseFile.Contains(c.ID) {
			deck = append(deck, c)
		}
	}
	g.rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	g.hands = make(map[player.ID][]card.ID, len(g.sheets))
	for i, c := range deck {
		sheet := g.sheets[i%len(g.sheets)]
		g.hands[sheet.Player] = append(g.hands[sheet.Player], c.ID)
		// Every sheet holds an item for every card, so this cannot fail.
		_ = sheet.MakeNote(c.ID, true, true, false)
	}
	for _, s := range g.sheets {
		g.log.Debugf("%s Hand: %v", g.playerByID(s.Player).DisplayName(), s.Dealt())
	}
}

// endGame declares winner the winner and everyone else a loser.
func (g *Game) endGame(winner *player.Player) {
	for _, p := range g.players {
		if p.ID == winner.ID {
			p.Result = player.ResultWon
		} else {
			p.Result = player.ResultLost
		}
	}
	g.status = StatusComplete
	if t := g.currentTurn(); t != nil {
		t.Ended = true
	}
	g.log.Infof("%s solved the case and wins.", winner.DisplayName())

	cf := g.caseFile
	g.publish(events.GameOver{
		GameID:   string(g.id),
		Winner:   winner.DisplayName(),
		Solution: [3]string{cf.Character().Name, cf.Weapon().Name, cf.Room().Name},
	})
	g.registerGameUpdate()
}

// loseGame marks a single player as lost after a wrong accusation. The
// game carries on.
func (g *Game) loseGame(loser *player.Player) {
	loser.Result = player.ResultLost
	g.log.Infof("%s made a wrong accusation and is out.", loser.DisplayName())
	g.registerGameUpdate()
}

// registerGameUpdate stamps the update time and bumps the sequence. Every
// mutating operation ends here exactly once per visible change.
func (g *Game) registerGameUpdate() {
	g.lastUpdate = time.Now()
	g.sequence++
	g.publish(events.GameUpdated{GameID: string(g.id), Sequence: g.sequence})
}

func (g *Game) publish(e events.Event) {
	if g.events != nil {
		g.events.Publish(e)
	}
}

func (g *Game) currentTurn() *Turn {
	if g.current < 0 || g.current >= len(g.turns) {
		return nil
	}
	return g.turns[g.current]
}

func (g *Game) hostPlayer() *player.Player {
	for _, p := range g.players {
		if p.User != nil && p.User.ID == g.host.ID {
			return p
		}
	}
	return nil
}

func (g *Game) playerByID(id player.ID) *player.Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) playerByCharacter(id card.ID) *player.Player {
	for _, p := range g.players {
		if p.Character == id {
			return p
		}
	}
	return nil
}

func (g *Game) sheetFor(id player.ID) (*player.Sheet, int) {
	for i, s := range g.sheets {
		if s.Player == id {
			return s, i
		}
	}
	return nil, -1
}

// holds reports whether card id was dealt to player pid. Hands are fixed
// at the deal; notes on a sheet never change them.
func (g *Game) holds(pid player.ID, id card.ID) bool {
	for _, c := range g.hands[pid] {
		if c == id {
			return true
		}
	}
	return false
}

func (g *Game) characterName(id card.ID) string {
	c, err := g.cards.Card(id)
	if err != nil {
		return "unknown"
	}
	return c.Name
}

// firstByName reveals the alphabetically first card.
type firstByName struct{}

func (firstByName) Choose(cards []card.Card) card.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Name < best.Name {
			best = c
		}
	}
	return best
}
