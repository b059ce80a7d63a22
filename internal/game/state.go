package game

import (
	"time"

	"clueless/internal/board"
	"clueless/internal/card"
	apperrors "clueless/internal/errors"
	"clueless/internal/player"
)

// HostState identifies the host in a GameState.
type HostState struct {
	PlayerID player.ID `json:"player_id,omitempty"`
	Username string    `json:"username"`
}

// CharacterState is the public face of a character.
type CharacterState struct {
	ID    card.ID `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
}

// PlayerState is what every player may see about every other player.
type PlayerState struct {
	ID        player.ID      `json:"id"`
	Username  string         `json:"username"`
	Character CharacterState `json:"character"`
	Space     board.Coord    `json:"space"`
	Result    string         `json:"result"`
	IsNonUser bool           `json:"is_non_user"`
}

// TurnState is the public view of the current turn.
type TurnState struct {
	ID       TurnID    `json:"id"`
	Number   int       `json:"number"`
	PlayerID player.ID `json:"player_id"`
	Username string    `json:"username"`
	Phase    string    `json:"phase"`
}

// GameState is a snapshot of a game for one requesting player. It never
// carries the case file or any detective sheet.
type GameState struct {
	ID           ID            `json:"id"`
	Name         string        `json:"name"`
	Sequence     int           `json:"game_sequence"`
	Status       string        `json:"status"`
	Host         HostState     `json:"host"`
	IsHostPlayer bool          `json:"is_host_player"`
	CurrentTurn  *TurnState    `json:"current_turn,omitempty"`
	Players      []PlayerState `json:"players"`
	StartTime    time.Time     `json:"start_time"`
	LastUpdate   time.Time     `json:"last_update"`
}

// State returns the public snapshot of the game as seen by requester.
func (g *Game) State(requester player.ID) GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := GameState{
		ID:         g.id,
		Name:       g.name,
		Sequence:   g.sequence,
		Status:     g.status.String(),
		Host:       HostState{Username: g.host.Name},
		StartTime:  g.startTime,
		LastUpdate: g.lastUpdate,
	}
	if hp := g.hostPlayer(); hp != nil {
		s.Host.PlayerID = hp.ID
		s.IsHostPlayer = hp.ID == requester
	}
	if t := g.currentTurn(); t != nil {
		ts := &TurnState{ID: t.ID, Number: t.Number, PlayerID: t.Player, Phase: t.Phase().String()}
		if p := g.playerByID(t.Player); p != nil {
			ts.Username = p.DisplayName()
		}
		s.CurrentTurn = ts
	}
	for _, p := range g.players {
		ps := PlayerState{
			ID:        p.ID,
			Username:  p.DisplayName(),
			Space:     p.Space,
			Result:    p.Result.String(),
			IsNonUser: p.IsNonUser(),
		}
		if ch, err := g.cards.Character(p.Character); err == nil {
			ps.Character = CharacterState{ID: ch.ID, Name: ch.Name, Color: ch.Color}
		}
		s.Players = append(s.Players, ps)
	}
	return s
}

// Sheet returns a copy of requester's own detective sheet.
func (g *Game) Sheet(requester player.ID) (*player.Sheet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, _ := g.sheetFor(requester)
	if s == nil {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no detective sheet for player %s", requester)
	}
	return s.Clone(), nil
}

// MakeNote updates one item of requester's detective sheet.
func (g *Game) MakeNote(requester player.ID, id card.ID, checked, initiallyDealt, manuallyChecked bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, _ := g.sheetFor(requester)
	if s == nil {
		return apperrors.Wrapf(apperrors.ErrNotFound, "no detective sheet for player %s", requester)
	}
	if err := s.MakeNote(id, checked, initiallyDealt, manuallyChecked); err != nil {
		return err
	}
	g.registerGameUpdate()
	return nil
}

// Solution reveals the case file once the game is over.
func (g *Game) Solution() (WhoWhatWhere, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != StatusComplete {
		err := apperrors.Wrapf(apperrors.ErrInvalidAction, "the case file stays closed until the game is over")
		return WhoWhatWhere{}, apperrors.WithKind(err, apperrors.KindState)
	}
	return g.caseFile.Solution(), nil
}
