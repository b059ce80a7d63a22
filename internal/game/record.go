package game

import (
	"encoding/json"
	"fmt"
	"time"

	"clueless/internal/card"
	"clueless/internal/player"
	"clueless/internal/store"
)

type sheetSnapshot struct {
	ID     player.SheetID     `json:"id"`
	Player player.ID          `json:"player"`
	Items  []player.SheetItem `json:"items"`
}

// snapshot is the full persisted form of a game, case file included. It
// never leaves the process except through a Store.
type snapshot struct {
	ID         ID                      `json:"id"`
	Name       string                  `json:"name"`
	Host       player.User             `json:"host"`
	Solution   WhoWhatWhere            `json:"solution"`
	Status     Status                  `json:"status"`
	Players    []*player.Player        `json:"players"`
	Sheets     []sheetSnapshot         `json:"sheets"`
	Hands      map[player.ID][]card.ID `json:"hands,omitempty"`
	Turns      []*Turn                 `json:"turns"`
	Current    int                     `json:"current"`
	Sequence   int                     `json:"sequence"`
	StartTime  time.Time               `json:"start_time"`
	LastUpdate time.Time               `json:"last_update"`
}

// Record serializes the game for a Store.
func (g *Game) Record() (store.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := snapshot{
		ID:         g.id,
		Name:       g.name,
		Host:       g.host,
		Solution:   g.caseFile.Solution(),
		Status:     g.status,
		Players:    g.players,
		Turns:      g.turns,
		Hands:      g.hands,
		Current:    g.current,
		Sequence:   g.sequence,
		StartTime:  g.startTime,
		LastUpdate: g.lastUpdate,
	}
	for _, s := range g.sheets {
		snap.Sheets = append(snap.Sheets, sheetSnapshot{ID: s.ID, Player: s.Player, Items: s.Items()})
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return store.Record{}, fmt.Errorf("encode game %s: %w", g.id, err)
	}
	return store.Record{
		ID:        string(g.id),
		Name:      g.name,
		Status:    int(g.status),
		Sequence:  g.sequence,
		UpdatedAt: g.lastUpdate,
		Data:      data,
	}, nil
}

// Restore rebuilds a game from a record written by Record. Card references
// are checked against deps.Cards.
func Restore(rec store.Record, deps Deps) (*Game, error) {
	var snap snapshot
	if err := json.Unmarshal(rec.Data, &snap); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", rec.ID, err)
	}
	if !snap.Status.valid() {
		return nil, fmt.Errorf("restore game %s: unknown status %d", rec.ID, int(snap.Status))
	}
	for _, c := range snap.Solution.Cards() {
		if _, err := deps.Cards.OfKind(c.ID, c.Kind); err != nil {
			return nil, fmt.Errorf("restore game %s: %w", rec.ID, err)
		}
	}

	g := newGame(snap.ID, snap.Name, snap.Host, deps)
	g.caseFile = newCaseFile(snap.Solution)
	g.status = snap.Status
	g.players = snap.Players
	g.turns = snap.Turns
	g.hands = snap.Hands
	g.current = snap.Current
	g.sequence = snap.Sequence
	g.startTime = snap.StartTime
	g.lastUpdate = snap.LastUpdate
	for _, s := range snap.Sheets {
		g.sheets = append(g.sheets, player.RestoreSheet(s.ID, s.Player, s.Items))
	}
	g.log.Debugf("Restored game %q at sequence %d.", g.name, g.sequence)
	return g, nil
}
