package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"clueless/internal/ai"
	"clueless/internal/board"
	"clueless/internal/card"
	"clueless/internal/game"
	"clueless/internal/player"
)

var (
	errNoUser    = errors.New("say who you are first: user <name>")
	errNoGame    = errors.New("no game selected: use new or open")
	errNotJoined = errors.New("you have not joined this game")
)

// UserID derives a stable user id from a display name.
func UserID(name string) player.UserID {
	return player.UserID("user:" + strings.ToLower(strings.TrimSpace(name)))
}

func (s *Session) requireGame() (*game.Game, error) {
	if s.user == nil {
		return nil, errNoUser
	}
	if s.game == nil {
		return nil, errNoGame
	}
	return s.game, nil
}

// me returns the current user's player in the selected game.
func (s *Session) me() (*game.Game, player.Player, error) {
	g, err := s.requireGame()
	if err != nil {
		return nil, player.Player{}, err
	}
	p, ok := g.PlayerFor(s.user.ID)
	if !ok {
		return nil, player.Player{}, errNotJoined
	}
	return g, p, nil
}

func (s *Session) currentTurn(g *game.Game) (game.Turn, error) {
	t, ok := g.CurrentTurn()
	if !ok {
		return game.Turn{}, errors.New("the game has not started")
	}
	return t, nil
}

func (s *Session) handleUser(args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		return errors.New("usage: user <name>")
	}
	s.user = &player.User{ID: UserID(name), Name: name}
	C.Info.Fprintf(s.out, "Now playing as %s.\n", name)
	return nil
}

func (s *Session) handleNew(ctx context.Context, args []string) error {
	if s.user == nil {
		return errNoUser
	}
	name := strings.Join(args, " ")
	if name == "" {
		return errors.New("usage: new <game name>")
	}
	g, err := s.manager.CreateGame(ctx, *s.user, name)
	if err != nil {
		return err
	}
	s.game = g
	C.Info.Fprintf(s.out, "Created %q (%s). Join with: join <character>\n", name, shortID(string(g.ID())))
	s.printUnusedCharacters(g)
	return nil
}

func (s *Session) handleGames(ctx context.Context) error {
	games, err := s.manager.List(ctx)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		C.Info.Fprintln(s.out, "No games yet.")
		return nil
	}
	RenderLobby(s.out, games)
	return nil
}

func (s *Session) handleOpen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: open <id>")
	}
	games, err := s.manager.List(ctx)
	if err != nil {
		return err
	}
	var match []game.Summary
	for _, g := range games {
		if strings.HasPrefix(string(g.ID), args[0]) {
			match = append(match, g)
		}
	}
	switch len(match) {
	case 0:
		return fmt.Errorf("no game with id %s", args[0])
	case 1:
	default:
		return fmt.Errorf("id %s is ambiguous", args[0])
	}
	g, err := s.manager.Get(ctx, match[0].ID)
	if err != nil {
		return err
	}
	s.game = g
	C.Info.Fprintf(s.out, "Opened %q (%s).\n", g.Name(), g.Status())
	return nil
}

func (s *Session) handleJoin(ctx context.Context, args []string) error {
	g, err := s.requireGame()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		s.printUnusedCharacters(g)
		return errors.New("usage: join <character>")
	}
	ch, err := findCard(s.cards, strings.Join(args, " "), card.KindCharacter)
	if err != nil {
		return err
	}
	_, err = s.manager.JoinGame(ctx, g.ID(), *s.user, ch.ID)
	return err
}

func (s *Session) printUnusedCharacters(g *game.Game) {
	var names []string
	for _, ch := range g.UnusedCharacters() {
		names = append(names, fmt.Sprintf("%d: %s", ch.ID, s.palette.Card(ch.Name)))
	}
	C.Info.Fprintf(s.out, "Characters left: %s\n", strings.Join(names, ", "))
}

func (s *Session) handleStart(ctx context.Context) error {
	g, err := s.requireGame()
	if err != nil {
		return err
	}
	if err := s.manager.StartGame(ctx, g.ID(), s.user.ID); err != nil {
		return err
	}
	_, p, err := s.me()
	if err != nil {
		return err
	}
	sheet, err := g.Sheet(p.ID)
	if err != nil {
		return err
	}
	C.Info.Fprintf(s.out, "Your hand: %s\n", s.palette.Cards(sheet.Dealt()))
	return nil
}

var directions = map[string]func(board.Neighbors) *board.Space{
	"n": func(n board.Neighbors) *board.Space { return n.North },
	"s": func(n board.Neighbors) *board.Space { return n.South },
	"e": func(n board.Neighbors) *board.Space { return n.East },
	"w": func(n board.Neighbors) *board.Space { return n.West },
}

func (s *Session) handleMove(ctx context.Context, args []string) error {
	g, p, err := s.me()
	if err != nil {
		return err
	}
	var to board.Coord
	switch len(args) {
	case 1:
		pick, ok := directions[strings.ToLower(args[0])[:1]]
		if !ok {
			return fmt.Errorf("unknown direction %q", args[0])
		}
		n, err := s.board.Neighbors(p.Space)
		if err != nil {
			return err
		}
		space := pick(n)
		if space == nil {
			return fmt.Errorf("there is nothing %s of %s", args[0], p.Space)
		}
		to = space.Coord
	case 2:
		x, errX := strconv.Atoi(args[0])
		y, errY := strconv.Atoi(args[1])
		if errX != nil || errY != nil {
			return errors.New("usage: move <x> <y>")
		}
		to = board.Coord{X: x, Y: y}
	default:
		return errors.New("usage: move <n|s|e|w> or move <x> <y>")
	}

	t, err := s.currentTurn(g)
	if err != nil {
		return err
	}
	_, err = s.manager.TakeAction(ctx, g.ID(), t.ID, s.user.ID, game.MoveTo(to))
	return err
}

// roomOf returns the room card for the space p stands on.
func (s *Session) roomOf(p player.Player) (card.Room, bool) {
	col, err := s.board.CollectionOf(p.Space)
	if err != nil {
		return card.Room{}, false
	}
	return s.cards.RoomAt(col.ID)
}

func (s *Session) handleSuggest(ctx context.Context, args []string) error {
	g, p, err := s.me()
	if err != nil {
		return err
	}
	parts := splitArgs(args)
	if len(parts) != 2 && len(parts) != 3 {
		return errors.New("usage: suggest <character>, <weapon>")
	}
	ch, err := findCard(s.cards, parts[0], card.KindCharacter)
	if err != nil {
		return err
	}
	weapon, err := findCard(s.cards, parts[1], card.KindWeapon)
	if err != nil {
		return err
	}
	var roomID card.ID
	if len(parts) == 3 {
		room, err := findCard(s.cards, parts[2], card.KindRoom)
		if err != nil {
			return err
		}
		roomID = room.ID
	} else {
		room, ok := s.roomOf(p)
		if !ok {
			return errors.New("you can only suggest from inside a room")
		}
		roomID = room.ID
	}

	t, err := s.currentTurn(g)
	if err != nil {
		return err
	}
	out, err := s.manager.TakeAction(ctx, g.ID(), t.ID, s.user.ID, game.Suggest(ch.ID, weapon.ID, roomID))
	if err != nil {
		return err
	}
	if d := out.Disproval; d != nil {
		C.Info.Fprintf(s.out, "%s showed you: %s\n", d.Name, s.palette.Card(d.Card.Name))
		if brain, ok := s.brains[s.brainKey(g, p)]; ok {
			brain.LearnReveal(d.Card, d.Name)
		}
	}
	return nil
}

func (s *Session) handleAccuse(ctx context.Context, args []string) error {
	g, _, err := s.me()
	if err != nil {
		return err
	}
	parts := splitArgs(args)
	if len(parts) != 3 {
		return errors.New("usage: accuse <character>, <weapon>, <room>")
	}
	ch, err := findCard(s.cards, parts[0], card.KindCharacter)
	if err != nil {
		return err
	}
	weapon, err := findCard(s.cards, parts[1], card.KindWeapon)
	if err != nil {
		return err
	}
	room, err := findCard(s.cards, parts[2], card.KindRoom)
	if err != nil {
		return err
	}
	t, err := s.currentTurn(g)
	if err != nil {
		return err
	}
	_, err = s.manager.TakeAction(ctx, g.ID(), t.ID, s.user.ID, game.Accuse(ch.ID, weapon.ID, room.ID))
	return err
}

func (s *Session) handleEnd(ctx context.Context) error {
	g, _, err := s.me()
	if err != nil {
		return err
	}
	t, err := s.currentTurn(g)
	if err != nil {
		return err
	}
	next, err := s.manager.EndTurn(ctx, g.ID(), t.ID, s.user.ID)
	if err != nil {
		return err
	}
	for _, p := range g.Players() {
		if p.ID == next.Player && p.User != nil {
			u := *p.User
			s.user = &u
			C.Info.Fprintf(s.out, "Now playing as %s.\n", u.Name)
		}
	}
	return nil
}

func (s *Session) handleNotes() error {
	g, p, err := s.me()
	if err != nil {
		return err
	}
	sheet, err := g.Sheet(p.ID)
	if err != nil {
		return err
	}
	s.palette.RenderSheet(s.out, fmt.Sprintf("%s's Detective Sheet", s.user.Name), sheet)
	return nil
}

func (s *Session) handleNote(ctx context.Context, args []string) error {
	g, p, err := s.me()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: note <card> [on|off]")
	}
	checked := true
	switch strings.ToLower(args[len(args)-1]) {
	case "on":
		args = args[:len(args)-1]
	case "off":
		checked = false
		args = args[:len(args)-1]
	}
	c, err := findCardAnyKind(s.cards, strings.Join(args, " "))
	if err != nil {
		return err
	}
	sheet, err := g.Sheet(p.ID)
	if err != nil {
		return err
	}
	item, err := sheet.Item(c.ID)
	if err != nil {
		return err
	}
	if item.InitiallyDealt {
		return fmt.Errorf("%s is in your hand", c.Name)
	}
	return s.manager.MakeNote(ctx, g.ID(), p.ID, c.ID, checked, false, checked)
}

func (s *Session) brainKey(g *game.Game, p player.Player) string {
	return string(g.ID()) + "/" + p.DisplayName()
}

// brainFor returns the co-pilot of p, brought up to date with p's sheet.
func (s *Session) brainFor(g *game.Game, p player.Player) (*ai.Brain, error) {
	sheet, err := g.Sheet(p.ID)
	if err != nil {
		return nil, err
	}
	key := s.brainKey(g, p)
	brain, ok := s.brains[key]
	if !ok {
		var names []string
		for _, o := range g.Players() {
			if !o.IsNonUser() {
				names = append(names, o.DisplayName())
			}
		}
		r := rand.New(rand.NewSource(s.rand.Int63()))
		brain = ai.NewBrain(s.log, r, ai.NewRandomChooser(r), s.cards)
		brain.Setup(p.DisplayName(), names)
		s.brains[key] = brain
	}
	brain.LearnFromSheet(sheet)
	return brain, nil
}

func (s *Session) handleDeduce() error {
	g, p, err := s.me()
	if err != nil {
		return err
	}
	brain, err := s.brainFor(g, p)
	if err != nil {
		return err
	}
	s.palette.RenderNotes(s.out, brain, s.cards)
	return nil
}

func (s *Session) handleHint() error {
	g, p, err := s.me()
	if err != nil {
		return err
	}
	brain, err := s.brainFor(g, p)
	if err != nil {
		return err
	}
	C.Header.Fprintln(s.out, "\n--- Co-Pilot ---")
	if acc, ok := brain.Accusation(); ok {
		C.Yes.Fprintf(s.out, "You can accuse: %s\n", s.palette.Claim(acc))
		return nil
	}
	room, ok := s.roomOf(p)
	if !ok {
		C.Info.Fprintln(s.out, "Move into a room to make a suggestion.")
		return nil
	}
	C.Info.Fprintf(s.out, "Suggest: %s\n", s.palette.Claim(brain.Suggest(room.Card)))
	return nil
}

func (s *Session) handleState(args []string) error {
	g, err := s.requireGame()
	if err != nil {
		return err
	}
	var requester player.ID
	if p, ok := g.PlayerFor(s.user.ID); ok {
		requester = p.ID
	}
	state := g.State(requester)
	if len(args) > 0 && strings.ToLower(args[0]) == "json" {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, string(data))
		return nil
	}
	s.palette.RenderPlayers(s.out, state, s.board)
	return nil
}

func (s *Session) handleBoard() error {
	g, err := s.requireGame()
	if err != nil {
		return err
	}
	s.palette.RenderBoard(s.out, g.State(""), s.board)
	return nil
}
