package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"clueless/internal/ai"
	"clueless/internal/board"
	"clueless/internal/card"
	"clueless/internal/game"
	"clueless/internal/player"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// C holds pre-configured color objects for printing to the console.
var C = struct {
	Yes, No, Maybe, Info, Warn, Header, Prompt, Debug *color.Color
}{
	Yes:    color.New(color.FgGreen),
	No:     color.New(color.FgRed),
	Maybe:  color.New(color.FgYellow),
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
	Prompt: color.New(color.FgHiWhite),
	Debug:  color.New(color.FgMagenta),
}

// SuspectColors maps the configured character colors to console colors.
var SuspectColors = map[string]*color.Color{
	"red":    color.New(color.FgRed),
	"yellow": color.New(color.FgYellow),
	"white":  color.New(color.FgWhite),
	"green":  color.New(color.FgGreen),
	"blue":   color.New(color.FgBlue),
	"purple": color.New(color.FgMagenta),
}

// palette colors character names for one card registry.
type palette struct {
	byName map[string]*color.Color
}

func newPalette(cards *card.Registry) palette {
	p := palette{byName: make(map[string]*color.Color)}
	for _, ch := range cards.Characters() {
		if c, ok := SuspectColors[ch.Color]; ok {
			p.byName[ch.Name] = c
		}
	}
	return p
}

// Card returns a card name as a colored string if it's a character.
func (p palette) Card(name string) string {
	if c, ok := p.byName[name]; ok {
		return c.Sprint(name)
	}
	return name
}

func (p palette) Cards(cards []card.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, p.Card(c.Name))
	}
	return strings.Join(parts, ", ")
}

func (p palette) Claim(w game.WhoWhatWhere) string {
	return p.Cards(w.Cards())
}

// RenderSheet displays a detective sheet, one family per block.
func (p palette) RenderSheet(w io.Writer, title string, sheet *player.Sheet) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"ID", "Card", "Type", "Checked", "Dealt", "Manual"})
	for i, items := range [][]player.SheetItem{sheet.CharacterItems(), sheet.WeaponItems(), sheet.RoomItems()} {
		if i > 0 {
			t.AppendSeparator()
		}
		for _, item := range items {
			t.AppendRow(table.Row{
				int(item.Card.ID), p.Card(item.Card.Name), item.Card.Kind.String(),
				boolToSymbol(item.Checked), boolToSymbol(item.InitiallyDealt), boolToSymbol(item.ManuallyChecked),
			})
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	t.Render()
}

// RenderNotes displays the deduction grid of a brain.
func (p palette) RenderNotes(w io.Writer, brain *ai.Brain, cards *card.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s's Deductions", brain.Name()))
	header := table.Row{"ID", "Card", "Type"}
	for _, name := range brain.Players() {
		header = append(header, name)
	}
	header = append(header, "Solution")
	t.AppendHeader(header)

	all := cards.All()
	for i, c := range all {
		if i > 0 && c.Kind != all[i-1].Kind {
			t.AppendSeparator()
		}
		row := table.Row{int(c.ID), p.Card(c.Name), c.Kind.String()}
		for _, name := range brain.Players() {
			row = append(row, statusToSymbol(brain.Status(c.ID, name)))
		}
		row = append(row, statusToSymbol(brain.Status(c.ID, ai.Solution)))
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	t.Render()
}

// RenderPlayers displays the public player list of a game state.
func (p palette) RenderPlayers(w io.Writer, state game.GameState, b *board.Board) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s (%s, update %d)", state.Name, state.Status, state.Sequence))
	t.AppendHeader(table.Row{"Player", "Character", "Space", "Where", "Result"})
	for _, ps := range state.Players {
		where := ""
		if col, err := b.CollectionOf(ps.Space); err == nil {
			where = col.Name
		}
		name := ps.Username
		if ps.ID == state.Host.PlayerID {
			name += " (host)"
		}
		if state.CurrentTurn != nil && ps.ID == state.CurrentTurn.PlayerID {
			name = "> " + name
		}
		t.AppendRow(table.Row{name, p.Card(ps.Character.Name), ps.Space.String(), where, ps.Result})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// RenderBoard draws the grid with every character standing on it.
func (p palette) RenderBoard(w io.Writer, state game.GameState, b *board.Board) {
	occupants := make(map[board.Coord][]string)
	for _, ps := range state.Players {
		occupants[ps.Space] = append(occupants[ps.Space], p.Card(initials(ps.Character.Name)))
	}

	bound := b.Bounds()
	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{""}
	for x := 0; x <= bound.X; x += board.Step {
		header = append(header, x)
	}
	t.AppendHeader(header)
	for y := 0; y <= bound.Y; y += board.Step {
		row := table.Row{y}
		for x := 0; x <= bound.X; x += board.Step {
			c := board.Coord{X: x, Y: y}
			col, err := b.CollectionOf(c)
			if err != nil {
				row = append(row, "")
				continue
			}
			cell := "·"
			if col.Kind == board.KindRoom {
				cell = col.Name
			}
			if occ := occupants[c]; len(occ) > 0 {
				cell += "\n" + strings.Join(occ, " ")
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
		t.AppendSeparator()
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	for _, col := range b.Collections() {
		if col.Kind != board.KindSecretPassage {
			continue
		}
		from, _ := b.Collection(col.Ends[0])
		to, _ := b.Collection(col.Ends[1])
		if from != nil && to != nil {
			C.Info.Fprintf(w, "%s: %s <-> %s\n", col.Name, from.Name, to.Name)
		}
	}
}

// RenderLobby lists games.
func RenderLobby(w io.Writer, games []game.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Status", "Updates", "Last Update"})
	for _, g := range games {
		t.AppendRow(table.Row{shortID(string(g.ID)), g.Name, g.Status.String(), g.Sequence, g.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func statusToSymbol(status ai.CardStatus) string {
	switch status {
	case ai.StatusYes:
		return C.Yes.Sprint("✔")
	case ai.StatusNo:
		return C.No.Sprint("✖")
	default:
		return C.Maybe.Sprint("?")
	}
}

func boolToSymbol(b bool) string {
	if b {
		return C.Yes.Sprint("✔")
	}
	return ""
}

func initials(name string) string {
	var out []rune
	for _, f := range strings.Fields(name) {
		out = append(out, []rune(f)[0])
	}
	return string(out)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// --- Prompting and Usage ---

func printUsage(w io.Writer) {
	C.Header.Fprintln(w, "\n--- Clue-Less ---")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  clueless play")
	fmt.Fprintln(w, "    Play a hot-seat game on this terminal.")
	fmt.Fprintln(w, "  clueless games")
	fmt.Fprintln(w, "    List stored games.")
	fmt.Fprintln(w, "\nFlags:")
	fmt.Fprintln(w, "  -loglevel debug    Trace every rule check and card.")
	fmt.Fprintln(w, "  -store sqlite      Keep games in a SQLite file between runs.")
}

func printHelp(w io.Writer) {
	C.Header.Fprintln(w, "\n--- Commands ---")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Command", "Alias", "Description"})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"user <name>", "u", "Switch to playing as <name>."},
		{"new <game name>", "", "Create a game hosted by you."},
		{"games", "g", "List games."},
		{"open <id>", "o", "Switch to a game by id prefix."},
		{"join [character]", "j", "Join the game as a character."},
		{"start", "", "Start the game (host only)."},
		{"move <n|s|e|w> | move <x> <y>", "m", "Move one cell."},
		{"suggest <character>, <weapon>", "s", "Suggest in the room you stand in."},
		{"accuse <character>, <weapon>, <room>", "a", "Make an accusation."},
		{"end", "e", "End your turn."},
		{"notes", "n", "Show your detective sheet."},
		{"note <card> [on|off]", "", "Check or uncheck a card by hand."},
		{"deduce", "d", "Show everything deduced so far."},
		{"hint", "", "Ask the co-pilot what to do."},
		{"state [json]", "st", "Show the players, or the raw state."},
		{"board", "b", "Draw the board."},
		{"help", "h", "Show this help message."},
		{"quit", "q", "Exit."},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

// findCard resolves user input to a card of kind: by id, by exact name or
// by a unique case-insensitive part of a name.
func findCard(cards *card.Registry, input string, kind card.Kind) (card.Card, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		return cards.OfKind(card.ID(n), kind)
	}
	if c, err := cards.ByName(input); err == nil {
		return cards.OfKind(c.ID, kind)
	}
	var matches []card.Card
	for _, c := range cards.Kind(kind) {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(input)) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return card.Card{}, fmt.Errorf("no %s matches %q", kind, input)
	default:
		card.SortByName(matches)
		var names []string
		for _, m := range matches {
			names = append(names, m.Name)
		}
		return card.Card{}, fmt.Errorf("%q could be any of %s", input, strings.Join(names, ", "))
	}
}

// findCardAnyKind tries every family in turn.
func findCardAnyKind(cards *card.Registry, input string) (card.Card, error) {
	var firstErr error
	for _, kind := range []card.Kind{card.KindCharacter, card.KindWeapon, card.KindRoom} {
		c, err := findCard(cards, input, kind)
		if err == nil {
			return c, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return card.Card{}, firstErr
}

// splitArgs splits a comma separated argument list.
func splitArgs(args []string) []string {
	var out []string
	for _, part := range strings.Split(strings.Join(args, " "), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
