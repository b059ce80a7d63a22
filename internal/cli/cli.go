package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"clueless/internal/ai"
	"clueless/internal/board"
	"clueless/internal/card"
	"clueless/internal/events"
	"clueless/internal/game"
	"clueless/internal/player"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
)

// CLI manages all command-line interactions.
type CLI struct {
	log     *logrus.Logger
	line    *liner.State
	session *Session
}

// NewCLI creates a new command-line interface manager.
func NewCLI(log *logrus.Logger, manager *game.Manager, b *board.Board, cards *card.Registry, rand *rand.Rand) *CLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &CLI{
		log:     log,
		line:    line,
		session: NewSession(log, os.Stdout, manager, b, cards, rand),
	}
}

// Run is the main entry point for the CLI application.
func (c *CLI) Run(ctx context.Context, args []string) error {
	defer c.line.Close()
	if len(args) < 1 {
		printUsage(os.Stdout)
		return errors.New("no command provided")
	}

	switch args[0] {
	case "play":
		return c.runPlayMode(ctx)
	case "games":
		_, err := c.session.Exec(ctx, "games")
		return err
	default:
		printUsage(os.Stdout)
		return fmt.Errorf("unknown command '%s'", args[0])
	}
}

func (c *CLI) runPlayMode(ctx context.Context) error {
	C.Info.Println("\n--- Clue-Less: hot-seat mode ---")
	name, err := c.promptForString("Who is playing? ")
	if err != nil {
		return nil
	}
	if _, err := c.session.Exec(ctx, "user "+name); err != nil {
		return err
	}
	printHelp(os.Stdout)

	for {
		input, err := c.line.Prompt(c.session.Prompt())
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				C.Info.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("error reading line: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		c.line.AppendHistory(input)
		quit, err := c.session.Exec(ctx, input)
		if err != nil {
			return err
		}
		if quit {
			C.Info.Println("Goodbye!")
			return nil
		}
	}
}

func (c *CLI) promptForString(prompt string) (string, error) {
	for {
		input, err := c.line.Prompt(prompt)
		if err != nil {
			C.Info.Println("\nGoodbye!")
			return "", err
		}
		trimmed := strings.TrimSpace(input)
		if trimmed != "" {
			c.line.AppendHistory(trimmed)
			return trimmed, nil
		}
	}
}

// Session is one terminal driving the game manager. Several people can
// share it by switching the acting user.
type Session struct {
	log     *logrus.Logger
	out     io.Writer
	manager *game.Manager
	board   *board.Board
	cards   *card.Registry
	rand    *rand.Rand
	palette palette

	user   *player.User
	game   *game.Game
	brains map[string]*ai.Brain
}

// NewSession wires a session to the manager's event bus.
func NewSession(log *logrus.Logger, out io.Writer, manager *game.Manager, b *board.Board, cards *card.Registry, rand *rand.Rand) *Session {
	s := &Session{
		log:     log,
		out:     out,
		manager: manager,
		board:   b,
		cards:   cards,
		rand:    rand,
		palette: newPalette(cards),
		brains:  make(map[string]*ai.Brain),
	}
	manager.Events().Subscribe(&EventRenderer{out: out, palette: s.palette})
	manager.Events().Subscribe(events.ListenerFunc(s.forwardToBrains))
	return s
}

// Prompt is the liner prompt for the current user and game.
func (s *Session) Prompt() string {
	who := "nobody"
	if s.user != nil {
		who = s.user.Name
	}
	if s.game == nil {
		return fmt.Sprintf("(%s) ", who)
	}
	return fmt.Sprintf("(%s@%s) ", who, s.game.Name())
}

// Exec runs one command line. Rule violations are printed, not returned;
// the error is reserved for failures that should end the session.
func (s *Session) Exec(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch cmd {
	case "user", "u":
		err = s.handleUser(args)
	case "new":
		err = s.handleNew(ctx, args)
	case "games", "g":
		err = s.handleGames(ctx)
	case "open", "o":
		err = s.handleOpen(ctx, args)
	case "join", "j":
		err = s.handleJoin(ctx, args)
	case "start":
		err = s.handleStart(ctx)
	case "move", "m":
		err = s.handleMove(ctx, args)
	case "suggest", "s":
		err = s.handleSuggest(ctx, args)
	case "accuse", "a":
		err = s.handleAccuse(ctx, args)
	case "end", "e":
		err = s.handleEnd(ctx)
	case "notes", "n":
		err = s.handleNotes()
	case "note":
		err = s.handleNote(ctx, args)
	case "deduce", "d":
		err = s.handleDeduce()
	case "hint":
		err = s.handleHint()
	case "state", "st":
		err = s.handleState(args)
	case "board", "b":
		err = s.handleBoard()
	case "help", "h":
		printHelp(s.out)
	case "quit", "q":
		return true, nil
	default:
		C.Warn.Fprintf(s.out, "Unknown command '%s'. Type 'help' for a list of commands.\n", cmd)
	}
	if err != nil {
		s.log.WithError(err).Debugf("Command %q rejected.", cmd)
		C.Warn.Fprintf(s.out, "Error: %v\n", err)
	}
	return false, nil
}

// forwardToBrains passes events to the co-pilots of the game they concern.
func (s *Session) forwardToBrains(e events.Event) {
	id := gameIDOf(e)
	if id == "" {
		return
	}
	prefix := id + "/"
	for key, brain := range s.brains {
		if strings.HasPrefix(key, prefix) {
			brain.HandleEvent(e)
		}
	}
}

func gameIDOf(e events.Event) string {
	switch event := e.(type) {
	case events.SuggestionMade:
		return event.GameID
	case events.CardRevealed:
		return event.GameID
	case events.NoDisproval:
		return event.GameID
	default:
		return ""
	}
}
