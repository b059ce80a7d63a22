package cli

import (
	"io"

	"clueless/internal/events"
)

// EventRenderer implements the events.Listener interface to print game events to the console.
type EventRenderer struct {
	out     io.Writer
	palette palette
}

// HandleEvent is the central dispatcher for rendering events.
func (r *EventRenderer) HandleEvent(e events.Event) {
	p := r.palette
	switch event := e.(type) {
	case events.PlayerJoined:
		C.Info.Fprintf(r.out, "%s joins as %s.\n", event.PlayerName, p.Card(event.Character))
	case events.GameStarted:
		C.Header.Fprintf(r.out, "\n--- Game started with %d players ---\n", event.Players)
		C.Header.Fprintf(r.out, "\n--- Turn 1: %s ---\n", event.FirstPlayer)
	case events.PlayerMoved:
		if event.Summoned {
			C.Info.Fprintf(r.out, "%s is summoned from %s to %s.\n", p.Card(event.Character), event.From, event.To)
		} else {
			C.Info.Fprintf(r.out, "%s (%s) moves from %s to %s.\n", event.PlayerName, p.Card(event.Character), event.From, event.To)
		}
	case events.SuggestionMade:
		C.Info.Fprintf(r.out, "%s suggests: %s, %s, %s\n", event.PlayerName, p.Card(event.Character), event.Weapon, event.Room)
	case events.CardRevealed:
		C.Info.Fprintf(r.out, "-> %s shows a card to %s.\n", event.DisproverName, event.SuggesterName)
	case events.NoDisproval:
		C.Info.Fprintln(r.out, "-> No player could show a card.")
	case events.AccusationMade:
		C.Info.Fprintf(r.out, "%s ACCUSES: %s, %s, %s\n", event.PlayerName, p.Card(event.Character), event.Weapon, event.Room)
		if event.Correct {
			C.Yes.Fprintf(r.out, "The accusation is CORRECT!\n")
		} else {
			C.No.Fprintf(r.out, "The accusation is INCORRECT! %s is out of the game.\n", event.PlayerName)
		}
	case events.TurnEnded:
		C.Header.Fprintf(r.out, "\n--- Turn %d: %s ---\n", event.TurnNumber+1, event.NextPlayer)
	case events.GameOver:
		C.Header.Fprintln(r.out, "\n--- GAME OVER ---")
		C.Yes.Fprintf(r.out, "%s wins!\n", event.Winner)
		C.Info.Fprintf(r.out, "The solution was: %s with the %s in the %s\n",
			p.Card(event.Solution[0]), event.Solution[1], event.Solution[2])
	}
}
