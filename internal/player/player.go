// Package player holds the per-game participant record and the private
// detective sheet each human player fills in.
package player

import (
	"fmt"

	"clueless/internal/board"
	"clueless/internal/card"

	"github.com/google/uuid"
)

// NonUserName is shown in place of a username for computer-controlled characters.
const NonUserName = "non-user"

// ID identifies a player within a game.
type ID string

// NewID returns a fresh player id.
func NewID() ID { return ID(uuid.NewString()) }

// UserID identifies the person behind a player across games.
type UserID string

// User is the identity a transport layer authenticated.
type User struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// Result records how a game ended for a player.
type Result int

const (
	ResultLost    Result = -1
	ResultNeither Result = 0
	ResultWon     Result = 1
)

func (r Result) String() string {
	switch r {
	case ResultLost:
		return "Lost"
	case ResultWon:
		return "Won"
	default:
		return "Neither"
	}
}

// Player is one seat in a game: a character, a position on the board and,
// for humans, the user playing it.
type Player struct {
	ID        ID          `json:"id"`
	User      *User       `json:"user,omitempty"`
	Character card.ID     `json:"character"`
	Space     board.Coord `json:"space"`
	Result    Result      `json:"result"`
}

// New creates a player for ch standing on its starting space. A nil user
// makes a non-user player.
func New(user *User, ch card.Character) *Player {
	return &Player{
		ID:        NewID(),
		User:      user,
		Character: ch.ID,
		Space:     ch.Start,
		Result:    ResultNeither,
	}
}

// IsNonUser reports whether the player stands in for an unclaimed character.
func (p *Player) IsNonUser() bool {
	return p.User == nil
}

// DisplayName returns the username, or NonUserName for non-user players.
func (p *Player) DisplayName() string {
	if p.User == nil {
		return NonUserName
	}
	return p.User.Name
}

// SameUser reports whether p and o are played by the same user.
func (p *Player) SameUser(o *Player) bool {
	if p.User == nil || o.User == nil {
		return false
	}
	return p.User.ID == o.User.ID
}

func (p *Player) String() string {
	return fmt.Sprintf("user: %s, space: %s, character: %d", p.DisplayName(), p.Space, p.Character)
}
