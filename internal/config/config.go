package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed default_config.json
var defaultConfig []byte

// Position is a grid coordinate written as [x, y] in the config file.
type Position [2]int

// SuspectConfig describes a character card and its starting space.
type SuspectConfig struct {
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Start Position `json:"start"`
}

// RoomConfig describes a room card and the board cell it occupies.
type RoomConfig struct {
	Name string   `json:"name"`
	At   Position `json:"at"`
}

// PassageConfig links two rooms by a secret passage.
type PassageConfig struct {
	Name  string    `json:"name"`
	Rooms [2]string `json:"rooms"`
}

// GameConfig holds the static definitions for a game of Clue-Less:
// the three card families and the board layout.
type GameConfig struct {
	Suspects []SuspectConfig `json:"suspects"`
	Weapons  []string        `json:"weapons"`
	Rooms    []RoomConfig    `json:"rooms"`
	Hallways []Position      `json:"hallways"`
	Passages []PassageConfig `json:"passages"`
}

// Load reads, parses, and validates the game configuration from a file.
func Load(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the built-in game definition.
func Default() *GameConfig {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("embedded config is invalid: %v", err))
	}
	return cfg
}

// Parse decodes and validates a JSON game definition.
func Parse(data []byte) (*GameConfig, error) {
	var cfg GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every family is populated, card names are unique
// across families, and every suspect starts on a declared cell.
func (c *GameConfig) Validate() error {
	if len(c.Suspects) == 0 {
		return errors.New("config: no suspects defined")
	}
	if len(c.Weapons) == 0 {
		return errors.New("config: no weapons defined")
	}
	if len(c.Rooms) == 0 {
		return errors.New("config: no rooms defined")
	}

	names := make(map[string]struct{})
	claim := func(name string) error {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return errors.New("config: empty card name")
		}
		if _, dup := names[key]; dup {
			return fmt.Errorf("config: duplicate card name %q", name)
		}
		names[key] = struct{}{}
		return nil
	}

	cells := make(map[Position]struct{})
	for _, r := range c.Rooms {
		if err := claim(r.Name); err != nil {
			return err
		}
		if _, dup := cells[r.At]; dup {
			return fmt.Errorf("config: room %q overlaps another cell at %v", r.Name, r.At)
		}
		cells[r.At] = struct{}{}
	}
	for _, h := range c.Hallways {
		if _, dup := cells[h]; dup {
			return fmt.Errorf("config: hallway overlaps another cell at %v", h)
		}
		cells[h] = struct{}{}
	}
	for _, s := range c.Suspects {
		if err := claim(s.Name); err != nil {
			return err
		}
		if _, ok := cells[s.Start]; !ok {
			return fmt.Errorf("config: suspect %q starts off the board at %v", s.Name, s.Start)
		}
	}
	for _, w := range c.Weapons {
		if err := claim(w); err != nil {
			return err
		}
	}
	for _, p := range c.Passages {
		for _, room := range p.Rooms {
			if c.room(room) == nil {
				return fmt.Errorf("config: passage %q references unknown room %q", p.Name, room)
			}
		}
	}
	return nil
}

func (c *GameConfig) room(name string) *RoomConfig {
	for i := range c.Rooms {
		if strings.EqualFold(c.Rooms[i].Name, name) {
			return &c.Rooms[i]
		}
	}
	return nil
}
