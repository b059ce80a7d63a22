package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	t.Run("it defines the classic card families", func(t *testing.T) {
		if len(cfg.Suspects) != 6 {
			t.Errorf("expected 6 suspects, got %d", len(cfg.Suspects))
		}
		if len(cfg.Weapons) != 6 {
			t.Errorf("expected 6 weapons, got %d", len(cfg.Weapons))
		}
		if len(cfg.Rooms) != 9 {
			t.Errorf("expected 9 rooms, got %d", len(cfg.Rooms))
		}
	})

	t.Run("it defines the board layout", func(t *testing.T) {
		if len(cfg.Hallways) != 12 {
			t.Errorf("expected 12 hallways, got %d", len(cfg.Hallways))
		}
		if len(cfg.Passages) != 2 {
			t.Errorf("expected 2 secret passages, got %d", len(cfg.Passages))
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"no suspects", func(c *GameConfig) { c.Suspects = nil }, "no suspects"},
		{"no weapons", func(c *GameConfig) { c.Weapons = nil }, "no weapons"},
		{"no rooms", func(c *GameConfig) { c.Rooms = nil }, "no rooms"},
		{"duplicate name", func(c *GameConfig) { c.Weapons = append(c.Weapons, "rope") }, "duplicate card name"},
		{"start off board", func(c *GameConfig) { c.Suspects[0].Start = Position{1, 1} }, "off the board"},
		{"overlapping hallway", func(c *GameConfig) { c.Hallways = append(c.Hallways, Position{0, 0}) }, "overlaps"},
		{"unknown passage room", func(c *GameConfig) { c.Passages[0].Rooms[1] = "Attic" }, "unknown room"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	// GIVEN a config file on disk
	path := filepath.Join(t.TempDir(), "game.json")
	body := `{
  "suspects": [{"name": "A", "color": "red", "start": [2, 0]}],
  "weapons": ["W"],
  "rooms": [{"name": "R1", "at": [0, 0]}, {"name": "R2", "at": [4, 0]}],
  "hallways": [[2, 0]]
}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// WHEN it is loaded
	cfg, err := Load(path)

	// THEN it parses
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Suspects[0].Start != (Position{2, 0}) {
		t.Errorf("unexpected start %v", cfg.Suspects[0].Start)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadSettings(t *testing.T) {
	t.Run("it applies defaults", func(t *testing.T) {
		clearSettingsEnv(t)
		s, err := LoadSettings()
		if err != nil {
			t.Fatalf("load settings: %v", err)
		}
		if s.LogLevel != "info" || s.SQLitePath != "clueless.db" {
			t.Errorf("unexpected defaults %+v", s)
		}
	})

	t.Run("it reads overrides", func(t *testing.T) {
		clearSettingsEnv(t)
		t.Setenv("CLUELESS_STORE", "sqlite")
		t.Setenv("CLUELESS_SEED", "42")
		s, err := LoadSettings()
		if err != nil {
			t.Fatalf("load settings: %v", err)
		}
		if s.Store != StoreSQLite || s.Seed != 42 {
			t.Errorf("unexpected settings %+v", s)
		}
	})

	t.Run("it rejects unknown stores", func(t *testing.T) {
		t.Setenv("CLUELESS_STORE", "redis")
		if _, err := LoadSettings(); err == nil {
			t.Error("expected an error for an unknown store")
		}
	})
}

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CLUELESS_LOG_LEVEL", "CLUELESS_CONFIG", "CLUELESS_STORE", "CLUELESS_SQLITE_PATH", "CLUELESS_SEED"} {
		// Setenv registers the restore; Unsetenv leaves the variable absent.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
