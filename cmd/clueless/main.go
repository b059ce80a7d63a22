package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"clueless/internal/ai"
	"clueless/internal/board"
	"clueless/internal/card"
	"clueless/internal/cli"
	"clueless/internal/config"
	"clueless/internal/game"
	"clueless/internal/store"

	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Read settings from the environment, then let flags override them
	settings, err := config.LoadSettings()
	if err != nil {
		logrus.Fatalf("Failed to read settings: %v", err)
	}
	flag.StringVar(&settings.LogLevel, "loglevel", settings.LogLevel, "Set logging level (debug, info, warn, error)")
	flag.StringVar(&settings.ConfigPath, "config", settings.ConfigPath, "Game definition file (default: built-in board)")
	flag.StringVar(&settings.Store, "store", settings.Store, "Where games are kept (memory, sqlite)")
	flag.StringVar(&settings.SQLitePath, "sqlite", settings.SQLitePath, "SQLite database file")
	flag.Int64Var(&settings.Seed, "seed", settings.Seed, "Random seed (0 picks one from the clock)")
	flag.Parse()

	// 2. Set up top-level dependencies (Logger)
	log := logrus.New()
	level, err := logrus.ParseLevel(settings.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, ForceColors: true})

	// 3. Load the game definition and build the board and cards from it
	gameConfig, err := settings.GameConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	b, err := board.New(gameConfig)
	if err != nil {
		log.Fatalf("Failed to build board: %v", err)
	}
	cards, err := card.NewRegistry(gameConfig, b)
	if err != nil {
		log.Fatalf("Failed to build cards: %v", err)
	}

	// 4. Open the game store
	var games game.Store
	switch settings.Store {
	case config.StoreSQLite:
		db, err := store.OpenSQLite(settings.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", settings.SQLitePath, err)
		}
		defer db.Close()
		games = db
	case config.StoreMemory:
		games = store.NewMemory()
	default:
		log.Fatalf("Unknown store %q", settings.Store)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debugf("Random seed: %d", seed)
	randSource := rand.New(rand.NewSource(seed))

	manager := game.NewManager(b, cards, games, log, randSource).
		WithChooser(func(r *rand.Rand) game.Chooser { return ai.NewRandomChooser(r) })

	// 5. Run the application
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ui := cli.NewCLI(log, manager, b, cards, randSource)
	if err := ui.Run(ctx, flag.Args()); err != nil {
		log.Errorf("Application exited with error: %v", err)
		stop()
		os.Exit(1)
	}
}
