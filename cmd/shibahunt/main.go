// Command shibahunt runs the game engine behind a loopback HTTP API for an
// external renderer to drive.
package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kamogawa/shibahunt/internal/breeds"
	"github.com/kamogawa/shibahunt/internal/config"
	"github.com/kamogawa/shibahunt/internal/game"
	"github.com/kamogawa/shibahunt/internal/httpapi"
	"github.com/kamogawa/shibahunt/internal/levels"
	"github.com/kamogawa/shibahunt/internal/progress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	levelCat := levels.Default()
	breedCat := breeds.Default()
	stars := game.StarTable(levelCat)

	store, err := progress.Open(cfg.DBPath, stars, logger)
	if err != nil {
		logger.Error("open progress store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	seed := cfg.SampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	app := game.New(game.Options{
		Levels:  levelCat,
		Breeds:  breedCat,
		Sampler: breeds.NewSampler(breedCat, rand.New(rand.NewSource(seed))),
		Stars:   stars,
		Store:   store,
		Logger:  logger,
	})

	srv := httpapi.New(app, cfg.Port, logger)
	if err := srv.Start(); err != nil {
		logger.Error("start api server", "error", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
}
