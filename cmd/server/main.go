package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpapi "codewords/internal/api/http"
	"codewords/internal/api/ws"
	"codewords/internal/config"
	"codewords/internal/room"
	"codewords/internal/store"
	"codewords/internal/words"
)

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	content, err := words.NewSource(cfg.WordsFile)
	if err != nil {
		return err
	}

	var st room.Store
	if cfg.SQLitePath != "" {
		sqlite, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		st = sqlite
	} else {
		log.Info().Msg("using in-memory store")
		st = store.NewMemoryStore()
	}

	hub := ws.NewHub()
	rm := room.NewManager(st, cfg, content)
	rm.SetHub(hub)
	hub.SetService(rm)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(rm, hub),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
