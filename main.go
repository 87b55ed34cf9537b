package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/kidandcat/firmportal/internal/auth"
	"github.com/kidandcat/firmportal/internal/config"
	"github.com/kidandcat/firmportal/internal/db"
	"github.com/kidandcat/firmportal/internal/logging"
)

func main() {
	logging.Setup("info", "auto")

	fs := pflag.NewFlagSet("firmportal", pflag.ExitOnError)
	config.Flags(fs)
	fs.Parse(os.Args[1:])

	v, cfg, err := config.Load(fs)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	config.Watch(v, logging.SetLevel)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(cfg config.Config) error {
	store, err := db.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := auth.New(store, cfg, auth.NewMailer(cfg.Email))
	if err != nil {
		return err
	}
	if err := a.SeedUsers(cfg.SeedUsers); err != nil {
		return err
	}
	if n, err := store.CountUsers(); err == nil && n == 0 {
		log.Warn().Msg("no users in the identity store; add seed_users to the config to sign in")
	}

	purge := startPurge(store)
	defer func() { <-purge.Stop().Done() }()

	handler, err := routes(cfg, a, store)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("base_url", cfg.BaseURL).Msg("portal listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startPurge clears expired sessions and reset tokens now and every hour.
func startPurge(store *db.Store) *cron.Cron {
	purge := func() {
		sessions, tokens, err := store.PurgeExpired()
		if err != nil {
			log.Error().Err(err).Msg("purge expired sessions")
			return
		}
		if sessions > 0 || tokens > 0 {
			log.Info().Int64("sessions", sessions).Int64("tokens", tokens).Msg("purged expired credentials")
		}
	}
	purge()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	c.AddFunc("@hourly", purge)
	c.Start()
	return c
}
