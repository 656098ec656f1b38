package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kylekyl-khan/contacts-server/authflow"
	"github.com/kylekyl-khan/contacts-server/directory"
	"github.com/kylekyl-khan/contacts-server/directory/graphsource"
	"github.com/kylekyl-khan/contacts-server/directory/sqlsource"
	"github.com/kylekyl-khan/contacts-server/internal/config"
	"github.com/kylekyl-khan/contacts-server/server"
	"github.com/kylekyl-khan/contacts-server/sessions"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	displayAppname(cfg.Server.AppName)

	source, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	authService := authflow.New(cfg, logger)
	// Resolve provider endpoints up front so login initiation never waits on
	// discovery.
	if err := authService.ResolveEndpoints(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("provider endpoint discovery failed, will retry on first callback")
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: server.New(cfg, logger, authService, source, sessions.NewInMemoryStore()),
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen failed")
		}
	}()

	waitForStopSignal()
	return shutdown(srv)
}

func newLogger(cfg *config.Settings) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Server.Env == "DEV" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func newSource(cfg *config.Settings, logger zerolog.Logger) (directory.Source, error) {
	switch cfg.Directory.Source {
	case "graph":
		return graphsource.New(context.Background(), graphsource.Options{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.ResolvedAuthority() + "/oauth2/v2.0/token",
			Scopes:       cfg.Graph.Scopes,
			BaseURL:      cfg.Graph.BaseURL,
			CompanyID:    cfg.Directory.CompanyID,
		}, logger), nil
	default: // "sql", enforced by config validation
		db, err := sqlsource.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return sqlsource.New(db, cfg.Directory.ActiveStatus), nil
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
