package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chessturo/SpotifyInsights/csrf"
	"github.com/chessturo/SpotifyInsights/internal/config"
	"github.com/chessturo/SpotifyInsights/server"
	"github.com/chessturo/SpotifyInsights/sessions"
	"github.com/chessturo/SpotifyInsights/spotify"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if err := config.Validate(c); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}
	displayAppname(c.GetAppName())

	tokenClient := spotify.NewTokenClient(c)
	sessionRepo := sessions.NewInMemoryRepo()
	sessionManager := sessions.NewManager(sessionRepo, tokenClient, c)
	stateGuard := csrf.NewGuard(c.GetStateLength())
	api := spotify.NewClient(c.GetAPIBaseURL())

	srv := &http.Server{
		Addr:    c.GetPort(),
		Handler: server.New(c, sessionManager, stateGuard, tokenClient, api),
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go runSweeper(sweepCtx, sessionRepo, c)

	go listenAndServe(srv)
	waitForStopSignal()
	stopSweeper()
	returnError = shutdown(srv)
	return returnError
}

func runSweeper(ctx context.Context, repo sessions.Repo, c config.Config) {
	sweeper := sessions.NewSweeper(repo, c.GetSweepInterval())
	if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("sweeper stopped unexpectedly")
	}
}

func listenAndServe(srv *http.Server) {
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
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
