package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ereshiii/pet-connect/internal/app"
	"github.com/ereshiii/pet-connect/internal/config"
	dbpkg "github.com/ereshiii/pet-connect/internal/db"
	"github.com/ereshiii/pet-connect/internal/routes"
	"github.com/ereshiii/pet-connect/internal/validators"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, "api")
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	if err := dbpkg.Migrate(a.DB); err != nil {
		a.Log.Fatal().Err(err).Msg("migrate")
	}

	if err := validators.RegisterWithGin(); err != nil {
		a.Log.Fatal().Err(err).Msg("register validators")
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		Repo:          a.Repo,
		Audit:         a.Audit,
		Metrics:       a.Metrics,
		Clock:         a.Clock,
		Log:           a.Log,
		JWTSecret:     cfg.JWTSecret,
		SearchMaxDays: cfg.SearchMaxDays,
		AuditReader:   a.AuditLog,
		Gatherer:      a.Registry,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.Log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Log.Error().Err(err).Msg("graceful shutdown failed")
	}
	a.Log.Info().Msg("server exited")
}
