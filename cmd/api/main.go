package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pet-alert-network/internal/adapters/auth/jwtauth"
	"pet-alert-network/internal/adapters/geocoding"
	"pet-alert-network/internal/adapters/storage/postgres"
	"pet-alert-network/internal/config"
	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/auth"
	"pet-alert-network/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	// Sin secret => modo dev (X-Debug-User-ID)
	var verifier auth.AuthVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	} else {
		log.Warn("auth verifier disabled, running in dev mode", nil)
	}

	opts := router.Options{
		AuthVerifier: verifier,
		Logger:       log,
		Geocoder:     buildGeocoder(cfg, log),
	}

	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			log.Error("database open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		opts.DB = db
	} else {
		log.Warn("no database configured, using in-memory storage", nil)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}
}

func buildGeocoder(cfg *config.Config, log logger.Logger) *geocoding.Chain {
	var providers []geocoding.Provider

	primary, err := geocoding.NewHTTPProvider(cfg.Geocoding.PrimaryBaseURL, cfg.Geocoding.PrimaryAPIKey)
	if err != nil {
		log.Warn("primary geocoding provider misconfigured", map[string]any{"error": err.Error()})
	} else if primary != nil {
		providers = append(providers, primary)
	}

	if cfg.Geocoding.NominatimEnabled {
		providers = append(providers, geocoding.NewNominatim())
	}

	return geocoding.NewChain(log, providers...)
}
