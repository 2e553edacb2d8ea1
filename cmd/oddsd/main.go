// oddsd is the simulation API server.
//
// It serves POST /api/simulation and /api/history backed by the Postgres
// results database that cmd/oddsync maintains. Connection settings come
// from the standard POSTGRES_* environment variables; everything else is
// flags.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/mckeenicholas/wca-odds-next/src/logging"
	"github.com/mckeenicholas/wca-odds-next/src/server"
)

const shutdownGrace = 10 * time.Second

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDatabase() (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		envOr("POSTGRES_USER", "postgres"),
		os.Getenv("POSTGRES_PASSWORD"),
		envOr("POSTGRES_DB", "wca"))
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func main() {
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	origins := flag.String("origins", "http://localhost:5173", "Comma-separated list of allowed CORS origins")
	noRateLimit := flag.Bool("no-rate-limit", false, "Disable per-client rate limiting (local development)")
	noCache := flag.Bool("no-cache", false, "Disable the response cache (local development)")
	flag.Parse()

	logging.SetLevel(*logLevel)

	db, err := openDatabase()
	if err != nil {
		logging.Errorf("connecting to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, server.Config{
		AllowedOrigins:   strings.Split(*origins, ","),
		DisableRateLimit: *noRateLimit,
		DisableCache:     *noCache,
	})

	addr := ":" + envOr("PORT", "8080")
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("server: %v", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logging.Infof("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logging.Warnf("shutdown: %v", err)
		}
	}
}
