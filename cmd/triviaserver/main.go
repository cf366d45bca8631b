package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"trivia-lab/observability"
	"trivia-lab/questions"
	"trivia-lab/repositories"
	"trivia-lab/runtime/workers"
	"trivia-lab/server"
	"trivia-lab/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle. Keeping
// main() trivial guarantees every defer executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB, question cache)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Question bank & user accounts
	cache := repositories.NewQuestionCache(db, log)
	loader := questions.NewLoader(config.TriviaAPIURL,
		&http.Client{Timeout: config.FetchTimeout}, cache, log)
	bank, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading question bank: %w", err)
	}

	userRepository := repositories.NewUserRepository(config.UsersFilepath, log)
	users, err := userRepository.Load()
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	// 5. Store, dispatcher, server
	store := services.NewGameStore(users, bank, userRepository, log)
	dispatcher := server.NewDispatcher(store, log)
	metrics := observability.NewMetrics()

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	srv := server.NewServer(address, config.ConnBufferSize, store, dispatcher, metrics, log)
	if err := srv.Listen(); err != nil {
		return err
	}

	heartbeat := observability.NewHeartbeatWorker(log, metrics, config.HeartbeatInterval)

	// 6. Supervision: the server and heartbeat run until the signal
	// context is canceled; panics restart the worker, not the process.
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(srv, heartbeat)
	sup.Run(ctx)

	// 7. Final cleanup
	if err := store.Flush(); err != nil {
		log.Error("Failed to save users on shutdown", "error", err)
	}
	log.Info("Program stopped cleanly")
	return nil
}
