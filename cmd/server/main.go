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

	"github.com/hashicorp/go-multierror"
	"studymate.dev/presentation/internal/api"
	"studymate.dev/presentation/internal/config"
	"studymate.dev/presentation/internal/core"
	"studymate.dev/presentation/internal/logging"
	"studymate.dev/presentation/internal/site"
	"studymate.dev/presentation/internal/store"
)

const sweepInterval = time.Minute

func main() {
	dotenv, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(config.AppConfig.LogLevel, config.AppConfig.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if !dotenv {
		logging.Infof("No .env file found, relying on environment variables")
	}

	if err := run(); err != nil {
		logging.Fatal("Server stopped with error", err)
	}
	logging.Infof("Server exiting gracefully")
}

func run() (err error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize LLM service
	llmService, err := core.NewLLMService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := llmService.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	// Sessions live in memory for the lifetime of a page view
	sessionStore := store.NewMemoryStore(config.AppConfig.SessionTTL)
	go sessionStore.RunSweeper(ctx, sweepInterval, func(removed int) {
		logging.Infow("expired sessions removed", "count", removed)
	})

	chatService := core.NewChatService(sessionStore, llmService, config.AppConfig.GenerationTimeout)

	pages, err := site.New()
	if err != nil {
		return err
	}

	apiHandler := api.NewAPIHandler(chatService, pages, config.AppConfig.MaxUploadBytes)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.AppConfig.GenerationTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Infof("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("could not listen on %s: %w", serverAddr, err)
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logging.Infof("Shutting down server due to signal %s", sig)
	case err := <-serveErr:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	var result error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if err := <-serveErr; err != nil {
		result = multierror.Append(result, err)
	}
	return result
}
