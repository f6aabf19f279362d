package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vikasyadav0123/Poll-Choice/internal/config"
	"github.com/Vikasyadav0123/Poll-Choice/internal/infrastructure/dynamo"
	"github.com/Vikasyadav0123/Poll-Choice/internal/infrastructure/memory"
	transporthttp "github.com/Vikasyadav0123/Poll-Choice/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	var repo transporthttp.PollRepository
	switch cfg.StoreBackend {
	case "memory":
		log.Println("Using in-memory poll store (state is lost on restart)")
		repo = memory.NewPollRepo()
	default:
		client := dynamo.NewClient(cfg)

		// Fail fast: a poll service without its store is worse than no
		// service, so refuse to start when DynamoDB is unreachable.
		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := dynamo.Ping(pingCtx, client); err != nil {
			cancel()
			log.Fatalf("store unavailable: %v", err)
		}
		cancel()

		// Bootstrap the polls table (creates it if it doesn't exist).
		dynamo.Bootstrap(context.Background(), client, cfg.DynamoTables)
		repo = dynamo.NewPollRepo(client, cfg.DynamoTables.Polls)
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{PollRepo: repo})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
