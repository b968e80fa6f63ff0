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

	"github.com/redis/go-redis/v9"

	"github.com/ciphersql/sandbox/internal/config"
	"github.com/ciphersql/sandbox/internal/db"
	"github.com/ciphersql/sandbox/internal/router"
	"github.com/ciphersql/sandbox/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	sandbox, err := db.OpenSandbox(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("sandbox open: %v", err)
	}
	defer sandbox.Close()

	content, err := db.OpenContent(cfg.ContentDBPath)
	if err != nil {
		log.Fatalf("content store open: %v", err)
	}
	defer content.Close()

	if err := db.MigrateContent(content); err != nil {
		log.Fatalf("content store migrate: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	} else {
		log.Println("REDIS_ADDR not set, rate limiting disabled")
	}

	recorder := service.NewRecorder(service.NewAttemptService(content))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router.New(cfg, sandbox, content, rdb, recorder),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("ciphersql sandbox listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-done
	log.Println("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	// Flush any attempts still queued behind in-flight requests.
	recorder.Close()
	log.Println("stopped")
}
