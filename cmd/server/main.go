package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"idlepost/internal/catalog"
	"idlepost/internal/config"
	"idlepost/internal/game"
	"idlepost/internal/leaderboard"
	"idlepost/internal/save"
	"idlepost/internal/serverapp"
	"idlepost/internal/session"
	"idlepost/internal/telemetry"
)

func main() {
	logger := log.Default()

	cfg, err := config.Load("idlepost_config.yml")
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	balance := config.BalanceFromEnv()

	if err := catalog.Validate(); err != nil {
		logger.Fatalf("catalog: %v", err)
	}

	var (
		saves save.Repo
		board leaderboard.Store
	)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatalf("redis ping: %v", err)
		}
		cancel()
		saves = save.NewRedisRepo(client, game.RealClock{})
		board = leaderboard.NewRedisStore(client)
		logger.Printf("storage: redis at %s", cfg.Redis.Addr)
	} else {
		fileSaves, err := save.NewFileRepo(cfg.Server.DataDir, game.RealClock{})
		if err != nil {
			logger.Fatalf("open save repo: %v", err)
		}
		fileBoard, err := leaderboard.NewFileStore(cfg.Server.DataDir)
		if err != nil {
			logger.Fatalf("open leaderboard: %v", err)
		}
		saves = fileSaves
		board = fileBoard
		logger.Printf("storage: files under %s", cfg.Server.DataDir)
	}

	events := telemetry.NewMemoryRepository()

	manager := session.NewManager(session.Config{
		Balance:     balance,
		Saves:       saves,
		Leaderboard: board,
		Telemetry:   events,
		Logger:      logger,
		IdleTimeout: time.Duration(cfg.Session.IdleTimeoutS) * time.Second,
		SaveEvery:   time.Duration(cfg.Session.SaveEveryS) * time.Second,
	})

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:      cfg,
		Balance:     balance,
		Sessions:    manager,
		Leaderboard: board,
		Telemetry:   events,
		Logger:      logger,
		ClickRate:   rate.Limit(20),
		ClickBurst:  40,
	})
	if err != nil {
		logger.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go manager.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on http://localhost%s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}

	// Every live session flushes on close.
	manager.Close()
	logger.Printf("bye")
}
