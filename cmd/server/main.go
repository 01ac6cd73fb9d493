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

	"github.com/realcoin/market-backend/internal/broadcast"
	"github.com/realcoin/market-backend/internal/config"
	"github.com/realcoin/market-backend/internal/market"
	"github.com/realcoin/market-backend/internal/store"
)

const banner = `
╔══════════════════════════════════════╗
║    RealCoin Market Simulator v0.3    ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Storage backend
	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[STORE] Open failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[STORE] Close error: %v\n", err)
		}
		fmt.Println("[STORE] Closed")
	}()

	removeLogger := st.OnChange(func(collection, id string, data []byte) {
		if collection == store.Portfolios {
			fmt.Printf("[STORE] Portfolio updated: %s\n", id)
		}
	})
	defer removeLogger()

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. WebSocket hub
	var broadcaster broadcast.Broadcaster = broadcast.Nop{}
	var srv *http.Server
	if cfg.WSEnabled {
		hub := broadcast.NewHub()
		broadcaster = hub

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv = &http.Server{Addr: cfg.WSListenAddr, Handler: mux}
		go func() {
			fmt.Printf("[WS] Listening on %s\n", cfg.WSListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "[WS] Server error: %v\n", err)
				os.Exit(1)
			}
		}()
	} else {
		fmt.Println("[WS] Disabled - running headless")
	}

	// 2. Market engine
	engine := market.New(cfg, st, broadcaster)
	if err := engine.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[ENGINE] Init failed: %v\n", err)
		os.Exit(1)
	}
	engineDone := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(engineDone)
	}()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	// Let the engine finish its final flush before closing the store.
	<-engineDone

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "[WS] Shutdown error: %v\n", err)
		}
		fmt.Println("[WS] Server closed")
	}
	fmt.Println("Shutdown complete")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		fmt.Printf("[STORE] Connecting to redis at %s ...\n", cfg.RedisAddr)
		return store.NewRedis(store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "postgres":
		fmt.Printf("[STORE] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
		return store.NewPostgres(cfg.DSN())
	default:
		fmt.Println("[STORE] Using in-memory store")
		return store.NewMemory(), nil
	}
}
