package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storage backend: "memory", "redis" or "postgres"
	StoreBackend string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Postgres
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Broadcast (WebSocket hub)
	WSListenAddr string
	WSEnabled    bool

	// Simulation
	TickIntervalMS      int
	BatchSaveIntervalMS int
	DefaultBotCount     int
	HumanStartingCash   float64

	// Fast-forward bootstrap
	FastForwardEnabled       bool
	FastForwardDurationHours float64
	FastForwardTicksPerSec   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StoreBackend: envStr("STORE_BACKEND", "memory"),

		RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "realcoin_market"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		WSListenAddr: envStr("WS_LISTEN_ADDR", ":8090"),
		WSEnabled:    envBool("WS_ENABLED", true),

		TickIntervalMS:      envInt("TICK_INTERVAL_MS", 1000),
		BatchSaveIntervalMS: envInt("BATCH_SAVE_INTERVAL_MS", 5000),
		DefaultBotCount:     envInt("DEFAULT_BOT_COUNT", 150),
		HumanStartingCash:   envFloat("HUMAN_STARTING_CASH", 10000),

		FastForwardEnabled:       envBool("FAST_FORWARD_ENABLED", true),
		FastForwardDurationHours: envFloat("FAST_FORWARD_DURATION_HOURS", 2),
		FastForwardTicksPerSec:   envInt("FAST_FORWARD_TICKS_PER_SEC", 100),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	switch c.StoreBackend {
	case "memory", "redis", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND %q is not one of memory, redis, postgres", c.StoreBackend))
	}
	if c.StoreBackend == "postgres" && c.DBUser == "" {
		errs = append(errs, "DB_USER is required for the postgres backend")
	}
	if c.TickIntervalMS <= 0 {
		errs = append(errs, "TICK_INTERVAL_MS must be positive")
	}
	if c.BatchSaveIntervalMS <= 0 {
		errs = append(errs, "BATCH_SAVE_INTERVAL_MS must be positive")
	}
	if c.FastForwardTicksPerSec <= 0 {
		errs = append(errs, "FAST_FORWARD_TICKS_PER_SEC must be positive")
	}

	if c.StoreBackend == "memory" {
		fmt.Println("[WARN] STORE_BACKEND=memory: market state will not survive a restart")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== RealCoin Market Backend Configuration ===")
	fmt.Printf("Store backend: %s\n", c.StoreBackend)
	switch c.StoreBackend {
	case "redis":
		fmt.Printf("Redis: %s (db %d)\n", c.RedisAddr, c.RedisDB)
	case "postgres":
		fmt.Printf("Postgres: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	}
	fmt.Println("--------------------------------------")
	fmt.Println("Simulation:")
	fmt.Printf("  Tick interval: %dms\n", c.TickIntervalMS)
	fmt.Printf("  Batch save interval: %dms\n", c.BatchSaveIntervalMS)
	fmt.Printf("  Default bot count: %d\n", c.DefaultBotCount)
	if c.FastForwardEnabled {
		fmt.Printf("  Fast-forward bootstrap: %.1fh at %d ticks/s\n",
			c.FastForwardDurationHours, c.FastForwardTicksPerSec)
	} else {
		fmt.Println("  Fast-forward bootstrap: disabled")
	}
	fmt.Println("--------------------------------------")
	if c.WSEnabled {
		fmt.Printf("WebSocket hub: listening on %s\n", c.WSListenAddr)
	} else {
		fmt.Println("WebSocket hub: disabled (broadcasts dropped)")
	}
	fmt.Println("=============================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}
