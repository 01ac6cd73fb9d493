// Package testutil holds shared helpers for package tests.
package testutil

import (
	"os"
	"testing"

	"github.com/realcoin/market-backend/internal/config"
	"github.com/realcoin/market-backend/internal/store"
)

// SetupStore returns an in-memory store closed on test cleanup.
func SetupStore(t *testing.T) store.Store {
	t.Helper()

	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	return st
}

// TestConfig returns a config suitable for unit tests: in-memory
// storage, no listeners, fast-forward off.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		StoreBackend:        "memory",
		TickIntervalMS:      1000,
		BatchSaveIntervalMS: 5000,
		DefaultBotCount:     150,
		HumanStartingCash:   10000,
	}
}

func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
