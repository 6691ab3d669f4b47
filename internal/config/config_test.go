package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_USER", "fees")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "fees")
	t.Setenv("JWT_SECRET", "test-secret")

	// Unset the defaulted knobs so ambient environment cannot leak in.
	for _, k := range []string{"APP_PORT", "TOKEN_TTL_HOURS", "BCRYPT_COST",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Port != "3001" {
		t.Fatalf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.TokenTTLHrs != 24 {
		t.Fatalf("TokenTTLHrs = %d, want 24", cfg.TokenTTLHrs)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.DBMaxOpenConns != 10 || cfg.DBMaxIdleConns != 5 {
		t.Fatalf("pool sizes = %d/%d, want 10/5", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLife != 15*time.Minute {
		t.Fatalf("DBConnMaxLife = %v, want 15m", cfg.DBConnMaxLife)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_USER", "fees")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "fees")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("DB_MAX_IDLE_CONNS", "2")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1m")

	cfg := Load()

	if cfg.DBMaxOpenConns != 3 || cfg.DBMaxIdleConns != 2 {
		t.Fatalf("pool sizes = %d/%d, want 3/2", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLife != time.Minute {
		t.Fatalf("DBConnMaxLife = %v, want 1m", cfg.DBConnMaxLife)
	}
}
