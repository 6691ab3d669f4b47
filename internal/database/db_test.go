package database

import (
	"testing"

	"github.com/feesms/fees-management-backend/internal/config"
)

func TestBuildDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "fees",
		DBHost: "db.local",
		DBPort: "3306",
		DBName: "fees",
	}

	t.Run("no password", func(t *testing.T) {
		want := "fees@tcp(db.local:3306)/fees?charset=utf8mb4&parseTime=true&loc=UTC"
		if got := buildDSN(cfg); got != want {
			t.Fatalf("buildDSN = %q, want %q", got, want)
		}
	})

	t.Run("with password", func(t *testing.T) {
		withPass := cfg
		withPass.DBPass = "s3cret"
		want := "fees:s3cret@tcp(db.local:3306)/fees?charset=utf8mb4&parseTime=true&loc=UTC"
		if got := buildDSN(withPass); got != want {
			t.Fatalf("buildDSN = %q, want %q", got, want)
		}
	})
}
