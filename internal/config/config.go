package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in the
// application: strings for identifiers and secrets, ints for durations and
// costs.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign session tokens
	TokenTTLHrs int    // session token time-to-live in hours
	BcryptCost  int    // bcrypt cost for password hashing
	AMQPURL     string // RabbitMQ URL (optional; events disabled when empty)

	// Connection-pool tuning. The fee API is a small admin tool: a handful
	// of concurrent staff sessions, each issuing short point queries, so
	// the defaults stay well below MySQL's connection ceiling.
	DBMaxOpenConns int           // max simultaneous connections
	DBMaxIdleConns int           // idle connections kept warm
	DBConnMaxLife  time.Duration // recycle connections after this long
}

// Load reads a local .env file when present and then builds a Config from
// the process environment. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message. The
// signing secret deliberately has no default.
func Load() Config {
	_ = godotenv.Load() // a missing .env is fine; vars may be set directly

	return Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        getenv("APP_PORT", "3001"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTSecret:   must("JWT_SECRET"),
		TokenTTLHrs: getenvInt("TOKEN_TTL_HOURS", 24),
		BcryptCost:  getenvInt("BCRYPT_COST", 10),
		AMQPURL:     os.Getenv("RABBITMQ_URL"),

		DBMaxOpenConns: getenvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getenvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLife:  parseDur(getenv("DB_CONN_MAX_LIFETIME", "15m")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
