package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server reads from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	SessionTTL     time.Duration
	CORSOrigin     string
	DBLogLevel     string
	LoginRateRPS   float64
	LoginRateBurst int
	VoteRateRPS    float64
	VoteRateBurst  int
}

// Load reads a .env file when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// Production sets env vars directly, so a missing .env is fine.
		log.Println("No .env file found, reading from environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:        GetEnv("PORT", "8080"),
		DatabaseURL: GetEnv("DATABASE_URL", "sqlite://evote.db"),
		JWTSecret:   GetEnv("JWT_SECRET"),
		CORSOrigin:  GetEnv("CORS_ORIGIN", "*"),
		DBLogLevel:  GetEnv("DB_LOG_LEVEL", "silent"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	ttl, err := time.ParseDuration(GetEnv("SESSION_TTL", "2h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %q", os.Getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	if cfg.LoginRateRPS, cfg.LoginRateBurst, err = rateFromEnv("LOGIN_RATE", "1", "5"); err != nil {
		return Config{}, err
	}
	// Per student session on POST /api/vote.
	if cfg.VoteRateRPS, cfg.VoteRateBurst, err = rateFromEnv("VOTE_RATE", "0.5", "3"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// rateFromEnv reads <prefix>_RPS and <prefix>_BURST. Both must be positive.
func rateFromEnv(prefix, defRPS, defBurst string) (float64, int, error) {
	rpsKey, burstKey := prefix+"_RPS", prefix+"_BURST"

	rps, err := strconv.ParseFloat(GetEnv(rpsKey, defRPS), 64)
	if err != nil || rps <= 0 {
		return 0, 0, fmt.Errorf("invalid %s %q", rpsKey, os.Getenv(rpsKey))
	}
	burst, err := strconv.Atoi(GetEnv(burstKey, defBurst))
	if err != nil || burst <= 0 {
		return 0, 0, fmt.Errorf("invalid %s %q", burstKey, os.Getenv(burstKey))
	}
	return rps, burst, nil
}

// GetEnv returns the value of key, or the first default when it is unset or empty.
func GetEnv(key string, defaultValue ...string) string {
	value := os.Getenv(key)
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
