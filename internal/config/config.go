// Package config loads server configuration from the environment, with
// optional .env support for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server-level settings. LLM provider settings live in
// the llm package and are loaded separately.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DBPath is the sqlite file for the attempt log. Empty selects the
	// default XDG location.
	DBPath string

	// ProblemTTL bounds how long a generated problem stays gradable.
	ProblemTTL time.Duration

	// SweepInterval is how often expired problems are swept. Zero
	// disables the background sweep; expiry then happens only on read.
	SweepInterval time.Duration

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:          getEnv("MATHLINGO_ADDR", ":8080"),
		DBPath:        os.Getenv("MATHLINGO_DB"),
		ProblemTTL:    getDuration("MATHLINGO_PROBLEM_TTL", 30*time.Minute),
		SweepInterval: getDuration("MATHLINGO_SWEEP_INTERVAL", 5*time.Minute),
		LogLevel:      getEnv("MATHLINGO_LOG_LEVEL", "info"),
	}
}

// NewLogger builds the process logger from the configured level.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute
	}
	return fallback
}
