package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel         string
	LogFormat        string
	WorkerCount      int
	IndentWidth      int
	AssetPattern     string
	ReferenceSection string
	Policy           string
}

// Load reads an optional .env file, then the LOCPATCH_* environment
// variables. Variables already set in the environment win over .env.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		LogLevel:         getEnv("LOCPATCH_LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOCPATCH_LOG_FORMAT", "console"),
		WorkerCount:      getEnvInt("LOCPATCH_WORKERS", 4),
		IndentWidth:      getEnvInt("LOCPATCH_INDENT", 2),
		AssetPattern:     getEnv("LOCPATCH_ASSET_PATTERN", "*translations*"),
		ReferenceSection: getEnv("LOCPATCH_REFERENCE_SECTION", "en"),
		Policy:           getEnv("LOCPATCH_POLICY", "fail-closed"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Warn().Str("key", key).Str("value", v).Int("fallback", fallback).Msg("Invalid integer setting, using default")
		return fallback
	}
	return n
}
