package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Scopeline API connection
	APIBaseURL string
	APIToken   string
	APITimeout time.Duration
	// Dev fallback identity, used when no token is set
	DevUser string
	DevRole string
	// Snapshot history
	SnapshotsDir string
	// Prototype review sessions
	RedisURL       string
	ReviewTTL      time.Duration
	ReviewMaxTurns int
	// Entity search
	MeiliURL       string
	MeiliMasterKey string
	// Evidence storage - disabled when endpoint is empty
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func Load() Config {
	return Config{
		APIBaseURL: getenv("SCOPELINE_API_URL", "http://localhost:8787"),
		APIToken:   getenv("SCOPELINE_API_TOKEN", ""),
		APITimeout: time.Duration(getenvInt("SCOPELINE_API_TIMEOUT_SECONDS", 15)) * time.Second,
		DevUser:    getenv("SCOPELINE_DEV_USER", "dev"),
		DevRole:    getenv("SCOPELINE_DEV_ROLE", "consultant"),

		SnapshotsDir: getenv("SCOPELINE_SNAPSHOTS_DIR", "./data/snapshots"),

		// Redis - empty by default, review sessions fall back to the
		// in-process store if not configured
		RedisURL:       getenv("REDIS_URL", ""),
		ReviewTTL:      time.Duration(getenvInt("SCOPELINE_REVIEW_TTL_SECONDS", 86400)) * time.Second,
		ReviewMaxTurns: getenvInt("SCOPELINE_REVIEW_MAX_TURNS", 30),

		// Meilisearch - empty by default, search scans the loaded
		// snapshot in memory if not configured
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),

		// Minio - empty by default, evidence uploads disabled if not configured
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "scopeline-evidence"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
