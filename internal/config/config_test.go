package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// getenv treats empty the same as unset, so blanking the vars
	// exercises the defaults regardless of the test environment.
	for _, key := range []string{
		"SCOPELINE_API_URL", "REDIS_URL", "MEILI_URL", "MINIO_ENDPOINT",
		"SCOPELINE_REVIEW_MAX_TURNS", "SCOPELINE_API_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.APIBaseURL != "http://localhost:8787" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty so review falls back to the memory store", cfg.RedisURL)
	}
	if cfg.MeiliURL != "" {
		t.Errorf("MeiliURL = %q, want empty so search falls back to the memory scan", cfg.MeiliURL)
	}
	if cfg.MinioEndpoint != "" {
		t.Errorf("MinioEndpoint = %q, want empty", cfg.MinioEndpoint)
	}
	if cfg.ReviewMaxTurns != 30 {
		t.Errorf("ReviewMaxTurns = %d", cfg.ReviewMaxTurns)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout = %v", cfg.APITimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example:6379/2")
	t.Setenv("SCOPELINE_REVIEW_MAX_TURNS", "5")
	t.Setenv("SCOPELINE_REVIEW_TTL_SECONDS", "60")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	if cfg.RedisURL != "redis://example:6379/2" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.ReviewMaxTurns != 5 {
		t.Errorf("ReviewMaxTurns = %d", cfg.ReviewMaxTurns)
	}
	if cfg.ReviewTTL != time.Minute {
		t.Errorf("ReviewTTL = %v", cfg.ReviewTTL)
	}
	if !cfg.MinioUseSSL {
		t.Error("MinioUseSSL = false, want true")
	}
}

func TestGetenvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SCOPELINE_REVIEW_MAX_TURNS", "not-a-number")
	if cfg := Load(); cfg.ReviewMaxTurns != 30 {
		t.Errorf("ReviewMaxTurns = %d, want default 30", cfg.ReviewMaxTurns)
	}
}
