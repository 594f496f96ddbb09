package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr      = ":8080"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "24h"
	defaultCacheTTL      = "60s"
	defaultGraceDays     = "0"
	defaultAreaTolerance = "20"
)

// Config is the process-wide runtime configuration, read from the
// environment. Domain tunables live here too: the late-payment grace used by
// transfer eligibility and the similar-unit area bracket.
type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// LatePaymentGraceDays is how many days after the due date a payment may
	// land and still count as on time.
	LatePaymentGraceDays int
	// SimilarAreaTolerancePct widens the area bracket when searching for a
	// similar unit: area within +/- this percentage matches.
	SimilarAreaTolerancePct int
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = getEnv("HTTP_ADDR", defaultHTTPAddr)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL, err = parseDurationEnv("CACHE_TTL", defaultCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg.LatePaymentGraceDays, err = parseIntEnv("LATE_PAYMENT_GRACE_DAYS", defaultGraceDays)
	if err != nil {
		return nil, err
	}
	cfg.SimilarAreaTolerancePct, err = parseIntEnv("SIMILAR_AREA_TOLERANCE_PCT", defaultAreaTolerance)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.LatePaymentGraceDays < 0 {
		return fmt.Errorf("LATE_PAYMENT_GRACE_DAYS must be >= 0")
	}
	if cfg.SimilarAreaTolerancePct < 0 || cfg.SimilarAreaTolerancePct > 100 {
		return fmt.Errorf("SIMILAR_AREA_TOLERANCE_PCT must be between 0 and 100")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
