package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string

	CacheTTL time.Duration

	// JWTSecret verifies guest tokens; issuance lives in the auth service.
	JWTSecret string

	// ReconcileInterval is the room-status sweep period.
	ReconcileInterval time.Duration

	// ApplyRPS / ApplyBurst rate-limit the public apply-booking route.
	ApplyRPS   int
	ApplyBurst int
}

func Load() Config {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ":9100"),
		MySQLDSN:          env("MYSQL_DSN", "root:root@tcp(localhost:3306)/grandstay?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:         env("REDIS_ADDR", "localhost:6379"),
		RedisPass:         env("REDIS_PASSWORD", ""),
		RedisDB:           atoi("REDIS_DB", 0),
		CacheTTL:          time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		JWTSecret:         env("JWT_SECRET", ""),
		ReconcileInterval: time.Duration(atoi("RECONCILE_INTERVAL_MINUTES", 60)) * time.Minute,
		ApplyRPS:          atoi("APPLY_RATE_RPS", 5),
		ApplyBurst:        atoi("APPLY_RATE_BURST", 10),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; guest-authorized routes will reject all tokens")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
