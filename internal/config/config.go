package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port              int
	RedisURL          string
	AllowOrigins      []string
	SessionTTL        time.Duration
	SISPAAAPIURL      string
	SISPAAAPIKey      string
	SISPAATimeout     time.Duration
	OutboxInterval    time.Duration
	OutboxMaxAttempts int
	GeoIPDBPath       string
	RateLimitPublic   RateLimitConfig
	RateLimitUser     RateLimitConfig
	AdminEmail        string
	AdminPassword     string
	AdminName         string
	AdminPhone        string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	cfg.SISPAAAPIURL = strings.TrimSpace(getEnv("SISPAA_API_URL", "https://api.sispaa.gov.my"))
	cfg.SISPAAAPIKey = strings.TrimSpace(getEnv("SISPAA_API_KEY", ""))

	sispaaTimeout, err := parseDurationEnv("SISPAA_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.SISPAATimeout = sispaaTimeout

	outboxInterval, err := parseDurationEnv("OUTBOX_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.OutboxInterval = outboxInterval

	maxAttemptsStr := getEnv("OUTBOX_MAX_ATTEMPTS", "5")
	maxAttempts, err := strconv.Atoi(maxAttemptsStr)
	if err != nil || maxAttempts <= 0 {
		return nil, errors.New("OUTBOX_MAX_ATTEMPTS inválido")
	}
	cfg.OutboxMaxAttempts = maxAttempts

	cfg.GeoIPDBPath = strings.TrimSpace(getEnv("GEOIP_DB_PATH", ""))

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitUser = RateLimitConfig{RequestsPerSecond: 1, Burst: 10}

	cfg.AdminEmail = strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@lapor.local"))
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "Admin123!")
	cfg.AdminName = strings.TrimSpace(getEnv("ADMIN_NAME", "System Administrator"))
	cfg.AdminPhone = strings.TrimSpace(getEnv("ADMIN_PHONE", ""))

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
