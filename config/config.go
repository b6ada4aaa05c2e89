package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	CorsOrigins []string
	JWTSecret   string
	TokenTTL    time.Duration

	RedisURL      string
	RedisPassword string
	RabbitMQURL   string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel slog.Level
}

var ErrNoDatabase = errors.New("MONGODB_URI or DB_USERNAME/DB_PASSWORD must be set")

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Default().Debug("no .env file found; using system environment", "error", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		MongoURI:       getEnv("MONGODB_URI", ""),
		DBName:         getEnv("DB_NAME", "blogDB"),
		CorsOrigins:    splitCSV(getEnv("CORS_ORIGINS", "*")),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getDuration("TOKEN_TTL", time.Hour),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.MongoURI == "" {
		user := getEnv("DB_USERNAME", "")
		pass := getEnv("DB_PASSWORD", "")
		if user == "" || pass == "" {
			return nil, ErrNoDatabase
		}
		cfg.MongoURI = atlasURI(user, pass, getEnv("DB_HOST", "cluster0.mongodb.net"), getEnv("DB_APP_NAME", "quill"))
	}

	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func atlasURI(user, pass, host, app string) string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=%s",
		url.QueryEscape(user), url.QueryEscape(pass), host, url.QueryEscape(app))
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
