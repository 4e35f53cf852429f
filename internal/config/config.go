package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MetricsPort   string
	LogLevel      string
	LogFormat     string
	BotConfigPath string
	QuoteAPIBase  string
	QuoteTimeout  time.Duration
	RedisURL      string
	SessionTTL    time.Duration
	DatabaseURL   string
	Translator    string
	OpenAIKey     string
	OpenAIModel   string
	LeadsLimit    int
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		Port:          getEnv("PORT", "8080"),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		BotConfigPath: os.Getenv("BOT_CONFIG"),
		QuoteAPIBase:  strings.TrimSpace(os.Getenv("QUOTE_API_BASE")),
		QuoteTimeout:  getDuration("QUOTE_TIMEOUT", 15*time.Second),
		RedisURL:      os.Getenv("REDIS_URL"),
		SessionTTL:    getDuration("SESSION_TTL", 30*time.Minute),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Translator:    getEnv("TRANSLATOR", "remote"), // Pode ser "remote" ou "openai"
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LeadsLimit:    getInt("LEADS_LIMIT", 20),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}
