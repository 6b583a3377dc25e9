package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	MetricsPort         string
	DatabaseURL         string
	RedisAddr           string
	OpenAIKey           string
	AllowedOrigins      []string
	UserAgent           string
	VocabPath           string
	SearchLimit         int
	FetchTimeoutSeconds int
	WorkerCount         int
	SimilarityThreshold float64
	SignificantTokenLen int
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		Port:                getEnv("PORT", "5000"),
		MetricsPort:         getEnv("METRICS_PORT", "9090"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		AllowedOrigins:      splitEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		UserAgent:           os.Getenv("USER_AGENT"),
		VocabPath:           os.Getenv("VOCAB_PATH"),
		SearchLimit:         getEnvInt("SEARCH_LIMIT", 5),
		FetchTimeoutSeconds: getEnvInt("FETCH_TIMEOUT_SECONDS", 40),
		WorkerCount:         3,
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.4),
		SignificantTokenLen: getEnvInt("SIGNIFICANT_TOKEN_LEN", 3),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getEnvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func splitEnv(k, d string) []string {
	raw := getEnv(k, d)

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
