package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	GeminiKey   string
	GeminiModel string

	OpenAIKey      string
	OpenAIEndpoint string
	OpenAIModel    string

	SessionSecret string
}

// Load reads configuration from the environment. A generative-model
// credential is required; starting without one is fatal rather than a
// runtime error.
func Load() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()
	cfg := Config{
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint: getEnv("OPENAI_API_ENDPOINT", "https://api.openai.com/v1"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
	}

	if cfg.GeminiKey == "" && cfg.OpenAIKey == "" {
		log.Fatalf("no model credential configured: set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
