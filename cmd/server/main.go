package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"
	"os"
	"time"

	"eduvid/internal/api"
	"eduvid/internal/config"
	"eduvid/internal/llm"
	"eduvid/internal/services"
)

func main() {
	cfg := config.Load()

	gateway, err := buildGateway(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init model gateway: %v", err)
	}
	log.Printf("using model gateway %s", gateway.Name())

	server := api.NewServer(services.NewAIService(gateway), sessionSecret(cfg))
	defer server.Close()

	mux := http.NewServeMux()
	mux.Handle("/api", server.Handler())
	mux.Handle("/api/", server.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("listening on :%s", port)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

// buildGateway prefers Gemini (search grounding works there) and falls back
// to any OpenAI-compatible endpoint.
func buildGateway(ctx context.Context, cfg config.Config) (llm.Gateway, error) {
	if cfg.GeminiKey != "" {
		return llm.NewGeminiGateway(ctx, cfg.GeminiKey, cfg.GeminiModel)
	}
	return llm.NewOpenAIGateway(cfg.OpenAIKey, cfg.OpenAIEndpoint, cfg.OpenAIModel), nil
}

// sessionSecret uses the configured secret or generates an ephemeral one;
// sessions hold no persistent state, so losing them on restart is fine.
func sessionSecret(cfg config.Config) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("generate session secret: %v", err)
	}
	return secret
}
