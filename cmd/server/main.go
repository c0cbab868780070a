package main

import (
	"log"
	"path/filepath"

	"llm-council/internal/config"
	"llm-council/internal/openrouter"
	"llm-council/internal/server"
	"llm-council/internal/store"
	"llm-council/internal/webfetch"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	manager := config.NewManager(filepath.Join(env.DataDir, "config.json"))
	conversations := store.New(filepath.Join(env.DataDir, "conversations"))
	client := openrouter.NewClient(env.OpenRouterAPIKey)
	fetcher := webfetch.New(config.PageCacheTTL)

	srv := server.New(manager, conversations, client, fetcher, env.CORSAllowedOrigins)

	log.Println("Starting LLM Council backend on port 8001...")
	if err := srv.Router().Run(":8001"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
