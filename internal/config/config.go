package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Default runtime configuration, used when data/config.json is absent or
// a field is missing from it.
var (
	DefaultCouncilModels = []string{
		"openai/gpt-5.1",
		"google/gemini-3-pro-preview",
		"anthropic/claude-sonnet-4.5",
		"x-ai/grok-4",
	}

	DefaultChairmanModel = "google/gemini-3-pro-preview"

	// DefaultReasoningEffort is applied to every model without an explicit
	// override. Empty string disables the reasoning parameter entirely.
	DefaultReasoningEffort = "high"
)

const (
	// OpenRouterAPIURL is the chat completions endpoint.
	OpenRouterAPIURL = "https://openrouter.ai/api/v1/chat/completions"

	// TitleModel is a fast model used for conversation title generation.
	TitleModel = "google/gemini-2.5-flash"

	ModelQueryTimeout = 120 * time.Second
	TitleGenTimeout   = 30 * time.Second

	// MaxRequestBodySize bounds inbound request bodies (images arrive as
	// base64 data URLs, so this needs headroom beyond plain text).
	MaxRequestBodySize int64 = 20 << 20

	// PageCacheTTL is how long fetched URL content stays cached.
	PageCacheTTL = 5 * time.Minute
)

// Env holds process-level settings read once at startup. Runtime-tunable
// settings (models, reasoning) live in Manager instead.
type Env struct {
	OpenRouterAPIKey   string
	CORSAllowedOrigins []string
	DataDir            string
}

// LoadEnv reads process configuration from the environment, loading a .env
// file from the working directory or its parent if one exists.
func LoadEnv() (*Env, error) {
	for _, envPath := range []string{".env", "../.env"} {
		absPath, err := filepath.Abs(envPath)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			if err := godotenv.Load(absPath); err == nil {
				break
			}
		}
	}

	env := &Env{
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		DataDir:          os.Getenv("DATA_DIR"),
	}
	if env.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is required")
	}
	if env.DataDir == "" {
		env.DataDir = "data"
	}

	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		for _, origin := range filepath.SplitList(corsOrigins) {
			if origin != "" {
				env.CORSAllowedOrigins = append(env.CORSAllowedOrigins, origin)
			}
		}
	}

	return env, nil
}
