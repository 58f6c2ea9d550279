package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	Tiers     TierConfig
	Tutoring  TutoringConfig
	Session   SessionConfig
	SmallLLM  ModelConfig
	FineTuned ModelConfig
	LargeLLM  ModelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type EmbeddingConfig struct {
	Provider      string // "openai", "gemini" or "ollama"
	Model         string
	Dimensions    int
	APIKey        string
	BaseURL       string // OpenAI-compatible endpoint override
	OllamaBaseURL string
	TimeoutSecs   int
}

// TierConfig holds the ordered similarity thresholds for the 4-tier
// routing decision. Validate enforces T1 >= T2 >= T3.
type TierConfig struct {
	Tier1Threshold float64
	Tier2Threshold float64
	Tier3Threshold float64
	CacheTopK      int
}

type TutoringConfig struct {
	Enabled        bool
	MaxDepth       int
	CacheThreshold float64
}

type SessionConfig struct {
	TTLSeconds             int
	MaxHistory             int
	CleanupIntervalSeconds int
}

// ModelConfig describes one logical LLM role. Provider selects the
// backend ("openai", "ollama", "gemini"); BaseURL points OpenAI-compatible
// providers at self-hosted endpoints.
type ModelConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	TopP        float64
	MaxTokens   int
	TimeoutSecs int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Embedding: EmbeddingConfig{
			Provider:      getEnv("EMBEDDING_PROVIDER", "openai"),
			Model:         getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimensions:    getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			APIKey:        getEnv("EMBEDDING_API_KEY", getEnv("OPENAI_API_KEY", "")),
			BaseURL:       getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			TimeoutSecs:   getEnvAsInt("EMBEDDING_TIMEOUT", 10),
		},
		Tiers: TierConfig{
			Tier1Threshold: getEnvAsFloat("CONFIDENCE_TIER_1", 0.85),
			Tier2Threshold: getEnvAsFloat("CONFIDENCE_TIER_2", 0.70),
			Tier3Threshold: getEnvAsFloat("CONFIDENCE_TIER_3", 0.50),
			CacheTopK:      getEnvAsInt("CACHE_TOP_K", 5),
		},
		Tutoring: TutoringConfig{
			Enabled:        getEnvAsBool("TUTORING_ENABLED", true),
			MaxDepth:       getEnvAsInt("TUTORING_MAX_DEPTH", 5),
			CacheThreshold: getEnvAsFloat("TUTORING_INTERACTION_THRESHOLD", 0.85),
		},
		Session: SessionConfig{
			TTLSeconds:             getEnvAsInt("SESSION_TTL_SECONDS", 3600),
			MaxHistory:             getEnvAsInt("SESSION_MAX_HISTORY", 50),
			CleanupIntervalSeconds: getEnvAsInt("SESSION_CLEANUP_INTERVAL", 300),
		},
		SmallLLM:  loadModelConfig("SMALL_LLM", "qwen2.5:7b"),
		FineTuned: loadModelConfig("FINE_TUNED_MODEL", "math-tutor-ft"),
		LargeLLM:  loadModelConfig("LARGE_LLM", "gpt-4o"),
	}
}

func loadModelConfig(prefix, defaultModel string) ModelConfig {
	return ModelConfig{
		Provider:    getEnv(prefix+"_PROVIDER", "openai"),
		Model:       getEnv(prefix+"_MODEL_NAME", defaultModel),
		BaseURL:     getEnv(prefix+"_SERVICE_URL", "https://api.openai.com"),
		APIKey:      getEnv(prefix+"_API_KEY", getEnv("OPENAI_API_KEY", "")),
		Temperature: getEnvAsFloat(prefix+"_TEMPERATURE", 0.7),
		TopP:        getEnvAsFloat(prefix+"_TOP_P", 0.9),
		MaxTokens:   getEnvAsInt(prefix+"_MAX_TOKENS", 0),
		TimeoutSecs: getEnvAsInt(prefix+"_TIMEOUT", 60),
	}
}

// Validate rejects configurations the routing logic cannot work with.
func (c *Config) Validate() error {
	t := c.Tiers
	if t.Tier1Threshold < t.Tier2Threshold || t.Tier2Threshold < t.Tier3Threshold {
		return fmt.Errorf("confidence tiers must be ordered T1 >= T2 >= T3, got %.2f/%.2f/%.2f",
			t.Tier1Threshold, t.Tier2Threshold, t.Tier3Threshold)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Tutoring.MaxDepth <= 0 {
		return fmt.Errorf("tutoring max depth must be positive, got %d", c.Tutoring.MaxDepth)
	}
	if c.Session.TTLSeconds <= 0 || c.Session.CleanupIntervalSeconds <= 0 {
		return fmt.Errorf("session TTL and cleanup interval must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
