package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        string
	ProjectName string
	Version     string
	OTel        OTelConfig
	LLM         LLMConfig
	Typesense   TypesenseConfig
	News        NewsConfig
	Redis       RedisConfig
	Assistant   AssistantConfig
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type LLMConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type TypesenseConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

type NewsConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

type RedisConfig struct {
	URL string
}

type AssistantConfig struct {
	ContextWindow   int           // max retained transcript segments
	MinTextLength   int           // shortest utterance that triggers suggestions
	StreamCharDelay time.Duration // per-character delay for simulated streaming
}

// Load loads configuration from environment variables. In development it
// also reads a .env file from the working directory.
func Load() (Config, error) {
	if getEnv("CHATBUFF_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:         getEnv("CHATBUFF_ENV", "development"),
		Port:        getEnv("PORT", "8000"),
		ProjectName: "ChatBuff",
		Version:     getEnv("CHATBUFF_VERSION", "0.1.0"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "chatbuff"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		LLM: LLMConfig{
			APIKey:    getEnv("OPENAI_API_KEY", ""),
			BaseURL:   getEnv("OPENAI_BASE_URL", "https://api.deepseek.com/v1"),
			Model:     getEnv("LLM_MODEL_NAME", "deepseek-chat"),
			MaxTokens: getEnvInt("LLM_MAX_TOKENS", 500),
			Timeout:   getEnvDuration("LLM_TIMEOUT", 15*time.Second),
		},
		Typesense: TypesenseConfig{
			URL:        getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:     getEnv("TYPESENSE_API_KEY", "xyz"),
			Collection: getEnv("TYPESENSE_COLLECTION", "quotes"),
			Timeout:    getEnvDuration("TYPESENSE_TIMEOUT", 5*time.Second),
		},
		News: NewsConfig{
			APIKey:   getEnv("NEWS_API_KEY", ""),
			BaseURL:  getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2/top-headlines"),
			Language: getEnv("NEWS_LANGUAGE", "zh"),
			Timeout:  getEnvDuration("NEWS_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Assistant: AssistantConfig{
			ContextWindow:   getEnvInt("CONTEXT_WINDOW", 50),
			MinTextLength:   getEnvInt("MIN_TEXT_LENGTH", 10),
			StreamCharDelay: getEnvDuration("STREAM_CHAR_DELAY", 50*time.Millisecond),
		},
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c NewsConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
