package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Name               string
	Version            string
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	OpenAI string
}

type AIConfig struct {
	Provider         string // "openai" or "ollama"
	Model            string // e.g. "gpt-3.5-turbo", "llama3"
	BaseURL          string // provider endpoint, empty = provider default
	SystemPrompt     string
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// DefaultSystemPrompt is used when AI_SYSTEM_PROMPT is not set.
const DefaultSystemPrompt = `You are a helpful and knowledgeable AI assistant. You are direct, honest, and don't sugarcoat reality. Your role is to:

1. Answer questions with no very little fluff — give the user the answer they are looking for
2. Provide accurate, reasoned, and well thoughout responses
3. Assist with analysis, writing, problem-solving, and more. Provide details steps when requested.
4. Engage in real, unfiltered conversation — but stay within reason
5. Help users learn and understand complex ideas, able to do so in layman terms

Guidelines:
- Be honest — even if it's uncomfortable
- Stay factual and cut the BS
- No fake politeness or empty niceties`

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "ai-chat-be"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Chat"),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			Provider:         getEnv("LLM_PROVIDER", "openai"),
			Model:            getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			BaseURL:          getEnv("LLM_BASE_URL", ""),
			SystemPrompt:     getEnv("AI_SYSTEM_PROMPT", DefaultSystemPrompt),
			MaxTokens:        getEnvAsInt("AI_MAX_TOKENS", 1000),
			Temperature:      getEnvAsFloat("AI_TEMPERATURE", 0.1),
			TopP:             getEnvAsFloat("AI_TOP_P", 0.9),
			FrequencyPenalty: getEnvAsFloat("AI_FREQUENCY_PENALTY", 0.1),
			PresencePenalty:  getEnvAsFloat("AI_PRESENCE_PENALTY", 0.1),
		},
	}
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
