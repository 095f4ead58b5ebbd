package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	Port         string
	Environment  string
	GroqEndpoint string
	GroqAPIKey   string
	GroqModel    string
}

// LoadConfig loads configuration from environment variables.
// An empty GroqAPIKey is not an error; it only disables the AI features.
func LoadConfig() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		GroqEndpoint: getEnv("GROQ_ENDPOINT", "https://api.groq.com/openai"),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		GroqModel:    getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
	}
}

// AIEnabled reports whether the completion-service credential is configured.
func (c *Config) AIEnabled() bool {
	return c.GroqAPIKey != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
