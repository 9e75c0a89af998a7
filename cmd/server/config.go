package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hdb-analytics/resale-chatbot/internal/query"
)

// AppConfig holds all configuration for the service, loaded from the
// environment and an optional config.yaml.
type AppConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins string

	DatabaseURL string
	PGMaxConn   int
	PGMaxIdle   int

	MongoURI    string
	MongoDBName string

	GeminiAPIKey string
	GeminiModel  string

	JWTSecret string

	Limits query.Limits
}

// fileConfig is the optional config.yaml shape. Anything absent keeps
// its default; environment variables win over the file.
type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Gemini struct {
		Model string `yaml:"model"`
	} `yaml:"gemini"`
	Limits query.Limits `yaml:"limits"`
}

// LoadConfig loads a .env file in local development, then builds config
// from config.yaml defaults and environment overrides.
func LoadConfig() (*AppConfig, error) {
	// In release mode configuration comes straight from the
	// environment (compose, orchestrator); a .env file is a local
	// development convenience only.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		Port:           "8080",
		GinMode:        getEnv("GIN_MODE", "release"),
		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		DatabaseURL:    getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", "")),
		PGMaxConn:      getEnvAsInt("PG_MAX_CONNECTIONS", 25),
		PGMaxIdle:      getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDBName:    getEnv("MONGODB_DB_NAME", "hdb_analytics"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    "gemini-2.0-flash-exp",
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key"),
		Limits:         query.DefaultLimits(),
	}

	// config.yaml is optional; missing file keeps the defaults above.
	if data, err := os.ReadFile("config.yaml"); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			log.Printf("WARNING: config.yaml is malformed, ignoring: %v", err)
		} else {
			if fc.Server.Port != "" {
				cfg.Port = fc.Server.Port
			}
			if fc.Gemini.Model != "" {
				cfg.GeminiModel = fc.Gemini.Model
			}
			if fc.Limits.Search > 0 {
				cfg.Limits.Search = fc.Limits.Search
			}
			if fc.Limits.TopN > 0 {
				cfg.Limits.TopN = fc.Limits.TopN
			}
			if fc.Limits.PredictionMonths > 0 {
				cfg.Limits.PredictionMonths = fc.Limits.PredictionMonths
			}
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
