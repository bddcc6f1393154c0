package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	AI       AIConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Chat     ChatConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	RateLimitMax int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// QdrantConfig with an empty URL disables the similarity index.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type AIConfig struct {
	APIKey        string
	Model         string
	EmbedModel    string
	AppName       string
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
	Burst         int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type StorageConfig struct {
	UploadPath      string
	MaxFileSize     int64
	ResumeTextLimit int
}

type ChatConfig struct {
	HistoryWindow int
}

type WorkerConfig struct {
	Concurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("ENV", "development"),
			RateLimitMax: getEnvAsInt("RATE_LIMIT_MAX", 120),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hirehub"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "job_postings"),
		},
		AI: AIConfig{
			APIKey:        getEnv("AI_API_KEY", getEnv("GEMINI_API_KEY", "")),
			Model:         getEnv("AI_MODEL", "gemini-2.5-flash"),
			EmbedModel:    getEnv("AI_EMBED_MODEL", "text-embedding-004"),
			AppName:       getEnv("AI_APP_NAME", ""),
			Timeout:       getEnvAsDuration("AI_TIMEOUT", "30s"),
			MaxRetries:    getEnvAsInt("AI_MAX_RETRIES", 2),
			RatePerSecond: getEnvAsFloat("AI_RATE_PER_SECOND", 2),
			Burst:         getEnvAsInt("AI_BURST", 4),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", "24h"),
		},
		Storage: StorageConfig{
			UploadPath:      getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:     getEnvAsInt64("MAX_FILE_SIZE", 5*1024*1024),
			ResumeTextLimit: getEnvAsInt("RESUME_TEXT_LIMIT", 15000),
		},
		Chat: ChatConfig{
			HistoryWindow: getEnvAsInt("CHAT_HISTORY_WINDOW", 50),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
