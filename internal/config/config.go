package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ServerConfig holds all configuration for the game server.
type ServerConfig struct {
	Port     string
	LogLevel string
	LogFile  string
	// json or console
	LogFormat string

	// memory, db or redis
	StateStore string

	Postgres PostgresConfig
	Redis    RedisConfig

	// OpenAI phrase generation; empty key enables fallback phrases only
	OpenAIAPIKey string
	OpenAIModel  string

	// local or s3
	StorageType     string
	StorageDir      string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	InferenceAPIURL string

	// room creation rate limit, requests per second per instance
	RoomCreateRPS   float64
	RoomCreateBurst int
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from the environment, with .env autoload for
// local development.
func Load() *ServerConfig {
	_ = godotenv.Load()

	return &ServerConfig{
		Port:       getEnv("PORT", "8000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		StateStore: getEnv("STATE_STORE", "memory"),
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "emoguchi"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "emoguchi"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		StorageType:     getEnv("STORAGE_TYPE", "local"),
		StorageDir:      getEnv("STORAGE_DIR", "./recordings"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "auto"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:     getEnv("S3_SECRET_ACCESS_KEY", ""),
		InferenceAPIURL: getEnv("INFERENCE_API_URL", ""),
		RoomCreateRPS:   getEnvFloat("ROOM_CREATE_RPS", 2),
		RoomCreateBurst: getEnvInt("ROOM_CREATE_BURST", 5),
	}
}

// DSN builds a postgres connection string for gorm.
func (c PostgresConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
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

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
