package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`
	JWTSecret  string `yaml:"jwt_secret"`

	GeminiAPIKey          string        `yaml:"gemini_api_key"`
	GeminiModel           string        `yaml:"gemini_model"`
	GeminiBaseURL         string        `yaml:"gemini_base_url"`
	GeminiTemperature     float32       `yaml:"gemini_temperature"`
	GeminiMaxOutputTokens int32         `yaml:"gemini_max_output_tokens"`
	GeminiTimeout         time.Duration `yaml:"gemini_timeout"`

	MaxLayers        int `yaml:"max_layers"`
	MaxMessageLength int `yaml:"max_message_length"`

	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`
	MinIOUseSSL    bool   `yaml:"minio_use_ssl"`

	LogDir string `yaml:"log_dir"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:                  "8000",
		DBSSLMode:             "disable",
		GeminiModel:           "gemini-2.5-flash",
		GeminiTemperature:     0.3,
		GeminiMaxOutputTokens: 300,
		GeminiTimeout:         30 * time.Second,
		MaxLayers:             100,
		MaxMessageLength:      500,
		MinIOBucket:           "board-snapshots",
		LogDir:                "./logs",
	}
}

// LoadConfig reads .env (if present), the YAML file named by BOARDAI_CONFIG
// (if set) and then the process environment, later sources winning.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("BOARDAI_CONFIG"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
		}
	}
	applyEnv(&cfg)
	return cfg
}

// LoadFile overlays the YAML document at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)

	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GeminiBaseURL = getEnv("GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.GeminiTemperature = float32(getEnvFloat("GEMINI_TEMPERATURE", float64(cfg.GeminiTemperature)))
	cfg.GeminiMaxOutputTokens = int32(getEnvInt("GEMINI_MAX_OUTPUT_TOKENS", int(cfg.GeminiMaxOutputTokens)))
	cfg.GeminiTimeout = getEnvDuration("GEMINI_TIMEOUT", cfg.GeminiTimeout)

	cfg.MaxLayers = getEnvInt("MAX_LAYERS", cfg.MaxLayers)
	cfg.MaxMessageLength = getEnvInt("MAX_MESSAGE_LENGTH", cfg.MaxMessageLength)

	cfg.MinIOEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinIOEndpoint)
	cfg.MinIOAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinIOAccessKey)
	cfg.MinIOSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinIOSecretKey)
	cfg.MinIOBucket = getEnv("MINIO_BUCKET", cfg.MinIOBucket)
	cfg.MinIOUseSSL = getEnvBool("MINIO_USE_SSL", cfg.MinIOUseSSL)

	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
