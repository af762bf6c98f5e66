package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StateBackendFile   = "file"
	StateBackendRedis  = "redis"
	StateBackendMemory = "memory"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	LocalMode bool

	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	WhatsAppAPIVersion    string
	WhatsAppAPIURL        string
	WhatsAppVerifyToken   string
	WhatsAppAppSecret     string

	AdminWhitelist []string
	TestNumbers    []string

	StateBackend  string
	StateFile     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DraftsDBPath string
	S3Bucket     string
	S3Region     string
}

// Load reads the environment (and a .env file when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LocalMode: getEnvBool("LOCAL_MODE", false),

		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAPIVersion:    getEnv("WHATSAPP_API_VERSION", "v18.0"),
		WhatsAppAPIURL:        getEnv("WHATSAPP_API_URL", "https://graph.facebook.com"),
		WhatsAppVerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppAppSecret:     getEnv("WHATSAPP_APP_SECRET", ""),

		AdminWhitelist: getEnvList("ADMIN_WHITELIST", []string{"5493794281273"}),
		TestNumbers:    getEnvList("TEST_NUMBERS", nil),

		StateBackend:  strings.ToLower(getEnv("STATE_BACKEND", StateBackendFile)),
		StateFile:     getEnv("STATE_FILE", "data/conversations_state.json"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DraftsDBPath: getEnv("DRAFTS_DB_PATH", "data/nordia.db"),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3Region:     getEnv("S3_REGION", "us-east-1"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StateBackend {
	case StateBackendFile, StateBackendRedis, StateBackendMemory:
	default:
		return fmt.Errorf("invalid STATE_BACKEND %q: must be file, redis or memory", c.StateBackend)
	}

	if c.StateBackend == StateBackendFile && c.StateFile == "" {
		return fmt.Errorf("STATE_FILE is required when STATE_BACKEND is file")
	}

	if c.WhatsAppToken != "" && c.WhatsAppPhoneNumberID == "" {
		return fmt.Errorf("WHATSAPP_PHONE_NUMBER_ID is required when WHATSAPP_TOKEN is set")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
