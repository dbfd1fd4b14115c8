package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`

	// Comma-separated; empty allows any origin
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	APIBaseURL string        `mapstructure:"FARELINK_API_URL"`
	APITimeout time.Duration `mapstructure:"FARELINK_API_TIMEOUT"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	DraftTTL      time.Duration `mapstructure:"DRAFT_TTL"`

	// Audit database; auditing is off when DB_HOST is empty
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	DBTimezone string `mapstructure:"DB_TIMEZONE"`

	LogFile  string `mapstructure:"LOG_FILE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"SERVER_PORT":          ":8080",
	"JWT_SECRET":           "supersecret",
	"CORS_ORIGINS":         "",
	"FARELINK_API_URL":     "http://localhost:3000/api",
	"FARELINK_API_TIMEOUT": 30 * time.Second,
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"DRAFT_TTL":            2 * time.Hour,
	"DB_HOST":              "",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_PASSWORD":          "password",
	"DB_NAME":              "farelink_admin",
	"DB_SSLMODE":           "disable",
	"DB_TIMEZONE":          "UTC",
	"LOG_FILE":             "./logs/app.log",
	"LOG_LEVEL":            "debug",
}

// Load reads .env (if present) and the environment, falling back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("config: %v, using defaults where unreadable", err)
	}
	return cfg
}
