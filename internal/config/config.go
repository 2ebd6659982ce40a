package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	StaticDir string
}

// Load reads configuration from the environment, picking up a .env file when
// one is present.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:      getEnv("PORT", "3000"),
		StaticDir: getEnv("STATIC_DIR", "public"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
