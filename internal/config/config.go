package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	LogDir      string

	// Persistence backend: "postgres" (durable) or "sqlite" (local).
	StorageBackend string
	DatabaseURL    string
	SQLitePath     string
	TablePrefix    string

	// Content backend: "s3" (durable) or "local" (transient temp dir).
	BlobBackend string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string

	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogDir:      getEnv("LOG_DIR", "logs"),

		StorageBackend: getEnv("STORAGE_BACKEND", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "arquivo.db"),
		TablePrefix:    getTablePrefix(env),

		BlobBackend: getEnv("BLOB_BACKEND", "local"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),

		// Default debug on outside prod.
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
