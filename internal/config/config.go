package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort  string
	LogLevel  string
	LogFormat string
	LogSource bool

	CORSAllowedOrigins []string

	// Storage
	StorageProvider     string // localfs | azureblob | gdrive
	StorageContainer    string
	StorageLocalRoot    string
	AzureStorageAccount string
	AzureStorageKey     string
	GDriveClientID      string
	GDriveClientSecret  string
	GDriveRefreshToken  string
	GDriveFolderID      string

	// Base URL clients use to reach this API; embedded in proxied signed URLs.
	PublicBaseURL    string
	URLSigningSecret string

	// Translator
	TranslatorEndpoint string
	TranslatorKey      string

	// Job store
	JobStore      string // memory | redis | postgres
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Poller
	PollInterval      time.Duration
	PollMaxWait       time.Duration
	PollMaxConcurrent int64

	// SAS lifetimes
	UploadSASTTL    time.Duration
	DownloadSASTTL  time.Duration
	ContainerSASTTL time.Duration

	RenamePrefix string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogSource: getEnvAsBool("LOG_SOURCE", false),

		CORSAllowedOrigins: getEnvAsCSV("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
		}),

		StorageProvider:     getEnv("STORAGE_PROVIDER", "localfs"),
		StorageContainer:    getEnv("STORAGE_CONTAINER", "docs"),
		StorageLocalRoot:    getEnv("STORAGE_LOCAL_ROOT", "/data"),
		AzureStorageAccount: getEnv("AZURE_STORAGE_ACCOUNT", ""),
		AzureStorageKey:     getEnv("AZURE_STORAGE_KEY", ""),
		GDriveClientID:      getEnv("GDRIVE_CLIENT_ID", ""),
		GDriveClientSecret:  getEnv("GDRIVE_CLIENT_SECRET", ""),
		GDriveRefreshToken:  getEnv("GDRIVE_REFRESH_TOKEN", ""),
		GDriveFolderID:      getEnv("GDRIVE_FOLDER_ID", ""),

		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:"+getEnv("HTTP_PORT", "8080")),
		URLSigningSecret: getEnv("URL_SIGNING_SECRET", ""),

		TranslatorEndpoint: getEnv("AZURE_TRANSLATOR_ENDPOINT", ""),
		TranslatorKey:      getEnv("AZURE_TRANSLATOR_KEY", ""),

		JobStore:      getEnv("JOB_STORE", "memory"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		PollInterval:      getEnvAsDuration("POLL_INTERVAL", 5*time.Second),
		PollMaxWait:       getEnvAsDuration("POLL_MAX_WAIT", 2*time.Hour),
		PollMaxConcurrent: int64(getEnvAsInt("POLL_MAX_CONCURRENT", 32)),

		UploadSASTTL:    getEnvAsDuration("UPLOAD_SAS_TTL", time.Hour),
		DownloadSASTTL:  getEnvAsDuration("DOWNLOAD_SAS_TTL", time.Hour),
		ContainerSASTTL: getEnvAsDuration("CONTAINER_SAS_TTL", 2*time.Hour),

		RenamePrefix: getEnv("RENAME_PREFIX", "translated-"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsBool accepts what strconv.ParseBool accepts: 1,t,TRUE,0,f,false...
func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil && value > 0 {
		return value
	}
	return fallback
}

func getEnvAsCSV(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
