package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/docintegrity/pdf-forensics-api/internal/analyzer"
)

type Config struct {
	Port         string
	LogLevel     string
	DatabaseFile string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Upload limits
	MaxFileSize int64

	// Result cache TTL in minutes (0 disables caching)
	CacheTTLMinutes int

	// Heuristics
	Analysis analyzer.Config
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseFile:      getEnv("DATABASE_FILE", "data/analyses.db"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "pdf-uploads"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		MaxFileSize:       16 * 1024 * 1024,
		CacheTTLMinutes:   getEnvInt("CACHE_TTL_MINUTES", 30),
		Analysis:          analyzer.DefaultConfig(),
	}

	// Heuristics lists and thresholds can be tuned per deployment.
	if v := getEnvInt("MAX_DATE_DRIFT_DAYS", 0); v > 0 {
		cfg.Analysis.MaxDateDriftDays = v
	}
	if v := getEnvList("REQUIRED_METADATA_FIELDS"); v != nil {
		cfg.Analysis.RequiredFields = v
	}
	if v := getEnvList("TRUSTED_SOFTWARE"); v != nil {
		cfg.Analysis.TrustedSoftware = v
	}
	if v := getEnvList("SUSPICIOUS_SOFTWARE"); v != nil {
		cfg.Analysis.SuspiciousSoftware = v
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
