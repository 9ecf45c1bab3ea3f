package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	BotToken        string
	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	MongoURI        string
	DatabaseName    string
	RedisURI        string
	Port            string
	Environment     string // ENV: production, development, etc.
	LogLevel        string
	AllowedOrigins  []string // CORS allow-list, from ALLOWED_ORIGINS
	TrustProxy      bool     // take client IP from X-Forwarded-For (behind a reverse proxy only)
	StaticPrefix    string   // public prefix for photo URLs, e.g. api/static
	TelegramAuthAge time.Duration
	AllowedHost     string // production Host header check, empty disables it

	// Photo storage
	StorageType         string // "local" or "cloudinary"
	PhotoDir            string
	PhotoSweepSchedule  string // cron spec for removing stale temp photo files
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// requiredKeys must be present at process start.
var requiredKeys = []string{
	"BOT_TOKEN",
	"JWT_SECRET",
	"ALGORITHM",
	"ACCESS_TOKEN_EXPIRE_MINUTES",
	"MONGODB_URI",
	"DATABASE_NAME",
}

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// Load reads configuration from the environment. Missing required values,
// malformed numbers and unsupported options are reported together.
func Load() (*Config, error) {
	var problems []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			problems = append(problems, key+" is required")
		}
	}

	ttlMinutes := 0
	if raw := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			problems = append(problems, "ACCESS_TOKEN_EXPIRE_MINUTES must be a positive integer")
		}
		ttlMinutes = n
	}

	alg := strings.ToUpper(strings.TrimSpace(os.Getenv("ALGORITHM")))
	if alg != "" && !supportedAlgorithms[alg] {
		problems = append(problems, fmt.Sprintf("ALGORITHM %q is not supported (use HS256, HS384 or HS512)", alg))
	}

	authAge, err := time.ParseDuration(getEnv("TELEGRAM_AUTH_MAX_AGE", "0s"))
	if err != nil || authAge < 0 {
		problems = append(problems, "TELEGRAM_AUTH_MAX_AGE must be a non-negative duration (e.g. 24h)")
	}

	storageType := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_TYPE", "local")))
	switch storageType {
	case "local":
	case "cloudinary":
		if getEnv("CLOUDINARY_CLOUD_NAME", "") == "" || getEnv("CLOUDINARY_API_KEY", "") == "" || getEnv("CLOUDINARY_API_SECRET", "") == "" {
			problems = append(problems, "STORAGE_TYPE=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_TYPE %q is not supported (use local or cloudinary)", storageType))
	}

	sweepSchedule := getEnv("PHOTO_SWEEP_SCHEDULE", "@hourly")
	if _, err := cron.ParseStandard(sweepSchedule); err != nil {
		problems = append(problems, fmt.Sprintf("PHOTO_SWEEP_SCHEDULE %q is not a valid cron spec", sweepSchedule))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}

	return &Config{
		BotToken:            strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTAlgorithm:        alg,
		AccessTokenTTL:      time.Duration(ttlMinutes) * time.Minute,
		MongoURI:            strings.TrimSpace(os.Getenv("MONGODB_URI")),
		DatabaseName:        strings.TrimSpace(os.Getenv("DATABASE_NAME")),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:                getEnv("PORT", "8080"),
		Environment:         strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins:      allowedOrigins,
		TrustProxy:          parseBool(getEnv("TRUST_PROXY", "false")),
		StaticPrefix:        strings.TrimSuffix(getEnv("STATIC_PREFIX", "api/static"), "/"),
		TelegramAuthAge:     authAge,
		AllowedHost:         getEnv("ALLOWED_HOST", ""),
		StorageType:         storageType,
		PhotoDir:            getEnv("PHOTO_DIR", "./data/images"),
		PhotoSweepSchedule:  sweepSchedule,
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "hub-photos"),
	}, nil
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
