package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort               = "5000"
	defaultGeminiModel        = "gemini-2.5-flash-image-preview"
	defaultGeminiBaseURL      = "https://generativelanguage.googleapis.com"
	defaultTransformTimeout   = 60 * time.Second
	defaultMaxUploadBytes     = 10 * 1024 * 1024
	defaultMaxTransformations = 6
	defaultRateLimit          = "30-M"
)

// loads configuration from environment variables (and .env when present)
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // production environments may not have a .env file
	}

	return FromLookup(os.Getenv)
}

// builds a Config from an arbitrary lookup function
func FromLookup(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                       getenv("PORT"),
		Environment:                getenv("ENVIRONMENT"),
		GoogleAPIKey:               getenv("GOOGLE_API_KEY"),
		GeminiModel:                getenv("GEMINI_MODEL"),
		GeminiBaseURL:              getenv("GEMINI_BASE_URL"),
		AuthProvider:               AuthProvider(strings.ToLower(getenv("AUTH_PROVIDER"))),
		FirebaseProjectID:          getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile:    getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirebaseServiceAccountJSON: getenv("FIREBASE_SERVICE_ACCOUNT_KEY"),
		JWTSecret:                  getenv("JWT_SECRET"),
		AdminUIDs:                  splitList(getenv("ADMIN_UIDS")),
		UsageStore:                 UsageStoreKind(strings.ToLower(getenv("USAGE_STORE"))),
		DatabaseURL:                getenv("DATABASE_URL"),
		RedisURL:                   getenv("REDIS_URL"),
		FrontendURL:                getenv("FRONTEND_URL"),
		UploadDir:                  getenv("UPLOAD_DIR"),
		RateLimit:                  getenv("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultGeminiModel
	}

	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = defaultGeminiBaseURL
	}

	if cfg.AuthProvider == "" {
		cfg.AuthProvider = AuthProviderFirebase
	}

	if cfg.UsageStore == "" {
		cfg.UsageStore = UsageStorePostgres
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = os.TempDir()
	}

	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}

	var err error

	if cfg.TransformTimeout, err = parseDuration(getenv("TRANSFORM_TIMEOUT"), defaultTransformTimeout); err != nil {
		return nil, fmt.Errorf("TRANSFORM_TIMEOUT: %w", err)
	}

	maxUpload, err := parseInt(getenv("MAX_UPLOAD_BYTES"), defaultMaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if cfg.MaxTransformations, err = parseInt(getenv("MAX_TRANSFORMATIONS"), defaultMaxTransformations); err != nil {
		return nil, fmt.Errorf("MAX_TRANSFORMATIONS: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable is required")
	}

	switch c.AuthProvider {
	case AuthProviderFirebase:
		// application default credentials are acceptable, nothing else to check
	case AuthProviderJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET environment variable is required when AUTH_PROVIDER=jwt")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER: %s", c.AuthProvider)
	}

	switch c.UsageStore {
	case UsageStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required when USAGE_STORE=postgres")
		}
	case UsageStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL environment variable is required when USAGE_STORE=redis")
		}
	case UsageStoreMemory:
	default:
		return fmt.Errorf("unsupported USAGE_STORE: %s", c.UsageStore)
	}

	if c.MaxTransformations <= 0 {
		return fmt.Errorf("MAX_TRANSFORMATIONS must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

func parseInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	return time.ParseDuration(raw)
}

func splitList(raw string) []string {
	var out []string

	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
