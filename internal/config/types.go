package config

import "time"

// identity provider backing the auth gate
type AuthProvider string

const (
	AuthProviderFirebase AuthProvider = "firebase"
	AuthProviderJWT      AuthProvider = "jwt"
)

// backend for the usage quota store
type UsageStoreKind string

const (
	UsageStorePostgres UsageStoreKind = "postgres"
	UsageStoreRedis    UsageStoreKind = "redis"
	UsageStoreMemory   UsageStoreKind = "memory"
)

type Config struct {
	Port        string
	Environment string

	// image generation
	GoogleAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	TransformTimeout time.Duration

	// identity
	AuthProvider               AuthProvider
	FirebaseProjectID          string
	FirebaseCredentialsFile    string
	FirebaseServiceAccountJSON string
	JWTSecret                  string
	AdminUIDs                  []string

	// storage
	UsageStore  UsageStoreKind
	DatabaseURL string
	RedisURL    string

	// http
	FrontendURL    string
	MaxUploadBytes int64
	UploadDir      string
	RateLimit      string

	MaxTransformations int
}

// reports whether the server runs with production hardening
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// reports whether uid may use the admin endpoints
func (c *Config) IsAdmin(uid string) bool {
	for _, admin := range c.AdminUIDs {
		if admin == uid {
			return true
		}
	}

	return false
}

type MonitorFlags struct {
	Endpoint string
	Token    string
	Interval time.Duration
	NoColor  bool
}
