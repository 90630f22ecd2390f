package config

import (
	"crypto/rsa"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// JWTPublicKey verifies dashboard tokens. JWTPrivateKey is optional and
	// only used to mint service tokens for calls made without a caller token.
	JWTPublicKey  *rsa.PublicKey
	JWTPrivateKey *rsa.PrivateKey

	RedisAddress  string
	RedisPassword string
	SessionTTL    time.Duration

	// DatabaseURL enables the change outbox when set.
	DatabaseURL    string
	AllowedOrigins []string
}

func Load() *Config {
	_ = godotenv.Load()

	upstream := os.Getenv("UPSTREAM_BASE_URL")
	if upstream == "" {
		panic("UPSTREAM_BASE_URL environment variable is required")
	}

	publicKeyPath := getEnv("PUBLIC_KEY_PATH", "/etc/certs/public.pem")
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	var privateKey *rsa.PrivateKey
	if path := os.Getenv("PRIVATE_KEY_PATH"); path != "" {
		privateKey, err = loadPrivateKey(path)
		if err != nil {
			panic("Failed to load private key: " + err.Error())
		}
	}

	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		panic("REDIS_ADDRESS environment variable is required")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		UpstreamBaseURL: upstream,
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		JWTPublicKey:    publicKey,
		JWTPrivateKey:   privateKey,
		RedisAddress:    redisAddr,
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		SessionTTL:      getDuration("SESSION_TTL", 12*time.Hour),
		DatabaseURL:     os.Getenv("DB_CONNECTION_STRING"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic("Invalid duration for " + key + ": " + err.Error())
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(keyData)
}
