package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	MongoURI       string
	RedisURI       string
	JWTSecret      string
	JWTExpiry      time.Duration
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Environment    string   // ENV: production, development, etc.

	// AI backends. Presence of the key decides once, at startup, whether an
	// adapter makes real network calls or runs in fallback-only mode.
	HFAPIKey     string
	HFEndpoint   string
	OpenAIAPIKey string
	OpenAIModel  string

	// SMTP for password reset mail. Optional; reset URLs are logged when unset.
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	// CORS: allow multiple origins so the production frontend works
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	jwtExpiry := 7 * 24 * time.Hour
	if raw := getEnv("JWT_EXPIRES_IN", ""); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			jwtExpiry = d
		}
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/solace")),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiry:      jwtExpiry,
		Environment:    env,
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,

		HFAPIKey:     getEnv("HF_API_KEY", ""),
		HFEndpoint:   getEnv("HF_EMOTION_ENDPOINT", "https://api-inference.huggingface.co/models/bhadresh-savani/distilbert-base-uncased-emotion"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		SMTPHost: getEnv("EMAIL_HOST", ""),
		SMTPPort: getEnv("EMAIL_PORT", "587"),
		SMTPUser: getEnv("EMAIL_USERNAME", ""),
		SMTPPass: getEnv("EMAIL_PASSWORD", ""),
		MailFrom: getEnv("EMAIL_FROM_ADDRESS", "no-reply@solacejournal.app"),
	}
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

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
