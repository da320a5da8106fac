package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables. A .env file in
// the working directory is loaded first when present; real environment
// variables take precedence over it (godotenv does not overwrite).
//
// Recognized variables:
//
//	ADDRESS                 HTTP bind address, e.g. ":8000"
//	DATABASE_DSN            PostgreSQL DSN
//	SECRET_KEY              JWT HMAC secret
//	ACCESS_TOKEN_EXPIRE_MINUTES  token lifetime in minutes
//	BCRYPT_COST             bcrypt work factor
//	DEFAULT_PAGE_SIZE / MAX_PAGE_SIZE
//	MIN_PASSWORD_LENGTH
//	REQUIRE_UPPERCASE / REQUIRE_LOWERCASE / REQUIRE_DIGIT / REQUIRE_SPECIAL
//	CORS_ORIGINS            comma-separated origin list
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = cost
		}
	}
	if v := os.Getenv("DEFAULT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.DefaultPageSize = n
		}
	}
	if v := os.Getenv("MAX_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.MaxPageSize = n
		}
	}
	if v := os.Getenv("MIN_PASSWORD_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.MinPasswordLength = n
		}
	}
	if v := os.Getenv("REQUIRE_UPPERCASE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RequireUppercase = b
		}
	}
	if v := os.Getenv("REQUIRE_LOWERCASE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RequireLowercase = b
		}
	}
	if v := os.Getenv("REQUIRE_DIGIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RequireDigit = b
		}
	}
	if v := os.Getenv("REQUIRE_SPECIAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RequireSpecial = b
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.CORSOrigins = v
	}
}
