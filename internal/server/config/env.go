package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a .env
// file from the working directory first if one exists. Unset variables leave
// the current value untouched.
//
// Recognized variables: ADDRESS, DATABASE_URL, JWT_SECRET, TOKEN_VALIDITY,
// PROBLEM_CACHE_TTL, AGENT_BASE_URL, S3_ROOT_USER, S3_ROOT_PASSWORD,
// S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT. Durations use time.ParseDuration
// syntax ("24h", "90m"); unparsable values are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_URL", &config.DatabaseDSN)
	setString("JWT_SECRET", &config.SecretKey)
	setDuration("TOKEN_VALIDITY", &config.TokenValidityDuration)
	setDuration("PROBLEM_CACHE_TTL", &config.ProblemCacheTTL)
	setString("AGENT_BASE_URL", &config.AgentBaseURL)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
