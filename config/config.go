// Package config loads and validates application configuration from
// environment variables. Missing or malformed values are collected and
// reported together so a misconfigured deployment fails fast with a single,
// complete error message instead of dying on the first bad variable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/user/turismo-go/apperror"
)

// PoolConfig holds the settings for the PostgreSQL connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret          string        // Secret key for signing JWTs
	AccessTokenTTL     time.Duration // Session token lifetime (24h by default)
	ResetTokenTTL      time.Duration // Password-reset token lifetime (1h by default)
	PasswordBcryptCost int           // Work factor for bcrypt hashing
}

// MailConfig holds SMTP settings for outbound mail (password-reset links).
type MailConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
	// UploadDir is where profile images are written; served under /uploads.
	UploadDir string
	// PublicBaseURL is the frontend origin used to build password-reset links,
	// e.g. "http://localhost:5173".
	PublicBaseURL string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Mail   *MailConfig
	Server *ServerConfig
}

// getRequiredEnv reads a mandatory variable, recording an error when absent.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration parses values like "24h" or "90m".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size within sane bounds.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 5 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 5, clamping to 5", varName, size))
		return 5
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig builds an AppConfig from the environment. All validation errors
// encountered are aggregated into a single returned error.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE", &errors)

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	// Auth. The access token lives for 24 hours, matching the session length
	// the frontend expects; reset tokens are deliberately short-lived.
	jwtSecret := getRequiredEnv("JWT_SECRET", &errors)
	accessTokenTTL := getOptionalEnvDuration("JWT_ACCESS_TOKEN_TTL", 24*time.Hour, &errors)
	resetTokenTTL := getOptionalEnvDuration("RESET_TOKEN_TTL", time.Hour, &errors)
	bcryptCost := getOptionalEnvInt("PASSWORD_BCRYPT_COST", 10, &errors)
	if bcryptCost < 8 || bcryptCost > 14 {
		errors = append(errors, fmt.Sprintf("PASSWORD_BCRYPT_COST (%d) must be between 8 and 14", bcryptCost))
	}

	authConfig := &AuthConfig{
		JWTSecret:          jwtSecret,
		AccessTokenTTL:     accessTokenTTL,
		ResetTokenTTL:      resetTokenTTL,
		PasswordBcryptCost: bcryptCost,
	}

	// Mail
	mailConfig := &MailConfig{
		SMTPHost: getRequiredEnv("SMTP_HOST", &errors),
		SMTPPort: getOptionalEnv("SMTP_PORT", "587"),
		Username: getRequiredEnv("SMTP_USER", &errors),
		Password: getRequiredEnv("SMTP_PASSWORD", &errors),
		From:     getOptionalEnv("SMTP_FROM", "Tourism Portal <no-reply@localhost>"),
	}

	// Server
	serverConfig := &ServerConfig{
		Port:          getOptionalEnv("PORT", "3001"),
		UploadDir:     getOptionalEnv("UPLOAD_DIR", "./public/uploads"),
		PublicBaseURL: getOptionalEnv("PUBLIC_BASE_URL", "http://localhost:5173"),
	}

	if len(errors) > 0 {
		return nil, apperror.NewConfigError(
			fmt.Sprintf("configuration errors:\n- %s", strings.Join(errors, "\n- ")), nil)
	}

	return &AppConfig{
		DB:     dbConfig,
		Auth:   authConfig,
		Mail:   mailConfig,
		Server: serverConfig,
	}, nil
}
