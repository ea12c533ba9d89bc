// Package config loads service configuration from an optional YAML file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/ats"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Email    EmailConfig    `mapstructure:"email"`
	ATS      ATSConfig      `mapstructure:"ats"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig configures the ATS score cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	// ChatTopK is how many retrieved passages ground a chat reply.
	ChatTopK int `mapstructure:"chat_top_k"`
}

type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTExpirationHours int           `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int           `mapstructure:"bcrypt_cost"`
	PasswordPepper     string        `mapstructure:"password_pepper"`
	OTPTTL             time.Duration `mapstructure:"otp_ttl"`
}

// EmailConfig configures the SES sender. An empty Sender disables email.
type EmailConfig struct {
	Region string `mapstructure:"region"`
	Sender string `mapstructure:"sender"`
	AppURL string `mapstructure:"app_url"`
}

type ATSConfig struct {
	VocabularyPath string      `mapstructure:"vocabulary_path"`
	FuzzyThreshold float64     `mapstructure:"fuzzy_threshold"`
	Weights        ats.Weights `mapstructure:"weights"`
}

type ScoringConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":               "PORT",
	"database.url":              "DATABASE_URL",
	"redis.addr":                "REDIS_ADDR",
	"redis.password":            "REDIS_PASSWORD",
	"redis.db":                  "REDIS_DB",
	"redis.ttl":                 "REDIS_TTL",
	"log.level":                 "LOG_LEVEL",
	"log.format":                "LOG_FORMAT",
	"gemini.api_key":            "GEMINI_API_KEY",
	"gemini.model":              "GEMINI_MODEL",
	"gemini.embedding_model":    "GEMINI_EMBEDDING_MODEL",
	"gemini.chat_top_k":         "CHAT_TOP_K",
	"auth.jwt_secret":           "JWT_SECRET",
	"auth.jwt_expiration_hours": "JWT_EXPIRATION_HOURS",
	"auth.bcrypt_cost":          "BCRYPT_COST",
	"auth.password_pepper":      "PASSWORD_PEPPER",
	"auth.otp_ttl":              "OTP_TTL",
	"email.region":              "AWS_REGION",
	"email.sender":              "EMAIL_SENDER",
	"email.app_url":             "APP_URL",
	"ats.vocabulary_path":       "ATS_VOCABULARY_PATH",
	"ats.fuzzy_threshold":       "ATS_FUZZY_THRESHOLD",
	"ats.weights.skills":        "ATS_WEIGHT_SKILLS",
	"ats.weights.experience":    "ATS_WEIGHT_EXPERIENCE",
	"ats.weights.title":         "ATS_WEIGHT_TITLE",
	"scoring.concurrency":       "SCORING_CONCURRENCY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.embedding_model", llm.DefaultEmbeddingModel)
	v.SetDefault("gemini.chat_top_k", 6)
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.otp_ttl", 10*time.Minute)
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.app_url", "http://localhost:5173")
	v.SetDefault("ats.fuzzy_threshold", ats.DefaultFuzzyThreshold)
	v.SetDefault("ats.weights.skills", ats.DefaultSkillsWeight)
	v.SetDefault("ats.weights.experience", ats.DefaultExperienceWeight)
	v.SetDefault("ats.weights.title", ats.DefaultTitleWeight)
	v.SetDefault("scoring.concurrency", 4)
}

// Load reads configuration from path (optional, YAML) and the environment.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges. Secrets and connection strings are checked by
// the commands that need them, since `score` runs without a database.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: 'log.level' must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config error: 'log.format' must be json or console, got %q", c.Log.Format)
	}
	if c.Scoring.Concurrency < 1 {
		return fmt.Errorf("config error: 'scoring.concurrency' must be at least 1")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config error: 'redis.ttl' must be non-negative")
	}
	if err := c.ATS.Weights.Validate(); err != nil {
		return err
	}
	if c.ATS.FuzzyThreshold <= 0 || c.ATS.FuzzyThreshold > 1 {
		return fmt.Errorf("config error: 'ats.fuzzy_threshold' must be in (0, 1], got %v", c.ATS.FuzzyThreshold)
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required but not set")
	}
	return nil
}

// EngineOptions builds ATS engine options, loading a vocabulary override
// when one is configured.
func (c *Config) EngineOptions() (ats.Options, error) {
	opts := ats.Options{
		Weights:        c.ATS.Weights,
		FuzzyThreshold: c.ATS.FuzzyThreshold,
	}
	if c.ATS.VocabularyPath != "" {
		vocab, err := ats.LoadVocabulary(c.ATS.VocabularyPath)
		if err != nil {
			return ats.Options{}, err
		}
		opts.Vocabulary = vocab
	}
	return opts, nil
}

// JWT returns the token configuration derived from the auth settings.
func (c *Config) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.Auth.JWTSecret, c.Auth.JWTExpirationHours)
}

// Password returns the hashing configuration derived from the auth settings.
func (c *Config) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.Auth.BcryptCost, c.Auth.PasswordPepper)
}
