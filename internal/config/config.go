// Package config loads runtime settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	LLMOpenAI    = "openai"
	LLMAnthropic = "anthropic"
	LLMGemini    = "gemini"

	NewsFMP          = "fmp"
	NewsFinnhub      = "finnhub"
	NewsAlphaVantage = "alphavantage"
	NewsMassive      = "massive"

	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

// PathEnv names the variable holding the YAML config path.
const PathEnv = "VELOCITY_CONFIG"

type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Data    DataConfig    `yaml:"data"`
	Cache   CacheConfig   `yaml:"cache"`
	Sandbox SandboxConfig `yaml:"sandbox"`
	Agents  AgentsConfig  `yaml:"agents"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type LLMConfig struct {
	Provider        string  `yaml:"provider" validate:"oneof=openai anthropic gemini"`
	FastModel       string  `yaml:"fast_model" validate:"required"`
	StrongModel     string  `yaml:"strong_model" validate:"required"`
	Temperature     float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	CodeTemperature float64 `yaml:"code_temperature" validate:"gte=0,lte=2"`
	OpenAIAPIKey    string  `yaml:"openai_api_key"`
	AnthropicAPIKey string  `yaml:"anthropic_api_key"`
	GeminiAPIKey    string  `yaml:"gemini_api_key"`
}

type DataConfig struct {
	FMPAPIKey          string `yaml:"fmp_api_key"`
	SECUserAgent       string `yaml:"sec_user_agent" validate:"required"`
	NewsProvider       string `yaml:"news_provider" validate:"oneof=fmp finnhub alphavantage massive"`
	FinnhubAPIKey      string `yaml:"finnhub_api_key"`
	AlphaVantageAPIKey string `yaml:"alpha_vantage_api_key"`
	MassiveAPIKey      string `yaml:"massive_api_key"`
}

type CacheConfig struct {
	Backend     string        `yaml:"backend" validate:"oneof=sqlite postgres redis"`
	Dir         string        `yaml:"dir" validate:"required_if=Backend sqlite"`
	DatabaseURL string        `yaml:"database_url" validate:"required_if=Backend postgres"`
	RedisURL    string        `yaml:"redis_url" validate:"required_if=Backend redis"`
	Expiry      time.Duration `yaml:"expiry" validate:"gt=0"`
}

type SandboxConfig struct {
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	// Binary is the velocity executable that interprets programs. Empty
	// means the running executable.
	Binary string `yaml:"binary"`
}

type AgentsConfig struct {
	FilingCount     int `yaml:"filing_count" validate:"gte=1"`
	CodeCount       int `yaml:"code_count" validate:"gte=1"`
	NewsCount       int `yaml:"news_count" validate:"gte=1"`
	TranscriptCount int `yaml:"transcript_count" validate:"gte=1"`
}

type ServerConfig struct {
	Port        int    `yaml:"port" validate:"gte=1,lte=65535"`
	FrontendURL string `yaml:"frontend_url"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:        LLMOpenAI,
			FastModel:       "gpt-4o-mini",
			StrongModel:     "gpt-4o",
			Temperature:     0.7,
			CodeTemperature: 0.2,
		},
		Data: DataConfig{
			SECUserAgent: "velocity research@example.com",
			NewsProvider: NewsFMP,
		},
		Cache: CacheConfig{
			Backend: CacheSQLite,
			Dir:     "cache",
			Expiry:  300 * time.Minute,
		},
		Sandbox: SandboxConfig{Timeout: 90 * time.Second},
		Agents: AgentsConfig{
			FilingCount:     10,
			CodeCount:       10,
			NewsCount:       10,
			TranscriptCount: 10,
		},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a .env file when present and then resolves the config like
// FromEnv.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv resolves defaults, then the YAML file named by VELOCITY_CONFIG,
// then environment overrides, and validates the result. It never reads .env,
// so a process started with a filtered environment sees only that.
func FromEnv() (Config, error) {
	cfg := Default()

	if path := os.Getenv(PathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")

	setString(&c.Data.FMPAPIKey, "FMP_API_KEY")
	setString(&c.Data.SECUserAgent, "SEC_USER_AGENT")
	setString(&c.Data.NewsProvider, "NEWS_PROVIDER")
	setString(&c.Data.FinnhubAPIKey, "FINNHUB_API_KEY")
	setString(&c.Data.AlphaVantageAPIKey, "ALPHA_VANTAGE_API_KEY")
	setString(&c.Data.MassiveAPIKey, "MASSIVE_API_KEY")

	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.Dir, "CACHE_DIR")
	setString(&c.Cache.DatabaseURL, "DATABASE_URL")
	setString(&c.Cache.RedisURL, "REDIS_URL")

	setString(&c.Sandbox.Binary, "VELOCITY_BIN")

	setString(&c.Server.FrontendURL, "FRONTEND_URL")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("SANDBOX_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SANDBOX_TIMEOUT: %w", err)
		}
		c.Sandbox.Timeout = d
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}

	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	c.Data.NewsProvider = strings.ToLower(c.Data.NewsProvider)
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	c.Log.Level = strings.ToLower(c.Log.Level)
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LLMAPIKey returns the key for the configured text-generation provider.
func (c *Config) LLMAPIKey() string {
	switch c.LLM.Provider {
	case LLMAnthropic:
		return c.LLM.AnthropicAPIKey
	case LLMGemini:
		return c.LLM.GeminiAPIKey
	default:
		return c.LLM.OpenAIAPIKey
	}
}

// SlogLevel maps Log.Level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
