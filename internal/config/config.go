package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the sitetrainer server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Crawler  CrawlerConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type CrawlerConfig struct {
	MaxPages      int           // default page budget when the request omits one
	MaxDepth      int           // default depth budget
	PageTimeout   time.Duration // per-page fetch timeout
	CrawlTimeout  time.Duration // wall-clock ceiling for a whole crawl
	FetchInterval time.Duration // minimum spacing between outbound fetches
}

type LLMConfig struct {
	Provider    string // openai | mock
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	OpenAI      OpenAIConfig
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

var validProviders = map[string]bool{
	"openai": true,
	"mock":   true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("SITETRAINER_PORT", 8080),
			Env:  envString("SITETRAINER_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Crawler: CrawlerConfig{
			MaxPages:      envInt("CRAWLER_MAX_PAGES", 20),
			MaxDepth:      envInt("CRAWLER_MAX_DEPTH", 2),
			PageTimeout:   envDuration("CRAWLER_PAGE_TIMEOUT", 20*time.Second),
			CrawlTimeout:  envDuration("CRAWLER_CRAWL_TIMEOUT", 180*time.Second),
			FetchInterval: envDuration("CRAWLER_FETCH_INTERVAL", 250*time.Millisecond),
		},
		LLM: LLMConfig{
			Provider:    os.Getenv("LLM_PROVIDER"),
			Model:       envString("LLM_MODEL", "gpt-4o-mini"),
			Temperature: envFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:   envInt("LLM_MAX_TOKENS", 4096),
			Timeout:     envDurationSecs("LLM_TIMEOUT_SECS", 120*time.Second),
			OpenAI: OpenAIConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				BaseURL: envString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.LLM.Provider == "" {
		return fmt.Errorf("LLM_PROVIDER is required")
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("LLM_PROVIDER must be one of openai, mock; got %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" && c.LLM.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is openai")
	}

	if c.Crawler.MaxPages <= 0 {
		return fmt.Errorf("CRAWLER_MAX_PAGES must be positive, got %d", c.Crawler.MaxPages)
	}
	if c.Crawler.MaxDepth < 0 {
		return fmt.Errorf("CRAWLER_MAX_DEPTH must not be negative, got %d", c.Crawler.MaxDepth)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
