package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string `envconfig:"DISCORD_BOT_TOKEN" required:"true"`

	// Riot API
	RiotAPIKey   string `envconfig:"RIOT_API_KEY" required:"true"`
	RegionalHost string `envconfig:"RIOT_REGIONAL_HOST" default:"https://europe.api.riotgames.com"`
	PlatformHost string `envconfig:"RIOT_PLATFORM_HOST" default:"https://euw1.api.riotgames.com"`
	// Prefix used to build match IDs from live game IDs (EUW1_12345)
	PlatformPrefix string `envconfig:"RIOT_PLATFORM_PREFIX" default:"EUW1"`

	// Rate limiting; defaults match the Riot development key limit
	RateLimitRequests      int `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindowSeconds int `envconfig:"RATE_LIMIT_WINDOW_SECONDS" default:"120"`

	// Data directory for the JSON stores
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// Polling cadences
	FastPollSeconds    int `envconfig:"FAST_POLL_SECONDS" default:"30"`
	ResolvePollSeconds int `envconfig:"RESOLVE_POLL_SECONDS" default:"60"`
	DailyDigestHour    int `envconfig:"DAILY_DIGEST_HOUR" default:"8"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.FastPollSeconds <= 0 {
		return nil, fmt.Errorf("FAST_POLL_SECONDS must be positive")
	}
	if cfg.ResolvePollSeconds <= 0 {
		return nil, fmt.Errorf("RESOLVE_POLL_SECONDS must be positive")
	}
	if cfg.DailyDigestHour < 0 || cfg.DailyDigestHour > 23 {
		return nil, fmt.Errorf("DAILY_DIGEST_HOUR must be between 0 and 23")
	}
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindowSeconds <= 0 {
		return nil, fmt.Errorf("rate limit settings must be positive")
	}

	return &cfg, nil
}
