package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// ESPN scoreboard feed
	ESPNBaseURL string        `envconfig:"ESPN_BASE_URL" default:"https://site.api.espn.com/apis/site/v2/sports"`
	ESPNTimeout time.Duration `envconfig:"ESPN_TIMEOUT" default:"15s"`

	// Sports scanned each run; soccer is expanded per configured league
	Sports        []string `envconfig:"SPORTS" default:"nfl,nba"`
	SoccerLeagues []string `envconfig:"SOCCER_LEAGUES" default:"premier-league"`

	// Rating service (DeepSeek chat completions)
	DeepSeekAPIKey      string        `envconfig:"DEEPSEEK_API_KEY" default:""`
	DeepSeekBaseURL     string        `envconfig:"DEEPSEEK_BASE_URL" default:"https://api.deepseek.com"`
	DeepSeekModel       string        `envconfig:"DEEPSEEK_MODEL" default:"deepseek-chat"`
	DeepSeekTemperature float64       `envconfig:"DEEPSEEK_TEMPERATURE" default:"0.3"`
	DeepSeekTimeout     time.Duration `envconfig:"DEEPSEEK_TIMEOUT" default:"60s"`

	// Pipeline behavior
	RatingSource       string        `envconfig:"RATING_SOURCE" default:"live"`
	RatingCallDelay    time.Duration `envconfig:"RATING_CALL_DELAY" default:"1s"`
	WindowDays         int           `envconfig:"WINDOW_DAYS" default:"2"`
	IncrementalEnabled bool          `envconfig:"INCREMENTAL_ENABLED" default:"false"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"spoilerfree"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"spoilerfree_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Caching TTL (in seconds)
	CacheTTLGames int `envconfig:"CACHE_TTL_GAMES" default:"300"` // 5 minutes

	// Trigger authentication
	AdminPassword string `envconfig:"ADMIN_PASSWORD" required:"true"`
	CronSecret    string `envconfig:"CRON_SECRET" required:"true"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	AnalysisCron    string `envconfig:"ANALYSIS_CRON" default:"0 6 * * *"`
	RunOnStartup    bool   `envconfig:"RUN_ON_STARTUP" default:"false"`

	// HTTP server
	ServerPort       int      `envconfig:"SERVER_PORT" default:"8080"`
	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`

	// Monitoring
	EnableMetrics     bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort       int  `envconfig:"METRICS_PORT" default:"9090"`
	EnableDiagnostics bool `envconfig:"ENABLE_DIAGNOSTICS" default:"false"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.RatingSource {
	case "live":
		if c.DeepSeekAPIKey == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY is required when RATING_SOURCE is live")
		}
	case "fallback-only":
	default:
		return fmt.Errorf("RATING_SOURCE must be live or fallback-only, got %q", c.RatingSource)
	}

	if c.WindowDays < 1 {
		return fmt.Errorf("WINDOW_DAYS must be at least 1")
	}

	if len(c.Sports) == 0 {
		return fmt.Errorf("SPORTS must list at least one sport")
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
