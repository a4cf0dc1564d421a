package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
	} `yaml:"logging"`

	Postgres struct {
		URL string `yaml:"url" default:"postgres://localhost:5432/dailymatch"`
	} `yaml:"postgres"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Categorizer struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-haiku-20240307"`
		MaxTokens   int           `yaml:"max_tokens" default:"1024"`
		Temperature float32       `yaml:"temperature" default:"0.1"`
		Timeout     time.Duration `yaml:"timeout" default:"8s"`
		RateLimit   int           `yaml:"rate_limit" default:"30"` // requests per minute
	} `yaml:"categorizer"`

	Picks struct {
		OffsetHours       int           `yaml:"offset_hours" default:"4"`  // fixed UTC+4
		BoundaryHour      int           `yaml:"boundary_hour" default:"4"` // local 04:00 refresh
		RegularSlots      int           `yaml:"regular_slots" default:"5"`
		EarlyAccessWindow time.Duration `yaml:"early_access_window" default:"48h"`
		ScoreConcurrency  int           `yaml:"score_concurrency" default:"8"`
	} `yaml:"picks"`

	Streak struct {
		GraceDays        int `yaml:"grace_days" default:"1"`
		DecayHorizonDays int `yaml:"decay_horizon_days" default:"5"` // missed days until visual reaches zero
	} `yaml:"streak"`

	Ingest struct {
		FuzzySimilarityThreshold float64 `yaml:"fuzzy_similarity_threshold" default:"0.85"`
		FuzzyMaxLengthDelta      float64 `yaml:"fuzzy_max_length_delta" default:"0.30"`
		FeedURL                  string  `yaml:"feed_url"`
		Schedule                 string  `yaml:"schedule" default:"@every 6h"`
		Enabled                  bool    `yaml:"enabled" default:"false"`
	} `yaml:"ingest"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Postgres.URL = "postgres://localhost:5432/dailymatch"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Categorizer.Provider = "claude"
	config.Categorizer.Model = "claude-3-haiku-20240307"
	config.Categorizer.MaxTokens = 1024
	config.Categorizer.Temperature = 0.1
	config.Categorizer.Timeout = 8 * time.Second
	config.Categorizer.RateLimit = 30

	config.Picks.OffsetHours = 4
	config.Picks.BoundaryHour = 4
	config.Picks.RegularSlots = 5
	config.Picks.EarlyAccessWindow = 48 * time.Hour
	config.Picks.ScoreConcurrency = 8

	config.Streak.GraceDays = 1
	config.Streak.DecayHorizonDays = 5

	config.Ingest.FuzzySimilarityThreshold = 0.85
	config.Ingest.FuzzyMaxLengthDelta = 0.30
	config.Ingest.Schedule = "@every 6h"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		c.Postgres.URL = databaseURL
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if apiKey := os.Getenv("CATEGORIZER_API_KEY"); apiKey != "" {
		c.Categorizer.APIKey = apiKey
	}

	if provider := os.Getenv("CATEGORIZER_PROVIDER"); provider != "" {
		c.Categorizer.Provider = provider
	}

	if model := os.Getenv("CATEGORIZER_MODEL"); model != "" {
		c.Categorizer.Model = model
	}

	if timeout := os.Getenv("CATEGORIZER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Categorizer.Timeout = d
		}
	}

	if slots := os.Getenv("PICKS_REGULAR_SLOTS"); slots != "" {
		if n, err := strconv.Atoi(slots); err == nil && n > 0 {
			c.Picks.RegularSlots = n
		}
	}

	if window := os.Getenv("PICKS_EARLY_ACCESS_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			c.Picks.EarlyAccessWindow = d
		}
	}

	if feedURL := os.Getenv("INGEST_FEED_URL"); feedURL != "" {
		c.Ingest.FeedURL = feedURL
	}

	if schedule := os.Getenv("INGEST_SCHEDULE"); schedule != "" {
		c.Ingest.Schedule = schedule
	}

	if enabled := os.Getenv("INGEST_ENABLED"); enabled != "" {
		c.Ingest.Enabled = enabled == "true" || enabled == "1"
	}
}
