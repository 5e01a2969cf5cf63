package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port string

	RapidAPIKey     string
	RapidAPIHost    string
	RapidAPIBaseURL string
	Locale          string
	Market          string
	Currency        string
	CountryCode     string
	UpstreamTimeout time.Duration
	MaxRetries      int
	RateLimit       float64
	RateBurst       int
	SuggestRate     float64
	SuggestBurst    int
	SearchRate      float64
	SearchBurst     int

	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	RedisTTL     time.Duration

	Debounce      time.Duration
	SuggestionTTL time.Duration
	CooldownTTL   time.Duration
	StreamIdleTTL time.Duration
	SessionTTL    time.Duration

	PriceWeight    float64
	DurationWeight float64

	DefaultLatitude  float64
	DefaultLongitude float64

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, is loaded first without overriding set variables.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not read .env file")
	}

	return Config{
		Port: getEnv("PORT", "8080"),

		RapidAPIKey:     getEnv("RAPIDAPI_KEY", ""),
		RapidAPIHost:    getEnv("RAPIDAPI_HOST", "sky-scrapper.p.rapidapi.com"),
		RapidAPIBaseURL: getEnv("RAPIDAPI_BASE_URL", "https://sky-scrapper.p.rapidapi.com"),
		Locale:          getEnv("LOCALE", "en-US"),
		Market:          getEnv("MARKET", "en-US"),
		Currency:        getEnv("CURRENCY", "USD"),
		CountryCode:     getEnv("COUNTRY_CODE", "US"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 20*time.Second),
		MaxRetries:      getEnvInt("UPSTREAM_MAX_RETRIES", 2),
		RateLimit:       getEnvFloat("UPSTREAM_RATE_LIMIT", 5),
		RateBurst:       getEnvInt("UPSTREAM_RATE_BURST", 10),
		SuggestRate:     getEnvFloat("UPSTREAM_SUGGEST_RATE_LIMIT", 10),
		SuggestBurst:    getEnvInt("UPSTREAM_SUGGEST_RATE_BURST", 20),
		SearchRate:      getEnvFloat("UPSTREAM_SEARCH_RATE_LIMIT", 2),
		SearchBurst:     getEnvInt("UPSTREAM_SEARCH_RATE_BURST", 4),

		CacheEnabled: getEnvBool("CACHE_ENABLED", true),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		RedisTTL:     getEnvDuration("REDIS_TTL", 5*time.Minute),

		Debounce:      getEnvDuration("AUTOCOMPLETE_DEBOUNCE", 350*time.Millisecond),
		SuggestionTTL: getEnvDuration("AUTOCOMPLETE_CACHE_TTL", 5*time.Minute),
		CooldownTTL:   getEnvDuration("AUTOCOMPLETE_COOLDOWN", 10*time.Second),
		StreamIdleTTL: getEnvDuration("AUTOCOMPLETE_IDLE_TTL", 10*time.Minute),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*time.Minute),

		PriceWeight:    getEnvFloat("BEST_PRICE_WEIGHT", 0.7),
		DurationWeight: getEnvFloat("BEST_DURATION_WEIGHT", 0.3),

		DefaultLatitude:  getEnvFloat("DEFAULT_LATITUDE", 40.7128),
		DefaultLongitude: getEnvFloat("DEFAULT_LONGITUDE", -74.0060),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// NewLogger builds the process logger from the log level and format settings.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
