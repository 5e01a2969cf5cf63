package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/aggregator"
	"github.com/dharmasatrya/travelsearch/internal/autocomplete"
	"github.com/dharmasatrya/travelsearch/internal/cache"
	"github.com/dharmasatrya/travelsearch/internal/config"
	"github.com/dharmasatrya/travelsearch/internal/handler"
	"github.com/dharmasatrya/travelsearch/internal/models"
	"github.com/dharmasatrya/travelsearch/internal/providers"
	"github.com/dharmasatrya/travelsearch/internal/ranking"
	"github.com/dharmasatrya/travelsearch/internal/ratelimit"
	"github.com/dharmasatrya/travelsearch/internal/validation"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	if cfg.RapidAPIKey == "" {
		logger.Warn("RAPIDAPI_KEY is not set; upstream calls will be rejected")
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, handler.HeaderClientID},
	}))

	rateLimiter := ratelimit.New(providers.EndpointLimits(
		ratelimit.Limit{RequestsPerSecond: cfg.RateLimit, Burst: cfg.RateBurst},
		ratelimit.Limit{RequestsPerSecond: cfg.SuggestRate, Burst: cfg.SuggestBurst},
		ratelimit.Limit{RequestsPerSecond: cfg.SearchRate, Burst: cfg.SearchBurst},
	))

	client := providers.NewRapidAPIClient(providers.ClientConfig{
		BaseURL:     cfg.RapidAPIBaseURL,
		APIKey:      cfg.RapidAPIKey,
		APIHost:     cfg.RapidAPIHost,
		Locale:      cfg.Locale,
		Market:      cfg.Market,
		Currency:    cfg.Currency,
		CountryCode: cfg.CountryCode,
		Timeout:     cfg.UpstreamTimeout,
		Limiter:     rateLimiter,
		Logger:      logger,
	})

	var responseCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}
		responseCache = redisCache
		logger.WithFields(logrus.Fields{
			"host": cfg.RedisHost + ":" + cfg.RedisPort,
			"ttl":  cfg.RedisTTL,
		}).Info("Redis cache enabled")
	} else {
		responseCache = cache.NewNoOpCache()
		logger.Info("cache disabled")
	}
	defer responseCache.Close()

	agg := aggregator.NewAggregator(client, client, responseCache, aggregator.Config{
		Timeout:    cfg.UpstreamTimeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelays: []time.Duration{
			200 * time.Millisecond,
			500 * time.Millisecond,
			time.Second,
		},
		DefaultLocation: models.Coordinates{
			Latitude:  cfg.DefaultLatitude,
			Longitude: cfg.DefaultLongitude,
		},
		Logger: logger,
	})

	lookupCfg := autocomplete.LookupConfig{
		CacheTTL: cfg.SuggestionTTL,
		Cooldown: cfg.CooldownTTL,
		Logger:   logger,
	}
	registry := autocomplete.NewRegistry(map[string]*autocomplete.Lookup{
		autocomplete.StreamOrigin:           autocomplete.NewLookup(autocomplete.StreamOrigin, client.SearchAirport, lookupCfg),
		autocomplete.StreamDestination:      autocomplete.NewLookup(autocomplete.StreamDestination, client.SearchAirport, lookupCfg),
		autocomplete.StreamHotelDestination: autocomplete.NewLookup(autocomplete.StreamHotelDestination, client.SearchDestinations, lookupCfg),
	}, cfg.Debounce, cfg.StreamIdleTTL, logger)
	defer registry.Close()

	weights := ranking.DefaultWeights()
	weights.Price = cfg.PriceWeight
	weights.Duration = cfg.DurationWeight

	validator := validation.New(nil)
	opts := handler.Options{
		SessionTTL: cfg.SessionTTL,
		Weights:    weights,
		Logger:     logger,
	}

	e.GET("/health", handler.HealthHandler)
	api := e.Group("/api/v1")
	handler.NewFlightHandler(agg, validator, opts).Register(api)
	handler.NewHotelHandler(agg, validator, opts).Register(api)
	handler.NewSuggestHandler(registry, logger).Register(api)
	api.POST("/passengers", handler.AdjustPassengers)

	go func() {
		logger.WithField("port", cfg.Port).Info("starting travel search server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func requestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
				"request_id": v.RequestID,
			}).Info("request")
			return nil
		},
	})
}
