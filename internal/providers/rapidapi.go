package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/travelsearch/internal/ratelimit"
)

const (
	defaultBaseURL = "https://sky-scrapper.p.rapidapi.com"
	defaultHost    = "sky-scrapper.p.rapidapi.com"
	maxErrorBody   = 512
)

type ClientConfig struct {
	BaseURL     string
	APIKey      string
	APIHost     string
	Locale      string
	Market      string
	Currency    string
	CountryCode string
	Timeout     time.Duration
	Limiter     *ratelimit.EndpointLimiter
	HTTPClient  *http.Client
	Logger      logrus.FieldLogger
}

// RapidAPIClient talks to the flight and hotel aggregator API. It implements
// both FlightProvider and HotelProvider.
type RapidAPIClient struct {
	cfg    ClientConfig
	http   *http.Client
	log    logrus.FieldLogger
	limits *ratelimit.EndpointLimiter
}

func NewRapidAPIClient(cfg ClientConfig) *RapidAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIHost == "" {
		cfg.APIHost = defaultHost
	}
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}
	if cfg.Market == "" {
		cfg.Market = "en-US"
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "US"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	limits := cfg.Limiter
	if limits == nil {
		limits = ratelimit.New(EndpointLimits(ratelimit.DefaultConfig().Default, SuggestLimit, SearchLimit))
	}

	return &RapidAPIClient{
		cfg:    cfg,
		http:   httpClient,
		log:    logger.WithField("component", "rapidapi"),
		limits: limits,
	}
}

// Per-endpoint buckets: suggestion lookups fire on most keystrokes, full
// searches are expensive upstream.
var (
	SuggestLimit = ratelimit.Limit{RequestsPerSecond: 10, Burst: 20}
	SearchLimit  = ratelimit.Limit{RequestsPerSecond: 2, Burst: 4}
)

// EndpointLimits maps every endpoint to its bucket. Detail and map calls
// share base.
func EndpointLimits(base, suggest, search ratelimit.Limit) ratelimit.Config {
	return ratelimit.Config{
		Default: base,
		Endpoints: map[string]ratelimit.Limit{
			EndpointSearchAirport:      suggest,
			EndpointSearchDestinations: suggest,
			EndpointSearchFlights:      search,
			EndpointSearchHotels:       search,
		},
	}
}

// envelope is the wrapper every endpoint responds with.
type envelope struct {
	Status  *bool           `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) message() string {
	if len(e.Message) == 0 {
		return "upstream reported failure"
	}
	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil && s != "" {
		return s
	}
	return string(e.Message)
}

// get performs a GET against path and decodes the envelope's data into dest.
func (c *RapidAPIClient) get(ctx context.Context, endpoint, path string, params url.Values, dest any) error {
	if err := c.limits.Wait(ctx, endpoint); err != nil {
		return err
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", c.cfg.APIHost)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return NewProviderError(endpoint, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewProviderError(endpoint, 0, err)
	}

	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("upstream call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := bytes.TrimSpace(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return NewProviderError(endpoint, resp.StatusCode, fmt.Errorf("%s", snippet))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &ParseError{Endpoint: endpoint, Reason: "invalid JSON", Err: err}
	}
	if env.Status != nil && !*env.Status {
		return NewProviderError(endpoint, resp.StatusCode, errors.New(env.message()))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &ParseError{Endpoint: endpoint, Reason: "missing data"}
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return &ParseError{Endpoint: endpoint, Reason: "unexpected data shape", Err: err}
	}

	return nil
}
