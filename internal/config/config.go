package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

var ErrConfiguration = errors.New("configuration error")

const (
	StoreMemory    = "memory"
	StoreMongo     = "mongo"
	StoreFirestore = "firestore"
)

type Config struct {
	Port        string
	Environment string

	StoreType                 string
	MongoURI                  string
	MongoDB                   string
	MongoRunsCollection       string
	MongoStatusCollection     string
	FirestoreProjectID        string
	FirestoreRunsCollection   string
	FirestoreStatusCollection string

	UpstreamBaseURL       string
	UpstreamServiceKey    string
	UpstreamTimeout       time.Duration
	UpstreamRatePerSecond float64
	UpstreamBurst         int

	OutboundURL        string
	OutboundAPIKey     string
	OutboundTimeout    time.Duration
	OutboundMaxRetries int

	RelayConcurrency int
	RelayInterval    time.Duration
	RelayNumOfRows   int

	StatsdAddr string
}

// Load reads the environment. Every problem is reported, joined, and wraps
// ErrConfiguration.
func Load() (*Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	floatVar := func(key string, def float64) float64 {
		v, err := getEnvFloat(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		StoreType:                 getEnv("STORE_TYPE", StoreMemory),
		MongoURI:                  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:                   getEnv("MONGO_DB", "procurement"),
		MongoRunsCollection:       getEnv("MONGO_COLLECTION_RUNS", "relay_runs"),
		MongoStatusCollection:     getEnv("MONGO_COLLECTION_STATUS", "relay_status"),
		FirestoreProjectID:        getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreRunsCollection:   getEnv("FIRESTORE_COLLECTION_RUNS", "relay_runs"),
		FirestoreStatusCollection: getEnv("FIRESTORE_COLLECTION_STATUS", "relay_status"),

		UpstreamBaseURL:       getEnv("UPSTREAM_BASE_URL", "https://apis.data.go.kr/1230000"),
		UpstreamServiceKey:    getEnv("UPSTREAM_SERVICE_KEY", ""),
		UpstreamTimeout:       time.Duration(intVar("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,
		UpstreamRatePerSecond: floatVar("UPSTREAM_RATE_PER_SECOND", 0),
		UpstreamBurst:         intVar("UPSTREAM_BURST", 1),

		OutboundURL:        getEnv("OUTBOUND_WEBHOOK_URL", ""),
		OutboundAPIKey:     getEnv("OUTBOUND_API_KEY", ""),
		OutboundTimeout:    time.Duration(intVar("OUTBOUND_TIMEOUT_SECONDS", 30)) * time.Second,
		OutboundMaxRetries: intVar("OUTBOUND_MAX_RETRIES", 0),

		RelayConcurrency: intVar("RELAY_CONCURRENCY", 3),
		RelayInterval:    time.Duration(intVar("RELAY_INTERVAL_SECONDS", 0)) * time.Second,
		RelayNumOfRows:   intVar("RELAY_NUM_OF_ROWS", 10),

		StatsdAddr: getEnv("STATSD_ADDR", ""),
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	if c.OutboundURL == "" {
		errs = append(errs, errors.New("OUTBOUND_WEBHOOK_URL is required"))
	} else if u, err := url.Parse(c.OutboundURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("OUTBOUND_WEBHOOK_URL %q is not an absolute http(s) url", c.OutboundURL))
	}
	if c.UpstreamBaseURL == "" {
		errs = append(errs, errors.New("UPSTREAM_BASE_URL is required"))
	}

	switch c.StoreType {
	case StoreMemory, StoreMongo:
	case StoreFirestore:
		if c.Environment == "production" && c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID is required in production with firestore store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_TYPE %q must be memory, mongo or firestore", c.StoreType))
	}

	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT_SECONDS must be positive"))
	}
	if c.OutboundTimeout <= 0 {
		errs = append(errs, errors.New("OUTBOUND_TIMEOUT_SECONDS must be positive"))
	}
	if c.OutboundMaxRetries < 0 {
		errs = append(errs, errors.New("OUTBOUND_MAX_RETRIES must not be negative"))
	}
	if c.UpstreamRatePerSecond < 0 {
		errs = append(errs, errors.New("UPSTREAM_RATE_PER_SECOND must not be negative"))
	}
	if c.RelayConcurrency < 1 {
		errs = append(errs, errors.New("RELAY_CONCURRENCY must be at least 1"))
	}
	if c.RelayInterval < 0 {
		errs = append(errs, errors.New("RELAY_INTERVAL_SECONDS must not be negative"))
	}
	if c.RelayNumOfRows < 1 {
		errs = append(errs, errors.New("RELAY_NUM_OF_ROWS must be at least 1"))
	}
	return errs
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %q is not a number", key, value)
	}
	return f, nil
}
