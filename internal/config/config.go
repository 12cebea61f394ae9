package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds every tunable the service reads from the environment.
type Config struct {
	ProjectID string
	Port      string

	RapidAPIKey  string
	RapidAPIHost string

	// Pipeline tuning. Defaults match the production deployment.
	FetchInterval   time.Duration
	ProviderTimeout time.Duration
	BatchSize       int
	BatchDelay      time.Duration
	PageLimit       int

	// Normalization and filtering.
	AssumedDiscount float64
	MinDiscount     int
	MaxPerBrand     int
	MinPrice        float64
	MaxPrice        float64

	// Retention window for the expiry sweep.
	Retention time.Duration

	// When set, only the priority subset of the catalog is queried
	// per run. Used on plans with tight provider quotas.
	PriorityOnly bool
}

const defaultRapidAPIHost = "real-time-product-search.p.rapidapi.com"

func Load() (*Config, error) {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable is required but not set")
	}

	apiKey := os.Getenv("RAPIDAPI_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RAPIDAPI_KEY environment variable is required but not set")
	}

	apiHost := os.Getenv("RAPIDAPI_HOST")
	if apiHost == "" {
		apiHost = defaultRapidAPIHost
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		slog.Info("Defaulting to port", "port", port)
	}

	cfg := &Config{
		ProjectID:       projectID,
		Port:            port,
		RapidAPIKey:     apiKey,
		RapidAPIHost:    apiHost,
		FetchInterval:   6 * time.Hour,
		ProviderTimeout: 30 * time.Second,
		BatchSize:       10,
		BatchDelay:      time.Second,
		PageLimit:       20,
		AssumedDiscount: 0.23,
		MinDiscount:     10,
		MaxPerBrand:     15,
		MinPrice:        1,
		MaxPrice:        10000,
		Retention:       24 * time.Hour,
	}

	var err error
	if cfg.FetchInterval, err = durationEnv("FETCH_INTERVAL", cfg.FetchInterval); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = durationEnv("PROVIDER_TIMEOUT", cfg.ProviderTimeout); err != nil {
		return nil, err
	}
	if cfg.BatchDelay, err = durationEnv("BATCH_DELAY", cfg.BatchDelay); err != nil {
		return nil, err
	}
	if cfg.Retention, err = durationEnv("DEAL_RETENTION", cfg.Retention); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = intEnv("BATCH_SIZE", cfg.BatchSize); err != nil {
		return nil, err
	}
	if cfg.MinDiscount, err = intEnv("MIN_DISCOUNT", cfg.MinDiscount); err != nil {
		return nil, err
	}
	if cfg.MaxPerBrand, err = intEnv("MAX_PER_BRAND", cfg.MaxPerBrand); err != nil {
		return nil, err
	}

	// The assumed discount applies when the provider supplies no
	// reference price. 0.23 matches the historical 1.3x multiplier
	// family; it is an approximation, hence configurable.
	if v := os.Getenv("ASSUMED_DISCOUNT"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ASSUMED_DISCOUNT %q: %w", v, err)
		}
		if parsed < 0 || parsed >= 1 {
			return nil, fmt.Errorf("ASSUMED_DISCOUNT %v out of range [0, 1)", parsed)
		}
		cfg.AssumedDiscount = parsed
	}

	if v := os.Getenv("PRIORITY_ONLY_BRANDS"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PRIORITY_ONLY_BRANDS %q: %w", v, err)
		}
		cfg.PriorityOnly = parsed
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, parsed)
	}
	return parsed, nil
}
