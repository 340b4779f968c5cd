// Package config loads process configuration from the environment via a
// getEnv/.env idiom, covering the cache, revalidator, and ambient-stack
// settings the flight router needs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/flightrouter/pareto/expand"
	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/pkg/logger"
	"github.com/flightrouter/pareto/pkg/middleware"
	"github.com/flightrouter/pareto/pkg/notify"
	"github.com/flightrouter/pareto/revalidate"
	"github.com/flightrouter/pareto/router"
)

// Config holds all process configuration.
type Config struct {
	Port         string
	Environment  string
	LoggingConfig LoggingConfig

	CacheConfig    graphcache.Config
	BaseWeek       expand.Window
	ExpandOutsideBaseWeek bool
	ReachabilityHops      int

	// EpochDate anchors DepTime/ArrTime (minutes since epoch) to a wall-clock
	// calendar date, so a route segment can be turned into a live revalidation
	// request (which needs an actual departure date and hour-of-day).
	EpochDate time.Time

	PostgresConfig PostgresConfig
	Neo4jConfig    Neo4jConfig
	RedisConfig    RedisConfig

	RevalidatorConfig revalidate.Config
	OfferAPIConfig    OfferAPIConfig

	SchedulerCronSpec  string
	RefreshLockKey     string
	RefreshLockTTL     time.Duration
	RefreshLockRenew   time.Duration

	NTFYConfig      notify.Config
	AdminAuthConfig middleware.AdminAuthConfig
}

// LoggingConfig is a level/format pair feeding pkg/logger.Config.
type LoggingConfig struct {
	Level  string
	Format string
}

// PostgresConfig carries the fields a read-only flight-row provider needs.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Neo4jConfig configures the optional graph-export visualization backend.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
	Enabled  bool
}

// RedisConfig carries the fields response caching and refresh leader
// election need.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OfferAPIConfig configures the revalidator's upstream HTTP client.
type OfferAPIConfig struct {
	BaseURL        string
	BearerToken    string
	APIVersion     string
	RequestTimeout time.Duration
	MaxRetries     int
	BackoffMin     time.Duration
	BackoffMax     time.Duration
}

// Load reads configuration from the environment (and an optional .env
// file), falling back to a default whenever a value is unset. A value that
// fails to parse falls back to its default only for CACHE_TTL, EPOCH_DATE
// and REACHABILITY_HOPS; any other unparsable value is left at its type's
// zero value.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LoggingConfig: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	cacheTTL, _ := time.ParseDuration(getEnv("CACHE_TTL", "15m"))
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	cfg.CacheConfig = graphcache.Config{TTL: cacheTTL}

	baseWeekStart, _ := strconv.ParseInt(getEnv("BASE_WEEK_START_MINUTES", "0"), 10, 64)
	baseWeekEnd, _ := strconv.ParseInt(getEnv("BASE_WEEK_END_MINUTES", strconv.Itoa(7*24*60)), 10, 64)
	cfg.BaseWeek = expand.Window{Start: baseWeekStart, End: baseWeekEnd}

	cfg.ExpandOutsideBaseWeek, _ = strconv.ParseBool(getEnv("EXPAND_OUTSIDE_BASE_WEEK", "true"))

	epochDate, err := time.Parse(time.RFC3339, getEnv("EPOCH_DATE", "2024-01-01T00:00:00Z"))
	if err != nil {
		epochDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	cfg.EpochDate = epochDate

	hops, err := strconv.Atoi(getEnv("REACHABILITY_HOPS", strconv.Itoa(router.DefaultReachabilityHops)))
	if err != nil || hops <= 0 {
		hops = router.DefaultReachabilityHops
	}
	cfg.ReachabilityHops = hops

	cfg.PostgresConfig = PostgresConfig{
		Host:     getEnv("DB_HOST", "postgres"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "router"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "router"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	neo4jEnabled, _ := strconv.ParseBool(getEnv("NEO4J_ENABLED", "false"))
	cfg.Neo4jConfig = Neo4jConfig{
		URI:      getEnv("NEO4J_URI", "bolt://neo4j:7687"),
		User:     getEnv("NEO4J_USER", "neo4j"),
		Password: getEnv("NEO4J_PASSWORD", ""),
		Enabled:  neo4jEnabled,
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cfg.RedisConfig = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	maxConcurrent, _ := strconv.Atoi(getEnv("REVALIDATOR_MAX_CONCURRENT", "5"))
	confirmedThreshold, _ := strconv.ParseFloat(getEnv("REVALIDATOR_CONFIRMED_THRESHOLD_PCT", "5"), 64)
	priceChangedThreshold, _ := strconv.ParseFloat(getEnv("REVALIDATOR_PRICE_CHANGED_THRESHOLD_PCT", "25"), 64)
	minConfidence, _ := strconv.ParseFloat(getEnv("REVALIDATOR_MIN_CONFIDENCE", "30"), 64)
	errorThreshold, _ := strconv.Atoi(getEnv("REVALIDATOR_ERROR_THRESHOLD", "10"))
	errorWindow, _ := time.ParseDuration(getEnv("REVALIDATOR_ERROR_WINDOW", "5m"))

	cfg.RevalidatorConfig = revalidate.Config{
		MaxConcurrent:         maxConcurrent,
		ConfirmedThreshold:    confirmedThreshold,
		PriceChangedThreshold: priceChangedThreshold,
		MinConfidence:         minConfidence,
		Weights:               loadScoringWeights(),
		ErrorThreshold:        errorThreshold,
		ErrorWindow:           errorWindow,
	}

	requestTimeout, _ := time.ParseDuration(getEnv("OFFER_API_REQUEST_TIMEOUT", "10s"))
	maxRetries, _ := strconv.Atoi(getEnv("OFFER_API_MAX_RETRIES", "3"))
	backoffMin, _ := time.ParseDuration(getEnv("OFFER_API_BACKOFF_MIN", "500ms"))
	backoffMax, _ := time.ParseDuration(getEnv("OFFER_API_BACKOFF_MAX", "10s"))

	cfg.OfferAPIConfig = OfferAPIConfig{
		BaseURL:        getEnv("OFFER_API_BASE_URL", ""),
		BearerToken:    getEnv("OFFER_API_BEARER_TOKEN", ""),
		APIVersion:     getEnv("OFFER_API_VERSION", "v1"),
		RequestTimeout: requestTimeout,
		MaxRetries:     maxRetries,
		BackoffMin:     backoffMin,
		BackoffMax:     backoffMax,
	}

	cfg.SchedulerCronSpec = getEnv("REFRESH_CRON_SPEC", "*/15 * * * *")
	cfg.RefreshLockKey = getEnv("REFRESH_LOCK_KEY", "router:refresh:leader")
	cfg.RefreshLockTTL, _ = time.ParseDuration(getEnv("REFRESH_LOCK_TTL", "30s"))
	cfg.RefreshLockRenew, _ = time.ParseDuration(getEnv("REFRESH_LOCK_RENEW", "10s"))

	ntfyEnabled, _ := strconv.ParseBool(getEnv("NTFY_ENABLED", "false"))
	ntfyErrorThreshold, _ := strconv.Atoi(getEnv("NTFY_ERROR_THRESHOLD", "10"))
	ntfyErrorWindow, _ := time.ParseDuration(getEnv("NTFY_ERROR_WINDOW", "5m"))
	cfg.NTFYConfig = notify.Config{
		ServerURL:      getEnv("NTFY_SERVER_URL", "https://ntfy.sh"),
		Topic:          getEnv("NTFY_TOPIC", ""),
		Username:       getEnv("NTFY_USERNAME", ""),
		Password:       getEnv("NTFY_PASSWORD", ""),
		Enabled:        ntfyEnabled,
		ErrorThreshold: ntfyErrorThreshold,
		ErrorWindow:    ntfyErrorWindow,
	}

	adminAuthEnabled, _ := strconv.ParseBool(getEnv("ADMIN_AUTH_ENABLED", "false"))
	cfg.AdminAuthConfig = middleware.AdminAuthConfig{
		Enabled: adminAuthEnabled,
		Token:   getEnv("ADMIN_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// loadScoringWeights reads the revalidator's scoring weights from the
// environment, falling back to revalidate.DefaultScoringWeights for any
// weight left unset.
func loadScoringWeights() revalidate.ScoringWeights {
	d := revalidate.DefaultScoringWeights()
	return revalidate.ScoringWeights{
		NonStopBonus:        getEnvFloat("SCORE_NON_STOP_BONUS", d.NonStopBonus),
		CarrierMatch:        getEnvFloat("SCORE_CARRIER_MATCH", d.CarrierMatch),
		CarrierMismatch:     getEnvFloat("SCORE_CARRIER_MISMATCH", d.CarrierMismatch),
		HourExactMatch:      getEnvFloat("SCORE_HOUR_EXACT_MATCH", d.HourExactMatch),
		HourNearMatch:       getEnvFloat("SCORE_HOUR_NEAR_MATCH", d.HourNearMatch),
		HourMismatch:        getEnvFloat("SCORE_HOUR_MISMATCH", d.HourMismatch),
		PriceCloseMatch:     getEnvFloat("SCORE_PRICE_CLOSE_MATCH", d.PriceCloseMatch),
		PriceFarMatch:       getEnvFloat("SCORE_PRICE_FAR_MATCH", d.PriceFarMatch),
		PriceMismatch:       getEnvFloat("SCORE_PRICE_MISMATCH", d.PriceMismatch),
		PerExtraStopPenalty: getEnvFloat("SCORE_PER_EXTRA_STOP_PENALTY", d.PerExtraStopPenalty),
	}
}

// LoggerConfig converts LoggingConfig to pkg/logger.Config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LoggingConfig.Level, Format: c.LoggingConfig.Format}
}

// TestConfig returns a minimal configuration suitable for unit/integration
// tests.
func TestConfig() *Config {
	return &Config{
		Environment:  "test",
		LoggingConfig: LoggingConfig{Level: "debug", Format: "text"},
		CacheConfig:  graphcache.Config{TTL: time.Minute},
		BaseWeek:     expand.Window{Start: 0, End: 7 * 24 * 60},
		ExpandOutsideBaseWeek: true,
		ReachabilityHops:      router.DefaultReachabilityHops,
		EpochDate:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PostgresConfig: PostgresConfig{
			Host: "localhost", Port: "5432", User: "router", DBName: "router_test", SSLMode: "disable",
		},
		RedisConfig: RedisConfig{Host: "localhost", Port: "6379"},
		RevalidatorConfig: revalidate.Config{
			MaxConcurrent: 2, ConfirmedThreshold: 5, PriceChangedThreshold: 25,
			MinConfidence: 30, Weights: revalidate.DefaultScoringWeights(),
			ErrorThreshold: 10, ErrorWindow: 5 * time.Minute,
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
