package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

const (
	DefaultMapMyRideAPIURL       = "https://api.mapmyfitness.com"
	DefaultUserTimezone          = "America/Denver"
	DefaultPathFormat            = "gpx"
	DefaultMaxRouteDistanceFt    = 500
	DefaultMaxStartEndDistanceFt = 1000
	DefaultSimplifyTolerance     = 0.0000001
	DefaultIngestConcurrency     = 4
	DefaultNDJSONBatchSize       = 50
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// http
	AllowedOrigins        []string `toml:"allowed_origins"`
	PublicRateLimitPerMin int      `toml:"public_rate_limit_per_min"`
	AdminRateLimitPerMin  int      `toml:"admin_rate_limit_per_min"`
	LayerCacheTTLSeconds  int      `toml:"layer_cache_ttl_seconds"`
	StatsCacheTTLSeconds  int      `toml:"stats_cache_ttl_seconds"`

	// mapmyride api
	MapMyRideAPIURL          string  `toml:"mmr_api_url"`
	MapMyRideRedirectURL     string  `toml:"mmr_redirect_url"`
	MapMyRideRequestsPerSec  float64 `toml:"mmr_requests_per_sec"`
	MapMyRideBreakerFailures uint32  `toml:"mmr_breaker_failures"`

	// ingest
	UserTimezone          string  `toml:"user_timezone"`
	PathFormat            string  `toml:"path_format"`
	MaxRouteDistanceFt    float64 `toml:"max_route_distance_ft"`
	MaxStartEndDistanceFt float64 `toml:"max_start_end_distance_ft"`
	SimplifyTolerance     float64 `toml:"simplify_tolerance"`
	SimplifyDisabled      bool    `toml:"simplify_disabled"`
	IngestConcurrency     int     `toml:"ingest_concurrency"`
	NDJSONBatchSize       int     `toml:"ndjson_batch_size"`
	NDJSONPath            string  `toml:"ndjson_path"`

	// map view
	MapCenterLat float64 `toml:"map_center_lat"`
	MapCenterLon float64 `toml:"map_center_lon"`
	MapZoom      int     `toml:"map_zoom"`

	// backups
	BackupsFolderName string `toml:"backups_folder_name"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found", env)
	}

	return cfg, nil
}

// Load reads the TOML file at path and returns the config of the given env
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MapMyRideAPIURL == "" {
		c.MapMyRideAPIURL = DefaultMapMyRideAPIURL
	}
	if c.UserTimezone == "" {
		c.UserTimezone = DefaultUserTimezone
	}
	if c.PathFormat == "" {
		c.PathFormat = DefaultPathFormat
	}
	if c.MaxRouteDistanceFt <= 0 {
		c.MaxRouteDistanceFt = DefaultMaxRouteDistanceFt
	}
	if c.MaxStartEndDistanceFt <= 0 {
		c.MaxStartEndDistanceFt = DefaultMaxStartEndDistanceFt
	}
	if c.SimplifyTolerance <= 0 {
		c.SimplifyTolerance = DefaultSimplifyTolerance
	}
	if c.IngestConcurrency <= 0 {
		c.IngestConcurrency = DefaultIngestConcurrency
	}
	if c.NDJSONBatchSize <= 0 {
		c.NDJSONBatchSize = DefaultNDJSONBatchSize
	}
	if c.NDJSONPath == "" {
		c.NDJSONPath = "public/workouts.ndjson"
	}
	if c.MapZoom == 0 {
		c.MapZoom = 13
	}
	if c.MapCenterLat == 0 && c.MapCenterLon == 0 {
		c.MapCenterLat = 39.7327258
		c.MapCenterLon = -104.9851469
	}
	if c.LayerCacheTTLSeconds <= 0 {
		c.LayerCacheTTLSeconds = 3600
	}
	if c.StatsCacheTTLSeconds <= 0 {
		c.StatsCacheTTLSeconds = 60
	}
	if c.MapMyRideRequestsPerSec <= 0 {
		c.MapMyRideRequestsPerSec = 5
	}
	if c.MapMyRideBreakerFailures == 0 {
		c.MapMyRideBreakerFailures = 5
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.BackupsFolderName == "" {
		c.BackupsFolderName = "ridesmap-backup"
	}
}

func (c *Config) Validate() error {
	switch c.PathFormat {
	case "gpx", "kml":
	default:
		return fmt.Errorf("unsupported path format: %s", c.PathFormat)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Port < 0 || c.Port > 65535 {
		return errors.New("port out of range")
	}

	return nil
}

// Location returns the user timezone, used for workout ids and titles
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.UserTimezone)
	if err != nil {
		return nil, fmt.Errorf("load user timezone [%s]: %w", c.UserTimezone, err)
	}
	return loc, nil
}
