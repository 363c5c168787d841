package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv      string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	HTTPAddr    string `yaml:"http_addr" validate:"required"`
	MetricsAddr string `yaml:"metrics_addr"`

	DataSource    string `yaml:"data_source" validate:"oneof=csv mysql"`
	DataDir       string `yaml:"data_dir" validate:"required_if=DataSource csv"`
	TwitterFile   string `yaml:"twitter_file"`
	EcommerceFile string `yaml:"ecommerce_file"`
	RedditFile    string `yaml:"reddit_file"`
	WatchDataDir  bool   `yaml:"watch_data_dir"`

	MySQLDSN string `yaml:"mysql_dsn" validate:"required_if=DataSource mysql"`

	RedisAddr string `yaml:"redis_addr"`
	RedisPass string `yaml:"redis_password"`
	RedisDB   int    `yaml:"redis_db" validate:"gte=0"`

	PolarityBackend  string        `yaml:"polarity_backend" validate:"oneof=vader http"`
	PolarityURL      string        `yaml:"polarity_url" validate:"required_if=PolarityBackend http"`
	PolarityRPS      int           `yaml:"polarity_rps" validate:"gt=0"`
	PolarityCacheTTL time.Duration `yaml:"-"`

	Workers     int      `yaml:"ingest_workers" validate:"gt=0"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// fileConfig mirrors Config for the YAML overlay; durations are in seconds.
type fileConfig struct {
	Config                  `yaml:",inline"`
	PolarityCacheTTLSeconds *int `yaml:"polarity_cache_ttl_seconds"`
}

// Load reads the environment, overlays CONFIG_FILE when set, and validates.
func Load() (Config, error) {
	c := fromEnv()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := overlayFile(&c, path); err != nil {
			return Config{}, err
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	if c.PolarityBackend == "http" && c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty; remote polarity scores will not be cached")
	}
	return c, nil
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:           env("APP_ENV", "prod"),
		LogLevel:         env("LOG_LEVEL", "info"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ""),
		DataSource:       env("DATA_SOURCE", "csv"),
		DataDir:          env("DATA_DIR", "data"),
		TwitterFile:      env("TWITTER_FILE", ""),
		EcommerceFile:    env("ECOMMERCE_FILE", ""),
		RedditFile:       env("REDDIT_FILE", ""),
		WatchDataDir:     envBool("WATCH_DATA_DIR", false),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", ""),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		PolarityBackend:  env("POLARITY_BACKEND", "vader"),
		PolarityURL:      env("POLARITY_URL", ""),
		PolarityRPS:      atoi("POLARITY_RPS", 20),
		PolarityCacheTTL: time.Duration(atoi("POLARITY_CACHE_TTL_SECONDS", 86400)) * time.Second,
		Workers:          atoi("INGEST_WORKERS", 4),
		CORSOrigins:      splitList(env("CORS_ORIGINS", "*")),
	}
}

// overlayFile applies the keys present in the YAML file on top of c.
func overlayFile(c *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	fc := fileConfig{Config: *c}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	*c = fc.Config
	if fc.PolarityCacheTTLSeconds != nil {
		c.PolarityCacheTTL = time.Duration(*fc.PolarityCacheTTLSeconds) * time.Second
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SourceFiles returns the per-origin file overrides.
func (c Config) SourceFiles() map[string]string {
	return map[string]string{
		"twitter":   c.TwitterFile,
		"ecommerce": c.EcommerceFile,
		"reddit":    c.RedditFile,
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
