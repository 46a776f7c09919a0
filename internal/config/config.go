package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/ratelimit"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/security"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/stream"
)

// Config is the service configuration
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	LogLevel  string                  `yaml:"log_level"`
	DataDir   string                  `yaml:"data_dir"`
	Redis     RedisConfig             `yaml:"redis"`
	RateLimit ratelimit.Config        `yaml:"rate_limit"`
	Cache     CacheConfig             `yaml:"cache"`
	Security  security.SecurityConfig `yaml:"security"`
	Kafka     stream.Config           `yaml:"kafka"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	EnableProfiling bool          `yaml:"enable_profiling"`
}

// RedisConfig holds the rate limiter backend
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig holds the response and report cache TTLs
type CacheConfig struct {
	ResponseTTL time.Duration `yaml:"response_ttl"`
	ReportTTL   time.Duration `yaml:"report_ttl"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			ShutdownTimeout: 15 * time.Second,
		},
		LogLevel:  "info",
		DataDir:   "./data",
		RateLimit: ratelimit.DefaultConfig(),
		Cache: CacheConfig{
			ResponseTTL: 5 * time.Minute,
			ReportTTL:   time.Hour,
		},
		Security: security.DefaultSecurityConfig(),
		Kafka:    stream.DefaultConfig(),
	}
}

// Load reads defaults, then the YAML file named by CONFIG_FILE if set, then
// environment overrides, and validates the result
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		slog.Info("Loaded config file", "path", path)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}

	var errs []string
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = d
		}
	}

	str("PORT", &c.Server.Port)
	str("GIN_MODE", &c.Server.GinMode)
	str("LOG_LEVEL", &c.LogLevel)
	str("DATA_DIR", &c.DataDir)
	str("REDIS_URL", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	integer("REDIS_DB", &c.Redis.DB)
	integer("IP_LIMIT_PER_MIN", &c.RateLimit.IPLimitPerMin)
	integer("TRAIN_LIMIT_PER_MIN", &c.RateLimit.TrainLimitPerMin)
	duration("CACHE_TTL", &c.Cache.ResponseTTL)
	duration("REPORT_CACHE_TTL", &c.Cache.ReportTTL)
	list("CORS_ORIGINS", &c.Security.AllowedOrigins)
	list("KAFKA_BROKERS", &c.Kafka.Brokers)
	str("KAFKA_TOPIC", &c.Kafka.Topic)
	str("KAFKA_GROUP_ID", &c.Kafka.GroupID)
	integer("KAFKA_WORKERS", &c.Kafka.Workers)

	if v, ok := lookup("ENABLE_PROFILING"); ok {
		c.Server.EnableProfiling = v == "true"
	}
	if v, ok := lookup("ENABLE_HSTS"); ok {
		c.Security.EnableHSTS = v == "true"
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port == "" {
		problems = append(problems, "server.port is empty")
	} else if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %q is not a valid port", c.Server.Port))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("server.gin_mode %q must be debug, release or test", c.Server.GinMode))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir is empty")
	}
	if c.RateLimit.IPLimitPerMin <= 0 {
		problems = append(problems, "rate_limit.ip_limit_per_min must be positive")
	}
	if c.RateLimit.TrainLimitPerMin <= 0 {
		problems = append(problems, "rate_limit.train_limit_per_min must be positive")
	}
	if c.Cache.ResponseTTL <= 0 || c.Cache.ReportTTL <= 0 {
		problems = append(problems, "cache TTLs must be positive")
	}
	if len(c.Kafka.Brokers) > 0 {
		if c.Kafka.Topic == "" {
			problems = append(problems, "kafka.topic is required when brokers are set")
		}
		if c.Kafka.Workers <= 0 {
			problems = append(problems, "kafka.workers must be positive")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
