package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream UpstreamConfig
	Poller   PollerConfig
	Refresh  RefreshConfig
	Cache    CacheConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
}

// UpstreamConfig locates the external scheduling service.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PollerConfig bounds asynchronous generation polling.
type PollerConfig struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
	TaskTTL      time.Duration
}

// RefreshConfig arms the background read-view refreshers.
type RefreshConfig struct {
	Enabled              bool
	TimetableInterval    time.Duration
	AvailabilityInterval time.Duration
	ShowNotifications    bool
	NotificationTTL      time.Duration
}

// CacheConfig tunes derived-view caching.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("SCHEDULER_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("SCHEDULER_TIMEOUT"), 15*time.Second),
	}

	cfg.Poller = PollerConfig{
		InitialDelay: parseDuration(v.GetString("POLL_INITIAL_DELAY"), time.Second),
		Interval:     parseDuration(v.GetString("POLL_INTERVAL"), 2*time.Second),
		MaxAttempts:  v.GetInt("POLL_MAX_ATTEMPTS"),
		TaskTTL:      parseDuration(v.GetString("TASK_TTL"), time.Hour),
	}

	cfg.Refresh = RefreshConfig{
		Enabled:              v.GetBool("ENABLE_AUTO_REFRESH"),
		TimetableInterval:    parseDuration(v.GetString("TIMETABLE_REFRESH_INTERVAL"), 30*time.Second),
		AvailabilityInterval: parseDuration(v.GetString("AVAILABILITY_REFRESH_INTERVAL"), time.Minute),
		ShowNotifications:    v.GetBool("REFRESH_NOTIFICATIONS"),
		NotificationTTL:      parseDuration(v.GetString("REFRESH_NOTIFICATION_TTL"), 3*time.Second),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SCHEDULER_BASE_URL", "http://localhost:5000")
	v.SetDefault("SCHEDULER_TIMEOUT", "15s")

	v.SetDefault("POLL_INITIAL_DELAY", "1s")
	v.SetDefault("POLL_INTERVAL", "2s")
	v.SetDefault("POLL_MAX_ATTEMPTS", 300)
	v.SetDefault("TASK_TTL", "1h")

	v.SetDefault("ENABLE_AUTO_REFRESH", false)
	v.SetDefault("TIMETABLE_REFRESH_INTERVAL", "30s")
	v.SetDefault("AVAILABILITY_REFRESH_INTERVAL", "1m")
	v.SetDefault("REFRESH_NOTIFICATIONS", true)
	v.SetDefault("REFRESH_NOTIFICATION_TTL", "3s")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "1m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
