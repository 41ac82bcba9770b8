package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Geo       GeoConfig
	Analytics AnalyticsConfig
	Link      LinkConfig
}

type AppConfig struct {
	Env         string
	Port        string
	BaseURL     string
	FrontendURL string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type RateLimitConfig struct {
	Requests int
	Duration time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	BasicUser     string
	BasicPassword string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type GeoConfig struct {
	MMDBPath string
}

type AnalyticsConfig struct {
	Retention     time.Duration
	PruneInterval time.Duration
}

type LinkConfig struct {
	ShortCodeLength int
	CacheTTL        time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file (optional, env vars take precedence)
	_ = viper.ReadInConfig()

	cfg := &Config{
		App: AppConfig{
			Env:         viper.GetString("APP_ENV"),
			Port:        viper.GetString("APP_PORT"),
			BaseURL:     viper.GetString("APP_BASE_URL"),
			FrontendURL: viper.GetString("APP_FRONTEND_URL"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetString("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			MaxConns: viper.GetInt("POSTGRES_MAX_CONNS"),
			MinConns: viper.GetInt("POSTGRES_MIN_CONNS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetDuration("RATE_LIMIT_DURATION"),
		},
		Auth: AuthConfig{
			JWTSecret:     viper.GetString("AUTH_JWT_SECRET"),
			TokenTTL:      viper.GetDuration("AUTH_TOKEN_TTL"),
			ResetTokenTTL: viper.GetDuration("AUTH_RESET_TOKEN_TTL"),
			BasicUser:     viper.GetString("AUTH_BASIC_USER"),
			BasicPassword: viper.GetString("AUTH_BASIC_PASSWORD"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Geo: GeoConfig{
			MMDBPath: viper.GetString("GEOIP_MMDB_PATH"),
		},
		Analytics: AnalyticsConfig{
			Retention:     viper.GetDuration("ANALYTICS_RETENTION"),
			PruneInterval: viper.GetDuration("ANALYTICS_PRUNE_INTERVAL"),
		},
		Link: LinkConfig{
			ShortCodeLength: viper.GetInt("SHORT_CODE_LENGTH"),
			CacheTTL:        viper.GetDuration("LINK_CACHE_TTL"),
		},
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_BASE_URL", "http://localhost")
	viper.SetDefault("APP_FRONTEND_URL", "http://localhost:3000")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("POSTGRES_USER", "sparkapp")
	viper.SetDefault("POSTGRES_PASSWORD", "sparkapp")
	viper.SetDefault("POSTGRES_DB", "sparkapp")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_MAX_CONNS", 25)
	viper.SetDefault("POSTGRES_MIN_CONNS", 5)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)

	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", "1m")

	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("AUTH_TOKEN_TTL", "168h")
	viper.SetDefault("AUTH_RESET_TOKEN_TTL", "1h")

	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "noreply@sparkapp.local")

	viper.SetDefault("GEOIP_MMDB_PATH", "")

	viper.SetDefault("ANALYTICS_RETENTION", "2160h")
	viper.SetDefault("ANALYTICS_PRUNE_INTERVAL", "24h")

	viper.SetDefault("SHORT_CODE_LENGTH", 7)
	viper.SetDefault("LINK_CACHE_TTL", "1h")
}

func (c *PostgresConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
