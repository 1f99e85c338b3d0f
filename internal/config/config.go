package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mapbox    MapboxConfig
	Routing   RoutingConfig
	Analytics AnalyticsConfig
	Worker    WorkerConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MapboxConfig - настройки клиента Mapbox Directions API.
// Пустой AccessToken переводит движок в постоянный algorithmic-режим.
type MapboxConfig struct {
	AccessToken    string
	BaseURL        string
	MaxWaypoints   int
	RequestTimeout int
}

// RoutingConfig - настройки движка резолва маршрутов и классификатора
type RoutingConfig struct {
	CacheTTL            time.Duration
	CacheCapacity       int
	StaticThresholdKm   float64
	MinPointsForAPI     int
	FallbackMinPerKm    float64
	FingerprintDecimals int
}

// AnalyticsConfig - настройки агрегатора сессионной аналитики
type AnalyticsConfig struct {
	// DenseLogsPerHour - плотность GPS-логов, при которой quality score
	// по плотности считается максимальным
	DenseLogsPerHour float64
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Mapbox: MapboxConfig{
			AccessToken:    viper.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:        viper.GetString("MAPBOX_BASE_URL"),
			MaxWaypoints:   viper.GetInt("MAPBOX_MAX_WAYPOINTS"),
			RequestTimeout: viper.GetInt("MAPBOX_REQUEST_TIMEOUT"),
		},
		Routing: RoutingConfig{
			CacheTTL:            time.Duration(viper.GetInt("ROUTE_CACHE_TTL")) * time.Second,
			CacheCapacity:       viper.GetInt("ROUTE_CACHE_CAPACITY"),
			StaticThresholdKm:   viper.GetFloat64("ROUTING_STATIC_THRESHOLD_KM"),
			MinPointsForAPI:     viper.GetInt("ROUTING_MIN_POINTS_FOR_API"),
			FallbackMinPerKm:    viper.GetFloat64("ROUTING_FALLBACK_MIN_PER_KM"),
			FingerprintDecimals: viper.GetInt("ROUTING_FINGERPRINT_DECIMALS"),
		},
		Analytics: AnalyticsConfig{
			DenseLogsPerHour: viper.GetFloat64("ANALYTICS_DENSE_LOGS_PER_HOUR"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	applyDefaults(cfg)

	return cfg, nil
}

// Set default values if not provided
func applyDefaults(cfg *Config) {
	if cfg.Mapbox.BaseURL == "" {
		cfg.Mapbox.BaseURL = "https://api.mapbox.com"
	}
	if cfg.Mapbox.MaxWaypoints == 0 {
		cfg.Mapbox.MaxWaypoints = 25
	}
	if cfg.Mapbox.RequestTimeout == 0 {
		cfg.Mapbox.RequestTimeout = 10
	}
	if cfg.Routing.CacheTTL == 0 {
		// Дороги меняются редко - геометрию можно держать сутки
		cfg.Routing.CacheTTL = 24 * time.Hour
	}
	if cfg.Routing.CacheCapacity == 0 {
		cfg.Routing.CacheCapacity = 10000
	}
	if cfg.Routing.StaticThresholdKm == 0 {
		cfg.Routing.StaticThresholdKm = 0.03
	}
	if cfg.Routing.MinPointsForAPI == 0 {
		cfg.Routing.MinPointsForAPI = 10
	}
	if cfg.Routing.FallbackMinPerKm == 0 {
		cfg.Routing.FallbackMinPerKm = 2.0
	}
	if cfg.Routing.FingerprintDecimals == 0 {
		cfg.Routing.FingerprintDecimals = 5
	}
	if cfg.Analytics.DenseLogsPerHour == 0 {
		cfg.Analytics.DenseLogsPerHour = 60
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "session-route-workers"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
