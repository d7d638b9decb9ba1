package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Slot  SlotConfig
}

type AppConfig struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

type DBConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxIdleConns       int
	MaxOpenConns       int
	SlowQueryThreshold time.Duration
	AutoMigrate        bool
	Seed               bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type SlotConfig struct {
	LockTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "doctor_connect")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_SLOW_QUERY_THRESHOLD", "200ms")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_SEED", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("SLOT_LOCK_TTL", "5s")
}

// LoadConfig reads .env when present, then lets the environment override it.
func LoadConfig() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	lockTTL, err := time.ParseDuration(v.GetString("SLOT_LOCK_TTL"))
	if err != nil || lockTTL <= 0 {
		lockTTL = 5 * time.Second
	}

	slowQuery, err := time.ParseDuration(v.GetString("DB_SLOW_QUERY_THRESHOLD"))
	if err != nil {
		slowQuery = 200 * time.Millisecond
	}

	config := &Config{
		App: AppConfig{
			Port:               v.GetString("APP_PORT"),
			Env:                v.GetString("APP_ENV"),
			LogLevel:           v.GetString("LOG_LEVEL"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			SlowQueryThreshold: slowQuery,
			AutoMigrate:        v.GetBool("DB_AUTO_MIGRATE"),
			Seed:               v.GetBool("DB_SEED"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Slot: SlotConfig{
			LockTTL: lockTTL,
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
