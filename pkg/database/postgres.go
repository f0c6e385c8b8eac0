package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres представляет подключение к PostgreSQL
type Postgres struct {
	Pool *pgxpool.Pool
}

// Config представляет конфигурацию PostgreSQL
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// Настройки пула соединений
	MaxConns    int
	MinConns    int
	MaxConnLife time.Duration
	MaxConnIdle time.Duration
	HealthCheck time.Duration
	// Настройки повторных попыток подключения
	MaxRetries    int
	RetryInterval time.Duration
}

// NewConfig создает конфигурацию по умолчанию
func NewConfig() *Config {
	return &Config{
		Host:          "localhost",
		Port:          5432,
		User:          "postgres",
		Password:      "postgres",
		Database:      "postgres",
		SSLMode:       "disable",
		MaxConns:      20,
		MinConns:      5,
		MaxConnLife:   30 * time.Minute,
		MaxConnIdle:   5 * time.Minute,
		HealthCheck:   30 * time.Second,
		MaxRetries:    3,
		RetryInterval: 1 * time.Second,
	}
}

// DSN возвращает строку подключения без параметров пула
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Connect устанавливает подключение к PostgreSQL с retry логикой
func Connect(ctx context.Context, config *Config) (*Postgres, error) {
	var lastErr error

	// Пытаемся подключиться с retry
	for i := 0; i <= config.MaxRetries; i++ {
		poolConfig, err := pgxpool.ParseConfig(config.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to parse pool config: %w", err)
		}

		// Настраиваем пул соединений
		poolConfig.HealthCheckPeriod = config.HealthCheck
		poolConfig.MaxConns = int32(config.MaxConns)
		poolConfig.MinConns = int32(config.MinConns)
		poolConfig.MaxConnLifetime = config.MaxConnLife
		poolConfig.MaxConnIdleTime = config.MaxConnIdle
		poolConfig.MaxConnLifetimeJitter = 30 * time.Second

		// Пытаемся подключиться
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to database: %w", err)
			if i < config.MaxRetries {
				time.Sleep(config.RetryInterval)
			}
			continue
		}

		// Проверяем подключение
		if err := pool.Ping(ctx); err != nil {
			lastErr = fmt.Errorf("failed to ping database: %w", err)
			pool.Close()
			if i < config.MaxRetries {
				time.Sleep(config.RetryInterval)
			}
			continue
		}

		return &Postgres{Pool: pool}, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d retries: %w", config.MaxRetries, lastErr)
}

// Close закрывает подключение к базе данных
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

// HealthCheck проверяет состояние подключения к базе данных
func (p *Postgres) HealthCheck(ctx context.Context) error {
	if p.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	// Пытаемся выполнить простой запрос
	var result string
	return p.Pool.QueryRow(ctx, "SELECT 'healthy'").Scan(&result)
}

// GetConfig возвращает конфигурацию из переменных окружения
func GetConfig() *Config {
	config := NewConfig()

	if host := os.Getenv("DB_HOST"); host != "" {
		config.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Password = password
	}
	if database := os.Getenv("DB_NAME"); database != "" {
		config.Database = database
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		config.SSLMode = sslmode
	}

	// Пул соединений
	if maxConns := os.Getenv("DB_MAX_CONNS"); maxConns != "" {
		if mc, err := strconv.Atoi(maxConns); err == nil {
			config.MaxConns = mc
		}
	}
	if minConns := os.Getenv("DB_MIN_CONNS"); minConns != "" {
		if mc, err := strconv.Atoi(minConns); err == nil {
			config.MinConns = mc
		}
	}

	// Таймауты
	if maxConnLife := os.Getenv("DB_MAX_CONN_LIFE"); maxConnLife != "" {
		if mcl, err := time.ParseDuration(maxConnLife); err == nil {
			config.MaxConnLife = mcl
		}
	}
	if maxConnIdle := os.Getenv("DB_MAX_CONN_IDLE"); maxConnIdle != "" {
		if mci, err := time.ParseDuration(maxConnIdle); err == nil {
			config.MaxConnIdle = mci
		}
	}

	// Retry настройки
	if maxRetries := os.Getenv("DB_MAX_RETRIES"); maxRetries != "" {
		if mr, err := strconv.Atoi(maxRetries); err == nil {
			config.MaxRetries = mr
		}
	}
	if retryInterval := os.Getenv("DB_RETRY_INTERVAL"); retryInterval != "" {
		if ri, err := time.ParseDuration(retryInterval); err == nil {
			config.RetryInterval = ri
		}
	}

	return config
}
