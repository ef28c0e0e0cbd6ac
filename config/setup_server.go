package config

import (
	"context"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"net/http"
	"os"
	"time"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig       `yaml:"databaseConfig"`
	RedisConfig    RedisConfig          `yaml:"redisConfig"`
	ServerAddr     string               `yaml:"serverAddr"`
	S3Config       S3Config             `yaml:"s3Config"`
	DocumentServer DocumentServerConfig `yaml:"documentServer"`
	Webhook        WebhookConfig        `yaml:"webhook"`
	Conversion     ConversionConfig     `yaml:"conversion"`
	TTL            TTL                  `yaml:"TTL"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// значения по умолчанию для цикла опроса конвертации
	if cfg.Conversion.IntervalSeconds <= 0 {
		cfg.Conversion.IntervalSeconds = 1
	}
	if cfg.Conversion.MaxAttempts <= 0 {
		cfg.Conversion.MaxAttempts = 30
	}

	return &cfg, nil
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}

type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	return &RedisClient{Client: client}, nil
}

func (r *RedisClient) Close() error {
	if err := r.Client.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия соединения с Redis: %w", err)
	}
	return nil
}
