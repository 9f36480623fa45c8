// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Storage         `yaml:"storage"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	HTTPServer      `yaml:"http_server"`
	Session         `yaml:"session"`
	Admin           `yaml:"admin"`
	Assistant       `yaml:"assistant"`
	Webhook         `yaml:"webhook"`
}

// Storage настройки хранилища: драйвер jsonfile (по умолчанию) или postgres.
type Storage struct {
	Driver           string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"jsonfile"`
	CustomersFile    string `yaml:"customers_file" env-default:"customers.json"`
	BansFile         string `yaml:"bans_file" env-default:"banned_users.json"`
	ChatMemoryFile   string `yaml:"chat_memory_file" env-default:"chat_memory.json"`
	ConnectionString string `yaml:"connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath   string `yaml:"migrations_path" env-default:"./migrations"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// RabbitMQ настройки подключения к брокеру уведомлений об онбординге.
type RabbitMQ struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env-default:"backoffice.events"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	SiteURL     string        `yaml:"site_url" env-default:"https://domain.rizzosai.com"`
}

// Session настройки cookie-сессии на основе JWT.
type Session struct {
	SecretKey  string        `yaml:"secret_key" env:"SECRET_KEY" env-default:"rizzos-secret-key-2024-secure"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env-default:"backoffice_session"`
}

// Admin учетные данные администратора.
type Admin struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// Assistant настройки внешнего LLM API для ассистента Coey.
type Assistant struct {
	APIKey      string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	APIURL      string        `yaml:"api_url" env-default:"https://api.openai.com/v1"`
	Model       string        `yaml:"model" env-default:"gpt-4"`
	MaxTokens   int           `yaml:"max_tokens" env-default:"800"`
	Temperature float64       `yaml:"temperature" env-default:"0.3"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
}

// Webhook настройки входящего платежного вебхука.
type Webhook struct {
	Secret string `yaml:"secret" env:"WEBHOOK_SECRET"`
}

// MustLoad функция для загрузки конфига, путь берется из CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
