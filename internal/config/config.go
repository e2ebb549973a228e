package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath — путь к конфигу, если CONFIG_PATH не задан
const DefaultPath = "config/config.yaml"

// Config определяет структуру конфигурации обоих приложений: бэкенда заказов и корзины
type Config struct {
	HTTPServer HTTPServer `yaml:"http_server" envPrefix:"PIZZARIA_HTTP_"`
	CartServer HTTPServer `yaml:"cart_server" envPrefix:"PIZZARIA_CART_HTTP_"`
	Postgres   Postgres   `yaml:"postgres" envPrefix:"PIZZARIA_POSTGRES_"`
	Kafka      Kafka      `yaml:"kafka" envPrefix:"PIZZARIA_KAFKA_"`
	Logger     Logger     `yaml:"logger" envPrefix:"PIZZARIA_LOG_"`
	Cart       Cart       `yaml:"cart" envPrefix:"PIZZARIA_CART_"`
}

// HTTPServer содержит конфигурацию для HTTP-сервера
type HTTPServer struct {
	Port    string        `yaml:"port" env:"PORT"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Postgres содержит конфигурацию для подключения к базе данных
type Postgres struct {
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	Host     string `yaml:"host" env:"HOST"`
	Port     string `yaml:"port" env:"PORT"`
	DBName   string `yaml:"db_name" env:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"SSL_MODE"`
}

// Kafka содержит конфигурацию для подключения к кафке
type Kafka struct {
	Brokers []string `yaml:"brokers" env:"BROKERS" envSeparator:","`
	Topic   string   `yaml:"topic" env:"TOPIC"`
	GroupID string   `yaml:"group_id" env:"GROUP_ID"`
	Enabled bool     `yaml:"enabled" env:"ENABLED"`
}

// Logger содержит конфигурацию для логгера
type Logger struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Cart содержит конфигурацию корзины
type Cart struct {
	// StoragePath — каталог PebbleDB с корзиной
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
	StorageKey  string `yaml:"storage_key" env:"STORAGE_KEY"`
	// Transport — куда отправлять заказ: http или kafka
	Transport      string        `yaml:"transport" env:"TRANSPORT"`
	OrderEndpoint  string        `yaml:"order_endpoint" env:"ORDER_ENDPOINT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

const (
	TransportHTTP  = "http"
	TransportKafka = "kafka"
)

// Path возвращает путь к конфигу из CONFIG_PATH или путь по умолчанию
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load читает YAML-файл, поверх него применяет переменные окружения и подставляет значения по умолчанию
// отсутствующий файл не ошибка: всё можно задать через окружение
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	file, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to unmarshal config: %w", op, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse env: %w", op, err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфигурацию из файла по указанному пути
// в случае ошибки программа завершается с фатальной ошибкой
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}
	return cfg
}

func (c *Config) setDefaults() {
	if c.HTTPServer.Port == "" {
		c.HTTPServer.Port = ":8080"
	}
	if c.HTTPServer.Timeout == 0 {
		c.HTTPServer.Timeout = 10 * time.Second
	}
	if c.CartServer.Port == "" {
		c.CartServer.Port = ":3000"
	}
	if c.CartServer.Timeout == 0 {
		c.CartServer.Timeout = 30 * time.Second
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "pedidos"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "pizzaria-pedidos"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Cart.StoragePath == "" {
		c.Cart.StoragePath = "data/carrinho"
	}
	if c.Cart.StorageKey == "" {
		c.Cart.StorageKey = "carrinho"
	}
	if c.Cart.Transport == "" {
		c.Cart.Transport = TransportHTTP
	}
	if c.Cart.OrderEndpoint == "" {
		c.Cart.OrderEndpoint = "http://localhost:8080/carrinho/adicionar"
	}
}

func (c *Config) validate() error {
	switch c.Cart.Transport {
	case TransportHTTP:
	case TransportKafka:
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("cart transport kafka requires kafka.brokers")
		}
	default:
		return fmt.Errorf("unknown cart transport %q", c.Cart.Transport)
	}
	return nil
}
