package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
http_server:
  port: ":9090"
  timeout: 5s
postgres:
  host: "db"
  db_name: "pizzaria"
kafka:
  brokers: ["k1:9092", "k2:9092"]
logger:
  level: "debug"
cart:
  storage_key: "carrinho-teste"
  request_timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPServer.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "carrinho-teste", cfg.Cart.StorageKey)
	assert.Equal(t, 3*time.Second, cfg.Cart.RequestTimeout)

	// значения по умолчанию
	assert.Equal(t, ":3000", cfg.CartServer.Port)
	assert.Equal(t, "pedidos", cfg.Kafka.Topic)
	assert.Equal(t, TransportHTTP, cfg.Cart.Transport)
	assert.Equal(t, "http://localhost:8080/carrinho/adicionar", cfg.Cart.OrderEndpoint)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
postgres:
  host: "db"
cart:
  order_endpoint: "http://yaml/carrinho/adicionar"
`)
	t.Setenv("PIZZARIA_POSTGRES_HOST", "db-from-env")
	t.Setenv("PIZZARIA_CART_ORDER_ENDPOINT", "http://env/carrinho/adicionar")
	t.Setenv("PIZZARIA_KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db-from-env", cfg.Postgres.Host)
	assert.Equal(t, "http://env/carrinho/adicionar", cfg.Cart.OrderEndpoint)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPServer.Port)
	assert.Equal(t, "carrinho", cfg.Cart.StorageKey)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_KafkaTransportNeedsBrokers(t *testing.T) {
	path := writeConfig(t, `
cart:
  transport: kafka
`)
	_, err := Load(path)
	require.Error(t, err)

	path = writeConfig(t, `
cart:
  transport: carrier-pigeon
`)
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "http_server: [unclosed"))
	require.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv("CONFIG_PATH", "/etc/pizzaria.yaml")
	assert.Equal(t, "/etc/pizzaria.yaml", Path())
}
