package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema повторяет таблицы старого бэкенда: заказ и по строке на каждый вкус каждой пиццы
const schema = `
CREATE TABLE IF NOT EXISTS pedidos (
	id_pedido   BIGSERIAL PRIMARY KEY,
	id_cliente  BIGINT         NOT NULL,
	data_pedido TIMESTAMPTZ    NOT NULL,
	status      TEXT           NOT NULL,
	total       NUMERIC(10, 2) NOT NULL
);

CREATE TABLE IF NOT EXISTS itens_pedido (
	id_item   BIGSERIAL PRIMARY KEY,
	id_pedido BIGINT  NOT NULL REFERENCES pedidos (id_pedido) ON DELETE CASCADE,
	posicao   INTEGER NOT NULL,
	id_sabor  BIGINT  NOT NULL
);

CREATE INDEX IF NOT EXISTS itens_pedido_id_pedido_idx ON itens_pedido (id_pedido);
`

// DSN собирает строку подключения из конфига
func DSN(cfg config.Postgres) string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
	)
}

// New создает и возвращает новый пул соединений с PostgreSQL
func New(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	const op = "repository.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse pgx config: %w", op, err)
	}

	// настройка пула соединений
	poolConfig.MaxConns = 10
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create connection pool: %w", op, err)
	}

	// проверяем, что соединение установлено
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return dbpool, nil
}

// EnsureSchema создаёт таблицы заказов, если их ещё нет
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	const op = "repository.postgres.EnsureSchema"

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
