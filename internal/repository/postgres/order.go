package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

// querier — общий интерфейс пула и транзакции
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var orderColumns = []string{"id_pedido", "id_cliente", "data_pedido", "status", "total::text"}

// OrderRepository инкапсулирует логику работы с заказами в БД
type OrderRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

// NewOrderRepository создает новый экземпляр репозитория
func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{
		db: db,
		// использую плейсхолдеры в стиле PostgreSQL ($1, $2, $3,...)
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateOrder сохраняет заказ и его позиции в рамках одной транзакции
// возвращает заказ с присвоенным id, который проставляется и во все позиции
func (r *OrderRepository) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	const op = "repository.postgres.order.CreateOrder"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	// гарантируем откат транзакции в случае любой ошибки
	defer tx.Rollback(ctx)

	// 1. Вставка в таблицу pedidos
	sql, args, err := r.sq.Insert("pedidos").
		Columns("id_cliente", "data_pedido", "status", "total").
		Values(order.CustomerID, order.OrderDate, order.Status, formatMoney(order.Total)).
		Suffix("RETURNING id_pedido").
		ToSql()
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to build pedidos insert query: %w", op, err)
	}
	if err := tx.QueryRow(ctx, sql, args...).Scan(&order.ID); err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to insert into pedidos: %w", op, err)
	}

	// 2. Вставка позиций: по строке на каждый вкус, posicao — номер пиццы в заказе
	if order.FlavorCount() > 0 {
		insert := r.sq.Insert("itens_pedido").Columns("id_pedido", "posicao", "id_sabor")
		for pos, item := range order.LineItems {
			for _, flavorID := range item.Flavor.FlavorIDs {
				insert = insert.Values(order.ID, pos, flavorID)
			}
		}
		sql, args, err = insert.ToSql()
		if err != nil {
			return model.Order{}, fmt.Errorf("%s: failed to build itens_pedido insert query: %w", op, err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return model.Order{}, fmt.Errorf("%s: failed to insert into itens_pedido: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	for i := range order.LineItems {
		order.LineItems[i].OrderID = order.ID
	}
	return order, nil
}

// GetAllOrders извлекает все заказы в порядке их создания
// используется для восстановления кэша при старте и для списка заказов
func (r *OrderRepository) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	const op = "repository.postgres.order.GetAllOrders"

	sql, args, err := r.sq.Select(orderColumns...).From("pedidos").OrderBy("id_pedido").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query orders: %w", op, err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to iterate orders: %w", op, err)
	}

	if len(orders) == 0 {
		return orders, nil // нет заказов — возвращаем пустой слайс
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := r.loadLineItems(ctx, r.db, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range orders {
		orders[i].LineItems = items[orders[i].ID]
	}

	return orders, nil
}

// GetOrderByID извлекает один заказ из базы данных по его id
func (r *OrderRepository) GetOrderByID(ctx context.Context, id int64) (model.Order, error) {
	const op = "repository.postgres.order.GetOrderByID"

	sql, args, err := r.sq.Select(orderColumns...).
		From("pedidos").
		Where(squirrel.Eq{"id_pedido": id}).
		ToSql()
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := r.loadLineItems(ctx, r.db, []int64{id})
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	order.LineItems = items[id]

	return order, nil
}

// UpdateOrder обновляет шапку заказа: клиента, дату, статус и сумму
// позиции заказа не меняются
func (r *OrderRepository) UpdateOrder(ctx context.Context, order model.Order) error {
	const op = "repository.postgres.order.UpdateOrder"

	sql, args, err := r.sq.Update("pedidos").
		Set("id_cliente", order.CustomerID).
		Set("data_pedido", order.OrderDate).
		Set("status", order.Status).
		Set("total", formatMoney(order.Total)).
		Where(squirrel.Eq{"id_pedido": order.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to update order: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	return nil
}

// DeleteOrder удаляет заказ, позиции удаляются каскадом
func (r *OrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	const op = "repository.postgres.order.DeleteOrder"

	sql, args, err := r.sq.Delete("pedidos").Where(squirrel.Eq{"id_pedido": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to delete order: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	return nil
}

// loadLineItems собирает позиции заказов ids, строки одной позиции склеиваются по posicao
func (r *OrderRepository) loadLineItems(ctx context.Context, q querier, ids []int64) (map[int64][]model.LineItem, error) {
	sql, args, err := r.sq.Select("id_pedido", "posicao", "id_sabor").
		From("itens_pedido").
		Where(squirrel.Eq{"id_pedido": ids}).
		OrderBy("id_pedido", "posicao", "id_item").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var rowsScanned []itemRow
	for rows.Next() {
		var row itemRow
		if err := rows.Scan(&row.orderID, &row.position, &row.flavorID); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		rowsScanned = append(rowsScanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return groupLineItems(rowsScanned), nil
}

type itemRow struct {
	orderID  int64
	position int
	flavorID int64
}

// groupLineItems ожидает строки, отсортированные по заказу и позиции
func groupLineItems(rows []itemRow) map[int64][]model.LineItem {
	result := make(map[int64][]model.LineItem)
	lastPos := make(map[int64]int)

	for _, row := range rows {
		items := result[row.orderID]
		if pos, ok := lastPos[row.orderID]; !ok || pos != row.position {
			items = append(items, model.LineItem{OrderID: row.orderID})
			lastPos[row.orderID] = row.position
		}
		last := &items[len(items)-1]
		last.Flavor.FlavorIDs = append(last.Flavor.FlavorIDs, row.flavorID)
		result[row.orderID] = items
	}
	return result
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o     model.Order
		date  time.Time
		total string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &date, &o.Status, &total); err != nil {
		return model.Order{}, err
	}

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return model.Order{}, fmt.Errorf("failed to parse total %q: %w", total, err)
	}
	o.OrderDate = date.UTC()
	o.Total = amount.InexactFloat64()
	return o, nil
}

// formatMoney округляет сумму до сотых и передаёт её строкой, чтобы numeric не терял точность
func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
