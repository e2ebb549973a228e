package cache

import (
	"sync"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

// OrderCache держит заказы бэкенда в памяти, ключ — id_pedido
type OrderCache struct {
	mu     sync.RWMutex
	orders map[int64]model.Order
}

func NewOrderCache() *OrderCache {
	return &OrderCache{orders: make(map[int64]model.Order)}
}

// Set кладёт заказ под его id, прежняя версия перезаписывается
func (c *OrderCache) Set(order model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[order.ID] = order
}

func (c *OrderCache) Get(id int64) (model.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, ok := c.orders[id]
	return order, ok
}

func (c *OrderCache) Delete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.orders, id)
}

// LoadAll заменяет содержимое кэша заказами из БД
// вызывается при старте, поэтому всё, чего нет в orders, выбрасывается
func (c *OrderCache) LoadAll(orders []model.Order) {
	next := make(map[int64]model.Order, len(orders))
	for _, order := range orders {
		next[order.ID] = order
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = next
}

// Len — количество заказов в кэше
func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}
