package service

import (
	"context"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

// OrderRepository определяет контракт для хранилища заказов в БД
type OrderRepository interface {
	CreateOrder(ctx context.Context, order model.Order) (model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	GetOrderByID(ctx context.Context, id int64) (model.Order, error)
	UpdateOrder(ctx context.Context, order model.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

// OrderCache определяет контракт для in-memory кэша заказов
type OrderCache interface {
	Set(order model.Order)
	Get(id int64) (model.Order, bool)
	Delete(id int64)
	LoadAll(orders []model.Order)
}

// OrderMetrics получает события сервиса для метрик
type OrderMetrics interface {
	OrderCreated()
	OrderRejected()
}

type nopMetrics struct{}

func (nopMetrics) OrderCreated() {}
func (nopMetrics) OrderRejected() {}
