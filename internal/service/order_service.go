package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
	"github.com/asquebay/pizzaria-carrinho/internal/repository/postgres"
)

// OrderService инкапсулирует бизнес-логику работы с заказами
type OrderService struct {
	repo    OrderRepository
	cache   OrderCache
	metrics OrderMetrics
	log     *slog.Logger
}

// NewOrderService создаёт новый экземпляр сервиса заказов
// metrics может быть nil
func NewOrderService(repo OrderRepository, cache OrderCache, metrics OrderMetrics, log *slog.Logger) *OrderService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &OrderService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		log:     log,
	}
}

// CreateOrder проверяет и сохраняет новый заказ
// сначала заказ сохраняется в БД, и только в случае успеха попадает в кэш
func (s *OrderService) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	const op = "service.OrderService.CreateOrder"
	log := s.log.With(slog.String("op", op), slog.Int64("customer_id", order.CustomerID))

	order.Normalize()
	if err := order.Validate(); err != nil {
		s.metrics.OrderRejected()
		log.Warn("order rejected", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("attempting to create order", slog.Int("line_items", len(order.LineItems)))

	// 1. Сохраняем в БД. Это основной источник правды
	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		log.Error("failed to save order to repository", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	// 2. Если в БД сохранилось успешно, обновляем кэш
	s.cache.Set(created)
	s.metrics.OrderCreated()
	log.Info("order created and cached successfully", slog.Int64("order_id", created.ID))

	return created, nil
}

// GetOrderByID получает заказ по его id
// сначала ищет в кэше, и только если там нет — обращается к БД
func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (model.Order, error) {
	const op = "service.OrderService.GetOrderByID"
	log := s.log.With(slog.String("op", op), slog.Int64("order_id", id))

	if order, found := s.cache.Get(id); found {
		log.Debug("order found in cache")
		return order, nil
	}

	log.Debug("order not found in cache, will check repository")

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		// не логируем как ошибку, если просто не найдено
		if !errors.Is(err, postgres.ErrOrderNotFound) {
			log.Error("failed to get order from repository", slog.String("error", err.Error()))
		}
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Set(order)
	log.Debug("order found in repository and now cached")

	return order, nil
}

// ListOrders возвращает все заказы из БД в порядке создания
func (s *OrderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	const op = "service.OrderService.ListOrders"

	orders, err := s.repo.GetAllOrders(ctx)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// UpdateOrder меняет шапку заказа; закэшированная версия сбрасывается
func (s *OrderService) UpdateOrder(ctx context.Context, order model.Order) error {
	const op = "service.OrderService.UpdateOrder"
	log := s.log.With(slog.String("op", op), slog.Int64("order_id", order.ID))

	order.Normalize()
	if err := order.ValidateHeader(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		if !errors.Is(err, postgres.ErrOrderNotFound) {
			log.Error("failed to update order", slog.String("error", err.Error()))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(order.ID)
	log.Info("order updated", slog.String("status", order.Status))
	return nil
}

// DeleteOrder удаляет заказ из БД и из кэша
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	const op = "service.OrderService.DeleteOrder"
	log := s.log.With(slog.String("op", op), slog.Int64("order_id", id))

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		if !errors.Is(err, postgres.ErrOrderNotFound) {
			log.Error("failed to delete order", slog.String("error", err.Error()))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(id)
	log.Info("order deleted")
	return nil
}

// RestoreCache восстанавливает состояние кэша из базы данных при старте
func (s *OrderService) RestoreCache(ctx context.Context) error {
	const op = "service.OrderService.RestoreCache"
	log := s.log.With(slog.String("op", op))

	log.Info("starting cache restoration from database")

	orders, err := s.repo.GetAllOrders(ctx)
	if err != nil {
		log.Error("failed to get all orders from repository", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.LoadAll(orders)

	log.Info("cache restored successfully", slog.Int("orders_count", len(orders)))
	return nil
}
