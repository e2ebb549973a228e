package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// StatusPending — статус, с которым корзина отправляет каждый новый заказ
	StatusPending = "PENDENTE"

	// DefaultCustomerID и DefaultOrderID — заглушки фронта: клиентов и заказов пока нет,
	// поэтому оба идентификатора зашиты в единицу
	DefaultCustomerID int64 = 1
	DefaultOrderID    int64 = 1
)

// ErrInvalidOrder возвращается, если заказ не прошёл валидацию
var ErrInvalidOrder = errors.New("invalid order")

// Order — заказ, который корзина отправляет на бэкенд
// имена JSON-полей совпадают с контрактом эндпоинта /carrinho/adicionar
type Order struct {
	ID         int64      `json:"idPedido,omitempty"`
	CustomerID int64      `json:"idCliente" validate:"gt=0"`
	OrderDate  time.Time  `json:"dataPedido" validate:"required"`
	Status     string     `json:"status" validate:"required"`
	Total      float64    `json:"total" validate:"gte=0"`
	LineItems  []LineItem `json:"itensPedido" validate:"required,gt=0,dive"`
}

// LineItem — одна пицца заказа: из позиции корзины в заказ уходят только id вкусов
type LineItem struct {
	OrderID int64           `json:"idPedido"`
	Flavor  FlavorSelection `json:"sabor"`
}

// FlavorSelection хранит набор вкусов одной пиццы
type FlavorSelection struct {
	FlavorIDs []int64 `json:"idsabor" validate:"required,gt=0,dive,gt=0"`
}

var validate = validator.New()

// Normalize подставляет значения по умолчанию так же, как это делал старый бэкенд:
// отсутствующий клиент становится клиентом 1, пустой статус — PENDENTE
func (o *Order) Normalize() {
	if o.CustomerID == 0 {
		o.CustomerID = DefaultCustomerID
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
}

// Validate проверяет корректность структуры Order на основе тегов validate
func (o *Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return nil
}

// ValidateHeader проверяет только шапку заказа, без позиций
// используется при обновлении, где позиции не меняются
func (o *Order) ValidateHeader() error {
	if err := validate.StructExcept(o, "LineItems"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return nil
}

// FlavorCount возвращает суммарное число вкусов во всех позициях
func (o *Order) FlavorCount() int {
	n := 0
	for _, item := range o.LineItems {
		n += len(item.Flavor.FlavorIDs)
	}
	return n
}
