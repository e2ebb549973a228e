package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// UnavailablePrice показывается вместо цены, которую не удалось прочитать как число
const UnavailablePrice = "Valor indisponível"

// Flavor — вкус пиццы, выбранный в форме добавления в корзину
type Flavor struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Name string `json:"sabor"`
}

// CartItem — одна пицца в корзине
type CartItem struct {
	Size    string   `json:"tamanho" validate:"required"`
	Flavors []Flavor `json:"sabores" validate:"required,gt=0,dive"`
	Price   Price    `json:"valor,omitzero"`
}

// Cart — содержимое корзины в порядке добавления, дубликаты не схлопываются
type Cart []CartItem

// Total складывает цены всех позиций, нечисловые цены не учитываются
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c {
		if amount, ok := item.Price.Amount(); ok {
			total += amount
		}
	}
	return total
}

// Without возвращает новую корзину без позиции index, исходный срез не меняется
func (c Cart) Without(index int) Cart {
	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:index]...)
	return append(out, c[index+1:]...)
}

// ErrInvalidPrice — цена не может быть отрицательной или нечисловой
var ErrInvalidPrice = errors.New("price must be a finite non-negative number")

// Validate проверяет позицию перед добавлением в корзину
// позиция без цены допустима, она покажется как недоступная
func (i *CartItem) Validate() error {
	if err := validate.Struct(i); err != nil {
		return err
	}
	return i.Price.Validate()
}

// FlavorIDs возвращает id вкусов позиции в исходном порядке
func (i CartItem) FlavorIDs() []int64 {
	ids := make([]int64, 0, len(i.Flavors))
	for _, f := range i.Flavors {
		ids = append(ids, f.ID)
	}
	return ids
}

// Price — цена позиции
// в хранилище корзины поле valor пишет внешний код, поэтому там может оказаться что угодно:
// нечисловое значение сохраняется как есть и помечается недоступным
type Price struct {
	amount float64
	valid  bool
	raw    json.RawMessage
}

// NewPrice создаёт корректную числовую цену
func NewPrice(amount float64) Price {
	return Price{amount: amount, valid: true}
}

// Amount возвращает значение цены и признак того, что цена числовая
func (p Price) Amount() (float64, bool) {
	return p.amount, p.valid
}

// Validate отклоняет отрицательные, NaN и бесконечные значения
func (p Price) Validate() error {
	if !p.valid {
		return nil
	}
	if math.IsNaN(p.amount) || math.IsInf(p.amount, 0) || p.amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, p.amount)
	}
	return nil
}

// IsZero сообщает, что цены в позиции не было вовсе; такое поле не пишется в JSON
func (p Price) IsZero() bool {
	return !p.valid && len(p.raw) == 0
}

// String форматирует цену для отображения: "R$ 45.90" или заглушку
func (p Price) String() string {
	if !p.valid {
		return UnavailablePrice
	}
	return fmt.Sprintf("R$ %.2f", p.amount)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.valid {
		return json.Marshal(p.amount)
	}
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return []byte("null"), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	var amount float64
	if !bytes.Equal(trimmed, []byte("null")) && json.Unmarshal(trimmed, &amount) == nil {
		*p = Price{amount: amount, valid: true}
		return nil
	}

	// сохраняем исходное значение, чтобы при перезаписи хранилища оно не потерялось
	*p = Price{raw: append(json.RawMessage(nil), trimmed...)}
	return nil
}
