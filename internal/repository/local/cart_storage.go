package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/asquebay/pizzaria-carrinho/internal/cart"
	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

// DefaultCartKey — ключ, под которым фронт всегда хранил корзину
const DefaultCartKey = "carrinho"

// CartStorage хранит корзину одним JSON-массивом под одним ключом
type CartStorage struct {
	kv  KV
	key string
}

// NewCartStorage создаёт хранилище корзины поверх kv, пустой key заменяется на DefaultCartKey
func NewCartStorage(kv KV, key string) *CartStorage {
	if key == "" {
		key = DefaultCartKey
	}
	return &CartStorage{kv: kv, key: key}
}

// Load читает корзину; отсутствие ключа — это пустая корзина
// содержимое, которое не разбирается как массив позиций, возвращает cart.ErrCorruptCart
func (s *CartStorage) Load(ctx context.Context) (model.Cart, error) {
	const op = "repository.local.CartStorage.Load"

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Cart{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var items model.Cart
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, cart.ErrCorruptCart, err)
	}
	// "null" тоже считаем пустой корзиной
	if items == nil {
		items = model.Cart{}
	}
	return items, nil
}

// Save полностью перезаписывает корзину
func (s *CartStorage) Save(ctx context.Context, items model.Cart) error {
	const op = "repository.local.CartStorage.Save"

	if items == nil {
		items = model.Cart{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal cart: %w", op, err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет ключ корзины целиком
func (s *CartStorage) Clear(ctx context.Context) error {
	const op = "repository.local.CartStorage.Clear"

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
