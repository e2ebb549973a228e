package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

func TestOrderCache_SetGetDelete(t *testing.T) {
	c := NewOrderCache()

	_, ok := c.Get(1)
	assert.False(t, ok)

	c.LoadAll([]model.Order{{ID: 1, Status: model.StatusPending}, {ID: 2, Status: "ENTREGUE"}})

	got, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "ENTREGUE", got.Status)

	c.Set(model.Order{ID: 2, Status: "CANCELADO"})
	got, _ = c.Get(2)
	assert.Equal(t, "CANCELADO", got.Status)

	c.Delete(1)
	_, ok = c.Get(1)
	assert.False(t, ok)
}

func TestOrderCache_LoadAllReplaces(t *testing.T) {
	c := NewOrderCache()
	c.Set(model.Order{ID: 9})

	c.LoadAll([]model.Order{{ID: 1}, {ID: 2}})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(9)
	assert.False(t, ok)
}
