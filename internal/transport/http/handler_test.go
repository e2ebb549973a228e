package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
	"github.com/asquebay/pizzaria-carrinho/internal/repository/postgres"
)

type fakeService struct {
	created []model.Order
	updated []model.Order
	deleted []int64
	orders  map[int64]model.Order
	err     error
}

func (s *fakeService) CreateOrder(_ context.Context, order model.Order) (model.Order, error) {
	if s.err != nil {
		return model.Order{}, s.err
	}
	order.Normalize()
	if err := order.Validate(); err != nil {
		return model.Order{}, err
	}
	order.ID = int64(len(s.created) + 1)
	s.created = append(s.created, order)
	return order, nil
}

func (s *fakeService) GetOrderByID(_ context.Context, id int64) (model.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, fmt.Errorf("svc: %w", postgres.ErrOrderNotFound)
	}
	return o, nil
}

func (s *fakeService) ListOrders(context.Context) ([]model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []model.Order{}
	for id := int64(1); id <= int64(len(s.orders)); id++ {
		out = append(out, s.orders[id])
	}
	return out, nil
}

func (s *fakeService) UpdateOrder(_ context.Context, order model.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return postgres.ErrOrderNotFound
	}
	s.updated = append(s.updated, order)
	return nil
}

func (s *fakeService) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := s.orders[id]; !ok {
		return postgres.ErrOrderNotFound
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestHandler(svc OrderService) *Handler {
	return NewHandler(svc, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const cartOrderBody = `{
	"idCliente": 1,
	"dataPedido": "2024-05-01T18:30:00.000Z",
	"status": "PENDENTE",
	"total": 83.9,
	"itensPedido": [
		{"idPedido": 1, "sabor": {"idsabor": [1, 2]}},
		{"idPedido": 1, "sabor": {"idsabor": [3]}}
	]
}`

func TestHandler_CreateOrderFromCart(t *testing.T) {
	svc := &fakeService{}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/carrinho/adicionar", strings.NewReader(cartOrderBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.created, 1)
	got := svc.created[0]
	assert.Equal(t, 83.9, got.Total)
	assert.Equal(t, time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC), got.OrderDate.UTC())
	assert.Equal(t, []int64{1, 2}, got.LineItems[0].Flavor.FlavorIDs)

	var body model.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(1), body.ID)
}

func TestHandler_CreateOrderBadBody(t *testing.T) {
	h := newTestHandler(&fakeService{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/carrinho/adicionar", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/carrinho/adicionar",
		strings.NewReader(`{"dataPedido":"2024-05-01T18:30:00Z","itensPedido":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid order")
}

func TestHandler_CreateOrderInternalError(t *testing.T) {
	h := newTestHandler(&fakeService{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/carrinho/adicionar", strings.NewReader(cartOrderBody)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestHandler_GetOrder(t *testing.T) {
	svc := &fakeService{orders: map[int64]model.Order{7: {ID: 7, Status: model.StatusPending}}}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pedidos/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"idPedido":7`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pedidos/8", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pedidos/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListOrders(t *testing.T) {
	svc := &fakeService{orders: map[int64]model.Order{1: {ID: 1}, 2: {ID: 2}}}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pedidos", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []model.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&orders))
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[1].ID)
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	svc := &fakeService{orders: map[int64]model.Order{3: {ID: 3}}}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/pedidos/3",
		strings.NewReader(`{"idPedido": 99, "status": "ENTREGUE", "total": 10, "dataPedido": "2024-05-01T18:30:00Z"}`)))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, svc.updated, 1)
	assert.Equal(t, int64(3), svc.updated[0].ID)
	assert.Equal(t, "ENTREGUE", svc.updated[0].Status)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/pedidos/3", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{3}, svc.deleted)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/pedidos/4", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h := NewHandler(&fakeService{}, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "ok", rec.Body.String())
}
