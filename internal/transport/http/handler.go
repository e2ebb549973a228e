package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
	"github.com/asquebay/pizzaria-carrinho/internal/repository/postgres"
)

const maxBodyBytes = 1 << 20

// OrderService определяет интерфейс сервиса заказов, нужный хэндлеру
// это позволяет хэндлеру не зависеть от конкретной реализации сервиса
type OrderService interface {
	CreateOrder(ctx context.Context, order model.Order) (model.Order, error)
	GetOrderByID(ctx context.Context, id int64) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrder(ctx context.Context, order model.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

// Handler обрабатывает HTTP-запросы бэкенда заказов
type Handler struct {
	service OrderService
	log     *slog.Logger
	mux     *http.ServeMux
}

// NewHandler создает новый экземпляр Handler
// metrics монтируется на /metrics, если не nil
func NewHandler(service OrderService, metrics http.Handler, log *slog.Logger) *Handler {
	h := &Handler{
		service: service,
		log:     log,
		mux:     http.NewServeMux(),
	}
	h.registerRoutes(metrics)
	return h
}

// ServeHTTP делает Handler совместимым с http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes регистрирует все эндпоинты
func (h *Handler) registerRoutes(metrics http.Handler) {
	// сюда корзина отправляет готовый заказ
	h.mux.HandleFunc("POST /carrinho/adicionar", h.createOrder)

	h.mux.HandleFunc("GET /pedidos", h.listOrders)
	h.mux.HandleFunc("GET /pedidos/{id}", h.getOrderByID)
	h.mux.HandleFunc("PUT /pedidos/{id}", h.updateOrder)
	h.mux.HandleFunc("DELETE /pedidos/{id}", h.deleteOrder)

	if metrics != nil {
		h.mux.Handle("GET /metrics", metrics)
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var order model.Order
	if err := decodeJSON(w, r, &order); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.CreateOrder(r.Context(), order)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrderByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var order model.Order
	if err := decodeJSON(w, r, &order); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// id берём из пути, а не из тела
	order.ID = id

	if err := h.service.UpdateOrder(r.Context(), order); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID извлекает id заказа из URL, при ошибке сам пишет ответ
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidOrder):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, postgres.ErrOrderNotFound):
		h.respondError(w, http.StatusNotFound, "order not found")
	default:
		h.log.Error("internal server error", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal JSON response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(response)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
