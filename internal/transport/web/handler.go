package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/cart"
)

//go:embed templates/cart.html
var templatesFS embed.FS

var pageTemplate = template.Must(
	template.New("cart.html").
		Funcs(template.FuncMap{"emptyMessage": func() string { return cart.EmptyMessage }}).
		ParseFS(templatesFS, "templates/cart.html"),
)

// CartView — операции страницы корзины, нужные хэндлеру
type CartView interface {
	State() cart.State
	Remove(ctx context.Context, index int) error
	Submit(ctx context.Context) error
}

// Handler отдаёт страницу корзины и принимает её формы
type Handler struct {
	view          CartView
	submitTimeout time.Duration
	log           *slog.Logger
	mux           *http.ServeMux
}

// NewHandler создает хэндлер страницы корзины
// submitTimeout ограничивает отправку заказа, 0 — без ограничения; metrics может быть nil
func NewHandler(view CartView, submitTimeout time.Duration, metrics http.Handler, log *slog.Logger) *Handler {
	h := &Handler{
		view:          view,
		submitTimeout: submitTimeout,
		log:           log,
		mux:           http.NewServeMux(),
	}
	h.registerRoutes(metrics)
	return h
}

// ServeHTTP делает Handler совместимым с http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes(metrics http.Handler) {
	h.mux.HandleFunc("GET /{$}", h.page)
	h.mux.HandleFunc("POST /carrinho/remover/{index}", h.remove)
	h.mux.HandleFunc("POST /carrinho/finalizar", h.submit)

	if metrics != nil {
		h.mux.Handle("GET /metrics", metrics)
	}
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, h.view.State()); err != nil {
		h.log.Error("failed to render cart page", slog.String("error", err.Error()))
	}
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid item index", http.StatusBadRequest)
		return
	}

	if err := h.view.Remove(r.Context(), index); err != nil {
		if errors.Is(err, cart.ErrIndexOutOfRange) {
			http.Error(w, "invalid item index", http.StatusBadRequest)
			return
		}
		h.log.Error("failed to remove item", slog.String("error", err.Error()))
		http.Error(w, "failed to update cart", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	// отправка не должна обрываться, если браузер закрыл соединение раньше ответа бэкенда
	ctx := context.WithoutCancel(r.Context())
	if h.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.submitTimeout)
		defer cancel()
	}

	err := h.view.Submit(ctx)
	switch {
	case err == nil:
	case errors.Is(err, cart.ErrEmptyCart), errors.Is(err, cart.ErrSubmitInProgress):
		h.log.Debug("submit ignored", slog.String("reason", err.Error()))
	default:
		// текст ошибки уже лежит в состоянии страницы и покажется после редиректа
		h.log.Warn("order submission failed", slog.String("error", err.Error()))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
