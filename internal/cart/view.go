package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

// ErrorPrefix — начало сообщения, которое видит пользователь при неудачной отправке
const ErrorPrefix = "Erro ao finalizar pedido: "

var (
	ErrCorruptCart      = errors.New("stored cart is corrupt")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrIndexOutOfRange  = errors.New("cart index out of range")
	ErrSubmitInProgress = errors.New("order submission already in progress")
)

// View — страница корзины: держит корзину в памяти и синхронно пишет каждое изменение в хранилище
type View struct {
	storage   Storage
	submitter Submitter
	recorder  Recorder
	log       *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	items  model.Cart
	status Status
	errMsg string
}

// Option настраивает View
type Option func(*View)

// WithRecorder подключает сбор метрик
func WithRecorder(r Recorder) Option {
	return func(v *View) {
		if r != nil {
			v.recorder = r
		}
	}
}

// WithClock подменяет источник времени для даты заказа
func WithClock(now func() time.Time) Option {
	return func(v *View) { v.now = now }
}

// NewView создаёт пустую корзину, содержимое подтягивается вызовом Load
func NewView(storage Storage, submitter Submitter, log *slog.Logger, opts ...Option) *View {
	v := &View{
		storage:   storage,
		submitter: submitter,
		recorder:  nopRecorder{},
		log:       log,
		now:       time.Now,
		items:     model.Cart{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load читает корзину из хранилища
// испорченное содержимое молча превращается в пустую корзину, остальные ошибки чтения
// тоже оставляют корзину пустой, но возвращаются вызывающему
func (v *View) Load(ctx context.Context) error {
	const op = "cart.View.Load"
	log := v.log.With(slog.String("op", op))

	items, err := v.storage.Load(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case err == nil:
	case errors.Is(err, ErrCorruptCart):
		log.Warn("stored cart is corrupt, starting with an empty cart", slog.String("error", err.Error()))
		items = nil
	default:
		v.items = model.Cart{}
		return fmt.Errorf("%s: %w", op, err)
	}

	if items == nil {
		items = model.Cart{}
	}
	v.items = items

	log.Debug("cart loaded", slog.Int("items", len(items)))
	return nil
}

// Add добавляет позицию в конец корзины
func (v *View) Add(ctx context.Context, item model.CartItem) error {
	const op = "cart.View.Add"

	if err := item.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next := make(model.Cart, 0, len(v.items)+1)
	next = append(next, v.items...)
	next = append(next, item)

	// сначала хранилище, потом память: иначе при ошибке записи они разойдутся
	if err := v.storage.Save(ctx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	v.items = next
	return nil
}

// Remove удаляет позицию с индексом index
func (v *View) Remove(ctx context.Context, index int) error {
	const op = "cart.View.Remove"

	v.mu.Lock()
	defer v.mu.Unlock()

	if index < 0 || index >= len(v.items) {
		return fmt.Errorf("%s: %w: %d", op, ErrIndexOutOfRange, index)
	}

	next := v.items.Without(index)
	if err := v.storage.Save(ctx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	v.items = next
	v.recorder.ItemRemoved()

	v.log.Debug("item removed", slog.String("op", op), slog.Int("index", index), slog.Int("items", len(next)))
	return nil
}

// Total возвращает сумму цен позиций, для пустой корзины 0
func (v *View) Total() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items.Total()
}

// Items возвращает копию текущей корзины
func (v *View) Items() model.Cart {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append(model.Cart{}, v.items...)
}

// Status возвращает состояние последней отправки
func (v *View) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Submit превращает корзину в заказ и отправляет его
// пока отправка не завершилась, повторный вызов получает ErrSubmitInProgress
// при ошибке корзина не меняется, а текст ошибки попадает в состояние страницы
func (v *View) Submit(ctx context.Context) error {
	const op = "cart.View.Submit"
	log := v.log.With(slog.String("op", op))

	v.mu.Lock()
	if len(v.items) == 0 {
		v.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}
	if !v.status.canTransition(StatusSubmitting) {
		v.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrSubmitInProgress)
	}
	v.status = StatusSubmitting
	v.errMsg = ""
	order := BuildOrder(v.items, v.now())
	v.mu.Unlock()

	log.Info("submitting order",
		slog.Int("line_items", len(order.LineItems)),
		slog.Float64("total", order.Total),
	)

	started := time.Now()
	err := v.submitter.Submit(ctx, order)
	elapsed := time.Since(started)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.status = StatusFailed
		v.errMsg = ErrorPrefix + err.Error()
		v.recorder.SubmissionFinished(false, elapsed)
		log.Error("failed to submit order", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	v.status = StatusSucceeded
	v.recorder.SubmissionFinished(true, elapsed)

	// память очищается только вслед за хранилищем, иначе следующий запуск отправит тот же заказ
	if err := v.storage.Clear(ctx); err != nil {
		log.Warn("failed to delete stored cart, overwriting it with an empty one", slog.String("error", err.Error()))
		if saveErr := v.storage.Save(ctx, model.Cart{}); saveErr != nil {
			log.Error("order submitted but stored cart was not cleared", slog.String("error", saveErr.Error()))
			return fmt.Errorf("%s: failed to clear stored cart: %w", op, errors.Join(err, saveErr))
		}
	}
	v.items = model.Cart{}

	log.Info("order submitted, cart cleared")
	return nil
}
