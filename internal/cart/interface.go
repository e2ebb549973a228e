package cart

import (
	"context"
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

// Storage определяет контракт для хранилища корзины на устройстве
// Load для отсутствующей корзины возвращает пустую корзину без ошибки
type Storage interface {
	Load(ctx context.Context) (model.Cart, error)
	Save(ctx context.Context, items model.Cart) error
	Clear(ctx context.Context) error
}

// Submitter отправляет готовый заказ на бэкенд
type Submitter interface {
	Submit(ctx context.Context, order model.Order) error
}

// Recorder получает события корзины для метрик
type Recorder interface {
	ItemRemoved()
	SubmissionFinished(succeeded bool, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ItemRemoved() {}
func (nopRecorder) SubmissionFinished(bool, time.Duration) {}
