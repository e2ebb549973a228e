package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/asquebay/pizzaria-carrinho/internal/model"

	"github.com/segmentio/kafka-go"
)

// исходы обработки сообщения для метрик
const (
	OutcomeStored  = "stored"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// OrderCreator — это интерфейс, который абстрагирует консьюмер
// от конкретной реализации сервисного слоя
type OrderCreator interface {
	CreateOrder(ctx context.Context, order model.Order) (model.Order, error)
}

// ConsumerMetrics считает обработанные сообщения
type ConsumerMetrics interface {
	MessageConsumed(outcome string)
}

// messageReader — та часть kafka.Reader, которой пользуется консьюмер
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer читает заказы из топика и сохраняет их через сервисный слой
type Consumer struct {
	reader  messageReader
	service OrderCreator
	metrics ConsumerMetrics
	log     *slog.Logger
}

// NewConsumer создает новый экземпляр консьюмера
func NewConsumer(brokers []string, topic, groupID string, service OrderCreator, metrics ConsumerMetrics, log *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})

	return newConsumer(reader, service, metrics, log)
}

func newConsumer(reader messageReader, service OrderCreator, metrics ConsumerMetrics, log *slog.Logger) *Consumer {
	return &Consumer{
		reader:  reader,
		service: service,
		metrics: metrics,
		log:     log,
	}
}

// Run запускает цикл чтения сообщений из Kafka
// эта функция блокирующая, поэтому она запускается в отдельной горутине
func (c *Consumer) Run(ctx context.Context) {
	log := c.log.With(slog.String("component", "kafka_consumer"))
	log.Info("Kafka consumer started")

	for {
		// FetchMessage блокирует до тех пор, пока не придет новое сообщение или не возникнет ошибка
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// если контекст был отменен во время ожидания, это нормальное завершение
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("Context cancelled, stopping consumer.")
				return
			}
			// если ридер был закрыт, тоже выходим
			if errors.Is(err, io.EOF) {
				log.Info("Kafka reader closed")
				return
			}
			log.Error("failed to fetch message", slog.String("error", err.Error()))
			continue // пробуем снова
		}

		log.Info("received message", slog.String("topic", msg.Topic), slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset))

		outcome := c.handleMessage(ctx, msg)
		c.observe(outcome)

		if outcome == OutcomeFailed {
			// сообщение НЕ подтверждаем — пусть Kafka отдаст его снова
			continue
		}

		// подтверждаем только после обработки: сохранённые и заведомо битые сообщения
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("failed to commit message", slog.String("error", err.Error()))
		}
	}
}

// handleMessage парсит и сохраняет один заказ, возвращает исход обработки
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) string {
	var order model.Order

	if err := json.Unmarshal(msg.Value, &order); err != nil {
		// перечитывать невалидный JSON бессмысленно
		c.log.Warn("failed to unmarshal message, skipping", slog.String("error", err.Error()))
		return OutcomeSkipped
	}

	created, err := c.service.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, model.ErrInvalidOrder) {
			c.log.Warn("order validation failed, skipping", slog.String("error", err.Error()))
			return OutcomeSkipped
		}
		c.log.Error("failed to create order in service", slog.String("error", err.Error()))
		return OutcomeFailed
	}

	c.log.Info("order successfully processed", slog.Int64("order_id", created.ID))
	return OutcomeStored
}

func (c *Consumer) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.MessageConsumed(outcome)
	}
}

// Close — graceful shutdown консьюмера
func (c *Consumer) Close() error {
	c.log.Info("Closing kafka consumer")
	return c.reader.Close()
}
