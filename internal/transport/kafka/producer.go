package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/asquebay/pizzaria-carrinho/internal/model"

	"github.com/segmentio/kafka-go"
)

// messageWriter — та часть kafka.Writer, которой пользуется продюсер
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует заказы корзины в топик вместо HTTP-запроса
// реализует cart.Submitter
type Producer struct {
	writer messageWriter
	log    *slog.Logger
}

// NewProducer создает продюсер для топика заказов
func NewProducer(brokers []string, topic string, log *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: writer, log: log}
}

// Submit сериализует заказ и синхронно отправляет его в Kafka
func (p *Producer) Submit(ctx context.Context, order model.Order) error {
	value, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(order.CustomerID, 10)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order: %w", err)
	}

	p.log.Info("order published to kafka", slog.Int("line_items", len(order.LineItems)))
	return nil
}

// Close сбрасывает буферы и закрывает соединения
func (p *Producer) Close() error {
	return p.writer.Close()
}
