// этот код не зависит от приложения,
// и нужен только для проверки приёма заказов из кафки: отправляет один заказ из корзины в топик
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/cart"
	"github.com/asquebay/pizzaria-carrinho/internal/model"
	"github.com/asquebay/pizzaria-carrinho/internal/transport/kafka"
)

func main() {
	// конфигурация из config.yaml
	brokers := []string{"localhost:9092"}
	topic := "pedidos"

	// корзина из двух пицц, как её собирает страница
	items := model.Cart{
		{
			Size:    "G",
			Flavors: []model.Flavor{{ID: 1, Name: "Calabresa"}, {ID: 2, Name: "Mussarela"}},
			Price:   model.NewPrice(45.9),
		},
		{
			Size:    "M",
			Flavors: []model.Flavor{{ID: 3, Name: "Portuguesa"}},
			Price:   model.NewPrice(38),
		},
	}
	order := cart.BuildOrder(items, time.Now())

	producer := kafka.NewProducer(brokers, topic, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	defer producer.Close()

	log.Println("Sending order to Kafka...")
	if err := producer.Submit(context.Background(), order); err != nil {
		log.Fatalf("Failed to write message: %v", err)
	}
	fmt.Println("Order sent successfully!")
}
