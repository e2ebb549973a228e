package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

// DefaultEndpoint — адрес бэкенда, принимающего заказы из корзины
const DefaultEndpoint = "http://localhost:8080/carrinho/adicionar"

// ответ бэкенда только логируется, больше мегабайта читать незачем
const maxResponseBody = 1 << 20

// StatusError — бэкенд ответил не 2xx
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.Code)
}

// Client отправляет заказы на бэкенд по HTTP
type Client struct {
	httpClient *http.Client
	endpoint   string
	log        *slog.Logger
}

// New создаёт клиента; timeout 0 означает отсутствие таймаута
func New(endpoint string, timeout time.Duration, log *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		log:        log,
	}
}

// Submit отправляет заказ POST-запросом с JSON-телом
// тело ответа не разбирается: важен только код
func (c *Client) Submit(ctx context.Context, order model.Order) error {
	const op = "client.order.Submit"
	log := c.log.With(slog.String("op", op), slog.String("endpoint", c.endpoint))

	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	log.Debug("sending order", slog.String("order", string(body)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// текст ошибки показывается пользователю, поэтому без имени операции
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		log.Warn("failed to read response body", slog.String("error", err.Error()))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("order rejected by backend",
			slog.Int("status", resp.StatusCode),
			slog.String("response", string(respBody)),
		)
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	log.Info("order accepted by backend",
		slog.Int("status", resp.StatusCode),
		slog.String("response", string(respBody)),
	)
	return nil
}
