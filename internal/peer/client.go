// Package peer содержит HTTP-клиент внутреннего API витрины.
// Каждый вызов ограничен таймаутом и выполняется ровно один раз;
// повторы не предусмотрены — best-effort-политика решается вызывающим.
package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopadmin/contract"
	"github.com/vladislavdragonenkov/shopadmin/internal/domain"
	"github.com/vladislavdragonenkov/shopadmin/internal/metrics"
)

const defaultTimeout = 3 * time.Second

// Config описывает подключение к витрине.
type Config struct {
	// BaseURL — базовый адрес витрины, например http://storefront:5000.
	BaseURL string
	// Timeout ограничивает каждый вызов; ноль означает значение по умолчанию.
	Timeout time.Duration
}

// Client реализует domain.PeerGateway поверх net/http.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.AdminMetrics
	logger  *log.Entry
}

// NewClient создаёт клиента витрины.
func NewClient(cfg Config, m *metrics.AdminMetrics, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "peer-client")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		metrics: m,
		logger:  logger,
	}
}

// CheckProductInCarts возвращает число активных корзин с товаром.
func (c *Client) CheckProductInCarts(ctx context.Context, productID string) (int, error) {
	var presence contract.CartPresence
	err := c.call(ctx, http.MethodGet, "/internal/check-product-in-carts/"+url.PathEscape(productID), nil, &presence)
	if err != nil {
		return 0, err
	}
	return presence.Count, nil
}

// DeleteProductReviews удаляет зеркальные отзывы на витрине.
func (c *Client) DeleteProductReviews(ctx context.Context, productID string) error {
	return c.call(ctx, http.MethodDelete, "/internal/reviews/product/"+url.PathEscape(productID), nil, nil)
}

// CleanupProduct вычищает избранное и историю просмотров товара.
func (c *Client) CleanupProduct(ctx context.Context, productID string) error {
	return c.call(ctx, http.MethodDelete, "/internal/cleanup-product/"+url.PathEscape(productID), nil, nil)
}

// CleanupUser вычищает корзину/избранное/историю покупателя.
func (c *Client) CleanupUser(ctx context.Context, userID string) error {
	return c.call(ctx, http.MethodDelete, "/internal/cleanup-user/"+url.PathEscape(userID), nil, nil)
}

// AddPoints начисляет баллы лояльности на витрине.
func (c *Client) AddPoints(ctx context.Context, credit contract.PointsCredit) error {
	return c.call(ctx, http.MethodPost, "/internal/add-points", credit, nil)
}

// SendNotification отправляет обобщённое уведомление покупателю.
func (c *Client) SendNotification(ctx context.Context, n contract.UserNotification) error {
	return c.call(ctx, http.MethodPost, "/internal/send-notification", n, nil)
}

// PushNotification доставляет уведомление в realtime-канал витрины.
func (c *Client) PushNotification(ctx context.Context, envelope contract.PushEnvelope) error {
	return c.call(ctx, http.MethodPost, "/internal/notifications/send", envelope, nil)
}

// Ping проверяет сетевую достижимость витрины для health-проверок.
// Любой HTTP-ответ считается успехом: важна доступность, не семантика.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// call выполняет один HTTP-вызов и декодирует JSON-ответ в out, если он нужен.
func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	endpoint := endpointLabel(method, path)
	start := time.Now()

	err := c.doCall(ctx, method, path, payload, out)
	c.metrics.RecordPeerCall(endpoint, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("peer %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doCall(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Тело читаем только ради диагностики в логе.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.logger.WithFields(log.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("peer call returned non-2xx")
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// endpointLabel обрезает переменную часть пути для метрик.
func endpointLabel(method, path string) string {
	trimmed := path
	if idx := strings.LastIndexByte(path, '/'); idx > len("/internal") {
		prefix := path[:idx]
		if strings.Count(prefix, "/") >= 2 {
			trimmed = prefix
		}
	}
	return method + " " + trimmed
}

var _ domain.PeerGateway = (*Client)(nil)
