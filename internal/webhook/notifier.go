package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
	"github.com/Very1Fake/sdp.wildberries/internal/telemetry"
)

// ErrDelivery — сервис уведомлений не подтвердил доставку.
var ErrDelivery = errors.New("webhook delivery failed")

// Site — имя целевого сайта в уведомлениях.
const Site = "Wildberries"

const (
	defaultBaseURL  = "https://discord.com/api/webhooks"
	defaultUsername = "SDP"
	deliveryTimeout = 8 * time.Second
)

// Цвета embed-сообщений по исходам.
const (
	colorSucceeded   = 51283
	colorUnconfirmed = 2712319
	colorUserAction  = 16771584
	colorFailed      = 16717636
)

// Notifier отправляет embed-уведомления на webhook.
type Notifier struct {
	http    *http.Client
	baseURL string

	username string
	footer   string
}

// Config — конфигурация Notifier.
type Config struct {
	// BaseURL — базовый адрес сервиса webhook'ов (для тестов).
	BaseURL string

	// Username — имя отправителя в сообщении.
	Username string

	// Footer — подпись сообщения (обычно имя и версия приложения).
	Footer string
}

// NewNotifier создаёт Notifier. Клиент без прокси и без cookie jar:
// уведомления не должны ходить через сетевую идентичность задачи.
func NewNotifier(cfg Config) *Notifier {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	username := cfg.Username
	if username == "" {
		username = defaultUsername
	}

	return &Notifier{
		http:     &http.Client{Timeout: deliveryTimeout},
		baseURL:  baseURL,
		username: username,
		footer:   cfg.Footer,
	}
}

// embed-модель Discord-сообщения.
type message struct {
	Username string  `json:"username"`
	Embeds   []embed `json:"embeds"`
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []field `json:"fields"`
	Footer      *footer `json:"footer,omitempty"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type footer struct {
	Text string `json:"text"`
}

// SendOutcome отправляет уведомление об исходе покупки.
//
// content — ссылка на заказ/подтверждение либо описание отказа,
// в зависимости от исхода.
func (n *Notifier) SendOutcome(ctx context.Context, task *domain.Task, outcome domain.Outcome, content string, cart domain.Basket, startedAt time.Time) error {
	var msg embed

	common := []field{
		{Name: "Task ID", Value: fmt.Sprintf("#%d", task.ID), Inline: true},
		// Спойлер прячет номер аккаунта в общих каналах
		{Name: "Account", Value: fmt.Sprintf("||%s||", task.Account.Phone), Inline: true},
		{Name: "Site", Value: Site, Inline: true},
		{Name: "Product", Value: task.Card.Name},
		{Name: "Variant (Color)", Value: orDash(task.Variant.Name), Inline: true},
		{Name: "Size", Value: task.SizeLabel(), Inline: true},
	}

	timing := []field{
		{Name: "Elapsed", Value: fmt.Sprintf("%.3f sec", time.Since(startedAt).Seconds()), Inline: true},
		{Name: "Start Time", Value: startedAt.Local().Format("15:04:05 02/01/2006"), Inline: true},
	}

	switch outcome.Kind {
	case domain.OutcomeSucceeded:
		msg.Title = "Successful Payment"
		msg.Color = colorSucceeded
		if !outcome.Confirmed {
			msg.Title = "Successful Payment (Unconfirmed)"
			msg.Color = colorUnconfirmed
		}
		msg.Description = "Click the link below to see details of your order."
		msg.Fields = append([]field{
			{Name: "Order details", Value: fmt.Sprintf("[Click](https://%s%s)", "www.wildberries.ru", content)},
		}, common...)
		msg.Fields = append(msg.Fields,
			field{Name: "Total", Value: fmt.Sprintf("%d RUB", cart.TotalPrice), Inline: true},
			field{Name: "Estimated delivery", Value: orDash(cart.DeliveryIntervalText), Inline: true},
		)

	case domain.OutcomeUserAction:
		msg.Title = "Bank Payment Confirmation (3D-Secure)"
		msg.Color = colorUserAction
		msg.Description = "User action required. Click the link below to complete your order payment."
		msg.Fields = append([]field{
			{Name: "Payment confirmation", Value: fmt.Sprintf("[Click](%s)", content)},
		}, common...)
		msg.Fields = append(msg.Fields,
			field{Name: "Amount of payment", Value: fmt.Sprintf("%d RUB", cart.TotalPrice), Inline: true},
			field{Name: "Estimated delivery", Value: orDash(cart.DeliveryIntervalText), Inline: true},
		)

	case domain.OutcomeFailed:
		msg.Title = "Payment Failed"
		msg.Color = colorFailed
		msg.Fields = append([]field{
			{Name: "Description", Value: content},
		}, common...)
		msg.Fields = append(msg.Fields,
			field{Name: "Total", Value: fmt.Sprintf("%d RUB", cart.TotalPrice), Inline: true},
		)
	}

	msg.Fields = append(msg.Fields, timing...)

	return n.send(ctx, task.Webhook, msg)
}

// SendOrderDetected отправляет второе уведомление мониторинга:
// заказ появился в списке заказов аккаунта и обрабатывается.
func (n *Notifier) SendOrderDetected(ctx context.Context, task *domain.Task, orderID string, startedAt time.Time) error {
	msg := embed{
		Title:       "Order Processed",
		Description: "The order has been detected in the account order list.",
		Color:       colorSucceeded,
		Fields: []field{
			{Name: "Order ID", Value: orderID},
			{Name: "Task ID", Value: fmt.Sprintf("#%d", task.ID), Inline: true},
			{Name: "Account", Value: fmt.Sprintf("||%s||", task.Account.Phone), Inline: true},
			{Name: "Site", Value: Site, Inline: true},
			{Name: "Product", Value: task.Card.Name},
			{Name: "Elapsed", Value: fmt.Sprintf("%.3f sec", time.Since(startedAt).Seconds()), Inline: true},
		},
	}

	return n.send(ctx, task.Webhook, msg)
}

// send выполняет POST и судит о доставке только по статусу 204.
func (n *Notifier) send(ctx context.Context, wh domain.Webhook, e embed) error {
	if n.footer != "" {
		e.Footer = &footer{Text: n.footer}
	}

	body, err := json.Marshal(message{
		Username: n.username,
		Embeds:   []embed{e},
	})
	if err != nil {
		return fmt.Errorf("marshal webhook message: %w", err)
	}

	url := fmt.Sprintf("%s/%d/%s", n.baseURL, wh.ID, wh.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		telemetry.WebhookDeliveries.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		telemetry.WebhookDeliveries.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: status %d", ErrDelivery, resp.StatusCode)
	}

	telemetry.WebhookDeliveries.WithLabelValues("ok").Inc()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
