package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Very1Fake/sdp.wildberries/internal/domain"
)

// Routing keys событий задач.
const (
	RoutingTaskProgress = "task.progress"
	RoutingTaskFinished = "task.finished"
)

// Message — конверт публикуемого события.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — routing key события.
	Type string `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// Mirror ретранслирует события прогресса задач в брокер.
type Mirror struct {
	conn   *Connection
	logger *slog.Logger
}

// NewMirror создаёт Mirror поверх установленного соединения.
func NewMirror(conn *Connection, logger *slog.Logger) *Mirror {
	return &Mirror{conn: conn, logger: logger}
}

// Run потребляет поток событий до закрытия канала или отмены
// контекста. Ошибки публикации логируются и не прерывают поток:
// брокер — вспомогательный потребитель, не часть пути выполнения.
func (m *Mirror) Run(ctx context.Context, events <-chan domain.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := m.publish(ctx, event); err != nil {
				m.logger.Warn("event publish failed", "task_id", event.TaskID, "error", err)
			}
		}
	}
}

// publish отправляет одно событие в topic exchange.
func (m *Mirror) publish(ctx context.Context, event domain.Event) error {
	routingKey := RoutingTaskProgress
	if event.Progress.IsTerminal() {
		routingKey = RoutingTaskFinished
	}

	msg := Message{
		ID:        uuid.New().String(),
		Type:      routingKey,
		Payload:   event,
		Timestamp: time.Now(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch := m.conn.Channel()
	if ch == nil {
		return fmt.Errorf("no channel available")
	}

	err = ch.PublishWithContext(ctx, ExchangeEvents, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", ExchangeEvents, routingKey, err)
	}

	m.logger.Debug("event published",
		"routing_key", routingKey,
		"task_id", event.TaskID,
		"state", event.Progress.State,
	)
	return nil
}
