package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/constants"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/contracts"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

// listingEventDTO - тело сообщения о событии жизненного цикла.
// Формат зафиксирован схемой events/listing-lifecycle/v1.json.
type listingEventDTO struct {
	EventType  string `json:"event_type"`
	ListingID  int64  `json:"listing_id"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

// Config - настройки публикации событий.
type Config struct {
	URL      string
	Exchange string
}

// ListingEventsPublisher реализует EventPublisherPort поверх RabbitMQ.
// Тип события служит ключом маршрутизации topic-обменника.
type ListingEventsPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewListingEventsPublisher(cfg Config) (*ListingEventsPublisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq adapter: url cannot be empty")
	}
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("rabbitmq adapter: exchange cannot be empty")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq adapter: failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq adapter: failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq adapter: failed to declare exchange '%s': %w", cfg.Exchange, err)
	}

	return &ListingEventsPublisher{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

func (p *ListingEventsPublisher) PublishListingEvent(ctx context.Context, event domain.ListingEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":  "ListingEventsPublisher",
		"event_type": event.Type,
		"listing_id": event.ListingID,
	})

	if p.channel == nil || p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("rabbitmq adapter: not connected or channel/connection is closed")
	}

	dto := listingEventDTO{
		EventType:  event.Type,
		ListingID:  event.ListingID,
		Slug:       event.Slug,
		Status:     event.Status,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}

	// Невалидное сообщение не должно попасть к потребителям
	if err := contracts.ValidateEvent(constants.ListingEventSchemaType, constants.ListingEventSchemaVersion, body); err != nil {
		adapterLogger.Error("Event failed schema validation", err, nil)
		return fmt.Errorf("rabbitmq adapter: event failed schema validation: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.channel.PublishWithContext(publishCtx, p.exchange, event.Type, false, false, msg); err != nil {
		adapterLogger.Error("Failed to publish listing event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event: %w", err)
	}

	adapterLogger.Debug("Listing event published", nil)
	return nil
}

func (p *ListingEventsPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
