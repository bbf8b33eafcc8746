package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shopcart/backend/internal/domain"
	pkgkafka "github.com/shopcart/backend/pkg/kafka"
	"github.com/shopcart/backend/pkg/logger"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartCreated        = "shopcart.cart.created"
	TopicCartUpdated        = "shopcart.cart.updated"
	TopicOrderCreated       = "shopcart.order.created"
	TopicOrderStatusChanged = "shopcart.order.status_changed"
)

// Source identifier for events originating from this service.
const Source = "shopcart-backend"

// CartCreatedData is the payload for a cart.created event.
type CartCreatedData struct {
	CartID     uuid.UUID `json:"cart_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// CartUpdatedData is the payload for a cart.updated event, carrying the
// post-mutation aggregates.
type CartUpdatedData struct {
	CartID     uuid.UUID `json:"cart_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	TotalItems int       `json:"total_items"`
	TotalPrice int64     `json:"total_price"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CartID       uuid.UUID `json:"cart_id"`
	Subtotal     int64     `json:"subtotal"`
	Tax          int64     `json:"tax"`
	ShippingCost int64     `json:"shipping_cost"`
	TotalAmount  int64     `json:"total_amount"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new domain event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func (p *Producer) publish(ctx context.Context, topic, eventType, key string, payload any) error {
	evt, err := pkgkafka.NewEvent(eventType, Source, logger.CorrelationIDFromContext(ctx), payload)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if err := p.kafka.Publish(ctx, topic, key, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// PublishCartCreated publishes a cart.created event keyed by cart ID.
func (p *Producer) PublishCartCreated(ctx context.Context, cart *domain.Cart) error {
	return p.publish(ctx, TopicCartCreated, "cart.created", cart.ID.String(), CartCreatedData{
		CartID:     cart.ID,
		CustomerID: cart.CustomerID,
	})
}

// PublishCartUpdated publishes a cart.updated event keyed by cart ID.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	return p.publish(ctx, TopicCartUpdated, "cart.updated", cart.ID.String(), CartUpdatedData{
		CartID:     cart.ID,
		CustomerID: cart.CustomerID,
		TotalItems: cart.TotalItems,
		TotalPrice: cart.TotalPrice,
	})
}

// PublishOrderCreated publishes an order.created event keyed by order ID.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TopicOrderCreated, "order.created", order.ID.String(), OrderCreatedData{
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		CartID:       order.CartID,
		Subtotal:     order.Subtotal,
		Tax:          order.Tax,
		ShippingCost: order.ShippingCost,
		TotalAmount:  order.TotalAmount,
	})
}

// PublishOrderStatusChanged publishes an order.status_changed event keyed by order ID.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, oldStatus string) error {
	return p.publish(ctx, TopicOrderStatusChanged, "order.status_changed", order.ID.String(), OrderStatusChangedData{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		OldStatus:  oldStatus,
		NewStatus:  order.Status,
	})
}
