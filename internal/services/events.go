package services

import (
	"encoding/json"
	"time"

	"shopkart/internal/models"
)

// Product lifecycle routing keys published on ProductEventsExchange.
const (
	ProductEventsExchange = "product"
	ProductCreatedEvent   = "product.created"
	ProductUpdatedEvent   = "product.updated"
	ProductDeletedEvent   = "product.deleted"
)

// EventPublisher delivers serialized events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductEvent is the message body of every product lifecycle event.
type ProductEvent struct {
	Event      string          `json:"event"`
	ProductID  int64           `json:"product_id"`
	Field      string          `json:"field,omitempty"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (e ProductEvent) marshal() ([]byte, error) {
	return json.Marshal(e)
}
