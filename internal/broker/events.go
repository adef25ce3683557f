package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"kiosk-service/internal/models"
)

// EventPublisher streams kiosk events to Kafka, keyed by cart,
// transaction or product so related events stay on one partition.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// Emit publishes any kiosk event
func (ep *EventPublisher) Emit(ctx context.Context, event models.Event) error {
	return ep.producer.PublishEvent(ctx, event.Key(), event)
}

// DecodeEvent turns a published message value back into a typed event
func DecodeEvent(value []byte) (models.Event, error) {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(value, &baseEvent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	var event models.Event
	switch baseEvent.EventType {
	case models.EventTypeProductListing:
		event = &models.ProductListingEvent{}
	case models.EventTypeCartLineAdded, models.EventTypeCartLineUpdated, models.EventTypeCartLineRemoved:
		event = &models.CartLineEvent{}
	case models.EventTypeCartSnapshot:
		event = &models.CartSnapshotEvent{}
	case models.EventTypeTransactionCreated:
		event = &models.TransactionCreatedEvent{}
	case models.EventTypePaymentAccepted:
		event = &models.PaymentAcceptedEvent{}
	case models.EventTypeOperationRejected:
		event = &models.OperationRejectedEvent{}
	case models.EventTypeInventoryUpdated:
		event = &models.InventoryUpdatedEvent{}
	case models.EventTypeSaleCompleted:
		event = &models.SaleCompletedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type %q", baseEvent.EventType)
	}

	if err := json.Unmarshal(value, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", baseEvent.EventType, err)
	}
	return event, nil
}
