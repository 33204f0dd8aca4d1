package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"salesbot-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing chat domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// PublishTurnCompleted publishes a TurnCompleted event
func (ep *EventPublisher) PublishTurnCompleted(ctx context.Context, event *models.TurnCompletedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishSearchExecuted publishes a SearchExecuted event
func (ep *EventPublisher) PublishSearchExecuted(ctx context.Context, event *models.SearchExecutedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishWhitelistViolation publishes a WhitelistViolation event
func (ep *EventPublisher) PublishWhitelistViolation(ctx context.Context, event *models.WhitelistViolationEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishOfferMade publishes an OfferMade event
func (ep *EventPublisher) PublishOfferMade(ctx context.Context, event *models.OfferMadeEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishCheckoutInitiated publishes a CheckoutInitiated event
func (ep *EventPublisher) PublishCheckoutInitiated(ctx context.Context, event *models.CheckoutInitiatedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishHandoffRequested publishes a HandoffRequested event
func (ep *EventPublisher) PublishHandoffRequested(ctx context.Context, event *models.HandoffRequestedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// EventHandler routes consumed events to registered handlers
type EventHandler struct {
	onHandoffRequested func(context.Context, *models.HandoffRequestedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnHandoffRequested registers a handler for HandoffRequested events
func (eh *EventHandler) OnHandoffRequested(handler func(context.Context, *models.HandoffRequestedEvent) error) {
	eh.onHandoffRequested = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeHandoffRequested:
		if eh.onHandoffRequested != nil {
			var event models.HandoffRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal HandoffRequested event: %w", err)
			}
			return eh.onHandoffRequested(ctx, &event)
		}

	default:
		// analytics-only event types are consumed elsewhere
		log.Printf("Skipping event type: %s", baseEvent.EventType)
	}

	return nil
}
