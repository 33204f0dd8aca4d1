package worker

import (
	"context"
	"log"

	"salesbot-service/internal/broker"
	"salesbot-service/internal/mailer"
	"salesbot-service/internal/models"
	"salesbot-service/internal/util"
)

// EscalationWorker consumes HandoffRequested events and emails the
// transcript to the sales team. Mail failures are logged and the event
// is still committed: an escalation email must never wedge the
// consumer or fail a chat turn retroactively.
type EscalationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewEscalationWorker creates a new escalation worker
func NewEscalationWorker(consumer *broker.Consumer, sender mailer.Sender) *EscalationWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnHandoffRequested(func(ctx context.Context, event *models.HandoffRequestedEvent) error {
		if err := sender.SendEscalation(ctx, event); err != nil {
			util.EscalationsFailedTotal.Inc()
			log.Printf("Failed to send escalation email for session %s: %v", event.SessionID, err)
			return nil
		}
		util.EscalationsSentTotal.Inc()
		return nil
	})

	return &EscalationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *EscalationWorker) Start(ctx context.Context) error {
	log.Println("Starting escalation worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *EscalationWorker) Stop() error {
	log.Println("Stopping escalation worker...")
	return w.consumer.Close()
}
