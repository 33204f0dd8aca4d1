package models

import "time"

// Event types
const (
	EventTypeTurnCompleted      = "TURN_COMPLETED"
	EventTypeSearchExecuted     = "SEARCH_EXECUTED"
	EventTypeWhitelistViolation = "WHITELIST_VIOLATION"
	EventTypeOfferMade          = "OFFER_MADE"
	EventTypeCheckoutInitiated  = "CHECKOUT_INITIATED"
	EventTypeHandoffRequested   = "HANDOFF_REQUESTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnCompletedEvent published after every handled chat turn
type TurnCompletedEvent struct {
	BaseEvent
	SessionID    string `json:"session_id"`
	Route        string `json:"route"`
	MessageCount int    `json:"message_count"`
	Intent       string `json:"intent"`
	Sentiment    string `json:"sentiment"`
	CardsShown   int    `json:"cards_shown"`
}

// SearchExecutedEvent published when the search engine runs
type SearchExecutedEvent struct {
	BaseEvent
	SessionID string         `json:"session_id"`
	Criteria  SearchCriteria `json:"criteria"`
	Results   []string       `json:"results"`
}

// WhitelistViolationEvent published when a model-selected SKU is
// rejected. The offending SKU never reaches the customer; it is only
// recorded here for observability.
type WhitelistViolationEvent struct {
	BaseEvent
	SessionID    string   `json:"session_id"`
	RejectedSKUs []string `json:"rejected_skus"`
	Whitelist    []string `json:"whitelist"`
}

// OfferMadeEvent published when governance appends a commercial offer
type OfferMadeEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	OfferType string `json:"offer_type"`
	SKU       string `json:"sku,omitempty"`
}

// CheckoutInitiatedEvent published when the closing fast path fires
type CheckoutInitiatedEvent struct {
	BaseEvent
	SessionID string   `json:"session_id"`
	SKUs      []string `json:"skus"`
}

// HandoffRequestedEvent published when a turn escalates to a human.
// The escalation worker consumes it and emails the transcript.
type HandoffRequestedEvent struct {
	BaseEvent
	SessionID     string   `json:"session_id"`
	CustomerEmail string   `json:"customer_email,omitempty"`
	Postcode      string   `json:"postcode,omitempty"`
	Transcript    []string `json:"transcript"`
	Reason        string   `json:"reason"`
}
